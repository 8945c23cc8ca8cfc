package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/juststeveking/netwatch/internal/config"
	probing "github.com/prometheus-community/pro-bing"
)

// Prober defines the interface for a single reachability check
type Prober interface {
	Probe(ctx context.Context, host config.Host) Result
}

// ICMPProber sends one ICMP echo request per probe
type ICMPProber struct {
	timeout    time.Duration
	privileged bool
}

// NewICMPProber creates a new ICMP prober. Unprivileged mode uses
// UDP "ping sockets"; Windows needs privileged mode.
func NewICMPProber(timeout time.Duration, privileged bool) *ICMPProber {
	return &ICMPProber{
		timeout:    timeout,
		privileged: privileged,
	}
}

// Probe performs an ICMP echo check
func (p *ICMPProber) Probe(ctx context.Context, host config.Host) Result {
	result := Result{
		Host:      host.Name,
		CheckedAt: time.Now(),
	}

	pinger, err := probing.NewPinger(host.Name)
	if err != nil {
		result.Err = &ProbeError{Host: host.Name, Err: fmt.Errorf("resolve: %w", err)}
		return result
	}
	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	start := time.Now()
	err = pinger.RunWithContext(ctx)
	result.ResponseTime = time.Since(start)

	if err != nil {
		result.Err = &ProbeError{Host: host.Name, Err: err}
		return result
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		result.Reachable = true
		result.ResponseTime = stats.AvgRtt
	}

	return result
}

// TCPProber treats a completed TCP handshake as reachable
type TCPProber struct {
	timeout time.Duration
}

// NewTCPProber creates a new TCP prober
func NewTCPProber(timeout time.Duration) *TCPProber {
	return &TCPProber{
		timeout: timeout,
	}
}

// Probe performs a TCP connection check
func (t *TCPProber) Probe(ctx context.Context, host config.Host) Result {
	result := Result{
		Host:      host.Name,
		CheckedAt: time.Now(),
	}

	port := host.Port
	if port == 0 {
		port = config.DefaultTCPPort
	}

	dialer := &net.Dialer{Timeout: t.timeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host.Name, strconv.Itoa(port)))
	result.ResponseTime = time.Since(start)

	if err != nil {
		result.Err = classify(host.Name, err)
		return result
	}

	conn.Close()
	result.Reachable = true

	return result
}

// HTTPProber treats any HTTP response as reachable, whatever its status
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a new HTTP prober
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // Don't follow redirects
			},
		},
	}
}

// Close closes the HTTP client's connection pool
func (h *HTTPProber) Close() {
	if h.client != nil {
		h.client.CloseIdleConnections()
	}
}

// Probe performs a HEAD request against the host URL
func (h *HTTPProber) Probe(ctx context.Context, host config.Host) Result {
	result := Result{
		Host:      host.Name,
		CheckedAt: time.Now(),
	}

	url := host.URL
	if url == "" {
		url = "https://" + host.Name + "/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		result.Err = &ProbeError{Host: host.Name, Err: fmt.Errorf("failed to create request: %w", err)}
		return result
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	result.ResponseTime = time.Since(start)

	if err != nil {
		result.Err = classify(host.Name, err)
		return result
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	result.Reachable = true

	return result
}

// classify returns a ProbeError for failures of the probe mechanism and nil
// for plain unreachability (refused, timed out, reset).
func classify(host string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return &ProbeError{Host: host, Err: err}
	}
	return nil
}

// NewProbers builds one prober per supported probe type
func NewProbers(timeout time.Duration, privilegedICMP bool) map[string]Prober {
	return map[string]Prober{
		config.ProbeICMP: NewICMPProber(timeout, privilegedICMP),
		config.ProbeTCP:  NewTCPProber(timeout),
		config.ProbeHTTP: NewHTTPProber(timeout),
	}
}
