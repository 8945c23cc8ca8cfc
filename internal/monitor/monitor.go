package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/juststeveking/netwatch/internal/config"
)

// Monitor probes every configured host and folds the results into one
// connectivity reading. The host list is fixed at construction.
type Monitor struct {
	hosts   []config.Host
	probers map[string]Prober
	log     *slog.Logger
	hook    func(Result)
}

// Option customises a Monitor
type Option func(*Monitor)

// WithLogger sets the diagnostics logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// WithResultHook registers a callback invoked once per probe result
func WithResultHook(fn func(Result)) Option {
	return func(m *Monitor) {
		m.hook = fn
	}
}

// NewMonitor creates a monitor for the hosts in cfg
func NewMonitor(cfg *config.Config, opts ...Option) (*Monitor, error) {
	timeout, err := cfg.ProbeTimeout()
	if err != nil {
		return nil, err
	}

	return New(cfg.Hosts, NewProbers(timeout, cfg.PrivilegedICMP), opts...)
}

// New creates a monitor from explicit probers keyed by probe type
func New(hosts []config.Host, probers map[string]Prober, opts ...Option) (*Monitor, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hosts to probe")
	}

	for _, h := range hosts {
		probeType := h.Type
		if probeType == "" {
			probeType = config.ProbeICMP
		}
		if _, ok := probers[probeType]; !ok {
			return nil, fmt.Errorf("unknown probe type: %s", probeType)
		}
	}

	m := &Monitor{
		hosts:   append([]config.Host(nil), hosts...),
		probers: probers,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// CheckIsUp reports whether at least one host is reachable.
// Probe errors count as unreachable, so a probe failure on every host
// is indistinguishable from a genuine outage.
func (m *Monitor) CheckIsUp(ctx context.Context) bool {
	up := false
	for _, r := range m.CheckAll(ctx) {
		up = up || r.Reachable
	}
	return up
}

// CheckAll probes all hosts concurrently and waits for every result.
// Results are returned in host order.
func (m *Monitor) CheckAll(ctx context.Context) []Result {
	results := make([]Result, len(m.hosts))

	var wg sync.WaitGroup
	for i, host := range m.hosts {
		wg.Add(1)
		go func(i int, h config.Host) {
			defer wg.Done()
			results[i] = m.probeHost(ctx, h)
		}(i, host)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			m.log.Debug("probe failed", "host", r.Host, "checked_at", r.CheckedAt, "error", r.Err)
		}
		if m.hook != nil {
			m.hook(r)
		}
	}

	return results
}

// probeHost runs a single probe, turning a panic into a ProbeError
func (m *Monitor) probeHost(ctx context.Context, host config.Host) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				Host:      host.Name,
				Err:       &ProbeError{Host: host.Name, Err: fmt.Errorf("panic: %v", rec)},
				CheckedAt: time.Now(),
			}
		}
	}()

	probeType := host.Type
	if probeType == "" {
		probeType = config.ProbeICMP
	}

	return m.probers[probeType].Probe(ctx, host)
}

// Close releases prober resources
func (m *Monitor) Close() {
	for _, prober := range m.probers {
		if httpProber, ok := prober.(*HTTPProber); ok {
			httpProber.Close()
		}
	}
}
