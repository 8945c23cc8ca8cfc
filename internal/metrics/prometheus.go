package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/juststeveking/netwatch/internal/monitor"
	"github.com/juststeveking/netwatch/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "netwatch"

// Collector exposes connectivity readings through a dedicated Prometheus registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry      *prometheus.Registry
	up            prometheus.Gauge
	stateSince    prometheus.Gauge
	transitions   *prometheus.CounterVec
	probes        *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
}

// NewCollector builds and registers all metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "internet_up",
			Help:      "1 when at least one host answered in the last cycle, 0 otherwise.",
		}),
		stateSince: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_since_seconds",
			Help:      "Unix time the current connectivity state was entered.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Connectivity transitions by direction.",
		}, []string{"direction"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Probes by host and outcome.",
		}, []string{"host", "outcome"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Probe round trip time by host.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"host"}),
	}

	c.registry.MustRegister(c.up, c.stateSince, c.transitions, c.probes, c.probeDuration)
	return c
}

// ObserveProbe records one probe result
func (c *Collector) ObserveProbe(r monitor.Result) {
	if c == nil {
		return
	}
	c.probes.WithLabelValues(r.Host, string(r.Outcome())).Inc()
	if r.Reachable {
		c.probeDuration.WithLabelValues(r.Host).Observe(r.ResponseTime.Seconds())
	}
}

// ObserveEvent records a tracker event
func (c *Collector) ObserveEvent(e tracker.Event) {
	if c == nil {
		return
	}

	if e.State == tracker.StateUp {
		c.up.Set(1)
	} else {
		c.up.Set(0)
	}
	c.stateSince.Set(float64(e.At.Unix()))

	switch e.Kind {
	case tracker.EventWentDown:
		c.transitions.WithLabelValues("down").Inc()
	case tracker.EventCameUp:
		c.transitions.WithLabelValues("up").Inc()
	}
}

// Handler exposes the Prometheus registry via an http.Handler.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
