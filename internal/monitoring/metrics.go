// Package monitoring provides Prometheus metrics for the freeze daemon.
//
// Every recording method is safe on a nil *Metrics, so components run
// unchanged when metrics are disabled.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Freeze metrics
	FreezeTotal    *prometheus.CounterVec
	ResumeTotal    *prometheus.CounterVec
	RecoveredTotal *prometheus.CounterVec

	// Loop metrics
	PollTicks    prometheus.Counter
	TickDuration prometheus.Histogram

	// State gauges
	FrozenProcesses prometheus.Gauge
	GameActive      prometheus.Gauge
	Enabled         prometheus.Gauge

	// Control API metrics
	RequestsTotal *prometheus.CounterVec
}

// NewMetrics creates metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FreezeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartfreeze_freeze_total",
				Help: "Freeze attempts by result",
			},
			[]string{"result"},
		),
		ResumeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartfreeze_resume_total",
				Help: "Resume attempts by result",
			},
			[]string{"result"},
		),
		RecoveredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartfreeze_recovered_total",
				Help: "Crash recovery records by result (ok, error, stale)",
			},
			[]string{"result"},
		),
		PollTicks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "smartfreeze_poll_ticks_total",
				Help: "Poll loop ticks",
			},
		),
		TickDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartfreeze_tick_duration_seconds",
				Help:    "Poll tick duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		FrozenProcesses: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartfreeze_frozen_processes",
				Help: "Processes currently frozen by the daemon",
			},
		),
		GameActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartfreeze_game_active",
				Help: "1 while a game session is active",
			},
		),
		Enabled: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartfreeze_enabled",
				Help: "1 while the daemon is enabled",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartfreeze_http_requests_total",
				Help: "Control API requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Registry exposes the underlying registry (for tests and custom collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordFreeze counts one freeze attempt.
func (m *Metrics) RecordFreeze(err error) {
	if m == nil {
		return
	}
	m.FreezeTotal.WithLabelValues(result(err)).Inc()
}

// RecordResume counts one resume attempt.
func (m *Metrics) RecordResume(err error) {
	if m == nil {
		return
	}
	m.ResumeTotal.WithLabelValues(result(err)).Inc()
}

// RecordRecovered counts one crash recovery record outcome.
func (m *Metrics) RecordRecovered(outcome string) {
	if m == nil {
		return
	}
	m.RecoveredTotal.WithLabelValues(outcome).Inc()
}

// ObserveTick counts a poll tick and its duration.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.PollTicks.Inc()
	m.TickDuration.Observe(d.Seconds())
}

// SetState publishes the daemon state gauges.
func (m *Metrics) SetState(enabled, gameActive bool, frozen int) {
	if m == nil {
		return
	}
	m.Enabled.Set(boolGauge(enabled))
	m.GameActive.Set(boolGauge(gameActive))
	m.FrozenProcesses.Set(float64(frozen))
}

// Middleware creates a Gin middleware counting control API requests.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if metrics == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
