// Package metrics provides Prometheus metrics for the dashboard launcher.
//
// The launcher is a short-lived process, so metrics are not served over
// HTTP. They are written to a node_exporter textfile when requested.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "esapi_dashboard_launcher"

// Termination results.
const (
	ResultKilled        = "killed"
	ResultAlreadyExited = "already_exited"
	ResultError         = "error"
)

// Launch failure reasons.
const (
	ReasonMissingFile = "missing_file"
	ReasonStart       = "start"
)

// Collector owns a private registry with the launcher metrics.
// All methods are safe on a nil *Collector, which records nothing.
type Collector struct {
	registry *prometheus.Registry

	info            *prometheus.GaugeVec
	launches        *prometheus.CounterVec
	launchFailures  *prometheus.CounterVec
	terminations    *prometheus.CounterVec
	promptErrors    prometheus.Counter
	sessionDuration prometheus.Histogram
	lastLaunch      prometheus.Gauge
}

// NewCollector creates and registers the launcher metrics.
func NewCollector(version string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "info",
				Help:      "Information about the launcher (value always 1)",
			},
			[]string{"version"},
		),

		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "launches_total",
				Help:      "Dashboard processes started, by launch mode",
			},
			[]string{"mode"},
		),

		launchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "launch_failures_total",
				Help:      "Launch attempts that failed, by reason",
			},
			[]string{"reason"},
		),

		terminations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "terminations_total",
				Help:      "Blocking sessions ended, by termination result",
			},
			[]string{"result"},
		),

		promptErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompt_errors_total",
				Help:      "Blocking sessions whose acknowledgment prompt could not be shown or was aborted",
			},
		),

		sessionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_duration_seconds",
				Help:      "Time from dashboard start to termination in blocking mode",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
		),

		lastLaunch: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_launch_timestamp_seconds",
				Help:      "Unix time of the last successful launch",
			},
		),
	}

	c.registry.MustRegister(
		c.info,
		c.launches,
		c.launchFailures,
		c.terminations,
		c.promptErrors,
		c.sessionDuration,
		c.lastLaunch,
	)

	c.info.WithLabelValues(version).Set(1)
	return c
}

// RecordLaunch counts a started dashboard.
func (c *Collector) RecordLaunch(mode string) {
	if c == nil {
		return
	}
	c.launches.WithLabelValues(mode).Inc()
	c.lastLaunch.SetToCurrentTime()
}

// RecordLaunchFailure counts a failed launch.
func (c *Collector) RecordLaunchFailure(reason string) {
	if c == nil {
		return
	}
	c.launchFailures.WithLabelValues(reason).Inc()
}

// RecordPromptError counts a started session whose prompt failed. The
// session is still counted as launched and terminated.
func (c *Collector) RecordPromptError() {
	if c == nil {
		return
	}
	c.promptErrors.Inc()
}

// RecordTermination counts the end of a blocking session and observes its length.
func (c *Collector) RecordTermination(result string, uptime time.Duration) {
	if c == nil {
		return
	}
	c.terminations.WithLabelValues(result).Inc()
	c.sessionDuration.Observe(uptime.Seconds())
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Gather returns the current metric families.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	if c == nil {
		return nil, nil
	}
	return c.registry.Gather()
}
