// Package metrics collects Prometheus metrics for sharesaver runs.
//
// A short-lived CLI has nobody scraping it, so metrics live in a private
// registry and are written to a node_exporter textfile after each command.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcome labels.
const (
	TaskSucceeded = "succeeded"
	TaskFailed    = "failed"
	TaskTimedOut  = "timed_out"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests      *prometheus.CounterVec
	apiDuration      *prometheus.HistogramVec
	runs             *prometheus.CounterVec
	attempts         prometheus.Counter
	tasks            *prometheus.CounterVec
	filesTransferred prometheus.Counter
	folderListings   *prometheus.CounterVec
	tasksDeleted     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharesaver_api_requests_total",
				Help: "Total number of requests sent to the management server",
			},
			[]string{"code", "method"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sharesaver_api_request_duration_seconds",
				Help:    "Management server request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharesaver_runs_total",
				Help: "Total number of transfer workflow runs by result",
			},
			[]string{"result"},
		),
		attempts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sharesaver_run_attempts_total",
				Help: "Total number of workflow attempts including retries",
			},
		),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharesaver_tasks_total",
				Help: "Total number of transfer tasks by final state",
			},
			[]string{"state"},
		),
		filesTransferred: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sharesaver_files_transferred_total",
				Help: "Total number of transferred episodes reported by the server",
			},
		),
		folderListings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharesaver_folder_listings_total",
				Help: "Total number of single-level folder listings",
			},
			[]string{"status"},
		),
		tasksDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharesaver_tasks_deleted_total",
				Help: "Total number of task deletions by status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.apiRequests,
		m.apiDuration,
		m.runs,
		m.attempts,
		m.tasks,
		m.filesTransferred,
		m.folderListings,
		m.tasksDeleted,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// InstrumentRoundTripper wraps next with request counting and timing.
// A nil Metrics returns next unchanged.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if m == nil {
		return next
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.apiRequests,
		promhttp.InstrumentRoundTripperDuration(m.apiDuration, next))
}

func (m *Metrics) RunFinished(success bool, attempts int) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.runs.WithLabelValues(result).Inc()
	m.attempts.Add(float64(attempts))
}

func (m *Metrics) TaskFinished(state string, episodes int) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(state).Inc()
	if episodes > 0 {
		m.filesTransferred.Add(float64(episodes))
	}
}

func (m *Metrics) FolderListed(ok bool) {
	if m == nil {
		return
	}
	m.folderListings.WithLabelValues(statusLabel(ok)).Inc()
}

func (m *Metrics) TaskDeleted(ok bool) {
	if m == nil {
		return
	}
	m.tasksDeleted.WithLabelValues(statusLabel(ok)).Inc()
}

// WriteTextfile dumps the registry in the text exposition format.
// Empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
