// Package metrics provides Prometheus metrics for the streamd daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counters

	// CommandsBuiltTotal counts protocol requests built, by method.
	CommandsBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamd_commands_built_total",
		Help: "Total number of protocol requests built, by method.",
	}, []string{"method"})

	// ResponsesTotal counts protocol responses observed, by method and outcome.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamd_responses_total",
		Help: "Total number of protocol responses, by method and outcome (success/fail).",
	}, []string{"method", "outcome"})

	// CleanupRunsTotal counts stream cleanup executions, by stream type.
	CleanupRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamd_cleanup_runs_total",
		Help: "Total number of stream teardown cleanup executions, by stream type.",
	}, []string{"type"})

	// CleanupRemovedTotal counts http root directories removed during cleanup.
	CleanupRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamd_cleanup_removed_total",
		Help: "Total number of http root directories removed during stream teardown.",
	})

	// Gauges

	// ActiveStreams tracks the number of streams currently registered.
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamd_active_streams",
		Help: "Current number of registered stream instances.",
	})
)

// RecordCommandBuilt increments the built-commands counter.
func RecordCommandBuilt(method string) {
	CommandsBuiltTotal.WithLabelValues(method).Inc()
}

// RecordResponse increments the response counter for one outcome.
func RecordResponse(method string, failed bool) {
	outcome := "success"
	if failed {
		outcome = "fail"
	}
	ResponsesTotal.WithLabelValues(method, outcome).Inc()
}

// RecordCleanupRun increments the cleanup-run counter for one stream type.
func RecordCleanupRun(streamType string) {
	CleanupRunsTotal.WithLabelValues(streamType).Inc()
}

// RecordCleanupRemoved increments the removed-directories counter.
func RecordCleanupRemoved() {
	CleanupRemovedTotal.Inc()
}

// SetActiveStreams records the current registry size.
func SetActiveStreams(n int) {
	ActiveStreams.Set(float64(n))
}
