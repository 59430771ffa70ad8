// Package metrics exposes Prometheus counters for the dashboard backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services report to. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordLoad(success bool, duration time.Duration, count int)
	RecordPatch(field string)
	RecordRollback(field string)
	RecordSave(outcome string)
	RecordUpstreamStatus(statusCode int)
	RecordDocumentCall(kind, operation string, success bool)
}

// Save outcomes.
const (
	SaveSucceeded = "succeeded"
	SaveFailed    = "failed"
	SaveNoChanges = "no_changes"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	records        prometheus.Gauge
	patches        *prometheus.CounterVec
	rollbacks      *prometheus.CounterVec
	saves          *prometheus.CounterVec
	upstreamStatus *prometheus.CounterVec
	documentCalls  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_record_loads_total",
			Help: "Number of full collection loads, by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loan_dashboard_record_load_duration_seconds",
			Help:    "Latency of full collection loads.",
			Buckets: prometheus.DefBuckets,
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loan_dashboard_records",
			Help: "Number of opportunities held in memory after the last successful load.",
		}),
		patches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_field_patches_total",
			Help: "Optimistic field patches issued, by field.",
		}, []string{"field"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_field_rollbacks_total",
			Help: "Optimistic field patches rolled back after a failed write, by field.",
		}, []string{"field"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_edit_saves_total",
			Help: "Edit session saves, by outcome.",
		}, []string{"outcome"}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_upstream_responses_total",
			Help: "Upstream API responses by HTTP status code.",
		}, []string{"status_code"}),
		documentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_dashboard_document_calls_total",
			Help: "Term sheet and pre-approval operations, by kind, operation and result.",
		}, []string{"kind", "operation", "result"}),
	}

	reg.MustRegister(
		c.loads,
		c.loadDuration,
		c.records,
		c.patches,
		c.rollbacks,
		c.saves,
		c.upstreamStatus,
		c.documentCalls,
	)
	return c
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (c *Collector) RecordLoad(success bool, duration time.Duration, count int) {
	c.loads.WithLabelValues(result(success)).Inc()
	c.loadDuration.Observe(duration.Seconds())
	if success {
		c.records.Set(float64(count))
	}
}

func (c *Collector) RecordPatch(field string) {
	c.patches.WithLabelValues(field).Inc()
}

func (c *Collector) RecordRollback(field string) {
	c.rollbacks.WithLabelValues(field).Inc()
}

func (c *Collector) RecordSave(outcome string) {
	c.saves.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordUpstreamStatus(statusCode int) {
	c.upstreamStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordDocumentCall(kind, operation string, success bool) {
	c.documentCalls.WithLabelValues(kind, operation, result(success)).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards everything. Used by tests and when metrics are disabled.
type Noop struct{}

func (Noop) RecordLoad(bool, time.Duration, int) {}
func (Noop) RecordPatch(string) {}
func (Noop) RecordRollback(string) {}
func (Noop) RecordSave(string) {}
func (Noop) RecordUpstreamStatus(int) {}
func (Noop) RecordDocumentCall(string, string, bool) {}
