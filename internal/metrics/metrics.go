// Package metrics exposes Prometheus instrumentation for the site server
// and the record store.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partsdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	// Record store
	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_deletions_total",
			Help: "Total number of delete requests by outcome",
		},
		[]string{"outcome"},
	)

	StoreWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partsdesk_store_writes_total",
			Help: "Total number of record store rewrites",
		},
		[]string{"operation", "result"},
	)

	MergedRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "partsdesk_merged_records_total",
			Help: "Total number of records appended by merges",
		},
	)
)

// Deletion outcomes.
const (
	OutcomeDeleted    = "deleted"
	OutcomeBadRequest = "bad_request"
	OutcomeNotFound   = "not_found"
	OutcomeNoStore    = "store_not_found"
	OutcomeStoreError = "store_error"
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDeletion records the outcome of a delete request.
func RecordDeletion(outcome string) {
	DeletionsTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreWrite records a store rewrite attempt by operation (merge, delete).
func RecordStoreWrite(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreWritesTotal.WithLabelValues(operation, result).Inc()
}

// RecordMerge records how many records a merge appended.
func RecordMerge(added int) {
	if added > 0 {
		MergedRecordsTotal.Add(float64(added))
	}
}
