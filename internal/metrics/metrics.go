// Package metrics holds the Prometheus collectors for lixshare.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once guards registration; a registry panics on duplicate collectors.
	once sync.Once

	// DocumentsCreated counts successful creates by doc_type.
	DocumentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lixshare_documents_created_total",
			Help: "Documents stored, by doc_type.",
		},
		[]string{"doc_type"},
	)

	// DocumentReads counts read outcomes: found, not_found, expired, error.
	DocumentReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lixshare_document_reads_total",
			Help: "Document reads, by result.",
		},
		[]string{"result"},
	)

	// IDCollisions counts generated IDs that were already taken.
	IDCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lixshare_id_collisions_total",
			Help: "Generated document IDs that collided with an existing document.",
		},
	)

	// HTTPRequestsTotal is labelled by route pattern, not raw path, so
	// document IDs don't explode cardinality.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lixshare_http_requests_total",
			Help: "HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lixshare_http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lixshare_http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)
)

// Read results for DocumentReads.
const (
	ReadFound    = "found"
	ReadNotFound = "not_found"
	ReadExpired  = "expired"
	ReadError    = "error"
)

// Register adds every collector to reg. Only the first call has any effect.
func Register(reg prometheus.Registerer) error {
	var err error
	once.Do(func() {
		for _, c := range []prometheus.Collector{
			DocumentsCreated,
			DocumentReads,
			IDCollisions,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
		} {
			if err = reg.Register(c); err != nil {
				return
			}
		}
	})
	return err
}
