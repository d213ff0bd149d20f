// Package metrics exposes the service's Prometheus counters/gauges:
// import outcomes, query latency, and per-store record counts. None of
// these affect semantics; they exist purely for operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups every metric this service exports, constructed once
// at startup and handed to internal/httpapi, whose handlers record
// every value.
type Registry struct {
	ImportAccepted    *prometheus.CounterVec
	ImportRejected    *prometheus.CounterVec
	QueryDuration     *prometheus.HistogramVec
	StoreRecords      *prometheus.GaugeVec
	ResponseCacheHit  prometheus.Counter
	ResponseCacheMiss prometheus.Counter
}

// NewRegistry registers every metric against reg (pass
// prometheus.NewRegistry() in tests, prometheus.DefaultRegisterer in
// production).
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		ImportAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "explorer",
			Subsystem: "importer",
			Name:      "accepted_total",
			Help:      "Games successfully indexed, by pipeline.",
		}, []string{"pipeline"}),
		ImportRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "explorer",
			Subsystem: "importer",
			Name:      "rejected_total",
			Help:      "Games rejected during import, by pipeline and reason.",
		}, []string{"pipeline", "reason"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "explorer",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query latency, by database (master/lichess).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database"}),
		StoreRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "explorer",
			Subsystem: "store",
			Name:      "records",
			Help:      "Indexed position count, by store file.",
		}, []string{"store"}),
		ResponseCacheHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "explorer",
			Subsystem: "respcache",
			Name:      "hits_total",
			Help:      "Response cache hits.",
		}),
		ResponseCacheMiss: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "explorer",
			Subsystem: "respcache",
			Name:      "misses_total",
			Help:      "Response cache misses.",
		}),
	}
}
