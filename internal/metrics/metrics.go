package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_events_ingested_total",
		Help: "Total number of events appended to the store.",
	})

	StoreSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_store_save_failures_total",
		Help: "Total number of failed store file rewrites (best-effort persistence).",
	})

	StoreLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_store_load_failures_total",
		Help: "Total number of startup loads that fell back to an empty store.",
	})

	DriftComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_drift_computed_total",
		Help: "Total number of drift scores computed, labelled by risk band.",
	}, []string{"risk"})

	FingerprintsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_fingerprints_computed_total",
		Help: "Total number of fingerprint profiles computed.",
	})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "driftwatch_http_request_duration_ms",
		Help:    "End-to-end HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
