// Package metrics registers the Prometheus collectors for the text
// pipeline. Collectors are registered once via promauto and shared by the
// classification and store packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal counts classification outcomes by winning
	// category and by whether the fallback path was taken.
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advice_classifications_total",
		Help: "Number of classification requests by winning category.",
	}, []string{"category", "fallback"})

	// ExtractorFailures counts signal extractors that degraded to an
	// empty result because their backing model was unavailable.
	ExtractorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advice_extractor_failures_total",
		Help: "Signal extractor invocations that returned empty due to model failure.",
	}, []string{"method"})

	// ClassificationDuration observes end-to-end classify latency.
	ClassificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advice_classification_duration_seconds",
		Help:    "End-to-end ensemble classification latency.",
		Buckets: prometheus.DefBuckets,
	})

	// NormalizationsTotal counts cleaning runs by validity of the result.
	NormalizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advice_normalizations_total",
		Help: "Number of text normalization runs.",
	}, []string{"valid"})

	// StoreOperations counts persistent store calls by operation and
	// outcome.
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advice_store_operations_total",
		Help: "Persistent store operations by type and result.",
	}, []string{"operation", "result"})
)
