package metrics

import "github.com/prometheus/client_golang/prometheus"

// Archive Prometheus metrics.
var (
	ManifestLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "manifest_loads_total",
			Help:      "Total number of manifest load attempts",
		},
		[]string{"provider", "status"},
	)

	ManifestDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scribe",
			Name:      "manifest_documents",
			Help:      "Documents in the current manifest snapshot",
		},
	)

	TextFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "text_fetches_total",
			Help:      "Total number of per-document text fetches",
		},
		[]string{"status"},
	)

	TextCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "text_cache_total",
			Help:      "Text cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)
)

// RegisterArchiveMetrics registers archive metrics with the default
// registry. Called once from the composition root (no init()).
func RegisterArchiveMetrics() {
	prometheus.MustRegister(
		ManifestLoadsTotal,
		ManifestDocuments,
		TextFetchesTotal,
		TextCacheTotal,
	)
}
