package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// MetadataCacheHits counts metadata enrichments served from the cache.
	MetadataCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_metadata_cache_hits_total",
		Help: "Number of token metadata resolutions served from the cache.",
	})

	// MetadataCacheMisses counts metadata enrichments that required a fetch.
	MetadataCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_metadata_cache_misses_total",
		Help: "Number of token metadata resolutions not present in the cache.",
	})

	// TokenLookupFailures counts lookup-service calls that yielded no usable
	// metadata, labelled by failure reason.
	TokenLookupFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_token_lookup_failures_total",
		Help: "Number of failed token metadata lookups by reason.",
	}, []string{"reason"})

	// PortfolioRequests counts portfolio builds by outcome.
	PortfolioRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_requests_total",
		Help: "Number of portfolio build requests by outcome.",
	}, []string{"status"})

	// PortfolioBuildDuration observes end-to-end portfolio build latency.
	PortfolioBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_build_duration_seconds",
		Help:    "End-to-end duration of portfolio builds.",
		Buckets: prometheus.DefBuckets,
	})
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		MetadataCacheHits,
		MetadataCacheMisses,
		TokenLookupFailures,
		PortfolioRequests,
		PortfolioBuildDuration,
	)
}
