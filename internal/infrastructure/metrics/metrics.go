package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache names used as the "cache" label.
const (
	CacheQuote     = "quote"
	CacheHistory   = "history"
	CacheAggregate = "aggregate"
	CacheAll       = "all"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Remittance metrics
	RemittancesCreated prometheus.Counter
	RemittanceDuration prometheus.Histogram
	RemittanceAmount   prometheus.Histogram
	RemittanceErrors   *prometheus.CounterVec
	FeesCollected      *prometheus.CounterVec

	// Account metrics
	AccountsOpened prometheus.Counter

	// Quote metrics
	QuoteFetches   *prometheus.CounterVec
	QuoteFallbacks *prometheus.CounterVec

	// Cache metrics
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	CacheErrors        *prometheus.CounterVec

	// Guard metrics
	LockWaitDuration prometheus.Histogram
	LockTimeouts     prometheus.Counter

	// Database metrics
	DBRetries prometheus.Counter

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Remittance metrics
		RemittancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "goremit_remittances_created_total",
			Help: "Total number of remittances committed",
		}),
		RemittanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goremit_remittance_duration_seconds",
			Help:    "Duration of remittance operations, guard wait included",
			Buckets: prometheus.DefBuckets,
		}),
		RemittanceAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goremit_remittance_amount",
			Help:    "Remittance amounts in source currency",
			Buckets: []float64{1, 10, 100, 1000, 10000, 50000, 100000},
		}),
		RemittanceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_remittance_errors_total",
				Help: "Total number of rejected or failed remittances by type",
			},
			[]string{"error_type"},
		),
		FeesCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_fees_collected_total",
				Help: "Sum of fees charged, by account category",
			},
			[]string{"category"},
		),

		// Account metrics
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "goremit_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),

		// Quote metrics
		QuoteFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_quote_fetches_total",
				Help: "Quote source lookups by currency",
			},
			[]string{"currency"},
		),
		QuoteFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_quote_fallbacks_total",
				Help: "Quote lookups answered with the configured default rate",
			},
			[]string{"currency"},
		),

		// Cache metrics
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_cache_hits_total",
				Help: "Cache hits by cache",
			},
			[]string{"cache"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_cache_misses_total",
				Help: "Cache misses by cache",
			},
			[]string{"cache"},
		),
		CacheInvalidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_cache_invalidations_total",
				Help: "Cache invalidations by cache",
			},
			[]string{"cache"},
		),
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_cache_errors_total",
				Help: "Cache operation failures by operation",
			},
			[]string{"operation"},
		),

		// Guard metrics
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goremit_lock_wait_seconds",
			Help:    "Time spent acquiring the account guard",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		}),
		LockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "goremit_lock_timeouts_total",
			Help: "Guard acquisitions that timed out",
		}),

		// Database metrics
		DBRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "goremit_db_retries_total",
			Help: "Transactions retried after a deadlock or serialization failure",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_events_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goremit_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goremit_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
