package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deckbuilder_http_requests_total",
		Help: "Total HTTP requests by method, path, and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deckbuilder_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Legality cache metrics
var (
	LegalityCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deckbuilder_legality_cache_hits_total",
		Help: "Legality lookups served from the in-memory cache",
	})

	LegalityCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deckbuilder_legality_cache_misses_total",
		Help: "Legality lookups that required a remote call",
	})

	LegalityCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deckbuilder_legality_cache_entries",
		Help: "Number of card legality records currently cached",
	})
)

// Remote card service metrics
var (
	ScryfallRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deckbuilder_scryfall_requests_total",
		Help: "Requests to the Scryfall API by operation and outcome",
	}, []string{"operation", "outcome"})
)

// Deck metrics
var (
	DecksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deckbuilder_decks_total",
		Help: "Number of decks in the database",
	})

	DecksByFormat = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deckbuilder_decks_by_format",
		Help: "Number of decks per format",
	}, []string{"format"})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deckbuilder_users_total",
		Help: "Number of registered users",
	})

	DeckImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deckbuilder_deck_imports_total",
		Help: "Deck text imports by outcome",
	}, []string{"outcome"})
)
