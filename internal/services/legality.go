package services

import (
	"context"
	"log"
	"sync"

	"github.com/deckhaven/deck-builder/backend/internal/metrics"
	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// LegalitySource is the slice of the remote card service the legality
// cache needs. *ScryfallService implements it.
type LegalitySource interface {
	GetLegality(ctx context.Context, cardID string) (models.CardLegality, error)
}

// LegalityService memoizes per-card format legality for the process
// lifetime. Entries are created on first lookup and never evicted;
// failed lookups are not cached so a later retry can succeed.
type LegalityService struct {
	source LegalitySource

	mu    sync.RWMutex
	cache map[string]models.CardLegality
}

func NewLegalityService(source LegalitySource) *LegalityService {
	return &LegalityService{
		source: source,
		cache:  make(map[string]models.CardLegality),
	}
}

// GetLegality returns the legality record for a card id. A cache hit
// returns immediately without touching the network. On a miss the
// remote service is queried once; any failure is reported as
// (nil, false), never as an error, so callers can treat absence as
// "legality unknown".
func (s *LegalityService) GetLegality(ctx context.Context, cardID string) (models.CardLegality, bool) {
	s.mu.RLock()
	cached, ok := s.cache[cardID]
	s.mu.RUnlock()
	if ok {
		metrics.LegalityCacheHits.Inc()
		return cached, true
	}

	metrics.LegalityCacheMisses.Inc()

	legality, err := s.source.GetLegality(ctx, cardID)
	if err != nil {
		log.Printf("Legality: lookup failed for card %s: %v", cardID, err)
		return nil, false
	}

	s.mu.Lock()
	s.cache[cardID] = legality
	size := len(s.cache)
	s.mu.Unlock()

	metrics.LegalityCacheSize.Set(float64(size))
	return legality, true
}

// Warm fetches and caches legality for a card id without returning
// the record. Used by the background prewarm worker.
func (s *LegalityService) Warm(ctx context.Context, cardID string) bool {
	_, ok := s.GetLegality(ctx, cardID)
	return ok
}

// Cached reports whether a card id is already in the cache.
func (s *LegalityService) Cached(cardID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[cardID]
	return ok
}

// Size returns the number of cached legality records.
func (s *LegalityService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
