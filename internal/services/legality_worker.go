package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/deckhaven/deck-builder/backend/internal/database"

	"gorm.io/gorm"
)

const (
	// warmBatchSize is the number of cards to warm per batch
	warmBatchSize = 50
	// warmRequestDelay is the delay between remote lookups
	warmRequestDelay = 100 * time.Millisecond
)

// LegalityWorker keeps the legality cache warm for cards that appear
// in stored decks, so validation rarely has to wait on the network.
type LegalityWorker struct {
	legality       *LegalityService
	updateInterval time.Duration
	batchSize      int
	mu             sync.RWMutex

	// Stats
	cardsWarmed int
	lastRunTime time.Time
}

type LegalityWorkerStatus struct {
	LastRunTime time.Time `json:"last_run_time"`
	NextRunTime time.Time `json:"next_run_time"`
	CardsWarmed int       `json:"cards_warmed"`
	BatchSize   int       `json:"batch_size"`
	CacheSize   int       `json:"cache_size"`
}

func NewLegalityWorker(legality *LegalityService) *LegalityWorker {
	return &LegalityWorker{
		legality:       legality,
		batchSize:      warmBatchSize,
		updateInterval: 1 * time.Hour,
	}
}

// Start begins the background prewarm loop
func (w *LegalityWorker) Start(ctx context.Context) {
	log.Printf("Legality worker started: will warm up to %d cards per hour", w.batchSize)

	// Run immediately on startup
	if warmed, err := w.WarmBatch(ctx); err != nil {
		log.Printf("Legality worker: initial batch failed: %v", err)
	} else if warmed > 0 {
		log.Printf("Legality worker: initial batch warmed %d cards", warmed)
	}

	ticker := time.NewTicker(w.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Legality worker stopping...")
			return
		case <-ticker.C:
			if warmed, err := w.WarmBatch(ctx); err != nil {
				log.Printf("Legality worker: batch failed: %v", err)
			} else if warmed > 0 {
				log.Printf("Legality worker: batch warmed %d cards", warmed)
			}
		}
	}
}

// WarmBatch finds deck card ids missing from the cache and warms a
// batch of them. Placeholder ids (unenriched stubs) are skipped since
// the remote service cannot know them.
func (w *LegalityWorker) WarmBatch(ctx context.Context) (warmed int, err error) {
	db := database.GetDB()

	ids, err := w.uncachedCardIDs(db)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	log.Printf("Legality worker: warming legality for %d cards", len(ids))

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return warmed, ctx.Err()
		default:
		}

		if w.legality.Warm(ctx, id) {
			warmed++
		}

		// Small delay between requests to be nice to the API
		time.Sleep(warmRequestDelay)
	}

	w.mu.Lock()
	w.cardsWarmed += warmed
	w.lastRunTime = time.Now()
	w.mu.Unlock()

	return warmed, nil
}

func (w *LegalityWorker) uncachedCardIDs(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Raw(`SELECT DISTINCT id FROM deck_cards ORDER BY id LIMIT ?`, w.batchSize*4).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	filtered := ids[:0]
	for _, id := range ids {
		if strings.HasPrefix(id, "temp-") {
			continue
		}
		if w.legality.Cached(id) {
			continue
		}
		filtered = append(filtered, id)
		if len(filtered) >= w.batchSize {
			break
		}
	}
	return filtered, nil
}

// GetStatus returns the current status
func (w *LegalityWorker) GetStatus() LegalityWorkerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return LegalityWorkerStatus{
		LastRunTime: w.lastRunTime,
		NextRunTime: w.lastRunTime.Add(w.updateInterval),
		CardsWarmed: w.cardsWarmed,
		BatchSize:   w.batchSize,
		CacheSize:   w.legality.Size(),
	}
}
