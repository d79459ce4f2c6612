package metrics

import (
	"log"

	"gorm.io/gorm"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// UpdateDeckMetrics queries the database and updates deck-related
// Prometheus gauges. Call this after deck changes or periodically.
func UpdateDeckMetrics(db *gorm.DB) {
	if db == nil {
		return
	}

	var deckCount int64
	if err := db.Model(&models.Deck{}).Count(&deckCount).Error; err != nil {
		log.Printf("Metrics: failed to count decks: %v", err)
	} else {
		DecksTotal.Set(float64(deckCount))
	}

	type formatCount struct {
		Format string
		Count  int64
	}
	var formatCounts []formatCount
	if err := db.Model(&models.Deck{}).
		Select("format, COUNT(*) as count").
		Group("format").
		Scan(&formatCounts).Error; err != nil {
		log.Printf("Metrics: failed to count decks by format: %v", err)
	} else {
		for _, fc := range formatCounts {
			DecksByFormat.WithLabelValues(fc.Format).Set(float64(fc.Count))
		}
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Printf("Metrics: failed to count users: %v", err)
	} else {
		UsersTotal.Set(float64(userCount))
	}
}
