package models

import (
	"strings"
)

// Rarity values as reported by card sources. Anything else is
// normalized to RarityUnknown.
const (
	RarityCommon   = "common"
	RarityUncommon = "uncommon"
	RarityRare     = "rare"
	RarityMythic   = "mythic"
	RarityUnknown  = "unknown"
)

// Color identifiers used throughout the API and statistics.
const (
	ColorWhite     = "White"
	ColorBlue      = "Blue"
	ColorBlack     = "Black"
	ColorRed       = "Red"
	ColorGreen     = "Green"
	ColorColorless = "Colorless"
)

// Card is the canonical card shape used everywhere in the backend.
// All optional fields are always present after normalization: empty
// string, empty slice, or RarityUnknown, never missing. Quantity is
// the number of copies of this card in its deck entry.
type Card struct {
	ID           string   `json:"id" gorm:"index"`
	Name         string   `json:"name" gorm:"not null;index"`
	Type         string   `json:"type"`
	ManaCost     string   `json:"manaCost"`
	Colors       []string `json:"colors" gorm:"serializer:json"`
	Rarity       string   `json:"rarity"`
	Quantity     int      `json:"quantity" gorm:"not null"`
	OracleText   string   `json:"oracle_text"`
	ImageURL     string   `json:"imageUrl"`
	ProducedMana []string `json:"produced_mana" gorm:"serializer:json"`
}

// IsLand reports whether the card's type line contains "land".
// Lands are excluded from the mana curve and average mana value.
func (c *Card) IsLand() bool {
	return strings.Contains(strings.ToLower(c.Type), "land")
}

// IsBasicLand reports whether the card is a basic land. Basic lands
// are exempt from per-card copy limits.
func (c *Card) IsBasicLand() bool {
	return strings.Contains(strings.ToLower(c.Type), "basic land")
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
	HasMore    bool   `json:"has_more"`
}
