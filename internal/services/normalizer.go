package services

import (
	"github.com/google/uuid"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// colorNames maps single-letter source color codes to the full names
// used by the statistics engine. Full names pass through unchanged.
var colorNames = map[string]string{
	"W": models.ColorWhite,
	"U": models.ColorBlue,
	"B": models.ColorBlack,
	"R": models.ColorRed,
	"G": models.ColorGreen,
}

// knownRarities is the set of rarity values kept as-is; anything else
// becomes RarityUnknown.
var knownRarities = map[string]bool{
	models.RarityCommon:   true,
	models.RarityUncommon: true,
	models.RarityRare:     true,
	models.RarityMythic:   true,
}

// NormalizeCard converts a raw external card record into the canonical
// Card shape. Every optional field ends up present: empty string,
// empty slice, or RarityUnknown. A missing id gets a process-unique
// placeholder. Pure transformation, no side effects beyond the
// placeholder id draw.
func NormalizeCard(raw RawCard) models.Card {
	card := models.Card{
		ID:           raw.ID,
		Name:         raw.Name,
		Type:         firstNonEmpty(raw.TypeLine, raw.Type),
		ManaCost:     firstNonEmpty(raw.ManaCost, raw.ManaCostAlt),
		Colors:       normalizeColors(raw.Colors),
		Rarity:       normalizeRarity(raw.Rarity),
		Quantity:     1,
		OracleText:   raw.OracleText,
		ImageURL:     raw.ImageURL,
		ProducedMana: raw.ProducedMana,
	}

	if card.ID == "" {
		card.ID = "temp-" + uuid.NewString()
	}
	if card.ImageURL == "" && raw.ImageURIs != nil {
		card.ImageURL = firstNonEmpty(raw.ImageURIs.Normal, raw.ImageURIs.Large, raw.ImageURIs.Small)
	}
	if card.ProducedMana == nil {
		card.ProducedMana = []string{}
	}

	return card
}

// NormalizeCards normalizes a batch of raw records in order.
func NormalizeCards(raw []RawCard) []models.Card {
	cards := make([]models.Card, 0, len(raw))
	for _, r := range raw {
		cards = append(cards, NormalizeCard(r))
	}
	return cards
}

func normalizeColors(colors []string) []string {
	normalized := make([]string, 0, len(colors))
	for _, c := range colors {
		if full, ok := colorNames[c]; ok {
			normalized = append(normalized, full)
		} else {
			normalized = append(normalized, c)
		}
	}
	return normalized
}

func normalizeRarity(rarity string) string {
	if knownRarities[rarity] {
		return rarity
	}
	return models.RarityUnknown
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
