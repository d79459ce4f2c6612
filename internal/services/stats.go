package services

import (
	"regexp"
	"strings"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// manaCurveBuckets is the number of mana curve buckets; converted
// costs of 7 or more all land in the last bucket.
const manaCurveBuckets = 8

// manaSymbolPattern matches one bracketed mana symbol, e.g. {2}, {W},
// {G/U}. Converted mana cost is the count of these symbols.
var manaSymbolPattern = regexp.MustCompile(`\{[^}]+\}`)

// typeSeparator splits a type line from its creature subtypes,
// e.g. "Creature — Goblin Wizard".
const typeSeparator = "—"

// DeckStats is the aggregate view of a deck's card multiset.
type DeckStats struct {
	TotalCards         int                   `json:"totalCards"`
	TypeDistribution   map[string]int        `json:"typeDistribution"`
	ManaCurve          [manaCurveBuckets]int `json:"manaCurve"`
	ColorDistribution  map[string]int        `json:"colorDistribution"`
	RarityDistribution map[string]int        `json:"rarityDistribution"`
	AverageManaValue   float64               `json:"averageManaValue"`
	NonLandCount       int                   `json:"nonLandCount"`
}

// ConvertedManaCost counts the bracketed mana symbols in a cost
// string. An empty cost is 0.
func ConvertedManaCost(manaCost string) int {
	return len(manaSymbolPattern.FindAllString(manaCost, -1))
}

// PrimaryType extracts the first word of the type line before the
// subtype separator, e.g. "Legendary Creature — Elf" -> "Legendary".
func PrimaryType(typeLine string) string {
	main, _, _ := strings.Cut(typeLine, typeSeparator)
	fields := strings.Fields(main)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ComputeDeckStats aggregates a card multiset into distributions.
// It is a pure function of its input: no external calls, no hidden
// state, all aggregation additive.
func ComputeDeckStats(cards []models.Card) DeckStats {
	stats := DeckStats{
		TypeDistribution: make(map[string]int),
		ColorDistribution: map[string]int{
			models.ColorWhite:     0,
			models.ColorBlue:      0,
			models.ColorBlack:     0,
			models.ColorRed:       0,
			models.ColorGreen:     0,
			models.ColorColorless: 0,
		},
		RarityDistribution: map[string]int{
			models.RarityCommon:   0,
			models.RarityUncommon: 0,
			models.RarityRare:     0,
			models.RarityMythic:   0,
		},
	}

	totalManaValue := 0

	for i := range cards {
		card := &cards[i]

		stats.TotalCards += card.Quantity

		stats.TypeDistribution[PrimaryType(card.Type)] += card.Quantity

		if !card.IsLand() {
			stats.NonLandCount += card.Quantity

			// Costless cards stay out of the curve but still count
			// toward the non-land total.
			if card.ManaCost != "" {
				cmc := ConvertedManaCost(card.ManaCost)
				bucket := cmc
				if bucket > manaCurveBuckets-1 {
					bucket = manaCurveBuckets - 1
				}
				stats.ManaCurve[bucket] += card.Quantity
				totalManaValue += cmc * card.Quantity
			}
		}

		if len(card.Colors) > 0 {
			// Multicolor cards count fully toward each of their
			// colors, not split between them.
			for _, color := range card.Colors {
				if _, ok := stats.ColorDistribution[color]; ok {
					stats.ColorDistribution[color] += card.Quantity
				}
			}
		} else {
			stats.ColorDistribution[models.ColorColorless] += card.Quantity
		}

		rarity := strings.ToLower(card.Rarity)
		if _, ok := stats.RarityDistribution[rarity]; ok {
			stats.RarityDistribution[rarity] += card.Quantity
		}
	}

	if stats.NonLandCount > 0 {
		stats.AverageManaValue = float64(totalManaValue) / float64(stats.NonLandCount)
	}

	return stats
}
