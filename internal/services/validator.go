package services

import (
	"context"
	"fmt"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// ValidationResult carries every problem found with a deck. Findings
// are values, not errors: the caller decides how to present them.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// LegalityChecker is what the validator needs from the legality
// cache. *LegalityService implements it.
type LegalityChecker interface {
	GetLegality(ctx context.Context, cardID string) (models.CardLegality, bool)
}

// DeckValidator applies per-format construction rules plus legality
// checks to a card multiset.
type DeckValidator struct {
	legality LegalityChecker
}

func NewDeckValidator(legality LegalityChecker) *DeckValidator {
	return &DeckValidator{legality: legality}
}

// Validate checks a deck against its format's rules. All checks run
// even when an earlier one fails; errors accumulate in deterministic
// order (deck size, copy limits in original card order, legality in
// original card order). The only fail-fast case is an unknown format.
func (v *DeckValidator) Validate(ctx context.Context, cards []models.Card, format models.Format) ValidationResult {
	rules, ok := models.FormatRules[format]
	if !ok {
		return ValidationResult{
			IsValid: false,
			Errors:  []string{fmt.Sprintf("unknown format: %s", format)},
		}
	}

	errs := []string{}

	totalCards := 0
	for i := range cards {
		totalCards += cards[i].Quantity
	}

	if totalCards < rules.MinCards {
		errs = append(errs, fmt.Sprintf("Deck must contain at least %d cards", rules.MinCards))
	}
	if rules.MaxCards > 0 && totalCards > rules.MaxCards {
		errs = append(errs, fmt.Sprintf("Deck must contain no more than %d cards", rules.MaxCards))
	}

	// Group by card id, preserving first-appearance order so the
	// error list is deterministic. Basic lands are exempt from the
	// per-card copy limit (MaxCopiesBasicLand is unbounded in the
	// current rule set).
	counts := make(map[string]int)
	names := make(map[string]string)
	basic := make(map[string]bool)
	order := []string{}
	for i := range cards {
		card := &cards[i]
		if _, seen := counts[card.ID]; !seen {
			order = append(order, card.ID)
			names[card.ID] = card.Name
			basic[card.ID] = card.IsBasicLand()
		}
		counts[card.ID] += card.Quantity
	}

	for _, id := range order {
		if basic[id] {
			if rules.MaxCopiesBasicLand > 0 && counts[id] > rules.MaxCopiesBasicLand {
				errs = append(errs, fmt.Sprintf("Deck contains more than %d copies of %s", rules.MaxCopiesBasicLand, names[id]))
			}
			continue
		}
		if counts[id] > rules.MaxCopies {
			errs = append(errs, fmt.Sprintf("Deck contains more than %d copies of %s", rules.MaxCopies, names[id]))
		}
	}

	for i := range cards {
		card := &cards[i]

		legality, ok := v.legality.GetLegality(ctx, card.ID)
		if !ok {
			errs = append(errs, fmt.Sprintf("Could not verify legality for card ID: %s", card.ID))
			continue
		}

		status := legality.Status(format)
		if status != models.LegalityLegal {
			errs = append(errs, fmt.Sprintf("Card %s is not legal in %s (status: %s)", card.ID, format, status))
		}
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
