package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

const importedDeckName = "Imported Deck"

// cardLinePattern matches a deck-list card line: quantity, whitespace,
// then the card name verbatim to end of line.
var cardLinePattern = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// ExportDeckToText renders a deck in the plain-text deck-list format:
// comment lines for name, description (omitted when empty), and
// format, then the main-deck entries as "<quantity> <name>" sorted by
// type then name.
func ExportDeckToText(deck *models.Deck) string {
	lines := []string{
		"// " + deck.Name,
	}
	if deck.Description != "" {
		lines = append(lines, "// "+deck.Description)
	}
	lines = append(lines,
		fmt.Sprintf("// Format: %s", deck.Format),
		"",
		"// Main Deck",
	)

	cards := deck.CardList()
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Type != cards[j].Type {
			return cards[i].Type < cards[j].Type
		}
		return cards[i].Name < cards[j].Name
	})

	for i := range cards {
		lines = append(lines, fmt.Sprintf("%d %s", cards[i].Quantity, cards[i].Name))
	}

	return strings.Join(lines, "\n")
}

// ExportDeckToCSV renders a deck as a delimited table with quoted
// name, type, and mana cost columns.
func ExportDeckToCSV(deck *models.Deck) string {
	rows := []string{"Quantity,Name,Type,Mana Cost"}
	for _, card := range deck.CardList() {
		rows = append(rows, fmt.Sprintf(`%d,"%s","%s","%s"`, card.Quantity, card.Name, card.Type, card.ManaCost))
	}
	return strings.Join(rows, "\n")
}

// ImportedDeck is the result of parsing a deck list. Cards are stubs
// (name and quantity only) pending enrichment.
type ImportedDeck struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Format      models.Format `json:"format"`
	Cards       []models.Card `json:"cards"`
}

// ImportDeckFromText parses a plain-text deck list. Comment lines
// carry metadata: a "Format: x" comment sets the format anywhere in
// the file; otherwise the first plain comment becomes the description
// and the next one the name. This first-wins ordering looks backwards
// but matches the deck lists the exporter has always produced, so it
// stays. Blank lines, sideboard sections, and malformed card lines
// are skipped silently.
func ImportDeckFromText(text string) *ImportedDeck {
	deck := &ImportedDeck{
		Name:   importedDeckName,
		Format: models.FormatStandard,
		Cards:  []models.Card{},
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		if strings.HasPrefix(line, "//") {
			meta := strings.TrimSpace(line[2:])
			switch {
			case strings.HasPrefix(meta, "Format:"):
				deck.Format = models.Format(strings.ToLower(strings.TrimSpace(meta[len("Format:"):])))
			case deck.Description == "":
				deck.Description = meta
			case deck.Name == importedDeckName:
				deck.Name = meta
			}
			continue
		}

		if line == "" || strings.Contains(strings.ToLower(line), "sideboard") {
			continue
		}

		match := cardLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		quantity, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		deck.Cards = append(deck.Cards, models.Card{
			ID:           fmt.Sprintf("temp-%d", len(deck.Cards)),
			Name:         match[2],
			Quantity:     quantity,
			Colors:       []string{},
			Rarity:       models.RarityUnknown,
			ProducedMana: []string{},
		})
	}

	return deck
}

// CardSearcher is the slice of the remote card service enrichment
// needs. *ScryfallService implements it.
type CardSearcher interface {
	Search(ctx context.Context, query string) ([]RawCard, error)
}

// Enricher resolves imported stub cards into full card records via
// the remote search.
type Enricher struct {
	searcher CardSearcher
}

func NewEnricher(searcher CardSearcher) *Enricher {
	return &Enricher{searcher: searcher}
}

// EnrichCards looks up each stub by name and replaces it with the
// first matching result, keeping the originally requested quantity.
// Lookups run concurrently; each card's enrichment is independent,
// so a miss or remote failure leaves that stub unchanged and never
// blocks the others.
func (e *Enricher) EnrichCards(ctx context.Context, cards []models.Card) []models.Card {
	enriched := make([]models.Card, len(cards))
	copy(enriched, cards)

	var wg sync.WaitGroup
	for i := range enriched {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			name := enriched[i].Name
			results, err := e.searcher.Search(ctx, exactNameQuery(name))
			if err != nil {
				log.Printf("Enrich: lookup failed for %q: %v", name, err)
				return
			}
			if len(results) == 0 {
				return
			}

			quantity := enriched[i].Quantity
			enriched[i] = NormalizeCard(results[0])
			enriched[i].Quantity = quantity
		}(i)
	}
	wg.Wait()

	return enriched
}

// exactNameQuery builds a Scryfall exact-name search term.
func exactNameQuery(name string) string {
	return `!"` + name + `"`
}
