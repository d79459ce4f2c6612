package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrNotDeckOwner = errors.New("deck is owned by another user")
)

// DeckService handles deck persistence and card entry mutation.
type DeckService struct {
	db *gorm.DB
}

func NewDeckService(db *gorm.DB) *DeckService {
	return &DeckService{db: db}
}

// CreateDeck creates an empty deck for a user. Unknown formats are
// rejected before anything touches the database.
func (s *DeckService) CreateDeck(userID, name, description, format string, public bool) (*models.Deck, error) {
	if !models.IsValidFormat(format) {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	deck := &models.Deck{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Format:      models.Format(format),
		Public:      public,
		UserID:      userID,
		Cards:       []models.DeckCard{},
	}
	if err := s.db.Create(deck).Error; err != nil {
		return nil, err
	}
	return deck, nil
}

// ListDecks returns the user's own decks plus every public deck.
func (s *DeckService) ListDecks(userID string) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db.
		Where("public = ? OR user_id = ?", true, userID).
		Preload("User").
		Preload("Cards").
		Order("updated_at DESC").
		Find(&decks).Error
	return decks, err
}

// GetDeck loads a deck with its cards and owner. Private decks are
// only visible to their owner.
func (s *DeckService) GetDeck(deckID, userID string) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.Preload("User").Preload("Cards").First(&deck, "id = ?", deckID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if !deck.Public && deck.UserID != userID {
		return nil, ErrDeckNotFound
	}
	return &deck, nil
}

// getOwnedDeck loads a deck and checks ownership for mutation.
func (s *DeckService) getOwnedDeck(deckID, userID string) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.Preload("Cards").First(&deck, "id = ?", deckID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotDeckOwner
	}
	return &deck, nil
}

// UpdateDeck updates deck metadata (name, description, format,
// visibility), owner only.
func (s *DeckService) UpdateDeck(deckID, userID, name, description, format string, public bool) (*models.Deck, error) {
	if !models.IsValidFormat(format) {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	deck, err := s.getOwnedDeck(deckID, userID)
	if err != nil {
		return nil, err
	}

	deck.Name = name
	deck.Description = description
	deck.Format = models.Format(format)
	deck.Public = public
	if err := s.db.Save(deck).Error; err != nil {
		return nil, err
	}
	return deck, nil
}

// DeleteDeck removes a deck and its card entries, owner only.
func (s *DeckService) DeleteDeck(deckID, userID string) error {
	deck, err := s.getOwnedDeck(deckID, userID)
	if err != nil {
		return err
	}

	if err := s.db.Where("deck_id = ?", deck.ID).Delete(&models.DeckCard{}).Error; err != nil {
		return err
	}
	return s.db.Delete(deck).Error
}

// AddCard adds a card to a deck, incrementing the existing entry's
// quantity when the card is already present. One entry per card id,
// never repeated entries.
func (s *DeckService) AddCard(deckID, userID string, card models.Card) (*models.Deck, error) {
	deck, err := s.getOwnedDeck(deckID, userID)
	if err != nil {
		return nil, err
	}
	if card.Quantity < 1 {
		card.Quantity = 1
	}

	var existing models.DeckCard
	err = s.db.Where("deck_id = ? AND id = ?", deck.ID, card.ID).First(&existing).Error
	if err == nil {
		existing.Quantity += card.Quantity
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		entry := models.DeckCard{DeckID: deck.ID, Card: card}
		if err := s.db.Create(&entry).Error; err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	return s.getOwnedDeck(deckID, userID)
}

// SetCardQuantity sets an entry's quantity. A quantity of zero or
// less removes the entry entirely; entries are never kept at zero.
func (s *DeckService) SetCardQuantity(deckID, userID, cardID string, quantity int) (*models.Deck, error) {
	deck, err := s.getOwnedDeck(deckID, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.db.Where("deck_id = ? AND id = ?", deck.ID, cardID).Delete(&models.DeckCard{}).Error; err != nil {
			return nil, err
		}
	} else {
		err := s.db.Model(&models.DeckCard{}).
			Where("deck_id = ? AND id = ?", deck.ID, cardID).
			Update("quantity", quantity).Error
		if err != nil {
			return nil, err
		}
	}

	return s.getOwnedDeck(deckID, userID)
}

// RemoveCard deletes a card entry from a deck.
func (s *DeckService) RemoveCard(deckID, userID, cardID string) (*models.Deck, error) {
	return s.SetCardQuantity(deckID, userID, cardID, 0)
}

// ReplaceCards swaps a deck's entire card list, used by deck import.
func (s *DeckService) ReplaceCards(deckID, userID string, cards []models.Card) (*models.Deck, error) {
	deck, err := s.getOwnedDeck(deckID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("deck_id = ?", deck.ID).Delete(&models.DeckCard{}).Error; err != nil {
		return nil, err
	}
	for _, card := range cards {
		if card.Quantity < 1 {
			continue
		}
		entry := models.DeckCard{DeckID: deck.ID, Card: card}
		if err := s.db.Create(&entry).Error; err != nil {
			return nil, err
		}
	}

	return s.getOwnedDeck(deckID, userID)
}
