package models

import (
	"time"
)

// Deck is a user-owned collection of card entries. Each distinct card
// gets one DeckCard entry with its quantity aggregated there, never
// repeated entries for the same card.
type Deck struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Format      Format     `json:"format" gorm:"not null;index"`
	Public      bool       `json:"public" gorm:"index"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	User        *User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Cards       []DeckCard `json:"cards" gorm:"foreignKey:DeckID;references:ID;constraint:OnDelete:CASCADE"`
}

// DeckCard is one card entry within a deck.
type DeckCard struct {
	EntryID uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	DeckID  string `json:"-" gorm:"not null;index"`
	Card    `gorm:"embedded"`
}

// CardList flattens the deck's entries into plain Card values for the
// statistics engine, validator, and exporters.
func (d *Deck) CardList() []Card {
	cards := make([]Card, 0, len(d.Cards))
	for _, entry := range d.Cards {
		cards = append(cards, entry.Card)
	}
	return cards
}
