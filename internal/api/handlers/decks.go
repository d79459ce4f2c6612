package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deckhaven/deck-builder/backend/internal/database"
	"github.com/deckhaven/deck-builder/backend/internal/metrics"
	"github.com/deckhaven/deck-builder/backend/internal/middleware"
	"github.com/deckhaven/deck-builder/backend/internal/models"
	"github.com/deckhaven/deck-builder/backend/internal/services"
)

type DeckHandler struct {
	decks     *services.DeckService
	validator *services.DeckValidator
	enricher  *services.Enricher
}

func NewDeckHandler(decks *services.DeckService, validator *services.DeckValidator, enricher *services.Enricher) *DeckHandler {
	return &DeckHandler{
		decks:     decks,
		validator: validator,
		enricher:  enricher,
	}
}

func deckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeckNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
	case errors.Is(err, services.ErrNotDeckOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "deck is owned by another user"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type deckRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Format      string `json:"format" binding:"required"`
	Public      bool   `json:"public"`
}

// CreateDeck creates an empty deck
// POST /api/decks
func (h *DeckHandler) CreateDeck(c *gin.Context) {
	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and format are required"})
		return
	}

	deck, err := h.decks.CreateDeck(middleware.CurrentUserID(c), req.Name, req.Description, req.Format, req.Public)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.UpdateDeckMetrics(database.GetDB())
	c.JSON(http.StatusCreated, deck)
}

// ListDecks returns the user's decks plus public decks
// GET /api/decks
func (h *DeckHandler) ListDecks(c *gin.Context) {
	decks, err := h.decks.ListDecks(middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch decks"})
		return
	}
	c.JSON(http.StatusOK, decks)
}

// GetDeck returns one deck with its cards
// GET /api/decks/:id
func (h *DeckHandler) GetDeck(c *gin.Context) {
	deck, err := h.decks.GetDeck(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		deckError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

// UpdateDeck updates deck metadata
// PUT /api/decks/:id
func (h *DeckHandler) UpdateDeck(c *gin.Context) {
	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and format are required"})
		return
	}

	deck, err := h.decks.UpdateDeck(c.Param("id"), middleware.CurrentUserID(c), req.Name, req.Description, req.Format, req.Public)
	if err != nil {
		if errors.Is(err, services.ErrDeckNotFound) || errors.Is(err, services.ErrNotDeckOwner) {
			deckError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deck)
}

// DeleteDeck removes a deck
// DELETE /api/decks/:id
func (h *DeckHandler) DeleteDeck(c *gin.Context) {
	if err := h.decks.DeleteDeck(c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		deckError(c, err)
		return
	}

	metrics.UpdateDeckMetrics(database.GetDB())
	c.JSON(http.StatusOK, gin.H{"message": "deck deleted"})
}

// AddCard adds a card entry (or bumps its quantity)
// POST /api/decks/:id/cards
func (h *DeckHandler) AddCard(c *gin.Context) {
	var card models.Card
	if err := c.ShouldBindJSON(&card); err != nil || card.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card name is required"})
		return
	}

	deck, err := h.decks.AddCard(c.Param("id"), middleware.CurrentUserID(c), card)
	if err != nil {
		deckError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetCardQuantity sets an entry's quantity; zero removes the entry
// PUT /api/decks/:id/cards/:cardId
func (h *DeckHandler) SetCardQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	deck, err := h.decks.SetCardQuantity(c.Param("id"), middleware.CurrentUserID(c), c.Param("cardId"), *req.Quantity)
	if err != nil {
		deckError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

// RemoveCard deletes a card entry
// DELETE /api/decks/:id/cards/:cardId
func (h *DeckHandler) RemoveCard(c *gin.Context) {
	deck, err := h.decks.RemoveCard(c.Param("id"), middleware.CurrentUserID(c), c.Param("cardId"))
	if err != nil {
		deckError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

// GetDeckStats computes the deck's aggregate statistics on demand
// GET /api/decks/:id/stats
func (h *DeckHandler) GetDeckStats(c *gin.Context) {
	deck, err := h.decks.GetDeck(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		deckError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ComputeDeckStats(deck.CardList()))
}

// ValidateDeck checks the deck against its format's rules
// GET /api/decks/:id/validate
func (h *DeckHandler) ValidateDeck(c *gin.Context) {
	deck, err := h.decks.GetDeck(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		deckError(c, err)
		return
	}
	result := h.validator.Validate(c.Request.Context(), deck.CardList(), deck.Format)
	c.JSON(http.StatusOK, result)
}

// ExportDeck renders the deck as text or CSV
// GET /api/decks/:id/export?format=text|csv
func (h *DeckHandler) ExportDeck(c *gin.Context) {
	deck, err := h.decks.GetDeck(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		deckError(c, err)
		return
	}

	switch c.DefaultQuery("format", "text") {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="`+deck.Name+`.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(services.ExportDeckToCSV(deck)))
	case "text":
		c.Header("Content-Disposition", `attachment; filename="`+deck.Name+`.txt"`)
		c.Data(http.StatusOK, "text/plain", []byte(services.ExportDeckToText(deck)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export format"})
	}
}

type importRequest struct {
	Text string `json:"text" binding:"required"`
}

// ImportDeck parses a deck list, enriches the stubs via the remote
// search, and creates a new deck from the result
// POST /api/decks/import
func (h *DeckHandler) ImportDeck(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deck list text is required"})
		return
	}

	imported := services.ImportDeckFromText(req.Text)
	if !models.IsValidFormat(string(imported.Format)) {
		metrics.DeckImportsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format: " + string(imported.Format)})
		return
	}

	cards := h.enricher.EnrichCards(c.Request.Context(), imported.Cards)

	userID := middleware.CurrentUserID(c)
	deck, err := h.decks.CreateDeck(userID, imported.Name, imported.Description, string(imported.Format), false)
	if err != nil {
		metrics.DeckImportsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	deck, err = h.decks.ReplaceCards(deck.ID, userID, cards)
	if err != nil {
		metrics.DeckImportsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.DeckImportsTotal.WithLabelValues("ok").Inc()
	metrics.UpdateDeckMetrics(database.GetDB())
	c.JSON(http.StatusCreated, deck)
}
