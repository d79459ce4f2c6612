package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deckhaven/deck-builder/backend/internal/services"
)

type CardHandler struct {
	scryfall *services.ScryfallService
}

func NewCardHandler(scryfall *services.ScryfallService) *CardHandler {
	return &CardHandler{scryfall: scryfall}
}

// SearchCards proxies a card search to the remote card service and
// returns normalized cards
// GET /api/cards/search?q=...&format=...&colors=W,U
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query is required"})
		return
	}

	filters := services.SearchFilters{Format: c.Query("format")}
	if colors := c.Query("colors"); colors != "" {
		filters.Colors = strings.Split(colors, ",")
	}

	raw, err := h.scryfall.Search(c.Request.Context(), services.BuildSearchQuery(query, filters))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "card search failed"})
		return
	}

	c.JSON(http.StatusOK, services.NormalizeCards(raw))
}

// GetCard fetches one card by id
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	raw, err := h.scryfall.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "card lookup failed"})
		return
	}

	c.JSON(http.StatusOK, services.NormalizeCard(*raw))
}
