package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deckhaven/deck-builder/backend/internal/services"
)

type AdminHandler struct {
	legality       *services.LegalityService
	legalityWorker *services.LegalityWorker
}

func NewAdminHandler(legality *services.LegalityService, legalityWorker *services.LegalityWorker) *AdminHandler {
	return &AdminHandler{
		legality:       legality,
		legalityWorker: legalityWorker,
	}
}

// GetCacheStats returns legality cache statistics
// GET /api/admin/legality-cache
func (h *AdminHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.legality.Size(),
		"worker":  h.legalityWorker.GetStatus(),
	})
}

// PrewarmLegality triggers a legality cache warm batch in the background
// POST /api/admin/legality-cache/prewarm
func (h *AdminHandler) PrewarmLegality(c *gin.Context) {
	// Run in background with a fresh context; the request context is
	// cancelled as soon as we return 202
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		_, _ = h.legalityWorker.WarmBatch(ctx)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "legality prewarm started",
		"status":  "running",
	})
}
