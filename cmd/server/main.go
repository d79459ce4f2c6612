// server is the deck-builder API: user accounts, deck CRUD, card
// search via Scryfall, deck statistics, format validation, and
// deck-list import/export.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deckhaven/deck-builder/backend/internal/api/handlers"
	"github.com/deckhaven/deck-builder/backend/internal/database"
	"github.com/deckhaven/deck-builder/backend/internal/metrics"
	"github.com/deckhaven/deck-builder/backend/internal/middleware"
	"github.com/deckhaven/deck-builder/backend/internal/services"
)

func main() {
	// .env is optional; real deployments use environment variables
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	dbPath := envOr("DB_PATH", "deckbuilder.db")
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.RunMigrations(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Services
	scryfall := services.NewScryfallService()
	legality := services.NewLegalityService(scryfall)
	validator := services.NewDeckValidator(legality)
	enricher := services.NewEnricher(scryfall)
	deckService := services.NewDeckService(db)
	authService := services.NewAuthService(db)
	legalityWorker := services.NewLegalityWorker(legality)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go legalityWorker.Start(ctx)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	deckHandler := handlers.NewDeckHandler(deckService, validator, enricher)
	cardHandler := handlers.NewCardHandler(scryfall)
	adminHandler := handlers.NewAdminHandler(legality, legalityWorker)

	if envOr("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(metrics.HTTPMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{envOr("CORS_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.SessionAuth(db), authHandler.Me)
		}

		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/:id", cardHandler.GetCard)
		}

		decks := api.Group("/decks", middleware.SessionAuth(db))
		{
			decks.POST("", deckHandler.CreateDeck)
			decks.GET("", deckHandler.ListDecks)
			decks.POST("/import", deckHandler.ImportDeck)
			decks.GET("/:id", deckHandler.GetDeck)
			decks.PUT("/:id", deckHandler.UpdateDeck)
			decks.DELETE("/:id", deckHandler.DeleteDeck)
			decks.POST("/:id/cards", deckHandler.AddCard)
			decks.PUT("/:id/cards/:cardId", deckHandler.SetCardQuantity)
			decks.DELETE("/:id/cards/:cardId", deckHandler.RemoveCard)
			decks.GET("/:id/stats", deckHandler.GetDeckStats)
			decks.GET("/:id/validate", deckHandler.ValidateDeck)
			decks.GET("/:id/export", deckHandler.ExportDeck)
		}

		admin := api.Group("/admin", middleware.AdminKeyAuth())
		{
			admin.GET("/legality-cache", adminHandler.GetCacheStats)
			admin.POST("/legality-cache/prewarm", adminHandler.PrewarmLegality)
		}
	}

	metrics.UpdateDeckMetrics(db)

	addr := ":" + envOr("PORT", "8080")
	log.Printf("Deck builder API listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
