package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/deckhaven/deck-builder/backend/internal/metrics"
	"github.com/deckhaven/deck-builder/backend/internal/models"
)

const (
	scryfallBaseURL = "https://api.scryfall.com"
	// Scryfall asks integrations to stay under ~10 requests per second
	scryfallRequestsPerSecond = 10
)

// ErrCardNotFound is returned when the remote service has no record
// for the requested card.
var ErrCardNotFound = errors.New("card not found")

// RawCard is a card record as returned by an external source. Field
// names differ across sources (Scryfall uses type_line/mana_cost, the
// legacy search endpoint used type/manaCost), so both spellings are
// accepted and reconciled by the normalizer.
type RawCard struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	TypeLine     string              `json:"type_line"`
	Type         string              `json:"type"`
	ManaCost     string              `json:"mana_cost"`
	ManaCostAlt  string              `json:"manaCost"`
	Colors       []string            `json:"colors"`
	Rarity       string              `json:"rarity"`
	OracleText   string              `json:"oracle_text"`
	ImageURL     string              `json:"imageUrl"`
	ImageURIs    *RawCardImages      `json:"image_uris"`
	ProducedMana []string            `json:"produced_mana"`
	Legalities   models.CardLegality `json:"legalities"`
}

type RawCardImages struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

type scryfallListResponse struct {
	Data    []RawCard `json:"data"`
	HasMore bool      `json:"has_more"`
	Details string    `json:"details"`
}

// SearchFilters narrows a card search. Zero values mean no filter.
type SearchFilters struct {
	Format string
	Colors []string
}

// BuildSearchQuery combines free text with format/color filters into
// Scryfall query syntax.
func BuildSearchQuery(text string, filters SearchFilters) string {
	query := text
	if filters.Format != "" {
		query += " format:" + filters.Format
	}
	if len(filters.Colors) > 0 {
		query += " color:" + strings.Join(filters.Colors, "")
	}
	return strings.TrimSpace(query)
}

// ScryfallService is the HTTP client for the Scryfall card API.
type ScryfallService struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewScryfallService() *ScryfallService {
	return &ScryfallService{
		baseURL: scryfallBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(scryfallRequestsPerSecond), scryfallRequestsPerSecond),
	}
}

// NewScryfallServiceWithBaseURL is used by tests to point the client
// at a local httptest server.
func NewScryfallServiceWithBaseURL(baseURL string) *ScryfallService {
	s := NewScryfallService()
	s.baseURL = baseURL
	return s
}

func (s *ScryfallService) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// Search runs a full-text card search and returns the raw records of
// the first result page.
func (s *ScryfallService) Search(ctx context.Context, query string) ([]RawCard, error) {
	reqURL := fmt.Sprintf("%s/cards/search?q=%s&unique=cards&order=name", s.baseURL, url.QueryEscape(query))

	body, status, err := s.doRequest(ctx, reqURL)
	if err != nil {
		metrics.ScryfallRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	// Scryfall reports an empty result set as 404
	if status == http.StatusNotFound {
		metrics.ScryfallRequestsTotal.WithLabelValues("search", "not_found").Inc()
		return nil, nil
	}
	if status != http.StatusOK {
		metrics.ScryfallRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("scryfall search returned status %d", status)
	}

	var list scryfallListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		metrics.ScryfallRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}

	metrics.ScryfallRequestsTotal.WithLabelValues("search", "ok").Inc()
	return list.Data, nil
}

// GetCard fetches a single card by its Scryfall id. Returns
// ErrCardNotFound when the id is unknown.
func (s *ScryfallService) GetCard(ctx context.Context, id string) (*RawCard, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	body, status, err := s.doRequest(ctx, reqURL)
	if err != nil {
		metrics.ScryfallRequestsTotal.WithLabelValues("get_card", "error").Inc()
		return nil, err
	}
	if status == http.StatusNotFound {
		metrics.ScryfallRequestsTotal.WithLabelValues("get_card", "not_found").Inc()
		return nil, ErrCardNotFound
	}
	if status != http.StatusOK {
		metrics.ScryfallRequestsTotal.WithLabelValues("get_card", "error").Inc()
		return nil, fmt.Errorf("scryfall get card returned status %d", status)
	}

	var card RawCard
	if err := json.Unmarshal(body, &card); err != nil {
		metrics.ScryfallRequestsTotal.WithLabelValues("get_card", "error").Inc()
		return nil, err
	}

	metrics.ScryfallRequestsTotal.WithLabelValues("get_card", "ok").Inc()
	return &card, nil
}

// GetLegality fetches the per-format legality record for a card.
func (s *ScryfallService) GetLegality(ctx context.Context, id string) (models.CardLegality, error) {
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.Legalities == nil {
		return models.CardLegality{}, nil
	}
	return card.Legalities, nil
}
