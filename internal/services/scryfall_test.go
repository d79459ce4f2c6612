package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filters  SearchFilters
		expected string
	}{
		{"text only", "lightning", SearchFilters{}, "lightning"},
		{"format filter", "bolt", SearchFilters{Format: "modern"}, "bolt format:modern"},
		{"color filter", "bolt", SearchFilters{Colors: []string{"R", "G"}}, "bolt color:RG"},
		{
			"all filters",
			"dragon",
			SearchFilters{Format: "commander", Colors: []string{"R"}},
			"dragon format:commander color:R",
		},
		{"filters without text", "", SearchFilters{Format: "standard"}, "format:standard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildSearchQuery(tt.text, tt.filters); got != tt.expected {
				t.Errorf("BuildSearchQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestScryfallSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "lightning bolt" {
			t.Errorf("query = %q", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"abc","name":"Lightning Bolt","type_line":"Instant","mana_cost":"{R}","rarity":"common"}],"has_more":false}`))
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	results, err := service.Search(context.Background(), "lightning bolt")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Name != "Lightning Bolt" || results[0].TypeLine != "Instant" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestScryfallSearchNoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	results, err := service.Search(context.Background(), "zzzzz")
	if err != nil {
		t.Fatalf("Search() error = %v, want nil for empty result set", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestScryfallSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	if _, err := service.Search(context.Background(), "bolt"); err == nil {
		t.Error("Search() error = nil, want error for 500")
	}
}

func TestScryfallGetCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/abc-123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc-123","name":"Counterspell","legalities":{"modern":"not_legal","commander":"legal"}}`))
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	card, err := service.GetCard(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("GetCard() error = %v", err)
	}
	if card.Name != "Counterspell" {
		t.Errorf("Name = %q", card.Name)
	}
	if card.Legalities["commander"] != "legal" {
		t.Errorf("Legalities = %v", card.Legalities)
	}
}

func TestScryfallGetCardNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	_, err := service.GetCard(context.Background(), "missing")
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("GetCard() error = %v, want ErrCardNotFound", err)
	}
}

func TestScryfallGetLegality(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc","name":"Sol Ring","legalities":{"standard":"not_legal","commander":"legal"}}`))
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	legality, err := service.GetLegality(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetLegality() error = %v", err)
	}
	if legality["commander"] != "legal" || legality["standard"] != "not_legal" {
		t.Errorf("legality = %v", legality)
	}
}

func TestScryfallGetLegalityMissingBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc","name":"Odd Card"}`))
	}))
	defer server.Close()

	service := NewScryfallServiceWithBaseURL(server.URL)

	legality, err := service.GetLegality(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetLegality() error = %v", err)
	}
	if legality == nil {
		t.Error("legality is nil, want empty map")
	}
	if len(legality) != 0 {
		t.Errorf("legality = %v, want empty", legality)
	}
}
