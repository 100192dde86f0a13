package grocer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dinner-planner/internal/llm"
)

type mockTextGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.response}, nil
}

const storePage = `<html><head>
<script>var tracking = true;</script>
<style>.price { color: red; }</style>
</head><body>
<nav>Departments</nav>
<div class="product">Great Value Long Grain Rice, 5 lb - $3.48</div>
<div class="product">Black Beans, 15 oz can - $0.98</div>
<footer>Store hours</footer>
</body></html>`

func TestScrapePage(t *testing.T) {
	t.Run("ExtractsPricesFromPage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(storePage))
		}))
		defer server.Close()

		gen := &mockTextGenerator{
			response: `{"items": [
				{"name": "long grain rice", "price": 3.48, "package_qty": 5, "package_unit": "lb"},
				{"name": "black beans", "price": 0.98, "package_qty": 1, "package_unit": "can"}
			]}`,
		}
		scraper := NewScraper(gen, nil)

		prices, meta, err := scraper.ScrapePage(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(prices) != 2 {
			t.Fatalf("Expected 2 prices, got %d", len(prices))
		}
		if prices[0].Name != "long grain rice" || prices[0].Price != 3.48 {
			t.Errorf("Unexpected first price line: %+v", prices[0])
		}
		if meta.AgentName != "price-scraper" {
			t.Errorf("Expected agent name 'price-scraper', got %q", meta.AgentName)
		}
	})

	t.Run("StripsPageNoiseBeforePrompting", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(storePage))
		}))
		defer server.Close()

		gen := &mockTextGenerator{response: `{"items": []}`}
		scraper := NewScraper(gen, nil)

		if _, _, err := scraper.ScrapePage(context.Background(), server.URL); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if strings.Contains(gen.lastPrompt, "tracking") {
			t.Error("Expected script content stripped from the prompt")
		}
		if strings.Contains(gen.lastPrompt, "Departments") {
			t.Error("Expected nav content stripped from the prompt")
		}
		if !strings.Contains(gen.lastPrompt, "Great Value Long Grain Rice") {
			t.Error("Expected product text preserved in the prompt")
		}
	})

	t.Run("FetchErrorPropagated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		scraper := NewScraper(&mockTextGenerator{}, nil)
		if _, _, err := scraper.ScrapePage(context.Background(), server.URL); err == nil {
			t.Error("Expected an error for a 404 page")
		}
	})

	t.Run("GenerationErrorPropagated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(storePage))
		}))
		defer server.Close()

		scraper := NewScraper(&mockTextGenerator{err: errors.New("model unavailable")}, nil)
		if _, _, err := scraper.ScrapePage(context.Background(), server.URL); err == nil {
			t.Error("Expected the generation error to propagate")
		}
	})

	t.Run("FallbackCoversPrimaryFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(storePage))
		}))
		defer server.Close()

		primary := &mockTextGenerator{err: errors.New("model unavailable")}
		fallback := &mockTextGenerator{
			response: `{"items": [{"name": "black beans", "price": 0.98, "package_qty": 1, "package_unit": "can"}]}`,
		}
		scraper := NewScraper(primary, fallback)

		prices, _, err := scraper.ScrapePage(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Expected the fallback to cover the failure, got %v", err)
		}
		if len(prices) != 1 || prices[0].Name != "black beans" {
			t.Errorf("Unexpected fallback extraction: %+v", prices)
		}
		if fallback.lastPrompt == "" {
			t.Error("Expected the fallback generator to be invoked")
		}
	})

	t.Run("MalformedExtractionRejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(storePage))
		}))
		defer server.Close()

		scraper := NewScraper(&mockTextGenerator{response: "not json"}, nil)
		if _, _, err := scraper.ScrapePage(context.Background(), server.URL); err == nil {
			t.Error("Expected an error for a non-JSON extraction")
		}
	})
}
