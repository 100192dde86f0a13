package grocer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"dinner-planner/internal/llm"
	"dinner-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// Scraper extracts prices directly from a store's search-result page for
// stores the scraper service has no structured feed for. The page is
// stripped down with goquery and handed to an LLM for extraction. When a
// fallback generator is set, it is tried after a primary failure.
type Scraper struct {
	httpClient *http.Client
	textGen    llm.TextGenerator
	fallback   llm.TextGenerator
}

// ScrapedPrice is one price line extracted from a store page.
type ScrapedPrice struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PackageQty  float64 `json:"package_qty"`
	PackageUnit string  `json:"package_unit"`
}

// NewScraper creates a new page scraper. fallback may be nil.
func NewScraper(textGen, fallback llm.TextGenerator) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		textGen:    textGen,
		fallback:   fallback,
	}
}

// ScrapePage fetches a search-result page and extracts price lines from it.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) ([]ScrapedPrice, shared.AgentMeta, error) {
	meta := shared.AgentMeta{AgentName: "price-scraper"}

	content, err := s.fetchAndCleanHTML(pageURL)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a grocery price extraction expert. Extract every product with a visible price from the following store search-result text.
Return the result strictly as a JSON object with this structure:
{
  "items": [
    {"name": "product name", "price": 2.99, "package_qty": 1, "package_unit": "lb"}
  ]
}
price is the package price in dollars. package_qty and package_unit describe the package size (e.g. 2 lb, 12 oz, 1 can). Use 1 and "each" when the page does not say.

Page Content:
%s
`, content)

	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil && s.fallback != nil {
		log.Printf("Warning: primary extraction model failed (%v), trying fallback", err)
		resp, err = s.fallback.GenerateContent(ctx, prompt)
	}
	meta.Latency = time.Since(start)
	meta.Usage = resp.Usage
	if err != nil {
		return nil, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted struct {
		Items []ScrapedPrice `json:"items"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}

	return extracted.Items, meta, nil
}

func (s *Scraper) fetchAndCleanHTML(pageURL string) (string, error) {
	resp, err := s.httpClient.Get(pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	return doc.Find("body").Text(), nil
}
