package grocer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dinner-planner/internal/config"
)

// Stores supported by the scraper service.
var Stores = []string{"Target", "Kroger", "Meijer", "99Ranch", "Walmart"}

// Item is a single search result from the scraper service.
type Item struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PackageQty  float64 `json:"package_qty"`
	PackageUnit string  `json:"package_unit"`
	Provider    string  `json:"provider"`
}

// searchResponse is the top-level structure of the scraper API response.
type searchResponse struct {
	Results []Item `json:"results"`
}

// Client talks to the external grocery-scraper service.
type Client interface {
	Search(ctx context.Context, term, zipCode string) ([]Item, error)
	BuildCatalog(ctx context.Context, store, zipCode string, ingredients []string) (*Catalog, error)
}

type scraperClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new scraper service client.
func NewClient(cfg *config.Config) Client {
	return &scraperClient{
		// Scrapes fan out to several stores server-side; allow for that.
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    cfg.ScraperURL,
	}
}

// Search queries the scraper service for one search term across all stores
// near the given zipcode.
func (c *scraperClient) Search(ctx context.Context, term, zipCode string) ([]Item, error) {
	u := fmt.Sprintf("%s/grocery-search?searchTerm=%s&zipCode=%s",
		c.baseURL, url.QueryEscape(term), url.QueryEscape(zipCode))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper api error: status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return sr.Results, nil
}

// BuildCatalog assembles a store-scoped price catalog by searching each
// ingredient and keeping the first result from the requested store.
// Ingredients the scraper finds nothing for are left out of the catalog;
// the basket pricer treats them as unpriced.
func (c *scraperClient) BuildCatalog(ctx context.Context, store, zipCode string, ingredients []string) (*Catalog, error) {
	catalog := NewCatalog(store)
	for _, name := range ingredients {
		items, err := c.Search(ctx, name, zipCode)
		if err != nil {
			return nil, fmt.Errorf("search for %q failed: %w", name, err)
		}
		for _, item := range items {
			if item.Provider != store {
				continue
			}
			catalog.Put(name, Entry{
				UnitPrice:   item.Price,
				PackageQty:  item.PackageQty,
				PackageUnit: item.PackageUnit,
			})
			break
		}
	}
	return catalog, nil
}
