package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dinner-planner/internal/config"
	"dinner-planner/internal/database"
	"dinner-planner/internal/grocer"
	"dinner-planner/internal/household"
	"dinner-planner/internal/metrics"
	"dinner-planner/internal/planner"
	"dinner-planner/internal/recipe"
	"dinner-planner/internal/shopping"
)

// priceCacheMaxAge is how old a cached store catalog may be before plan
// generation warns about stale prices.
const priceCacheMaxAge = 7 * 24 * time.Hour

// App holds the application's dependencies.
type App struct {
	householdClient household.Client
	scraperClient   grocer.Client
	pageScraper     *grocer.Scraper
	metricsStore    *metrics.Store
	cfg             *config.Config

	db         *database.DB
	recipeRepo *recipe.Repository
	priceRepo  *grocer.PriceRepository
	planRepo   *planner.PlanRepository
}

// NewApp creates and initializes a new App instance.
func NewApp(
	householdClient household.Client,
	scraperClient grocer.Client,
	pageScraper *grocer.Scraper,
	metricsStore *metrics.Store,
	cfg *config.Config,
	db *database.DB,
	recipeRepo *recipe.Repository,
	priceRepo *grocer.PriceRepository,
	planRepo *planner.PlanRepository,
) *App {
	return &App{
		householdClient: householdClient,
		scraperClient:   scraperClient,
		pageScraper:     pageScraper,
		metricsStore:    metricsStore,
		cfg:             cfg,
		db:              db,
		recipeRepo:      recipeRepo,
		priceRepo:       priceRepo,
		planRepo:        planRepo,
	}
}

// SyncRecipes fetches the recipe catalog from the household service and
// caches it locally.
func (a *App) SyncRecipes(ctx context.Context) (int, error) {
	recipes, err := a.householdClient.FetchRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recipes from household service: %w", err)
	}

	saved := 0
	for _, rec := range recipes {
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			log.Printf("Failed to save recipe '%s': %v", rec.Title, err)
			continue
		}
		saved++
	}
	return saved, nil
}

// RefreshPrices pulls a fresh price catalog for one store from the scraper
// service, searching every ingredient the cached recipe catalog mentions,
// and persists it.
func (a *App) RefreshPrices(ctx context.Context, store, zipCode string) (int, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list cached recipes: %w", err)
	}
	if len(recipes) == 0 {
		if _, err := a.SyncRecipes(ctx); err != nil {
			return 0, err
		}
		if recipes, err = a.recipeRepo.List(ctx); err != nil {
			return 0, fmt.Errorf("failed to list cached recipes: %w", err)
		}
	}

	names := ingredientNames(recipes)
	log.Printf("Refreshing %d ingredient prices for %s (zip %s)", len(names), store, zipCode)

	catalog, err := a.scraperClient.BuildCatalog(ctx, store, zipCode, names)
	if err != nil {
		return 0, fmt.Errorf("failed to build catalog for %s: %w", store, err)
	}

	if err := a.priceRepo.SaveCatalog(ctx, catalog); err != nil {
		return 0, err
	}
	return catalog.Len(), nil
}

// ScrapeStorePage extracts prices from a store search-result page with the
// LLM-backed scraper and merges them into the price cache for that store.
// Used for stores the scraper service has no structured feed for.
func (a *App) ScrapeStorePage(ctx context.Context, store, pageURL string) (int, error) {
	items, meta, err := a.pageScraper.ScrapePage(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to scrape %s: %w", pageURL, err)
	}

	if err := a.metricsStore.RecordMeta(meta); err != nil {
		log.Printf("Warning: failed to record scrape metrics: %v", err)
	}

	catalog := grocer.NewCatalog(store)
	for _, item := range items {
		catalog.Put(item.Name, grocer.Entry{
			UnitPrice:   item.Price,
			PackageQty:  item.PackageQty,
			PackageUnit: item.PackageUnit,
		})
	}
	if err := a.priceRepo.SaveCatalog(ctx, catalog); err != nil {
		return 0, err
	}
	return catalog.Len(), nil
}

// GeneratePlan runs the weekly planning pipeline for one user and store:
// cached recipe catalog, live pantry snapshot, cached store prices. The
// resulting plan is persisted and returned.
func (a *App) GeneratePlan(ctx context.Context, userID, store string) (*planner.WeekPlan, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached recipes: %w", err)
	}
	if len(recipes) == 0 {
		if _, err := a.SyncRecipes(ctx); err != nil {
			return nil, err
		}
		if recipes, err = a.recipeRepo.List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list cached recipes: %w", err)
		}
	}

	entries, err := a.householdClient.FetchPantry(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pantry: %w", err)
	}

	catalog, scrapedAt, err := a.priceRepo.LoadCatalog(ctx, store)
	if err != nil {
		return nil, err
	}
	if catalog.Len() == 0 {
		log.Printf("Warning: no cached prices for %s; basket will be empty", store)
	} else if time.Since(scrapedAt) > priceCacheMaxAge {
		log.Printf("Warning: prices for %s last scraped %s", store, scrapedAt.Format("2006-01-02"))
	}

	plan := planner.BuildWeekPlan(recipes, entries, catalog, a.cfg.PlanDays, planner.FillPolicy(a.cfg.FillPolicy))

	planJSON, err := json.Marshal(plan)
	if err != nil {
		log.Printf("Warning: failed to marshal plan for saving: %v", err)
	} else if err := a.planRepo.Save(ctx, userID, store, planJSON); err != nil {
		log.Printf("Warning: failed to save plan: %v", err)
	}

	return &plan, nil
}

// ingredientNames collects the distinct normalized ingredient names across
// a recipe catalog, in first-seen order.
func ingredientNames(recipes []recipe.Recipe) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			key := shopping.Key(ing.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, key)
		}
	}
	return names
}
