package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"dinner-planner/internal/app"
	"dinner-planner/internal/config"
	"dinner-planner/internal/database"
	"dinner-planner/internal/grocer"
	"dinner-planner/internal/household"
	"dinner-planner/internal/llm"
	"dinner-planner/internal/metrics"
	"dinner-planner/internal/planner"
	"dinner-planner/internal/recipe"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	householdClient := household.NewClient(cfg)
	scraperClient := grocer.NewClient(cfg)

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	// Groq does the page extraction, Gemini covers for it when it is down.
	pageScraper := grocer.NewScraper(llm.NewGroqClient(cfg), geminiClient)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	priceRepo := grocer.NewPriceRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	application := app.NewApp(
		householdClient,
		scraperClient,
		pageScraper,
		metricsStore,
		cfg,
		db,
		recipeRepo,
		priceRepo,
		planRepo,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync-recipes":
		n, err := application.SyncRecipes(ctx)
		if err != nil {
			log.Fatalf("Recipe sync failed: %v", err)
		}
		fmt.Printf("Cached %d recipes from the household service.\n", n)
	case "refresh-prices":
		refreshCmd := flag.NewFlagSet("refresh-prices", flag.ExitOnError)
		store := refreshCmd.String("store", cfg.DefaultStore, "Store to refresh prices for")
		zip := refreshCmd.String("zip", cfg.DefaultZipCode, "Zipcode to search near")
		refreshCmd.Parse(os.Args[2:])

		n, err := application.RefreshPrices(ctx, *store, *zip)
		if err != nil {
			log.Fatalf("Price refresh failed: %v", err)
		}
		fmt.Printf("Cached %d ingredient prices for %s.\n", n, *store)
	case "scrape-page":
		scrapeCmd := flag.NewFlagSet("scrape-page", flag.ExitOnError)
		store := scrapeCmd.String("store", cfg.DefaultStore, "Store the page belongs to")
		scrapeCmd.Parse(os.Args[2:])
		if scrapeCmd.NArg() < 1 {
			log.Fatal("scrape-page requires a page URL")
		}

		n, err := application.ScrapeStorePage(ctx, *store, scrapeCmd.Arg(0))
		if err != nil {
			log.Fatalf("Page scrape failed: %v", err)
		}
		fmt.Printf("Extracted %d prices for %s.\n", n, *store)
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		store := planCmd.String("store", cfg.DefaultStore, "Store to price the basket at")
		user := planCmd.String("user", "default_user", "User to plan for")
		planCmd.Parse(os.Args[2:])

		plan, err := application.GeneratePlan(ctx, *user, *store)
		if err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}

		fmt.Println("\n=== WEEKLY DINNER PLAN ===")
		for _, day := range plan.Days {
			fmt.Printf("Day %d: %s\n", day.Day+1, day.Title)
		}
		fmt.Printf("\nBasket total at %s: $%.2f\n", plan.Store, plan.Total)
		fmt.Println(plan.Explanation)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: dinner-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  sync-recipes       Fetch the recipe catalog from the household service")
	fmt.Println("  refresh-prices     Pull a store price catalog from the scraper service")
	fmt.Println("  scrape-page        Extract prices from a store page with the LLM scraper")
	fmt.Println("  plan               Generate and print a weekly dinner plan")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
