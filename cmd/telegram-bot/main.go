package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinner-planner/internal/app"
	"dinner-planner/internal/config"
	"dinner-planner/internal/database"
	"dinner-planner/internal/grocer"
	"dinner-planner/internal/household"
	"dinner-planner/internal/llm"
	"dinner-planner/internal/metrics"
	"dinner-planner/internal/planner"
	"dinner-planner/internal/recipe"
	"dinner-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize Infrastructure
	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	priceRepo := grocer.NewPriceRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 3. Initialize external service clients
	householdClient := household.NewClient(cfg)
	scraperClient := grocer.NewClient(cfg)
	pageScraper := grocer.NewScraper(llm.NewGroqClient(cfg), geminiClient)

	// 4. Initialize Services
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

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, scraperClient, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
