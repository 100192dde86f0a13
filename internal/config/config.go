package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FillPolicy controls what happens when the recipe catalog is smaller than
// the number of days to plan.
type FillPolicy string

const (
	// FillRepeat pads the plan with the cheapest recipes again until the
	// target day count is reached.
	FillRepeat FillPolicy = "repeat"
	// FillCap caps the plan at the catalog size.
	FillCap FillPolicy = "cap"
)

// Config holds the configuration for the application.
type Config struct {
	HouseholdURL      string
	HouseholdAdminKey string

	ScraperURL string

	GeminiAPIKey string
	GroqAPIKey   string

	DatabasePath string

	DefaultStore   string
	DefaultZipCode string
	PlanDays       int
	FillPolicy     FillPolicy

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	TelegramAdminID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	householdURL := os.Getenv("HOUSEHOLD_API_URL")
	if householdURL == "" {
		return nil, fmt.Errorf("HOUSEHOLD_API_URL environment variable not set")
	}

	householdAdminKey := os.Getenv("HOUSEHOLD_ADMIN_API_KEY")
	if householdAdminKey == "" {
		return nil, fmt.Errorf("HOUSEHOLD_ADMIN_API_KEY environment variable not set")
	}

	scraperURL := os.Getenv("SCRAPER_API_URL")
	if scraperURL == "" {
		return nil, fmt.Errorf("SCRAPER_API_URL environment variable not set")
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/dinner-planner.db"
	}

	defaultStore := os.Getenv("DEFAULT_STORE")
	if defaultStore == "" {
		defaultStore = "Walmart"
	}

	defaultZip := os.Getenv("DEFAULT_ZIP_CODE")
	if defaultZip == "" {
		defaultZip = "47906"
	}

	planDays := 7
	if v := os.Getenv("PLAN_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("PLAN_DAYS must be a positive integer, got %q", v)
		}
		planDays = n
	}

	fillPolicy := FillRepeat
	if v := os.Getenv("PLAN_FILL_POLICY"); v != "" {
		switch FillPolicy(v) {
		case FillRepeat, FillCap:
			fillPolicy = FillPolicy(v)
		default:
			return nil, fmt.Errorf("PLAN_FILL_POLICY must be %q or %q, got %q", FillRepeat, FillCap, v)
		}
	}

	// Telegram Config (Optional for CLI, required for Bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if raw := os.Getenv("TELEGRAM_ADMIN_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_ID must be an integer, got %q", raw)
		}
		adminID = id
	}

	return &Config{
		HouseholdURL:           householdURL,
		HouseholdAdminKey:      householdAdminKey,
		ScraperURL:             scraperURL,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		DatabasePath:           databasePath,
		DefaultStore:           defaultStore,
		DefaultZipCode:         defaultZip,
		PlanDays:               planDays,
		FillPolicy:             fillPolicy,
		TelegramBotToken:       telegramBotToken,
		TelegramWebhookURL:     telegramWebhookURL,
		TelegramAllowedUserIDs: allowedIDs,
		TelegramAdminID:        adminID,
	}, nil
}
