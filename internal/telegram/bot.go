package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"dinner-planner/internal/app"
	"dinner-planner/internal/config"
	"dinner-planner/internal/grocer"
	"dinner-planner/internal/metrics"
	"dinner-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Bot wraps the Telegram API around the planner application.
type Bot struct {
	api           *tgbotapi.BotAPI
	application   *app.App
	scraperClient grocer.Client
	metricsStore  *metrics.Store
	cfg           *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	application *app.App,
	scraperClient grocer.Client,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:           bot,
		application:   application,
		scraperClient: scraperClient,
		metricsStore:  metricsStore,
		cfg:           cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/metrics":
		b.handleMetricsRequest(msg)
	case strings.HasPrefix(text, "/prices"):
		b.handlePricesRequest(msg, strings.TrimSpace(strings.TrimPrefix(text, "/prices")))
	case strings.HasPrefix(text, "/plan"):
		b.handlePlanRequest(msg, strings.TrimSpace(strings.TrimPrefix(text, "/plan")))
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			"Commands:\n/plan [store] - weekly dinner plan\n/prices <item> - compare store prices\n/metrics - usage (admin)")
		b.api.Send(reply)
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message, store string) {
	if store == "" {
		store = b.cfg.DefaultStore
	}

	statusText := fmt.Sprintf("🧑‍🍳 *Planning your week at %s...*", store)
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	plan, err := b.application.GeneratePlan(ctx, userID, store)
	var finalText string
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
	} else {
		finalText = formatPlan(plan)
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePricesRequest(msg *tgbotapi.Message, term string) {
	if term == "" {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Usage: /prices <item>"))
		return
	}

	ctx := context.Background()
	items, err := b.scraperClient.Search(ctx, term, b.cfg.DefaultZipCode)
	if err != nil {
		log.Printf("Error searching prices: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("❌ Price search failed: %v", err)))
		return
	}
	if len(items) == 0 {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("No prices found for %q.", term)))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Prices for %s:*\n", term)
	for _, item := range items {
		fmt.Fprintf(&sb, "%s: $%.2f (%g %s) at %s\n", item.Name, item.Price, item.PackageQty, item.PackageUnit, item.Provider)
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.TelegramAdminID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("❌ Failed to load metrics: %v", err)))
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("*Usage (last 7 days):*\n")
	if len(usage) == 0 {
		sb.WriteString("no executions recorded\n")
	}
	for _, u := range usage {
		fmt.Fprintf(&sb, "%s: %d runs, %d prompt / %d completion tokens\n",
			u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion)
	}
	fmt.Fprintf(&sb, "\n*System:* %d goroutines, %d MB alloc, data %s",
		health.Goroutines, health.AllocMB, health.DataDiskSize)

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

// formatPlan renders a week plan as a Telegram Markdown message.
func formatPlan(plan *planner.WeekPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ *Your week at %s*\n\n", plan.Store)

	for _, day := range plan.Days {
		name := fmt.Sprintf("Day %d", day.Day+1)
		if day.Day < len(dayNames) {
			name = dayNames[day.Day]
		}
		fmt.Fprintf(&sb, "*%s*: %s\n", name, day.Title)
	}

	if len(plan.Days) == 0 {
		sb.WriteString("_No recipes available to plan._\n")
	}

	fmt.Fprintf(&sb, "\n*Basket total:* $%.2f\n", plan.Total)

	if len(plan.Basket.ItemCosts) > 0 {
		sb.WriteString("\n*Shopping list:*\n")
		names := make([]string, 0, len(plan.Basket.ItemCosts))
		for name := range plan.Basket.ItemCosts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "- %s: $%.2f\n", name, plan.Basket.ItemCosts[name])
		}
	}

	fmt.Fprintf(&sb, "\n_%s_", plan.Explanation)
	return sb.String()
}
