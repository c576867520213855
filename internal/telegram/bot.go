package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/config"
	"menu-planner/internal/grocer"
	"menu-planner/internal/plan"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the planner application.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
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

	return &Bot{api: bot, app: application, cfg: cfg}, nil
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

	if !b.authorized(update.Message) {
		return
	}

	b.processMessage(update.Message)
}

// authorized checks the sender against the allow list. From is nil for
// channel posts and anonymous group admins; those can never match.
func (b *Bot) authorized(msg *tgbotapi.Message) bool {
	if msg.From == nil {
		return false
	}
	if msg.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", msg.From.ID, msg.From.UserName)
		return false
	}
	return true
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}
	ctx := context.Background()

	switch fields[0] {
	case "/start", "/help":
		b.reply(msg.Chat.ID, usageText)
	case "/week":
		b.reply(msg.Chat.ID, b.renderWeek())
	case "/day":
		b.handleDay(msg.Chat.ID, fields[1:])
	case "/set":
		b.handleSet(ctx, msg.Chat.ID, msg.Text)
	case "/list":
		b.reply(msg.Chat.ID, b.renderList())
	case "/check":
		b.handleCheck(ctx, msg.Chat.ID, fields[1:])
	case "/add":
		b.handleAdd(ctx, msg.Chat.ID, msg.Text)
	case "/remove":
		b.handleRemove(ctx, msg.Chat.ID, fields[1:])
	case "/newweek":
		b.handleNewWeek(ctx, msg.Chat.ID)
	case "/history":
		b.reply(msg.Chat.ID, b.renderHistory())
	case "/grocery":
		b.handleGrocery(msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for usage.")
	}
}

const usageText = `🍽 *Menu Planner*

/week - show the current 7-day window
/day [YYYY-MM-DD] - show one day's meals
/set <date> <meal> <items|notes> <text> - edit a slot
/list - show the shopping list
/check <n> - toggle item n on the list
/add <text> - add a manual shopping item
/remove <n> - remove manual item n
/newweek - archive this week and start the next
/history - show archived weeks
/grocery - generate a categorized grocery list`

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

func (b *Bot) renderWeek() string {
	var sb strings.Builder
	sb.WriteString("*This week:*\n")
	for _, day := range b.app.Window() {
		key := plan.DateKey(day)
		record := b.app.Day(key)
		filled := 0
		for _, meal := range plan.MealTypes {
			e := record.Entry(meal)
			if strings.TrimSpace(e.Items) != "" || strings.TrimSpace(e.Notes) != "" {
				filled++
			}
		}
		fmt.Fprintf(&sb, "%s %s — %d/4 meals planned\n", key, day.Weekday().String()[:3], filled)
	}
	return sb.String()
}

func (b *Bot) handleDay(chatID int64, args []string) {
	key := plan.DateKey(b.app.Window()[0])
	if len(args) > 0 {
		key = args[0]
	}
	record := b.app.Day(key)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", key)
	for _, meal := range plan.MealTypes {
		e := record.Entry(meal)
		fmt.Fprintf(&sb, "\n*%s*\n", meal)
		if strings.TrimSpace(e.Items) == "" && strings.TrimSpace(e.Notes) == "" {
			sb.WriteString("_empty_\n")
			continue
		}
		if e.Items != "" {
			fmt.Fprintf(&sb, "%s\n", e.Items)
		}
		if e.Notes != "" {
			fmt.Fprintf(&sb, "📝 %s\n", e.Notes)
		}
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleSet(ctx context.Context, chatID int64, text string) {
	// /set <date> <meal> <items|notes> <free text...>
	parts := strings.SplitN(text, " ", 5)
	if len(parts) < 5 {
		b.reply(chatID, "Usage: /set <YYYY-MM-DD> <Breakfast|Lunch|Dinner|Snack> <items|notes> <text>")
		return
	}
	dateKey := parts[1]

	var meal plan.MealType
	switch strings.ToLower(parts[2]) {
	case "breakfast":
		meal = plan.Breakfast
	case "lunch":
		meal = plan.Lunch
	case "dinner":
		meal = plan.Dinner
	case "snack":
		meal = plan.Snack
	default:
		b.reply(chatID, "Meal must be one of Breakfast, Lunch, Dinner, Snack.")
		return
	}

	field := plan.FieldItems
	if strings.ToLower(parts[3]) == "notes" {
		field = plan.FieldNotes
	}

	// Multi-line entries arrive with literal \n from mobile keyboards.
	value := strings.ReplaceAll(parts[4], `\n`, "\n")
	if err := b.app.SetMeal(ctx, dateKey, meal, field, value); err != nil {
		log.Printf("Failed to save meal: %v", err)
		b.reply(chatID, "❌ Failed to save, try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Saved %s %s.", dateKey, meal))
}

func (b *Bot) renderList() string {
	items := b.app.ShoppingList()
	if len(items) == 0 {
		return "Your list is empty. Enter one item per line in your meal plan, or /add extras."
	}
	var sb strings.Builder
	sb.WriteString("*Shopping list:*\n")
	for i, item := range items {
		mark := "◻️"
		if item.Checked {
			mark = "✅"
		}
		tag := ""
		if item.IsManual {
			tag = " ✏️"
		}
		fmt.Fprintf(&sb, "%d. %s %s%s\n", i+1, mark, item.Text, tag)
	}
	return sb.String()
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64, args []string) {
	items := b.app.ShoppingList()
	idx, ok := parseIndex(args, len(items))
	if !ok {
		b.reply(chatID, "Usage: /check <n> (see /list for numbers)")
		return
	}
	if err := b.app.ToggleChecked(ctx, items[idx].ID); err != nil {
		log.Printf("Failed to toggle item: %v", err)
		b.reply(chatID, "❌ Failed to save, try again.")
		return
	}
	b.reply(chatID, b.renderList())
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, text string) {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		b.reply(chatID, "Usage: /add <item>")
		return
	}
	if _, err := b.app.AddManualItem(ctx, strings.TrimSpace(parts[1])); err != nil {
		log.Printf("Failed to add item: %v", err)
		b.reply(chatID, "❌ Failed to save, try again.")
		return
	}
	b.reply(chatID, b.renderList())
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args []string) {
	manual := b.app.ManualItems()
	idx, ok := parseIndex(args, len(manual))
	if !ok {
		b.reply(chatID, "Usage: /remove <n>, where n counts your ✏️ items top to bottom.")
		return
	}
	if err := b.app.RemoveManualItem(ctx, manual[idx].ID); err != nil {
		log.Printf("Failed to remove item: %v", err)
		b.reply(chatID, "❌ Failed to save, try again.")
		return
	}
	b.reply(chatID, b.renderList())
}

func (b *Bot) handleNewWeek(ctx context.Context, chatID int64) {
	if err := b.app.StartNewCycle(ctx, time.Now()); err != nil {
		log.Printf("Failed to start new cycle: %v", err)
		b.reply(chatID, "❌ Failed to start the new week, nothing was changed.")
		return
	}
	start := plan.DateKey(b.app.Window()[0])
	b.reply(chatID, fmt.Sprintf("🗓 New week started! The board is clear and the calendar now begins %s.", start))
}

func (b *Bot) renderHistory() string {
	entries := b.app.History()
	if len(entries) == 0 {
		return "No archived weeks yet."
	}
	var sb strings.Builder
	sb.WriteString("*Archived weeks:*\n")
	for _, e := range entries {
		start, _ := time.Parse(time.RFC3339, e.StartDate)
		end, _ := time.Parse(time.RFC3339, e.EndDate)
		fmt.Fprintf(&sb, "• %s → %s (%d days planned)\n",
			start.Format("Jan 2"), end.Format("Jan 2, 2006"), len(e.Plan))
	}
	return sb.String()
}

func (b *Bot) handleGrocery(chatID int64) {
	statusMsg := tgbotapi.NewMessage(chatID, "🛒 *Planning your groceries...*")
	statusMsg.ParseMode = "Markdown"
	sent, err := b.api.Send(statusMsg)
	if err != nil {
		log.Printf("Failed to send status message: %v", err)
		return
	}

	// The generation can take a while; run it off the handler. The app
	// snapshots the plan under its lock before contacting the service,
	// and the result only edits the status message, so edits sent
	// while it runs neither race nor get clobbered.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result := b.app.GenerateGroceryList(ctx)
		edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, renderGroceryResult(result))
		edit.ParseMode = "Markdown"
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("Failed to edit status message: %v", err)
		}
	}()
}

func renderGroceryResult(result grocer.Result) string {
	switch result.Status {
	case grocer.StatusUnavailable:
		return "⚠️ The grocery service is unavailable right now. Your plan and list are untouched."
	case grocer.StatusMalformed:
		return "⚠️ The grocery service returned something unreadable. No items produced."
	}
	if len(result.Items) == 0 {
		return "No items yet. Add some meals!"
	}

	// Group by category, preserving first-seen category order.
	var order []string
	grouped := make(map[string][]grocer.Item)
	for _, item := range result.Items {
		if _, ok := grouped[item.Category]; !ok {
			order = append(order, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery list:*\n")
	for _, category := range order {
		fmt.Fprintf(&sb, "\n*%s*\n", category)
		for _, item := range grouped[category] {
			fmt.Fprintf(&sb, "• %s\n", item.Item)
		}
	}
	return sb.String()
}

func parseIndex(args []string, length int) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > length {
		return 0, false
	}
	return n - 1, true
}
