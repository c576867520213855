package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/config"
	"menu-planner/internal/database"
	"menu-planner/internal/grocer"
	"menu-planner/internal/llm"
	"menu-planner/internal/plan"
	"menu-planner/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// The grocery service is optional; without a key the adapter
	// reports it as unavailable and everything else keeps working.
	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	}

	state := storage.NewStateStore(db.SQL)
	application := app.NewApp(state, grocer.NewAdapter(textGen), time.Now())
	if err := application.Load(ctx); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "week":
		printWeek(application)
	case "day":
		key := plan.DateKey(application.Window()[0])
		if len(os.Args) > 2 {
			key = os.Args[2]
		}
		printDay(application, key)
	case "set":
		if err := runSet(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Set failed: %v", err)
		}
	case "list":
		printList(application)
	case "check":
		if err := runCheck(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Check failed: %v", err)
		}
	case "add":
		if err := runAdd(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Add failed: %v", err)
		}
	case "remove":
		if err := runRemove(ctx, application, os.Args[2:]); err != nil {
			log.Fatalf("Remove failed: %v", err)
		}
	case "new-week":
		if err := application.StartNewCycle(ctx, time.Now()); err != nil {
			log.Fatalf("Failed to start new week: %v", err)
		}
		fmt.Printf("New week started. The calendar now begins %s.\n", plan.DateKey(application.Window()[0]))
	case "history":
		printHistory(application)
	case "grocery":
		printGrocery(ctx, application)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: menu-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  week                                    Show the current 7-day window")
	fmt.Println("  day [YYYY-MM-DD]                        Show one day's meals")
	fmt.Println("  set <date> <meal> <items|notes> <text>  Edit a meal slot")
	fmt.Println("  list                                    Show the shopping list")
	fmt.Println("  check <n>                               Toggle item n on the list")
	fmt.Println("  add <text>                              Add a manual shopping item")
	fmt.Println("  remove <n>                              Remove manual item n")
	fmt.Println("  new-week                                Archive this week and start the next")
	fmt.Println("  history                                 Show archived weeks")
	fmt.Println("  grocery                                 Generate a categorized grocery list")
}

func printWeek(a *app.App) {
	for _, day := range a.Window() {
		key := plan.DateKey(day)
		record := a.Day(key)
		filled := 0
		for _, meal := range plan.MealTypes {
			e := record.Entry(meal)
			if strings.TrimSpace(e.Items) != "" || strings.TrimSpace(e.Notes) != "" {
				filled++
			}
		}
		fmt.Printf("%s %s  %d/4 meals planned\n", key, day.Weekday().String()[:3], filled)
	}
}

func printDay(a *app.App, key string) {
	record := a.Day(key)
	fmt.Printf("=== %s ===\n", key)
	for _, meal := range plan.MealTypes {
		e := record.Entry(meal)
		fmt.Printf("\n%s:\n", meal)
		if strings.TrimSpace(e.Items) == "" && strings.TrimSpace(e.Notes) == "" {
			fmt.Println("  (empty)")
			continue
		}
		for _, line := range strings.Split(e.Items, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Printf("  - %s\n", strings.TrimSpace(line))
			}
		}
		if strings.TrimSpace(e.Notes) != "" {
			fmt.Printf("  note: %s\n", e.Notes)
		}
	}
}

func runSet(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: set <date> <meal> <items|notes> <text>")
	}
	meal, err := parseMeal(args[1])
	if err != nil {
		return err
	}
	field := plan.FieldItems
	if strings.EqualFold(args[2], "notes") {
		field = plan.FieldNotes
	}
	// Literal \n in the argument becomes a real newline, one shopping
	// line per row.
	value := strings.ReplaceAll(strings.Join(args[3:], " "), `\n`, "\n")
	return a.SetMeal(ctx, args[0], meal, field, value)
}

func parseMeal(s string) (plan.MealType, error) {
	for _, meal := range plan.MealTypes {
		if strings.EqualFold(s, string(meal)) {
			return meal, nil
		}
	}
	return "", fmt.Errorf("unknown meal %q (want Breakfast, Lunch, Dinner or Snack)", s)
}

func printList(a *app.App) {
	items := a.ShoppingList()
	if len(items) == 0 {
		fmt.Println("Your list is empty. Enter one item per line in your meal plan, or add extras.")
		return
	}
	for i, item := range items {
		mark := "[ ]"
		if item.Checked {
			mark = "[x]"
		}
		tag := ""
		if item.IsManual {
			tag = " (manual)"
		}
		fmt.Printf("%2d. %s %s%s\n", i+1, mark, item.Text, tag)
	}
}

func runCheck(ctx context.Context, a *app.App, args []string) error {
	items := a.ShoppingList()
	idx, err := parseIndex(args, len(items))
	if err != nil {
		return err
	}
	if err := a.ToggleChecked(ctx, items[idx].ID); err != nil {
		return err
	}
	printList(a)
	return nil
}

func runAdd(ctx context.Context, a *app.App, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("usage: add <text>")
	}
	if _, err := a.AddManualItem(ctx, text); err != nil {
		return err
	}
	printList(a)
	return nil
}

func runRemove(ctx context.Context, a *app.App, args []string) error {
	manual := a.ManualItems()
	idx, err := parseIndex(args, len(manual))
	if err != nil {
		return err
	}
	if err := a.RemoveManualItem(ctx, manual[idx].ID); err != nil {
		return err
	}
	printList(a)
	return nil
}

func parseIndex(args []string, length int) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing item number")
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 1 || n > length {
		return 0, fmt.Errorf("item number must be between 1 and %d", length)
	}
	return n - 1, nil
}

func printHistory(a *app.App) {
	entries := a.History()
	if len(entries) == 0 {
		fmt.Println("No archived weeks yet.")
		return
	}
	for _, e := range entries {
		start, _ := time.Parse(time.RFC3339, e.StartDate)
		end, _ := time.Parse(time.RFC3339, e.EndDate)
		fmt.Printf("%s -> %s  (%d days planned)\n",
			start.Format("2006-01-02"), end.Format("2006-01-02"), len(e.Plan))
	}
}

func printGrocery(ctx context.Context, a *app.App) {
	fmt.Println("Planning your groceries...")
	result := a.GenerateGroceryList(ctx)

	switch result.Status {
	case grocer.StatusUnavailable:
		fmt.Println("The grocery service is unavailable (is GEMINI_API_KEY set?). Nothing was changed.")
		return
	case grocer.StatusMalformed:
		fmt.Println("The grocery service returned something unreadable. No items produced.")
		return
	}
	if len(result.Items) == 0 {
		fmt.Println("No items yet. Add some meals!")
		return
	}

	var order []string
	grouped := make(map[string][]grocer.Item)
	for _, item := range result.Items {
		if _, ok := grouped[item.Category]; !ok {
			order = append(order, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	for _, category := range order {
		fmt.Printf("\n%s:\n", category)
		for _, item := range grouped[category] {
			fmt.Printf("  - %s\n", item.Item)
		}
	}
}
