// Package grocer turns the weekly plan into a consolidated, categorized
// grocery list via an external text-generation service.
package grocer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"menu-planner/internal/llm"
	"menu-planner/internal/plan"
)

// Status tags the outcome of a list-generation request so callers must
// handle all three cases explicitly instead of testing for nil.
type Status int

const (
	// StatusOK means the service answered and Items holds the result
	// (possibly empty when the plan itself is empty).
	StatusOK Status = iota
	// StatusUnavailable means no client is configured or the request
	// failed in transport. Core stores are untouched.
	StatusUnavailable
	// StatusMalformed means the service answered with a payload that
	// could not be decoded.
	StatusMalformed
)

// Item is a single consolidated entry with its grocery-aisle category.
type Item struct {
	Item     string `json:"item"`
	Category string `json:"category"`
	Checked  bool   `json:"checked,omitempty"`
}

// Result is the tagged outcome of a generation request. Items is never
// nil for StatusOK.
type Result struct {
	Status Status
	Items  []Item
}

type response struct {
	Items []Item `json:"items"`
}

// Adapter wraps an optional TextGenerator. A nil generator is valid
// and yields StatusUnavailable for any non-empty plan.
type Adapter struct {
	textGen llm.TextGenerator
}

// NewAdapter creates an Adapter. Pass a nil generator when the service
// is not configured.
func NewAdapter(textGen llm.TextGenerator) *Adapter {
	return &Adapter{textGen: textGen}
}

// BuildRequest formats the plan into the service prompt. The second
// return value reports whether any slot survived the blank filter; on
// false the caller should skip the round trip entirely.
func BuildRequest(weekly plan.WeeklyPlan) (string, bool) {
	dateKeys := make([]string, 0, len(weekly))
	for k := range weekly {
		dateKeys = append(dateKeys, k)
	}
	sort.Strings(dateKeys)

	var activeDays []string
	for _, dateKey := range dateKeys {
		day := weekly[dateKey]
		var meals []string
		for _, meal := range plan.MealTypes {
			e := day.Entry(meal)
			value := strings.TrimSpace(e.Items)
			if value == "" {
				value = strings.TrimSpace(e.Notes)
			}
			if value == "" {
				continue
			}
			meals = append(meals, fmt.Sprintf("%s: %s", meal, value))
		}
		if len(meals) > 0 {
			activeDays = append(activeDays, fmt.Sprintf("On %s: %s", dateKey, strings.Join(meals, ", ")))
		}
	}

	if len(activeDays) == 0 {
		return "", false
	}

	prompt := fmt.Sprintf(`Based on the following weekly meal plan, create a consolidated shopping list.
Group similar items (e.g., "2 eggs" and "3 eggs" should become "5 eggs" or just "Eggs").
Categorize them into standard grocery store aisles (e.g., "Produce", "Dairy", "Meat", "Pantry").
Return the result strictly as a JSON object: {"items": [{"item": "...", "category": "..."}, ...]}.
Do not include any other text in your response.

Meal Plan:
%s
`, strings.Join(activeDays, "\n"))
	return prompt, true
}

// ParseResponse decodes the service payload. Malformed input fails
// soft: the caller gets a StatusMalformed result with zero items,
// never an error.
func ParseResponse(raw string) Result {
	cleaned := stripCodeFence(raw)

	var resp response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		log.Printf("Failed to parse shopping list response: %v", err)
		return Result{Status: StatusMalformed, Items: []Item{}}
	}
	if resp.Items == nil {
		resp.Items = []Item{}
	}
	// Items arrive unchecked; any cross-referencing against existing
	// checked state is the caller's concern.
	for i := range resp.Items {
		resp.Items[i].Checked = false
	}
	return Result{Status: StatusOK, Items: resp.Items}
}

// Generate runs the full request/response cycle. An empty plan returns
// an empty OK result without contacting the service. The adapter never
// retries; retry policy belongs to the caller.
func (a *Adapter) Generate(ctx context.Context, weekly plan.WeeklyPlan) Result {
	prompt, ok := BuildRequest(weekly)
	if !ok {
		return Result{Status: StatusOK, Items: []Item{}}
	}

	if a.textGen == nil {
		return Result{Status: StatusUnavailable, Items: []Item{}}
	}

	raw, err := a.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Shopping list generation failed: %v", err)
		return Result{Status: StatusUnavailable, Items: []Item{}}
	}
	return ParseResponse(raw)
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models add despite the JSON instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
