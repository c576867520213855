package grocer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"menu-planner/internal/plan"
)

type mockTextGenerator struct {
	response string
	err      error
	called   bool
	prompt   string
}

func (m *mockTextGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.called = true
	m.prompt = prompt
	return m.response, m.err
}

func contentfulPlan() plan.WeeklyPlan {
	return plan.WeeklyPlan{
		"2025-04-07": {
			Breakfast: plan.MealEntry{Items: "eggs\ntoast"},
		},
		"2025-04-06": {
			Dinner: plan.MealEntry{Items: "pasta"},
			Snack:  plan.MealEntry{Notes: "leftover cookies"},
		},
	}
}

func TestBuildRequest(t *testing.T) {
	prompt, ok := BuildRequest(contentfulPlan())
	if !ok {
		t.Fatal("Expected a prompt for a plan with content")
	}

	if !strings.Contains(prompt, "On 2025-04-06: Dinner: pasta, Snack: leftover cookies") {
		t.Errorf("Prompt missing first day line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "On 2025-04-07: Breakfast: eggs\ntoast") {
		t.Errorf("Prompt missing second day line:\n%s", prompt)
	}
	// Days must come out in ascending date order.
	if strings.Index(prompt, "2025-04-06") > strings.Index(prompt, "2025-04-07") {
		t.Error("Days are not in ascending order in the prompt")
	}
}

func TestBuildRequestEmptyPlan(t *testing.T) {
	blank := plan.WeeklyPlan{
		"2025-04-06": {Lunch: plan.MealEntry{Items: "   ", Notes: "\n"}},
	}
	if _, ok := BuildRequest(blank); ok {
		t.Error("Expected no prompt for a blank plan")
	}
}

func TestGenerateSkipsServiceForEmptyPlan(t *testing.T) {
	mock := &mockTextGenerator{response: `{"items":[]}`}
	adapter := NewAdapter(mock)

	res := adapter.Generate(context.Background(), plan.WeeklyPlan{})
	if res.Status != StatusOK || len(res.Items) != 0 {
		t.Errorf("Expected empty OK result, got %+v", res)
	}
	if mock.called {
		t.Error("Service was contacted for an empty plan")
	}
}

func TestGenerateSuccess(t *testing.T) {
	mock := &mockTextGenerator{
		response: `{"items":[{"item":"Eggs","category":"Dairy"},{"item":"Pasta","category":"Pantry"}]}`,
	}
	adapter := NewAdapter(mock)

	res := adapter.Generate(context.Background(), contentfulPlan())
	if res.Status != StatusOK {
		t.Fatalf("Expected StatusOK, got %v", res.Status)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].Item != "Eggs" || res.Items[0].Category != "Dairy" {
		t.Errorf("Unexpected first item: %+v", res.Items[0])
	}
	if res.Items[0].Checked || res.Items[1].Checked {
		t.Error("Returned items must default to unchecked")
	}
}

func TestGenerateUnavailable(t *testing.T) {
	t.Run("NilClient", func(t *testing.T) {
		adapter := NewAdapter(nil)
		res := adapter.Generate(context.Background(), contentfulPlan())
		if res.Status != StatusUnavailable {
			t.Errorf("Expected StatusUnavailable, got %v", res.Status)
		}
	})

	t.Run("TransportError", func(t *testing.T) {
		adapter := NewAdapter(&mockTextGenerator{err: errors.New("connection refused")})
		res := adapter.Generate(context.Background(), contentfulPlan())
		if res.Status != StatusUnavailable || len(res.Items) != 0 {
			t.Errorf("Expected empty Unavailable result, got %+v", res)
		}
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("NotJSON", func(t *testing.T) {
		res := ParseResponse("sorry, I can't do that")
		if res.Status != StatusMalformed || len(res.Items) != 0 {
			t.Errorf("Expected empty Malformed result, got %+v", res)
		}
	})

	t.Run("MissingItemsKey", func(t *testing.T) {
		res := ParseResponse(`{"groceries": []}`)
		if res.Status != StatusOK {
			t.Errorf("Expected StatusOK for valid JSON without items, got %v", res.Status)
		}
		if res.Items == nil || len(res.Items) != 0 {
			t.Errorf("Expected empty non-nil items, got %+v", res.Items)
		}
	})

	t.Run("CodeFenced", func(t *testing.T) {
		res := ParseResponse("```json\n{\"items\":[{\"item\":\"Milk\",\"category\":\"Dairy\"}]}\n```")
		if res.Status != StatusOK || len(res.Items) != 1 {
			t.Errorf("Expected fenced JSON to parse, got %+v", res)
		}
	})
}
