package llm

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantReason string
	}{
		{
			name: "bare object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "fenced json block",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "surrounding commentary",
			raw:  "Here is your plan:\n{\"meals\":[]}\nEnjoy!",
			want: `{"meals":[]}`,
		},
		{
			name: "nested braces",
			raw:  `prefix {"outer":{"inner":2}} suffix`,
			want: `{"outer":{"inner":2}}`,
		},
		{
			name:       "no json at all",
			raw:        "sure thing, no JSON here",
			wantReason: ReasonNoJSON,
		},
		{
			name:       "braces but invalid",
			raw:        `{"a": }`,
			wantReason: ReasonInvalidJSON,
		},
		{
			name:       "empty input",
			raw:        "",
			wantReason: ReasonNoJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantReason != "" {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				if parseErr.Reason != tt.wantReason {
					t.Errorf("reason = %q, want %q", parseErr.Reason, tt.wantReason)
				}
				if parseErr.Raw != tt.raw {
					t.Errorf("raw not preserved: %q", parseErr.Raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeStructured(t *testing.T) {
	raw := "```json\n" + `{
		"daily_meal_plan": {
			"total_calories": 2100,
			"meals": [
				{"meal_type": "breakfast", "name": "Oatmeal"},
				{"meal_type": "lunch", "name": "Chicken bowl"}
			]
		}
	}` + "\n```"

	sc, err := DecodeStructured(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.DailyMealPlan == nil {
		t.Fatal("expected a daily meal plan")
	}
	if sc.DailyMealPlan.TotalCalories != 2100 {
		t.Errorf("total calories = %v, want 2100", sc.DailyMealPlan.TotalCalories)
	}
	if len(sc.DailyMealPlan.Meals) != 2 {
		t.Errorf("got %d meals, want 2", len(sc.DailyMealPlan.Meals))
	}
}

func TestDecodeStructuredNoJSON(t *testing.T) {
	_, err := DecodeStructured("I could not produce a plan this time.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Raw == "" {
		t.Error("raw output should be preserved for diagnostics")
	}
}
