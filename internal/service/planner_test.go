package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
)

func newPlanner(t *testing.T, client *fakeClient) *PlannerService {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatal(err)
	}
	return NewPlannerService(client, log)
}

func TestSuggestMealRequiresGoal(t *testing.T) {
	client := &fakeClient{}
	svc := newPlanner(t, client)

	_, err := svc.SuggestMeal(context.Background(), model.SuggestMealRequest{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if client.calls != 0 {
		t.Errorf("model must not be called without a goal, got %d calls", client.calls)
	}
}

func TestSuggestMealDecodes(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + `{
		"meal_suggestion": {"name": "Tofu stir fry", "nutritional_info": {"calories": 520}}
	}` + "\n```"}}
	svc := newPlanner(t, client)

	sc, err := svc.SuggestMeal(context.Background(), model.SuggestMealRequest{Goal: "weight_loss"})
	if err != nil {
		t.Fatalf("SuggestMeal: %v", err)
	}
	if sc.MealSuggestion == nil || sc.MealSuggestion.Name != "Tofu stir fry" {
		t.Errorf("suggestion = %+v", sc.MealSuggestion)
	}
}

func TestCreateMealPlanRequiresGoal(t *testing.T) {
	client := &fakeClient{}
	svc := newPlanner(t, client)

	_, err := svc.CreateMealPlan(context.Background(), model.MealPlanRequest{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if client.calls != 0 {
		t.Errorf("model must not be called without a goal")
	}
}

func TestQueryTrimsResponse(t *testing.T) {
	client := &fakeClient{responses: []string{"  drink about three liters a day  \n"}}
	svc := newPlanner(t, client)

	got, err := svc.Query(context.Background(), "how much water?")
	if err != nil {
		t.Fatal(err)
	}
	if got != "drink about three liters a day" {
		t.Errorf("got %q", got)
	}

	if _, err := svc.Query(context.Background(), ""); err == nil {
		t.Error("empty prompt should be rejected")
	}
}
