package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fitcoach-ai/meal-coach/internal/llm"
	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/prompt"
	"github.com/fitcoach-ai/meal-coach/internal/store"
	"github.com/fitcoach-ai/meal-coach/pkg/metrics"
)

const (
	nothingToEditText = "I don't see a current meal plan to edit. Would you like me to create a new one?"
	editRetryText     = "I had trouble modifying your meal plan. Could you try rephrasing your request?"

	// calorieDeltaThreshold is the minimum absolute kcal change worth
	// reporting in a changes summary.
	calorieDeltaThreshold = 50
)

// editPlan runs the plan-edit flow: it resolves the referenced plan message,
// asks the model for a minimally changed plan, and overwrites the referenced
// message's payload in place. The plan message index never moves; only its
// structured content is replaced.
func (s *ChatService) editPlan(ctx context.Context, sess *model.Session, instruction string) (model.Message, error) {
	planMsg := resolvePlanMessage(sess)
	if planMsg == nil {
		return textMessage(nothingToEditText), nil
	}

	sess.State.Mode = model.ModeEditingPlan
	current := planMsg.StructuredContent
	target := DetectEditTarget(instruction)

	raw, err := s.generate(ctx, prompt.EditPlan(current, instruction, sess.Profile))
	if err != nil {
		sess.State.Mode = model.ModeNormal
		return textMessage(editRetryText), nil
	}
	updated, err := llm.DecodeStructured(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn("plan edit parse failed",
				zap.String("session_id", sess.ID),
				zap.String("reason", parseErr.Reason))
		}
		sess.State.Mode = model.ModeNormal
		return textMessage(editRetryText), nil
	}

	oldPlan := current.DailyMealPlan
	planMsg.StructuredContent = updated
	sess.State.Mode = model.ModeNormal
	metrics.PlanEditsTotal.Inc()

	summary := ChangesSummary(oldPlan, updated.DailyMealPlan, target)
	text := fmt.Sprintf("%s\n\nUpdated!\n%s", progressLine(target), summary)

	return model.Message{
		Sender:            model.SenderAI,
		Text:              text,
		ContentType:       model.ContentTypeMealPlan,
		StructuredContent: updated,
		CreatedAt:         time.Now(),
	}, nil
}

// resolvePlanMessage returns the message CurrentPlanRef points at, or nil
// when there is no usable plan to edit.
func resolvePlanMessage(sess *model.Session) *model.Message {
	if sess.State.CurrentPlanRef == nil {
		return nil
	}
	idx := *sess.State.CurrentPlanRef
	if idx < 0 || idx >= len(sess.Messages) {
		return nil
	}
	msg := &sess.Messages[idx]
	if msg.StructuredContent == nil || msg.StructuredContent.DailyMealPlan == nil {
		return nil
	}
	return msg
}

// progressLine phrases a human-facing "working on it" line from the detected
// edit target. The target never alters what the model is asked to do.
func progressLine(target EditTarget) string {
	switch target.EditType {
	case "replace_ingredient":
		return fmt.Sprintf("I'll replace %s in your %s...",
			fallback(target.TargetIngredient, "that ingredient"),
			fallback(target.TargetMeal, "meal"))
	case "adjust_portion":
		return fmt.Sprintf("I'll adjust the portion sizes for your %s...",
			fallback(target.TargetMeal, "meals"))
	case "change_meal":
		return fmt.Sprintf("I'll create a different %s option for you...",
			fallback(target.TargetMeal, "meal"))
	default:
		return "Let me modify your meal plan based on your feedback..."
	}
}

// ChangesSummary describes what changed between two plan versions. Calorie
// movement is reported only past the threshold; when nothing specific is
// detectable a generic line is returned.
func ChangesSummary(oldPlan, newPlan *model.DailyMealPlan, target EditTarget) string {
	var changes []string

	if oldPlan != nil && newPlan != nil {
		delta := newPlan.TotalCalories - oldPlan.TotalCalories
		if math.Abs(delta) > calorieDeltaThreshold {
			direction := "decreased"
			if delta > 0 {
				direction = "increased"
			}
			changes = append(changes, fmt.Sprintf("Total calories %s from %.0f to %.0f",
				direction, oldPlan.TotalCalories, newPlan.TotalCalories))
		}
		if target.TargetMeal != "" {
			changes = append(changes, fmt.Sprintf("Modified your %s", target.TargetMeal))
		}
		if target.TargetIngredient != "" {
			changes = append(changes, fmt.Sprintf("Replaced %s as requested", target.TargetIngredient))
		}
	}

	if len(changes) == 0 {
		changes = append(changes, "Made adjustments to better fit your preferences")
	}
	return strings.Join(changes, "\n")
}

// EditSuggestions inspects a plan against goal-specific thresholds and
// returns every matching improvement suggestion. Callers truncate to a
// display limit.
func EditSuggestions(plan *model.DailyMealPlan, profile model.UserProfile) []string {
	if plan == nil {
		return nil
	}

	var suggestions []string
	if profile.Goal == "weight_loss" && plan.TotalCalories > 1800 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Your plan has %.0f calories. Would you like me to reduce portions for faster weight loss?",
			plan.TotalCalories))
	}
	if profile.Goal == "muscle_gain" && plan.TotalCalories < 2200 {
		suggestions = append(suggestions,
			"For muscle gain, you might want more calories. Should I add a protein shake or extra snack?")
	}
	if plan.TotalMacros.Protein < 100 {
		suggestions = append(suggestions,
			"Your protein is a bit low. Want me to add more protein-rich foods?")
	}
	if profile.WorkoutType == "strength" && !plan.HasMealType("post-workout") {
		suggestions = append(suggestions,
			"As a strength trainer, would you like me to add a dedicated post-workout meal?")
	}
	return suggestions
}

// SuggestionsResponse is the payload for the edit-suggestions endpoint.
type SuggestionsResponse struct {
	Suggestions         []string `json:"suggestions"`
	CurrentPlanCalories float64  `json:"current_plan_calories"`
	UserGoal            string   `json:"user_goal"`
}

// Suggestions returns improvement suggestions for a session's active plan.
func (s *ChatService) Suggestions(ctx context.Context, sessionID string) (*SuggestionsResponse, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Profile.Collected {
		return nil, validationErr("user profile not complete")
	}
	plan := sess.CurrentPlan()
	if plan == nil {
		return nil, fmt.Errorf("no active meal plan: %w", store.ErrNotFound)
	}
	return &SuggestionsResponse{
		Suggestions:         EditSuggestions(plan, sess.Profile),
		CurrentPlanCalories: plan.TotalCalories,
		UserGoal:            sess.Profile.Goal,
	}, nil
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
