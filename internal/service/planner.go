package service

import (
	"context"
	"strings"
	"time"

	"github.com/fitcoach-ai/meal-coach/internal/llm"
	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/prompt"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
	"github.com/fitcoach-ai/meal-coach/pkg/metrics"
)

// PlannerService serves the direct model endpoints that bypass session state:
// single meal suggestions, full meal plans, and free-form queries.
type PlannerService struct {
	llm    llm.Client
	logger *logger.Logger
}

// NewPlannerService creates the planner service.
func NewPlannerService(client llm.Client, log *logger.Logger) *PlannerService {
	return &PlannerService{llm: client, logger: log}
}

// SuggestMeal generates a single meal suggestion. A goal is required before
// any model call.
func (s *PlannerService) SuggestMeal(ctx context.Context, req model.SuggestMealRequest) (*model.StructuredContent, error) {
	if req.Goal == "" {
		return nil, validationErr("goal is required for meal suggestion")
	}
	raw, err := s.generate(ctx, prompt.SuggestMeal(req))
	if err != nil {
		return nil, err
	}
	sc, err := llm.DecodeStructured(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		return nil, err
	}
	return sc, nil
}

// CreateMealPlan generates a full daily meal plan. A goal is required before
// any model call.
func (s *PlannerService) CreateMealPlan(ctx context.Context, req model.MealPlanRequest) (*model.StructuredContent, error) {
	if req.Goal == "" {
		return nil, validationErr("goal is required for meal planning")
	}
	raw, err := s.generate(ctx, prompt.MealPlan(req))
	if err != nil {
		return nil, err
	}
	sc, err := llm.DecodeStructured(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		return nil, err
	}
	metrics.PlansGeneratedTotal.Inc()
	return sc, nil
}

// Query answers a free-form question with fitness-expert framing and returns
// plain text.
func (s *PlannerService) Query(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", validationErr("prompt is required")
	}
	raw, err := s.generate(ctx, prompt.Query(question))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (s *PlannerService) generate(ctx context.Context, p string) (string, error) {
	start := time.Now()
	raw, err := s.llm.Generate(ctx, p)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordLLMCall(s.llm.Name(), status, time.Since(start).Seconds())
	return raw, err
}
