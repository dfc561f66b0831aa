package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/service"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
)

// LLMHandler handles the direct model endpoints.
type LLMHandler struct {
	service *service.PlannerService
	logger  *logger.Logger
}

// NewLLMHandler creates a new LLM handler.
func NewLLMHandler(svc *service.PlannerService, log *logger.Logger) *LLMHandler {
	return &LLMHandler{
		service: svc,
		logger:  log,
	}
}

// SuggestMeal handles POST /api/llm/suggest-meal
func (h *LLMHandler) SuggestMeal(w http.ResponseWriter, r *http.Request) {
	var req model.SuggestMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sc, err := h.service.SuggestMeal(r.Context(), req)
	if err != nil {
		h.logger.Error("meal suggestion failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

// MealPlan handles POST /api/llm/meal-plan
func (h *LLMHandler) MealPlan(w http.ResponseWriter, r *http.Request) {
	var req model.MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sc, err := h.service.CreateMealPlan(r.Context(), req)
	if err != nil {
		h.logger.Error("meal plan generation failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

type queryRequest struct {
	Prompt string `json:"prompt"`
}

// Query handles POST /api/llm/query
func (h *LLMHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.service.Query(r.Context(), strings.TrimSpace(req.Prompt))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}
