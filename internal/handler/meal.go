package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitcoach-ai/meal-coach/internal/middleware"
	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/service"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
)

// MealHandler handles favourite-meal endpoints. All routes require an
// authenticated user.
type MealHandler struct {
	service *service.MealService
	logger  *logger.Logger
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(svc *service.MealService, log *logger.Logger) *MealHandler {
	return &MealHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/meals
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var meal model.FavouriteMeal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.service.Save(ctx, userID, &meal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// List handles GET /api/meals
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	meals, err := h.service.List(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    meals,
	})
}

// Get handles GET /api/meals/{id}
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mealID := chi.URLParam(r, "id")

	if err := middleware.ValidateMealID(mealID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.service.Get(ctx, mealID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if meal.UserID != middleware.GetUserID(ctx) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, meal)
}

// Update handles PUT /api/meals/{id}
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	mealID := chi.URLParam(r, "id")

	if err := middleware.ValidateMealID(mealID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var meal model.FavouriteMeal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Update(ctx, userID, mealID, &meal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/meals/{id}
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	mealID := chi.URLParam(r, "id")

	if err := middleware.ValidateMealID(mealID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(ctx, userID, mealID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
