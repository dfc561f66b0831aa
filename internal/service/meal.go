package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/store"
)

// MealService handles favourite meals saved by users.
type MealService struct {
	store store.MealStore
}

// NewMealService creates the favourite-meal service.
func NewMealService(st store.MealStore) *MealService {
	return &MealService{store: st}
}

// validateMeal checks the meal-suggestion structure before it is persisted.
func validateMeal(m *model.FavouriteMeal) error {
	if m.Name == "" {
		return validationErr("meal name is required")
	}
	if m.Description == "" {
		return validationErr("meal description is required")
	}
	if len(m.Ingredients) == 0 {
		return validationErr("ingredients are required")
	}
	if len(m.Instructions) == 0 {
		return validationErr("instructions are required")
	}
	if m.NutritionalInfo.Calories <= 0 {
		return validationErr("nutritional info with calories is required")
	}
	return nil
}

// Save validates and stores a favourite meal for a user.
func (s *MealService) Save(ctx context.Context, userID string, m *model.FavouriteMeal) (*model.FavouriteMeal, error) {
	m.UserID = userID
	if err := validateMeal(m); err != nil {
		return nil, err
	}
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now()
	if err := s.store.CreateMeal(ctx, m); err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}
	return m, nil
}

// Get fetches a favourite meal by ID.
func (s *MealService) Get(ctx context.Context, id string) (*model.FavouriteMeal, error) {
	return s.store.GetMeal(ctx, id)
}

// List returns a user's favourite meals, newest first.
func (s *MealService) List(ctx context.Context, userID string) ([]model.FavouriteMeal, error) {
	return s.store.ListMeals(ctx, userID)
}

// Update overwrites a favourite meal owned by the user.
func (s *MealService) Update(ctx context.Context, userID, id string, m *model.FavouriteMeal) (*model.FavouriteMeal, error) {
	existing, err := s.store.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, store.ErrNotFound
	}
	m.ID = existing.ID
	m.UserID = existing.UserID
	m.CreatedAt = existing.CreatedAt
	if err := validateMeal(m); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMeal(ctx, m); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return m, nil
}

// Delete removes a favourite meal owned by the user.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetMeal(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return store.ErrNotFound
	}
	return s.store.DeleteMeal(ctx, id)
}
