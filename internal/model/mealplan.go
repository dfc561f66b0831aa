package model

import "time"

// NutritionalInfo holds per-meal nutrition estimates in kcal and grams.
type NutritionalInfo struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// MealSuggestion is a single suggested meal as returned by the model.
type MealSuggestion struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	NutritionalInfo NutritionalInfo `json:"nutritional_info"`
	FitnessBenefits []string        `json:"fitness_benefits"`
	TimingNotes     string          `json:"timing_notes"`
}

// Macros holds daily macro totals in grams.
type Macros struct {
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// Meal is one entry in a daily meal plan.
type Meal struct {
	MealType    string   `json:"meal_type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Timing      string   `json:"timing"`
}

// DailyMealPlan is a full structured day of meals. Outside the edit flow it
// is treated as an opaque blob that round-trips unchanged.
type DailyMealPlan struct {
	TotalCalories         float64  `json:"total_calories"`
	TotalMacros           Macros   `json:"total_macros"`
	Meals                 []Meal   `json:"meals"`
	HydrationNotes        string   `json:"hydration_notes"`
	SupplementSuggestions []string `json:"supplement_suggestions"`
	Notes                 string   `json:"notes"`
}

// HasMealType reports whether the plan contains a meal with the given type.
func (p *DailyMealPlan) HasMealType(mealType string) bool {
	for _, m := range p.Meals {
		if m.MealType == mealType {
			return true
		}
	}
	return false
}

// FavouriteMeal is a meal suggestion saved by a user.
type FavouriteMeal struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	NutritionalInfo NutritionalInfo `json:"nutritional_info"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SuggestMealRequest is the input for the direct meal-suggestion endpoint.
type SuggestMealRequest struct {
	Goal                  string   `json:"goal"`
	Allergies             []string `json:"allergies,omitempty"`
	Dislikes              []string `json:"dislikes,omitempty"`
	AdditionalPreferences string   `json:"additional_preferences,omitempty"`
	WorkoutType           string   `json:"workout_type,omitempty"`
	MealTiming            string   `json:"meal_timing,omitempty"`
	CurrentWeight         *int     `json:"current_weight,omitempty"`
	TargetWeight          *int     `json:"target_weight,omitempty"`
	ActivityLevel         string   `json:"activity_level,omitempty"`
}

// MealPlanRequest is the input for the direct meal-plan endpoint.
type MealPlanRequest struct {
	Goal                string   `json:"goal"`
	CurrentWeight       *int     `json:"current_weight,omitempty"`
	TargetWeight        *int     `json:"target_weight,omitempty"`
	ActivityLevel       string   `json:"activity_level,omitempty"`
	WorkoutDaysPerWeek  int      `json:"workout_days_per_week,omitempty"`
	WorkoutType         string   `json:"workout_type,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	Dislikes            []string `json:"dislikes,omitempty"`
	DailyCaloriesTarget int      `json:"daily_calories_target,omitempty"`
}
