// Package prompt builds the natural-language prompts sent to the model.
// All builders are pure string construction: missing optional fields degrade
// to defaults or omitted sections, never to errors. Required-field checks
// (e.g. a missing goal) are the caller's responsibility.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

const coachPersona = `You are a specialized AI fitness and nutrition coach. You help people with:
- Meal planning for different workout goals (muscle gain, weight loss, endurance)
- Pre and post-workout nutrition advice
- Macro calculations and meal timing
- Healthy recipe suggestions for active people
- Supplement guidance
- Hydration and recovery nutrition

Always provide practical, science-based advice. Ask follow-up questions when you need more details about their fitness goals, workout routine, or dietary preferences.

`

// mealSuggestionSchema is the exact output shape the model is steered toward
// for single-meal suggestions.
const mealSuggestionSchema = `{
  "meal_suggestion": {
    "name": "name of the dish",
    "description": "why this meal fits their fitness goal and timing",
    "ingredients": [
      "list of ingredients with approximate amounts"
    ],
    "instructions": [
      "step-by-step preparation instructions"
    ],
    "nutritional_info": {
      "calories": estimated total calories,
      "protein": estimated grams of protein,
      "carbohydrates": estimated grams of carbohydrates,
      "fat": estimated grams of fat,
      "fiber": estimated grams of fiber
    },
    "fitness_benefits": [
      "specific benefits for their workout goal"
    ],
    "timing_notes": "when to eat this meal relative to workouts (if applicable)"
  }
}`

// mealPlanSchema is the exact output shape for full daily plans.
const mealPlanSchema = `{
  "daily_meal_plan": {
    "total_calories": estimated daily calories,
    "total_macros": {
      "protein": total daily protein in grams,
      "carbohydrates": total daily carbs in grams,
      "fat": total daily fat in grams,
      "fiber": total daily fiber in grams
    },
    "meals": [
      {
        "meal_type": "breakfast/lunch/dinner/snack/pre-workout/post-workout",
        "name": "meal name",
        "description": "brief description",
        "ingredients": ["ingredient list"],
        "calories": meal calories,
        "protein": grams,
        "carbs": grams,
        "fat": grams,
        "timing": "recommended time to eat"
      }
    ],
    "hydration_notes": "daily water intake recommendations",
    "supplement_suggestions": ["if any basic supplements are recommended"],
    "notes": "additional tips for this meal plan"
  }
}`

// Chat builds the free-conversation prompt: coach persona, an optional
// trailing slice of recent history, then the current utterance. The caller
// decides how much history to pass; contextLimit caps how many of those
// messages are rendered.
func Chat(userMessage string, history []model.Message, contextLimit int) string {
	var b strings.Builder
	b.WriteString(coachPersona)

	if len(history) > 0 {
		if contextLimit > 0 && len(history) > contextLimit {
			history = history[len(history)-contextLimit:]
		}
		b.WriteString("Recent conversation:\n")
		for _, msg := range history {
			speaker := "Coach"
			if msg.Sender == model.SenderHuman {
				speaker = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Text)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\nCoach:", userMessage)
	return b.String()
}

// SuggestMeal builds the single-meal suggestion prompt.
func SuggestMeal(req model.SuggestMealRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, `As a fitness nutrition expert, suggest a meal for an active person with the following profile:

FITNESS PROFILE:
- Goal: %s (muscle gain/weight loss/endurance/strength/maintenance)
- Current Weight: %s kg
- Target Weight: %s kg
- Activity Level: %s (sedentary/light/moderate/active/very active)
- Workout Type: %s (strength training/cardio/HIIT/sports)
- Meal Timing: %s (pre-workout/post-workout/general/rest day)
`,
		req.Goal,
		weightOrDefault(req.CurrentWeight),
		weightOrDefault(req.TargetWeight),
		orDefault(req.ActivityLevel, "moderate"),
		orDefault(req.WorkoutType, "general fitness"),
		orDefault(req.MealTiming, "general"),
	)

	writeRestrictions(&b, req.Allergies, req.Dislikes, req.AdditionalPreferences)

	b.WriteString(`
Please provide a meal that optimizes nutrition for their fitness goals, considering:
- Proper macro balance (protein/carbs/fats) for their goal
- Meal timing benefits (if specified)
- Calorie density appropriate for their goal
- Micronutrients important for recovery and performance

Generate Output in this specific JSON format: `)
	b.WriteString(mealSuggestionSchema)
	return b.String()
}

// MealPlan builds the full daily meal plan prompt.
func MealPlan(req model.MealPlanRequest) string {
	workoutDays := "3-4"
	if req.WorkoutDaysPerWeek > 0 {
		workoutDays = fmt.Sprintf("%d", req.WorkoutDaysPerWeek)
	}
	calorieTarget := "calculate based on profile"
	if req.DailyCaloriesTarget > 0 {
		calorieTarget = fmt.Sprintf("%d", req.DailyCaloriesTarget)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `As a fitness nutrition expert, create a complete daily meal plan for:

FITNESS PROFILE:
- Goal: %s
- Current Weight: %s kg
- Target Weight: %s kg
- Activity Level: %s
- Workout Frequency: %s days per week
- Workout Type: %s
- Daily Calorie Target: %s kcal
`,
		req.Goal,
		weightOrDefault(req.CurrentWeight),
		weightOrDefault(req.TargetWeight),
		orDefault(req.ActivityLevel, "moderate"),
		workoutDays,
		orDefault(req.WorkoutType, "general fitness"),
		calorieTarget,
	)

	writeRestrictions(&b, req.Allergies, req.Dislikes, "")

	b.WriteString(`
Create a balanced daily meal plan with proper macro distribution, meal timing, and portions. Consider pre/post workout nutrition.

Generate Output in this specific JSON format: `)
	b.WriteString(mealPlanSchema)
	return b.String()
}

// EditPlan builds the plan-modification prompt. The current plan is embedded
// serialized, the instruction verbatim, and the model is constrained to
// minimal changes in the same schema.
func EditPlan(currentPlan *model.StructuredContent, instruction string, profile model.UserProfile) string {
	planJSON, err := json.MarshalIndent(currentPlan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a nutrition expert. I need you to modify an existing meal plan based on user feedback.

CURRENT MEAL PLAN:
%s

USER PROFILE:
- Goal: %s
- Weight: %skg -> %skg
- Activity: %s
- Allergies: %s
- Dislikes: %s

USER REQUEST: "%s"

Please modify the meal plan according to the user's request while:
1. Maintaining nutritional balance for their goal
2. Keeping total daily calories appropriate
3. Respecting allergies and dislikes
4. Making minimal changes (only what was requested)

Return the COMPLETE modified meal plan in the same JSON format as the original.`,
		planJSON,
		profile.Goal,
		weightOrDefault(profile.CurrentWeight),
		weightOrDefault(profile.TargetWeight),
		profile.ActivityLevel,
		listOrNone(profile.Allergies),
		listOrNone(profile.Dislikes),
		instruction,
	)
	return b.String()
}

// Query wraps a free-form question in the fitness-expert framing.
func Query(question string) string {
	return fmt.Sprintf(`You are a fitness and nutrition expert AI. When answering questions, always consider the fitness and health perspective. If the question is about food, nutrition, exercise, or health, provide detailed, science-based advice.

User question: %s

Your expert response:`, question)
}

// writeRestrictions renders the dietary restrictions section. The section is
// omitted entirely when there is nothing to restrict.
func writeRestrictions(b *strings.Builder, allergies, dislikes []string, additional string) {
	if len(allergies) == 0 && len(dislikes) == 0 && additional == "" {
		return
	}
	b.WriteString("\nDIETARY RESTRICTIONS:\n")
	if len(allergies) > 0 {
		fmt.Fprintf(b, "- Allergies: %s\n", strings.Join(allergies, ", "))
	}
	if len(dislikes) > 0 {
		fmt.Fprintf(b, "- Dislikes: %s\n", strings.Join(dislikes, ", "))
	}
	if additional != "" {
		fmt.Fprintf(b, "- Additional preferences: %s\n", additional)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func weightOrDefault(w *int) string {
	if w == nil {
		return "not specified"
	}
	return fmt.Sprintf("%d", *w)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
