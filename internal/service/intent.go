package service

import "strings"

// Intent is the coarse classification of a user utterance. Both flags may be
// true at once; the state machine's branch order decides which wins.
type Intent struct {
	WantsMealPlan bool
	WantsEdit     bool
	IsQuestion    bool
}

var mealPlanKeywords = []string{
	"meal plan", "diet plan", "nutrition plan", "food plan", "weekly plan",
}

var editKeywords = []string{
	"edit", "change", "modify", "update", "fix", "adjust", "replace", "swap", "substitute",
}

// DetectIntent classifies an utterance by keyword matching over the
// lower-cased text.
func DetectIntent(text string) Intent {
	msg := strings.ToLower(text)
	return Intent{
		WantsMealPlan: containsAny(msg, mealPlanKeywords),
		WantsEdit:     containsAny(msg, editKeywords),
		IsQuestion:    strings.Contains(msg, "?"),
	}
}

// EditTarget is the coarse target extracted from an edit instruction. All
// fields are independently optional; callers handle full absence with a
// generic fallback.
type EditTarget struct {
	EditType         string
	TargetMeal       string
	TargetIngredient string
	Instruction      string
}

var mealSlots = []string{
	"breakfast", "lunch", "dinner", "snack", "pre-workout", "post-workout",
}

// editTypeBuckets is checked in priority order: the first bucket with a
// matching keyword wins.
var editTypeBuckets = []struct {
	editType string
	keywords []string
}{
	{"replace_ingredient", []string{"replace", "swap", "substitute", "change"}},
	{"adjust_portion", []string{"more", "less", "bigger", "smaller", "increase", "decrease"}},
	{"remove_meal", []string{"remove", "delete", "skip"}},
	{"change_meal", []string{"different", "another", "new"}},
	{"fix_nutrition", []string{"too many calories", "too much", "too little", "reduce", "add more"}},
}

var commonIngredients = []string{
	"chicken", "beef", "fish", "salmon", "eggs", "rice", "pasta", "bread", "banana", "apple",
}

// DetectEditTarget extracts the meal slot, edit type and ingredient an edit
// instruction refers to, by keyword matching.
func DetectEditTarget(instruction string) EditTarget {
	msg := strings.ToLower(instruction)

	target := EditTarget{Instruction: instruction}

	for _, slot := range mealSlots {
		if strings.Contains(msg, slot) {
			target.TargetMeal = slot
			break
		}
	}

	for _, bucket := range editTypeBuckets {
		if containsAny(msg, bucket.keywords) {
			target.EditType = bucket.editType
			break
		}
	}

	for _, ingredient := range commonIngredients {
		if strings.Contains(msg, ingredient) {
			target.TargetIngredient = ingredient
			break
		}
	}

	return target
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
