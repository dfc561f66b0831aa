package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

// Question is one entry in the fixed profile question list.
type Question struct {
	Question  string   `json:"question"`
	Options   []string `json:"options,omitempty"`
	Hint      string   `json:"hint,omitempty"`
	Field     string   `json:"field,omitempty"`
	Step      int      `json:"step,omitempty"`
	Total     int      `json:"total,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

// profileQuestions is the fixed ordered question list walked during profile
// collection. Order matters: CollectionStep indexes into it.
var profileQuestions = []Question{
	{
		Question: "Hi! I'd love to help you with meal planning. What's your main fitness goal?",
		Options:  []string{"Weight Loss", "Muscle Gain", "Maintenance", "Endurance"},
		Field:    "goal",
	},
	{
		Question: "Do you have any food allergies I should know about?",
		Hint:     "Type 'none' if no allergies, or list them (e.g., 'nuts, dairy, shellfish')",
		Field:    "allergies",
	},
	{
		Question: "Any foods you dislike or want to avoid?",
		Hint:     "Type 'none' if no dislikes, or list them (e.g., 'broccoli, fish, spicy food')",
		Field:    "dislikes",
	},
	{
		Question: "What's your current weight and target weight?",
		Hint:     "Format: 'current kg, target kg' (e.g., '70, 65')",
		Field:    "weight",
	},
	{
		Question: "How active are you?",
		Options:  []string{"Sedentary", "Light Activity", "Moderate", "Active", "Very Active"},
		Field:    "activity_level",
	},
	{
		Question: "What type of workouts do you do?",
		Options:  []string{"Strength Training", "Cardio", "HIIT", "Sports", "General Fitness"},
		Field:    "workout_type",
	},
	{
		Question: "How many days per week do you work out?",
		Hint:     "Enter a number (e.g., '3' or '5')",
		Field:    "workout_days",
	},
	{
		Question: "When do you typically want meal suggestions?",
		Options:  []string{"Pre-workout", "Post-workout", "General meals", "Rest days"},
		Field:    "meal_timing",
	},
}

// collectionCompleteText is the terminal sentinel returned once the full
// question list has been walked.
const collectionCompleteText = "Perfect! I have all the information I need. Let me create your personalized meal plan..."

// GetQuestion returns the question at step, or the completion sentinel when
// step is past the end of the list. Pure function of step alone.
func GetQuestion(step int) Question {
	if step >= len(profileQuestions) {
		return Question{Question: collectionCompleteText, Completed: true}
	}
	q := profileQuestions[step]
	q.Step = step + 1
	q.Total = len(profileQuestions)
	return q
}

// WeightAnswer is the parsed compound weight field. Both values are absent
// when fewer than two integers appear in the answer.
type WeightAnswer struct {
	CurrentWeight *int `json:"current_weight"`
	TargetWeight  *int `json:"target_weight"`
}

var intPattern = regexp.MustCompile(`\d+`)

// ParseAnswer normalizes a raw answer for the given profile field. Unknown
// field names pass the raw text through unchanged.
func ParseAnswer(raw, field string) any {
	answer := strings.ToLower(strings.TrimSpace(raw))

	switch field {
	case "goal":
		switch {
		case strings.Contains(answer, "loss"),
			strings.Contains(answer, "lose"):
			return "weight_loss"
		case strings.Contains(answer, "muscle"),
			strings.Contains(answer, "gain"),
			strings.Contains(answer, "build"):
			return "muscle_gain"
		case strings.Contains(answer, "endurance"),
			strings.Contains(answer, "stamina"):
			return "endurance"
		default:
			return "maintenance"
		}

	case "allergies", "dislikes":
		if answer == "none" || answer == "no" || answer == "nothing" {
			return []string{}
		}
		var items []string
		for _, item := range strings.Split(answer, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				items = append(items, item)
			}
		}
		if items == nil {
			items = []string{}
		}
		return items

	case "weight":
		nums := intPattern.FindAllString(answer, -1)
		if len(nums) >= 2 {
			current, _ := strconv.Atoi(nums[0])
			target, _ := strconv.Atoi(nums[1])
			return WeightAnswer{CurrentWeight: &current, TargetWeight: &target}
		}
		return WeightAnswer{}

	case "activity_level":
		switch {
		case strings.Contains(answer, "sedentary"), strings.Contains(answer, "desk"):
			return "sedentary"
		case strings.Contains(answer, "light"):
			return "light"
		case strings.Contains(answer, "moderate"):
			return "moderate"
		case strings.Contains(answer, "very"), strings.Contains(answer, "intense"):
			return "very_active"
		default:
			return "active"
		}

	case "workout_type":
		switch {
		case strings.Contains(answer, "strength"),
			strings.Contains(answer, "weight"),
			strings.Contains(answer, "lift"):
			return "strength"
		case strings.Contains(answer, "cardio"),
			strings.Contains(answer, "running"),
			strings.Contains(answer, "cycling"):
			return "cardio"
		case strings.Contains(answer, "hiit"), strings.Contains(answer, "interval"):
			return "hiit"
		case strings.Contains(answer, "sport"),
			strings.Contains(answer, "basketball"),
			strings.Contains(answer, "football"):
			return "sports"
		default:
			return "general"
		}

	case "workout_days":
		if num := intPattern.FindString(answer); num != "" {
			days, _ := strconv.Atoi(num)
			return days
		}
		return 3

	case "meal_timing":
		switch {
		case strings.Contains(answer, "pre"), strings.Contains(answer, "before"):
			return "pre_workout"
		case strings.Contains(answer, "post"), strings.Contains(answer, "after"):
			return "post_workout"
		case strings.Contains(answer, "rest"):
			return "rest_day"
		default:
			return "general"
		}

	default:
		return raw
	}
}

// ApplyAnswer parses a raw answer and stores it into the profile. The weight
// field fans out into current and target weight.
func ApplyAnswer(profile *model.UserProfile, field, raw string) {
	switch v := ParseAnswer(raw, field).(type) {
	case WeightAnswer:
		profile.CurrentWeight = v.CurrentWeight
		profile.TargetWeight = v.TargetWeight
	case []string:
		switch field {
		case "allergies":
			profile.Allergies = v
		case "dislikes":
			profile.Dislikes = v
		}
	case int:
		profile.WorkoutDaysPerWeek = v
	case string:
		switch field {
		case "goal":
			profile.Goal = v
		case "activity_level":
			profile.ActivityLevel = v
		case "workout_type":
			profile.WorkoutType = v
		case "meal_timing":
			profile.MealTiming = v
		}
	}
}

// FormatQuestion renders a question for display, with options and hint.
func FormatQuestion(q Question) string {
	var b strings.Builder
	b.WriteString("**Question ")
	b.WriteString(strconv.Itoa(q.Step))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(q.Total))
	b.WriteString("**\n\n")
	b.WriteString(q.Question)

	if len(q.Options) > 0 {
		b.WriteString("\n\n**Options:**")
		for _, opt := range q.Options {
			b.WriteString("\n- ")
			b.WriteString(opt)
		}
	}
	if q.Hint != "" {
		b.WriteString("\n\n*")
		b.WriteString(q.Hint)
		b.WriteString("*")
	}
	return b.String()
}
