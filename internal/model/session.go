// Package model defines data structures for the meal-planning coach.
package model

import (
	"errors"
	"time"
)

// Mode is the conversational phase a session is currently in.
type Mode string

const (
	ModeNormal            Mode = "normal"
	ModeCollectingProfile Mode = "collecting_profile"
	ModeGeneratingPlan    Mode = "generating_plan"
	ModeEditingPlan       Mode = "editing_plan"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderHuman Sender = "human"
	SenderAI    Sender = "ai"
)

// ContentType describes what kind of payload a message carries.
type ContentType string

const (
	ContentTypeText           ContentType = "text"
	ContentTypeMealSuggestion ContentType = "meal_suggestion"
	ContentTypeMealPlan       ContentType = "meal_plan"
	ContentTypeRecipe         ContentType = "recipe"
)

// Message is one turn in a session. Messages are append-only; the single
// exception is the plan message referenced by ChatState.CurrentPlanRef, whose
// structured content is overwritten in place by the edit flow.
type Message struct {
	Sender            Sender             `json:"sender"`
	Text              string             `json:"text"`
	ContentType       ContentType        `json:"content_type"`
	StructuredContent *StructuredContent `json:"structured_content,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// StructuredContent is the typed payload attached to non-text messages.
// Exactly one field is set depending on the message's content type.
type StructuredContent struct {
	MealSuggestion *MealSuggestion `json:"meal_suggestion,omitempty"`
	DailyMealPlan  *DailyMealPlan  `json:"daily_meal_plan,omitempty"`
}

// ChatState is the session's current conversational state.
type ChatState struct {
	Mode Mode `json:"mode"`

	// CurrentPlanRef is the index into Messages of the message holding the
	// active meal plan, or nil if no plan has been generated yet.
	CurrentPlanRef *int `json:"current_plan_ref,omitempty"`

	// LastQuestionField is the profile field the most recent collection
	// question targeted, used to route the next answer.
	LastQuestionField string `json:"last_question_field,omitempty"`
}

// UserProfile accumulates the fitness profile collected through the scripted
// question sequence.
type UserProfile struct {
	Goal               string   `json:"goal,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	Dislikes           []string `json:"dislikes,omitempty"`
	CurrentWeight      *int     `json:"current_weight,omitempty"`
	TargetWeight       *int     `json:"target_weight,omitempty"`
	ActivityLevel      string   `json:"activity_level,omitempty"`
	WorkoutType        string   `json:"workout_type,omitempty"`
	WorkoutDaysPerWeek int      `json:"workout_days_per_week,omitempty"`
	MealTiming         string   `json:"meal_timing,omitempty"`

	// Collection bookkeeping. Collected is true once the full question list
	// has been walked; CollectionStep is the cursor into that list.
	Collected      bool `json:"collected"`
	CollectionStep int  `json:"collection_step"`
}

// ErrNoOwner is returned when a session has neither an owning user nor an
// anonymous session token.
var ErrNoOwner = errors.New("session must have either a user ID or a session token")

// Session is a persisted conversation thread.
type Session struct {
	ID string `json:"id"`

	// Exactly one of UserID and SessionToken is set.
	UserID       string `json:"user_id,omitempty"`
	SessionToken string `json:"session_token,omitempty"`

	Title     string      `json:"title"`
	Profile   UserProfile `json:"user_profile"`
	State     ChatState   `json:"chat_state"`
	Messages  []Message   `json:"messages"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Validate checks the session ownership invariant.
func (s *Session) Validate() error {
	if s.UserID == "" && s.SessionToken == "" {
		return ErrNoOwner
	}
	if s.UserID != "" && s.SessionToken != "" {
		return ErrNoOwner
	}
	return nil
}

// CurrentPlan returns the structured meal plan referenced by the session
// state, or nil if there is none.
func (s *Session) CurrentPlan() *DailyMealPlan {
	if s.State.CurrentPlanRef == nil {
		return nil
	}
	idx := *s.State.CurrentPlanRef
	if idx < 0 || idx >= len(s.Messages) {
		return nil
	}
	sc := s.Messages[idx].StructuredContent
	if sc == nil {
		return nil
	}
	return sc.DailyMealPlan
}

// CreateSessionRequest is the request to create a new session.
type CreateSessionRequest struct {
	Title  string `json:"title"`
	UserID string `json:"user_id,omitempty"`
}

// PostMessageRequest is the request to post a message to a session.
type PostMessageRequest struct {
	Sender      Sender      `json:"sender"`
	Text        string      `json:"text"`
	ContentType ContentType `json:"content_type,omitempty"`
}

// PostMessageResponse is returned after a turn has been processed.
type PostMessageResponse struct {
	Success          bool      `json:"success"`
	Data             []Message `json:"data"`
	TotalMessages    int       `json:"total_messages"`
	ChatState        ChatState `json:"chat_state"`
	ProfileCompleted bool      `json:"profile_completed"`
}
