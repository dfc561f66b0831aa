package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitcoach-ai/meal-coach/internal/llm"
	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/prompt"
	"github.com/fitcoach-ai/meal-coach/internal/store"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
	"github.com/fitcoach-ai/meal-coach/pkg/metrics"
)

const (
	// contextWindow is how many messages preceding the current one are fed
	// into the plain-chat prompt.
	contextWindow = 3

	// maxDisplayedSuggestions caps improvement suggestions appended to a
	// freshly generated plan.
	maxDisplayedSuggestions = 2

	// recentMessageCount is how many trailing messages the post-message
	// response returns.
	recentMessageCount = 10

	apologyText = "Sorry, I ran into a problem while answering. Please try again."
)

// ChatService orchestrates conversation turns: it owns the session mode, the
// profile accumulator, and the mapping from detected intent to the next
// action.
type ChatService struct {
	store  store.SessionStore
	llm    llm.Client
	logger *logger.Logger
}

// NewChatService creates the chat service.
func NewChatService(st store.SessionStore, client llm.Client, log *logger.Logger) *ChatService {
	return &ChatService{
		store:  st,
		llm:    client,
		logger: log,
	}
}

// CreateSession creates a new conversation thread. Sessions without an owning
// user get an anonymous session token.
func (s *ChatService) CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.Session, error) {
	now := time.Now()
	sess := &model.Session{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Messages:  []model.Message{},
		State:     model.ChatState{Mode: model.ModeNormal},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sess.Title == "" {
		sess.Title = "New Chat"
	}
	if req.UserID != "" {
		sess.UserID = req.UserID
	} else {
		sess.SessionToken = uuid.New().String()
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetSession fetches a session by ID.
func (s *ChatService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return s.store.GetSession(ctx, id)
}

// ListSessions lists sessions owned by a user or anonymous token.
func (s *ChatService) ListSessions(ctx context.Context, userID, sessionToken string) ([]model.Session, error) {
	if userID == "" && sessionToken == "" {
		return nil, validationErr("userId or sessionId is required")
	}
	return s.store.ListSessions(ctx, userID, sessionToken)
}

// PostMessage records a human message, runs one turn of the state machine,
// and persists the result. Failures in the model or parsing layers never
// abort the turn: they produce the fixed apology message, and state mutated
// before the failure is kept.
func (s *ChatService) PostMessage(ctx context.Context, sessionID string, req *model.PostMessageRequest) (*model.PostMessageResponse, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.State.Mode == "" {
		sess.State.Mode = model.ModeNormal
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = model.ContentTypeText
	}
	sess.Messages = append(sess.Messages, model.Message{
		Sender:      req.Sender,
		Text:        req.Text,
		ContentType: contentType,
		CreatedAt:   time.Now(),
	})

	if req.Sender == model.SenderHuman {
		aiMsg, err := s.respond(ctx, sess, req.Text)
		if err != nil {
			s.logger.Error("turn failed",
				zap.String("session_id", sess.ID),
				zap.String("mode", string(sess.State.Mode)),
				zap.Error(err))
			aiMsg = textMessage(apologyText)
		}
		sess.Messages = append(sess.Messages, aiMsg)
		metrics.TurnsTotal.WithLabelValues(string(sess.State.Mode)).Inc()
	}

	sess.UpdatedAt = time.Now()
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	recent := sess.Messages
	if len(recent) > recentMessageCount {
		recent = recent[len(recent)-recentMessageCount:]
	}
	return &model.PostMessageResponse{
		Success:          true,
		Data:             recent,
		TotalMessages:    len(sess.Messages),
		ChatState:        sess.State,
		ProfileCompleted: sess.Profile.Collected,
	}, nil
}

// respond runs the per-turn decision tree in strict priority order: profile
// collection, then plan editing when a plan exists, then plan generation,
// then plain chat.
func (s *ChatService) respond(ctx context.Context, sess *model.Session, text string) (model.Message, error) {
	if sess.State.Mode == model.ModeCollectingProfile {
		return s.collectProfileStep(ctx, sess, text)
	}

	intent := DetectIntent(text)
	switch {
	case intent.WantsMealPlan && !sess.Profile.Collected:
		sess.State.Mode = model.ModeCollectingProfile
		sess.Profile.CollectionStep = 0
		q := GetQuestion(0)
		sess.State.LastQuestionField = q.Field
		return textMessage(FormatQuestion(q)), nil

	// Edit wins over regeneration when a plan already exists: "edit my meal
	// plan" names the plan without asking for a fresh one.
	case intent.WantsEdit && sess.State.CurrentPlanRef != nil:
		return s.editPlan(ctx, sess, text)

	case intent.WantsMealPlan && sess.Profile.Collected:
		msg, err := s.generatePlanMessage(ctx, sess)
		if err != nil {
			return model.Message{}, err
		}
		if msg.StructuredContent != nil && msg.StructuredContent.DailyMealPlan != nil {
			suggestions := EditSuggestions(msg.StructuredContent.DailyMealPlan, sess.Profile)
			if len(suggestions) > maxDisplayedSuggestions {
				suggestions = suggestions[:maxDisplayedSuggestions]
			}
			if len(suggestions) > 0 {
				msg.Text += "\n\n" + strings.Join(suggestions, "\n")
			}
		}
		return msg, nil

	default:
		return s.plainChat(ctx, sess, text)
	}
}

// collectProfileStep routes the answer to the field the last question
// targeted, then either asks the next question or, when the list is
// exhausted, generates the plan in the same turn.
func (s *ChatService) collectProfileStep(ctx context.Context, sess *model.Session, answer string) (model.Message, error) {
	q := GetQuestion(sess.Profile.CollectionStep)
	if !q.Completed {
		field := sess.State.LastQuestionField
		if field == "" {
			field = q.Field
		}
		ApplyAnswer(&sess.Profile, field, answer)
		sess.Profile.CollectionStep++
	}

	next := GetQuestion(sess.Profile.CollectionStep)
	if !next.Completed {
		sess.State.LastQuestionField = next.Field
		return textMessage(FormatQuestion(next)), nil
	}

	sess.Profile.Collected = true
	sess.State.LastQuestionField = ""
	msg, err := s.generatePlanMessage(ctx, sess)
	if err != nil {
		return model.Message{}, err
	}
	msg.Text = next.Question
	return msg, nil
}

// generatePlanMessage calls the model with the plan template, parses the
// structured plan, and points CurrentPlanRef at the message about to be
// appended. The session stays in generating mode if the call fails.
func (s *ChatService) generatePlanMessage(ctx context.Context, sess *model.Session) (model.Message, error) {
	sess.State.Mode = model.ModeGeneratingPlan

	raw, err := s.generate(ctx, prompt.MealPlan(planRequestFromProfile(sess.Profile)))
	if err != nil {
		return model.Message{}, err
	}
	sc, err := llm.DecodeStructured(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		return model.Message{}, err
	}

	sess.State.Mode = model.ModeNormal
	ref := len(sess.Messages)
	sess.State.CurrentPlanRef = &ref
	metrics.PlansGeneratedTotal.Inc()

	mealCount := 0
	if sc.DailyMealPlan != nil {
		mealCount = len(sc.DailyMealPlan.Meals)
	}
	return model.Message{
		Sender:            model.SenderAI,
		Text:              fmt.Sprintf("Based on your profile, I've created a new meal plan with %d meals!", mealCount),
		ContentType:       model.ContentTypeMealPlan,
		StructuredContent: sc,
		CreatedAt:         time.Now(),
	}, nil
}

// plainChat answers an utterance with the chat template and a trailing
// context window. The window excludes the message currently being answered,
// which has already been appended.
func (s *ChatService) plainChat(ctx context.Context, sess *model.Session, text string) (model.Message, error) {
	end := len(sess.Messages) - 1
	start := end - contextWindow
	if start < 0 {
		start = 0
	}
	history := sess.Messages[start:end]

	raw, err := s.generate(ctx, prompt.Chat(text, history, contextWindow))
	if err != nil {
		return model.Message{}, err
	}
	return textMessage(strings.TrimSpace(raw)), nil
}

// generate performs one timed, instrumented gateway call.
func (s *ChatService) generate(ctx context.Context, p string) (string, error) {
	start := time.Now()
	raw, err := s.llm.Generate(ctx, p)
	status := "success"
	if err != nil {
		status = "error"
		var gwErr *llm.GatewayError
		if errors.As(err, &gwErr) {
			s.logger.Warn("llm call failed",
				zap.String("provider", s.llm.Name()),
				zap.String("kind", string(gwErr.Kind)),
				zap.Error(err))
		}
	}
	metrics.RecordLLMCall(s.llm.Name(), status, time.Since(start).Seconds())
	return raw, err
}

func planRequestFromProfile(p model.UserProfile) model.MealPlanRequest {
	return model.MealPlanRequest{
		Goal:               p.Goal,
		CurrentWeight:      p.CurrentWeight,
		TargetWeight:       p.TargetWeight,
		ActivityLevel:      p.ActivityLevel,
		WorkoutDaysPerWeek: p.WorkoutDaysPerWeek,
		WorkoutType:        p.WorkoutType,
		Allergies:          p.Allergies,
		Dislikes:           p.Dislikes,
	}
}

func textMessage(text string) model.Message {
	return model.Message{
		Sender:      model.SenderAI,
		Text:        text,
		ContentType: model.ContentTypeText,
		CreatedAt:   time.Now(),
	}
}
