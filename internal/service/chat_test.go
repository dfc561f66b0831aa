package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/store"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
)

// fakeClient returns scripted responses in order and counts calls.
type fakeClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "ok", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeClient) Name() string { return "fake" }

const planJSON = `{
	"daily_meal_plan": {
		"total_calories": 2000,
		"total_macros": {"protein": 150},
		"meals": [
			{"meal_type": "breakfast", "name": "Oats"},
			{"meal_type": "lunch", "name": "Chicken bowl"},
			{"meal_type": "dinner", "name": "Salmon"}
		]
	}
}`

func newTestChat(t *testing.T, client *fakeClient) (*ChatService, *store.MemoryStore) {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	st := store.NewMemoryStore()
	return NewChatService(st, client, log), st
}

func postHuman(t *testing.T, svc *ChatService, sessionID, text string) *model.PostMessageResponse {
	t.Helper()
	resp, err := svc.PostMessage(context.Background(), sessionID, &model.PostMessageRequest{
		Sender: model.SenderHuman,
		Text:   text,
	})
	if err != nil {
		t.Fatalf("PostMessage(%q): %v", text, err)
	}
	return resp
}

func TestCreateSessionDefaults(t *testing.T) {
	svc, _ := newTestChat(t, &fakeClient{})

	sess, err := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.Title != "New Chat" {
		t.Errorf("title = %q, want New Chat", sess.Title)
	}
	if sess.SessionToken == "" {
		t.Error("anonymous session should get a token")
	}
	if sess.UserID != "" {
		t.Error("anonymous session must not have a user")
	}
	if sess.State.Mode != model.ModeNormal {
		t.Errorf("mode = %q, want normal", sess.State.Mode)
	}

	owned, err := svc.CreateSession(context.Background(), &model.CreateSessionRequest{UserID: "u1", Title: "Cutting"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if owned.SessionToken != "" {
		t.Error("owned session must not also carry a token")
	}
	if owned.Title != "Cutting" {
		t.Errorf("title = %q", owned.Title)
	}
}

func TestListSessionsRequiresOwner(t *testing.T) {
	svc, _ := newTestChat(t, &fakeClient{})
	_, err := svc.ListSessions(context.Background(), "", "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMealPlanIntentStartsCollection(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	resp := postHuman(t, svc, sess.ID, "I want a meal plan")

	if resp.ChatState.Mode != model.ModeCollectingProfile {
		t.Fatalf("mode = %q, want collecting_profile", resp.ChatState.Mode)
	}
	if resp.ChatState.LastQuestionField != "goal" {
		t.Errorf("last question field = %q, want goal", resp.ChatState.LastQuestionField)
	}
	if client.calls != 0 {
		t.Errorf("collection entry must not call the model, got %d calls", client.calls)
	}
	last := resp.Data[len(resp.Data)-1]
	if last.Sender != model.SenderAI || !strings.Contains(last.Text, "Question 1/8") {
		t.Errorf("expected first question, got %q", last.Text)
	}
}

func TestCollectionWalksAllQuestions(t *testing.T) {
	client := &fakeClient{responses: []string{planJSON}}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	postHuman(t, svc, sess.ID, "meal plan please")

	// First answer routes to goal and asks about allergies.
	resp := postHuman(t, svc, sess.ID, "lose weight")
	if resp.ChatState.Mode != model.ModeCollectingProfile {
		t.Fatalf("mode = %q", resp.ChatState.Mode)
	}
	if resp.ChatState.LastQuestionField != "allergies" {
		t.Errorf("next field = %q, want allergies", resp.ChatState.LastQuestionField)
	}

	got, err := svc.GetSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Profile.Goal != "weight_loss" {
		t.Errorf("goal = %q, want weight_loss", got.Profile.Goal)
	}
	if got.Profile.CollectionStep != 1 {
		t.Errorf("step = %d, want 1", got.Profile.CollectionStep)
	}

	// Remaining answers through the last question trigger generation.
	answers := []string{"none", "none", "70, 65", "moderate", "cardio", "3", "general"}
	var final *model.PostMessageResponse
	for _, a := range answers {
		final = postHuman(t, svc, sess.ID, a)
	}

	if !final.ProfileCompleted {
		t.Fatal("profile should be complete after the final answer")
	}
	if final.ChatState.Mode != model.ModeNormal {
		t.Errorf("mode = %q, want normal after generation", final.ChatState.Mode)
	}
	if final.ChatState.CurrentPlanRef == nil {
		t.Fatal("plan reference should be set")
	}
	if final.ChatState.LastQuestionField != "" {
		t.Errorf("last question field should be cleared, got %q", final.ChatState.LastQuestionField)
	}
	if client.calls != 1 {
		t.Errorf("expected exactly one model call, got %d", client.calls)
	}

	last := final.Data[len(final.Data)-1]
	if last.ContentType != model.ContentTypeMealPlan || last.StructuredContent == nil {
		t.Fatalf("final message should carry the plan, got %+v", last)
	}
	if last.Text != collectionCompleteText {
		t.Errorf("final text = %q, want completion sentinel", last.Text)
	}

	// The reference resolves to the plan just stored.
	got, _ = svc.GetSession(context.Background(), sess.ID)
	plan := got.CurrentPlan()
	if plan == nil || plan.TotalCalories != 2000 {
		t.Errorf("CurrentPlan = %+v", plan)
	}
}

func TestPlanRegenerationWithCollectedProfile(t *testing.T) {
	client := &fakeClient{responses: []string{planJSON}}
	svc, st := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	// Pre-collected profile with thresholds that trip two suggestions.
	stored, _ := st.GetSession(context.Background(), sess.ID)
	stored.Profile = model.UserProfile{
		Goal:      "muscle_gain",
		Collected: true,
	}
	if err := st.SaveSession(context.Background(), stored); err != nil {
		t.Fatal(err)
	}

	resp := postHuman(t, svc, sess.ID, "make me a new meal plan")

	if resp.ChatState.CurrentPlanRef == nil {
		t.Fatal("plan reference should be set")
	}
	last := resp.Data[len(resp.Data)-1]
	if !strings.Contains(last.Text, "created a new meal plan with 3 meals") {
		t.Errorf("plan text = %q", last.Text)
	}
	// 2000 kcal with muscle_gain and protein 150: one suggestion (calories).
	if !strings.Contains(last.Text, "more calories") {
		t.Errorf("expected calorie suggestion appended, got %q", last.Text)
	}
}

func TestEditPriorityRequiresExistingPlan(t *testing.T) {
	// Edit keywords without a plan fall through to plain chat.
	client := &fakeClient{responses: []string{"You could start by..."}}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	resp := postHuman(t, svc, sess.ID, "change something for me")

	if client.calls != 1 {
		t.Fatalf("plain chat should call the model once, got %d", client.calls)
	}
	last := resp.Data[len(resp.Data)-1]
	if last.Text != "You could start by..." {
		t.Errorf("text = %q", last.Text)
	}
	if resp.ChatState.Mode != model.ModeNormal {
		t.Errorf("mode = %q", resp.ChatState.Mode)
	}
}

func TestEditRoutesToEditorWhenPlanExists(t *testing.T) {
	edited := strings.Replace(planJSON, "2000", "2100", 1)
	client := &fakeClient{responses: []string{planJSON, edited}}
	svc, st := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	stored, _ := st.GetSession(context.Background(), sess.ID)
	stored.Profile = model.UserProfile{Goal: "maintenance", Collected: true}
	st.SaveSession(context.Background(), stored)

	postHuman(t, svc, sess.ID, "meal plan please")
	resp := postHuman(t, svc, sess.ID, "please edit my meal plan, add more carbs to lunch")

	last := resp.Data[len(resp.Data)-1]
	if !strings.Contains(last.Text, "Updated!") {
		t.Fatalf("expected edit confirmation, got %q", last.Text)
	}
	if !strings.Contains(last.Text, "increased from 2000 to 2100") {
		t.Errorf("expected calorie summary, got %q", last.Text)
	}

	// The historical plan message was overwritten in place.
	got, _ := svc.GetSession(context.Background(), sess.ID)
	plan := got.CurrentPlan()
	if plan == nil || plan.TotalCalories != 2100 {
		t.Errorf("stored plan calories = %+v, want 2100", plan)
	}
}

func TestTurnFailureProducesApology(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	resp := postHuman(t, svc, sess.ID, "hello there")

	last := resp.Data[len(resp.Data)-1]
	if last.Text != apologyText {
		t.Errorf("text = %q, want apology", last.Text)
	}
	if !resp.Success {
		t.Error("turn should still report success")
	}
	if resp.TotalMessages != 2 {
		t.Errorf("total messages = %d, want 2", resp.TotalMessages)
	}
}

func TestGenerationFailureKeepsMode(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	svc, st := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	stored, _ := st.GetSession(context.Background(), sess.ID)
	stored.Profile = model.UserProfile{Goal: "endurance", Collected: true}
	st.SaveSession(context.Background(), stored)

	resp := postHuman(t, svc, sess.ID, "build me a meal plan")

	// Mode stays as mutated before the failure; no rollback.
	if resp.ChatState.Mode != model.ModeGeneratingPlan {
		t.Errorf("mode = %q, want generating_plan preserved", resp.ChatState.Mode)
	}
	if resp.ChatState.CurrentPlanRef != nil {
		t.Error("no plan reference should be set on failure")
	}
	last := resp.Data[len(resp.Data)-1]
	if last.Text != apologyText {
		t.Errorf("text = %q, want apology", last.Text)
	}
}

func TestPostMessageAIMessageStoredWithoutTurn(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	resp, err := svc.PostMessage(context.Background(), sess.ID, &model.PostMessageRequest{
		Sender: model.SenderAI,
		Text:   "welcome back",
	})
	if err != nil {
		t.Fatal(err)
	}
	if client.calls != 0 {
		t.Errorf("ai-sent message must not trigger a turn, got %d calls", client.calls)
	}
	if resp.TotalMessages != 1 {
		t.Errorf("total messages = %d, want 1", resp.TotalMessages)
	}
}

func TestPostMessageReturnsLastTen(t *testing.T) {
	client := &fakeClient{responses: []string{"hi"}}
	svc, _ := newTestChat(t, client)
	sess, _ := svc.CreateSession(context.Background(), &model.CreateSessionRequest{})

	var resp *model.PostMessageResponse
	for i := 0; i < 7; i++ {
		resp = postHuman(t, svc, sess.ID, "hello")
	}
	if resp.TotalMessages != 14 {
		t.Fatalf("total = %d, want 14", resp.TotalMessages)
	}
	if len(resp.Data) != 10 {
		t.Errorf("returned %d messages, want 10", len(resp.Data))
	}
}

func TestPostMessageUnknownSession(t *testing.T) {
	svc, _ := newTestChat(t, &fakeClient{})
	_, err := svc.PostMessage(context.Background(), "missing", &model.PostMessageRequest{
		Sender: model.SenderHuman,
		Text:   "hello",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
