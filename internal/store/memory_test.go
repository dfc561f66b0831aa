package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

func TestMemoryStoreSessionIsolation(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	ref := 0
	sess := &model.Session{
		ID:     "s1",
		UserID: "u1",
		State:  model.ChatState{Mode: model.ModeNormal, CurrentPlanRef: &ref},
		Messages: []model.Message{
			{Sender: model.SenderAI, Text: "hello"},
		},
		CreatedAt: time.Now(),
	}
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatal(err)
	}

	// Mutating the fetched copy must not leak into the store.
	got, _ := st.GetSession(ctx, "s1")
	got.Messages[0].Text = "mutated"
	*got.State.CurrentPlanRef = 99

	fresh, _ := st.GetSession(ctx, "s1")
	if fresh.Messages[0].Text != "hello" {
		t.Error("stored messages shared with caller copy")
	}
	if *fresh.State.CurrentPlanRef != 0 {
		t.Error("stored plan ref shared with caller copy")
	}
}

func TestMemoryStoreSaveUnknownSession(t *testing.T) {
	st := NewMemoryStore()
	err := st.SaveSession(context.Background(), &model.Session{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"old", "mid", "new"} {
		st.CreateSession(ctx, &model.Session{
			ID:        id,
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	list, err := st.ListSessions(ctx, "u1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[2].ID != "old" {
		t.Errorf("order = %v", []string{list[0].ID, list[1].ID, list[2].ID})
	}
}

func TestMemoryStoreDuplicateEmail(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateUser(ctx, &model.User{ID: "u1", Email: "a@b.com"}); err != nil {
		t.Fatal(err)
	}
	err := st.CreateUser(ctx, &model.User{ID: "u2", Email: "a@b.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}
