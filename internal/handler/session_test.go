package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/service"
	"github.com/fitcoach-ai/meal-coach/internal/store"
	"github.com/fitcoach-ai/meal-coach/pkg/logger"
)

type stubClient struct {
	response string
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

func (s *stubClient) Name() string { return "stub" }

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	chatSvc := service.NewChatService(st, &stubClient{response: "sure thing"}, log)
	h := NewSessionHandler(chatSvc, log)

	r := chi.NewRouter()
	r.Post("/session", h.Create)
	r.Get("/session", h.List)
	r.Route("/session/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/messages", h.PostMessage)
		r.Get("/meal-suggestions", h.Suggestions)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionCreateAndMessageFlow(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/session", map[string]string{"title": "My plan"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var sess model.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" || sess.SessionToken == "" {
		t.Fatalf("session = %+v", sess)
	}

	rec = doJSON(t, r, http.MethodPost, "/session/"+sess.ID+"/messages", model.PostMessageRequest{
		Sender: model.SenderHuman,
		Text:   "hello coach",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("post message status = %d: %s", rec.Code, rec.Body)
	}
	var resp model.PostMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.TotalMessages != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Data[len(resp.Data)-1].Text != "sure thing" {
		t.Errorf("ai reply = %q", resp.Data[len(resp.Data)-1].Text)
	}

	// List by token.
	rec = doJSON(t, r, http.MethodGet, "/session?sessionId="+sess.SessionToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), sess.ID) {
		t.Error("list missing session")
	}
}

func TestSessionErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{
			name:       "list without owner",
			method:     http.MethodGet,
			path:       "/session",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "get with malformed id",
			method:     http.MethodGet,
			path:       "/session/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "get unknown session",
			method:     http.MethodGet,
			path:       "/session/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "message with bad sender",
			method: http.MethodPost,
			path:   "/session/6ba7b810-9dad-11d1-80b4-00c04fd430c8/messages",
			body: map[string]string{
				"sender": "robot",
				"text":   "hi",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "message with empty text",
			method: http.MethodPost,
			path:   "/session/6ba7b810-9dad-11d1-80b4-00c04fd430c8/messages",
			body: map[string]string{
				"sender": "human",
				"text":   "",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "suggestions for unknown session",
			method:     http.MethodGet,
			path:       "/session/6ba7b810-9dad-11d1-80b4-00c04fd430c8/meal-suggestions",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}
