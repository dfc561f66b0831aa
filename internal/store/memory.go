package store

import (
	"context"
	"sort"
	"sync"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	users    map[string]*model.User
	meals    map[string]*model.FavouriteMeal
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		users:    make(map[string]*model.User),
		meals:    make(map[string]*model.FavouriteMeal),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                   { return nil }

func (s *MemoryStore) CreateSession(ctx context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneSession(sess)
	s.sessions[sess.ID] = cp
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(sess), nil
}

func (s *MemoryStore) ListSessions(ctx context.Context, userID, sessionToken string) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Session
	for _, sess := range s.sessions {
		if (userID != "" && sess.UserID == userID) ||
			(sessionToken != "" && sess.SessionToken == sessionToken) {
			out = append(out, *cloneSession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) SaveSession(ctx context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return ErrNotFound
	}
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateMeal(ctx context.Context, m *model.FavouriteMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.meals[m.ID] = &cp
	return nil
}

func (s *MemoryStore) GetMeal(ctx context.Context, id string) (*model.FavouriteMeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) ListMeals(ctx context.Context, userID string) ([]model.FavouriteMeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.FavouriteMeal
	for _, m := range s.meals {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateMeal(ctx context.Context, m *model.FavouriteMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meals[m.ID]; !ok {
		return ErrNotFound
	}
	cp := *m
	s.meals[m.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meals[id]; !ok {
		return ErrNotFound
	}
	delete(s.meals, id)
	return nil
}

func cloneSession(sess *model.Session) *model.Session {
	cp := *sess
	cp.Messages = make([]model.Message, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	if sess.State.CurrentPlanRef != nil {
		ref := *sess.State.CurrentPlanRef
		cp.State.CurrentPlanRef = &ref
	}
	return &cp
}
