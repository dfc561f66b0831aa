// Package store provides document-style persistence for sessions, users and
// favourite meals. Operations are blocking create/find/save calls with no
// cross-document transactional guarantees; concurrent saves of the same
// session are last-write-wins.
package store

import (
	"context"
	"errors"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated, such as
// registering an email twice.
var ErrDuplicate = errors.New("already exists")

// SessionStore persists conversation sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// ListSessions returns sessions owned by the given user ID or anonymous
	// session token, newest first. Exactly one of the two should be set.
	ListSessions(ctx context.Context, userID, sessionToken string) ([]model.Session, error)
	SaveSession(ctx context.Context, s *model.Session) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// MealStore persists favourite meals.
type MealStore interface {
	CreateMeal(ctx context.Context, m *model.FavouriteMeal) error
	GetMeal(ctx context.Context, id string) (*model.FavouriteMeal, error)
	ListMeals(ctx context.Context, userID string) ([]model.FavouriteMeal, error)
	UpdateMeal(ctx context.Context, m *model.FavouriteMeal) error
	DeleteMeal(ctx context.Context, id string) error
}

// Store is the full persistence surface.
type Store interface {
	SessionStore
	UserStore
	MealStore
	Ping(ctx context.Context) error
	Close() error
}
