package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitcoach-ai/meal-coach/internal/model"
	"github.com/fitcoach-ai/meal-coach/internal/store"
)

func newUserService() *UserService {
	return NewUserService(store.NewMemoryStore(), "test-secret", time.Hour)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"empty email", model.RegisterRequest{Password: "longenough"}},
		{"email without at", model.RegisterRequest{Email: "nope", Password: "longenough"}},
		{"short password", model.RegisterRequest{Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &model.RegisterRequest{Email: "Coach@Example.COM", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Email != "coach@example.com" {
		t.Errorf("email not normalized: %q", reg.Email)
	}
	if reg.UserID == "" {
		t.Error("missing user ID")
	}

	// Duplicate registration.
	_, err = svc.Register(ctx, &model.RegisterRequest{Email: "coach@example.com", Password: "password123"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("duplicate register = %v, want ValidationError", err)
	}

	// Login with normalized-case email.
	auth, err := svc.Login(ctx, &model.LoginRequest{Email: "COACH@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("login should issue a token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(auth.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != reg.UserID {
		t.Errorf("subject = %q, want %q", claims.Subject, reg.UserID)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	svc.Register(ctx, &model.RegisterRequest{Email: "a@b.com", Password: "password123"})

	// Wrong password and unknown email are indistinguishable.
	_, err := svc.Login(ctx, &model.LoginRequest{Email: "a@b.com", Password: "wrongpass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	_, err = svc.Login(ctx, &model.LoginRequest{Email: "nobody@b.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email = %v, want ErrInvalidCredentials", err)
	}
}
