package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/fitcoach-ai/meal-coach/internal/model"
)

// SQLiteStore is a document store backed by sqlite. Sessions and meals are
// stored as JSON documents with a few indexed columns for lookups.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        password_hash BLOB NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        user_id TEXT,
        session_token TEXT,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        document TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS favourite_meals (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        document TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
    CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(session_token);
    CREATE INDEX IF NOT EXISTS idx_meals_user_id ON favourite_meals(user_id);
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping checks database liveness.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new session document.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *model.Session) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, session_token, created_at, updated_at, document)
         VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, nullable(sess.UserID), nullable(sess.SessionToken),
		sess.CreatedAt, sess.UpdatedAt, string(doc))
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session document by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// ListSessions returns sessions for a user or anonymous token, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID, sessionToken string) ([]model.Session, error) {
	var rows *sql.Rows
	var err error
	if userID != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT document FROM sessions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT document FROM sessions WHERE session_token = ? ORDER BY created_at DESC`, sessionToken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		var sess model.Session
		if err := json.Unmarshal([]byte(doc), &sess); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SaveSession overwrites the stored session document. Last write wins.
func (s *SQLiteStore) SaveSession(ctx context.Context, sess *model.Session) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, document = ? WHERE id = ?`,
		sess.UpdatedAt, string(doc), sess.ID)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateUser inserts a new user account.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// CreateMeal inserts a favourite meal document.
func (s *SQLiteStore) CreateMeal(ctx context.Context, m *model.FavouriteMeal) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode meal: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favourite_meals (id, user_id, created_at, document) VALUES (?, ?, ?, ?)`,
		m.ID, m.UserID, m.CreatedAt, string(doc))
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// GetMeal fetches a favourite meal by ID.
func (s *SQLiteStore) GetMeal(ctx context.Context, id string) (*model.FavouriteMeal, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM favourite_meals WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meal: %w", err)
	}
	var m model.FavouriteMeal
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("failed to decode meal: %w", err)
	}
	return &m, nil
}

// ListMeals returns a user's favourite meals, newest first.
func (s *SQLiteStore) ListMeals(ctx context.Context, userID string) ([]model.FavouriteMeal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM favourite_meals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []model.FavouriteMeal
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		var m model.FavouriteMeal
		if err := json.Unmarshal([]byte(doc), &m); err != nil {
			return nil, fmt.Errorf("failed to decode meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// UpdateMeal overwrites a favourite meal document.
func (s *SQLiteStore) UpdateMeal(ctx context.Context, m *model.FavouriteMeal) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode meal: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE favourite_meals SET document = ? WHERE id = ?`, string(doc), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeal removes a favourite meal.
func (s *SQLiteStore) DeleteMeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favourite_meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
