// Package local provides a SQLite-backed mirror of user data, used when the
// cloud store is unavailable or not configured.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fire-server/src/models"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    display_name  TEXT NOT NULL,
    password_hash BLOB NOT NULL,
    created_at    TEXT NOT NULL,
    last_login    TEXT
);

CREATE TABLE IF NOT EXISTS month_data (
    user_id    TEXT PRIMARY KEY,
    months     TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_config (
    user_id    TEXT PRIMARY KEY,
    config     TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating local db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) LoadMonths(ctx context.Context, userID string) ([]models.MonthRecord, time.Time, error) {
	var raw, updated string
	err := s.db.QueryRowContext(ctx, "SELECT months, updated_at FROM month_data WHERE user_id = ?", userID).Scan(&raw, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, models.ErrNotFound
		}
		return nil, time.Time{}, err
	}

	var months []models.MonthRecord
	if err := json.Unmarshal([]byte(raw), &months); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode months for %s: %w", userID, err)
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, updated)
	return months, updatedAt, nil
}

func (s *Store) SaveMonths(ctx context.Context, userID string, months []models.MonthRecord) (time.Time, error) {
	raw, err := json.Marshal(months)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode months: %w", err)
	}
	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO month_data (user_id, months, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET months = excluded.months, updated_at = excluded.updated_at`,
		userID, string(raw), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("saving months: %w", err)
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, now)
	return updatedAt, nil
}

func (s *Store) LoadConfig(ctx context.Context, userID string) (*models.UserConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT config FROM user_config WHERE user_id = ?", userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	cfg := models.DefaultUserConfig()
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode config for %s: %w", userID, err)
	}
	return &cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, userID string, cfg models.UserConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_config (user_id, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		userID, string(raw), s.timestamp())
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.DisplayName, user.PasswordHash, s.timestamp())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	var created string
	var lastLogin sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, display_name, password_hash, created_at, last_login FROM users WHERE username = ?",
		username).Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &created, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	if lastLogin.Valid {
		if t, err := time.Parse(time.RFC3339Nano, lastLogin.String); err == nil {
			user.LastLogin = &t
		}
	}
	return &user, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", s.timestamp(), userID)
	return err
}
