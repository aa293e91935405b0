package db

import (
	"context"
	"time"

	"fire-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store exposes the Postgres queries as the repository interfaces used by
// the data access layer.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) LoadMonths(ctx context.Context, userID string) ([]models.MonthRecord, time.Time, error) {
	return GetMonths(ctx, s.Pool, userID)
}

func (s *Store) SaveMonths(ctx context.Context, userID string, months []models.MonthRecord) (time.Time, error) {
	return SaveMonths(ctx, s.Pool, userID, months)
}

func (s *Store) LoadConfig(ctx context.Context, userID string) (*models.UserConfig, error) {
	return GetUserConfig(ctx, s.Pool, userID)
}

func (s *Store) SaveConfig(ctx context.Context, userID string, cfg models.UserConfig) error {
	return SaveUserConfig(ctx, s.Pool, userID, cfg)
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	return CreateUser(ctx, s.Pool, user)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return GetUserByUsername(ctx, s.Pool, username)
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	return UpdateUserLastLogin(ctx, s.Pool, userID)
}

func (s *Store) ListenMonthChanges(ctx context.Context, fn func(userID string)) error {
	return ListenMonthChanges(ctx, s.Pool, fn)
}
