package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fire-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUserConfig(ctx context.Context, pool *pgxpool.Pool, userID string) (*models.UserConfig, error) {
	query := `SELECT config FROM user_config WHERE user_id = $1`

	var raw []byte
	if err := pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}

	cfg := models.DefaultUserConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config for %s: %w", userID, err)
	}
	return &cfg, nil
}

func SaveUserConfig(ctx context.Context, pool *pgxpool.Pool, userID string, cfg models.UserConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	query := `
		INSERT INTO user_config (user_id, config, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at
	`
	if _, err := pool.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
