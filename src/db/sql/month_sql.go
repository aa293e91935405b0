package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fire-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonthsChannel is the LISTEN/NOTIFY channel signaled on every months save.
// The payload is the user id.
const MonthsChannel = "months_changed"

func GetMonths(ctx context.Context, pool *pgxpool.Pool, userID string) ([]models.MonthRecord, time.Time, error) {
	query := `SELECT months, updated_at FROM month_data WHERE user_id = $1`

	var raw []byte
	var updatedAt time.Time
	if err := pool.QueryRow(ctx, query, userID).Scan(&raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, models.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("query error: %w", err)
	}

	var months []models.MonthRecord
	if err := json.Unmarshal(raw, &months); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode months for %s: %w", userID, err)
	}
	return months, updatedAt, nil
}

// SaveMonths replaces the stored months and notifies listeners in the same
// transaction.
func SaveMonths(ctx context.Context, pool *pgxpool.Pool, userID string, months []models.MonthRecord) (time.Time, error) {
	raw, err := json.Marshal(months)
	if err != nil {
		return time.Time{}, fmt.Errorf("encode months: %w", err)
	}

	var updatedAt time.Time
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO month_data (user_id, months, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE SET months = EXCLUDED.months, updated_at = EXCLUDED.updated_at
			RETURNING updated_at
		`
		if err := tx.QueryRow(ctx, query, userID, raw).Scan(&updatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, MonthsChannel, userID)
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to save months: %w", err)
	}
	return updatedAt, nil
}

// ListenMonthChanges blocks until ctx is done, calling fn with the user id of
// every months save.
func ListenMonthChanges(ctx context.Context, pool *pgxpool.Pool, fn func(userID string)) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{MonthsChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		fn(n.Payload)
	}
}
