// Package store is the data access layer: a cloud store with a local mirror,
// debounced persistence and per-user working copies.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fire-server/src/db"
	"fire-server/src/metrics"
	"fire-server/src/models"

	"github.com/rs/zerolog/log"
)

type MonthRepository interface {
	LoadMonths(ctx context.Context, userID string) ([]models.MonthRecord, time.Time, error)
	SaveMonths(ctx context.Context, userID string, months []models.MonthRecord) (time.Time, error)
}

type ConfigRepository interface {
	LoadConfig(ctx context.Context, userID string) (*models.UserConfig, error)
	SaveConfig(ctx context.Context, userID string, cfg models.UserConfig) error
}

type Repository interface {
	MonthRepository
	ConfigRepository
}

// Facade reads from the cloud store and falls back to the local mirror.
// Writes go to the local mirror first, then to the cloud.
type Facade struct {
	cloud Repository
	local Repository
	cache *db.Cache
}

// NewFacade builds a facade. cloud may be nil for local-only operation and
// cache may be nil to disable config caching.
func NewFacade(cloud, local Repository, cache *db.Cache) *Facade {
	return &Facade{cloud: cloud, local: local, cache: cache}
}

// LoadMonths returns the user's months and when they were last written. A
// user without stored data gets an empty slice and no error.
func (f *Facade) LoadMonths(ctx context.Context, userID string) ([]models.MonthRecord, time.Time, error) {
	var cloudErr error
	if f.cloud != nil {
		months, updatedAt, err := f.cloud.LoadMonths(ctx, userID)
		if err == nil {
			if _, err := f.local.SaveMonths(ctx, userID, months); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("failed to mirror months locally")
			}
			return months, updatedAt, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			cloudErr = err
			metrics.LoadFallbacks.Inc()
			log.Warn().Err(err).Str("user_id", userID).Msg("cloud load failed, using local mirror")
		}
	}

	months, updatedAt, err := f.local.LoadMonths(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) && cloudErr == nil {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, errors.Join(cloudErr, err)
	}
	return months, updatedAt, nil
}

// SaveMonths writes months everywhere. The returned error reports the first
// failed store; the timestamp is from the last successful write.
func (f *Facade) SaveMonths(ctx context.Context, userID string, months []models.MonthRecord) (time.Time, error) {
	updatedAt, localErr := f.local.SaveMonths(ctx, userID, months)
	record("local", localErr)
	if localErr != nil {
		localErr = fmt.Errorf("local save: %w", localErr)
	}
	if f.cloud == nil {
		return updatedAt, localErr
	}

	cloudAt, err := f.cloud.SaveMonths(ctx, userID, months)
	record("cloud", err)
	if err != nil {
		return updatedAt, errors.Join(localErr, fmt.Errorf("cloud save: %w", err))
	}
	return cloudAt, localErr
}

// LoadConfig returns the user's goals, falling back to defaults when none
// are stored or every store fails.
func (f *Facade) LoadConfig(ctx context.Context, userID string) models.UserConfig {
	if f.cache != nil {
		if v, ok := f.cache.Get(db.ConfigKind, userID); ok {
			if cfg, ok := v.(models.UserConfig); ok {
				return cfg
			}
		}
	}

	cfg, found := f.loadConfig(ctx, userID)
	if !found {
		cfg = models.DefaultUserConfig()
		if err := f.SaveConfig(ctx, userID, cfg); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to store default config")
		}
		return cfg
	}
	if f.cache != nil {
		f.cache.Set(db.ConfigKind, userID, cfg, 0)
	}
	return cfg
}

func (f *Facade) loadConfig(ctx context.Context, userID string) (models.UserConfig, bool) {
	if f.cloud != nil {
		cfg, err := f.cloud.LoadConfig(ctx, userID)
		if err == nil {
			return *cfg, true
		}
		if !errors.Is(err, models.ErrNotFound) {
			metrics.LoadFallbacks.Inc()
			log.Warn().Err(err).Str("user_id", userID).Msg("cloud config load failed, using local mirror")
		}
	}
	cfg, err := f.local.LoadConfig(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", userID).Msg("local config load failed")
		}
		return models.UserConfig{}, false
	}
	return *cfg, true
}

// SaveConfig replaces the stored goals.
func (f *Facade) SaveConfig(ctx context.Context, userID string, cfg models.UserConfig) error {
	if f.cache != nil {
		f.cache.Set(db.ConfigKind, userID, cfg, 0)
	}
	localErr := f.local.SaveConfig(ctx, userID, cfg)
	record("local", localErr)
	if f.cloud == nil {
		return localErr
	}
	err := f.cloud.SaveConfig(ctx, userID, cfg)
	record("cloud", err)
	return errors.Join(localErr, err)
}

func record(target string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.Saves.WithLabelValues(target, result).Inc()
}
