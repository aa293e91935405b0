package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"fire-server/src/models"
)

var errDown = errors.New("store unavailable")

type memRepo struct {
	mu       sync.Mutex
	months   map[string][]models.MonthRecord
	configs  map[string]models.UserConfig
	saves    int
	failLoad bool
	failSave bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		months:  make(map[string][]models.MonthRecord),
		configs: make(map[string]models.UserConfig),
	}
}

func (r *memRepo) LoadMonths(_ context.Context, userID string) ([]models.MonthRecord, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLoad {
		return nil, time.Time{}, errDown
	}
	months, ok := r.months[userID]
	if !ok {
		return nil, time.Time{}, models.ErrNotFound
	}
	return models.CloneRecords(months), time.Now(), nil
}

func (r *memRepo) SaveMonths(_ context.Context, userID string, months []models.MonthRecord) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return time.Time{}, errDown
	}
	r.saves++
	r.months[userID] = models.CloneRecords(months)
	return time.Now(), nil
}

func (r *memRepo) LoadConfig(_ context.Context, userID string) (*models.UserConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLoad {
		return nil, errDown
	}
	cfg, ok := r.configs[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &cfg, nil
}

func (r *memRepo) SaveConfig(_ context.Context, userID string, cfg models.UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errDown
	}
	r.configs[userID] = cfg
	return nil
}

func (r *memRepo) stored(userID string) []models.MonthRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneRecords(r.months[userID])
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
