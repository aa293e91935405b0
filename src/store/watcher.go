package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ChangeListener interface {
	ListenMonthChanges(ctx context.Context, fn func(userID string)) error
}

const (
	minRetry = time.Second
	maxRetry = time.Minute
)

// Watch refreshes loaded sessions whenever another writer saves a user's
// months. It reconnects with backoff until ctx is done.
func Watch(ctx context.Context, listener ChangeListener, sessions *Sessions) {
	retry := minRetry
	for {
		started := time.Now()
		err := listener.ListenMonthChanges(ctx, func(userID string) {
			if _, ok := sessions.Loaded(userID); !ok {
				return
			}
			refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if _, err := sessions.Refresh(refreshCtx, userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("failed to refresh session")
			}
		})
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > maxRetry {
			retry = minRetry
		}
		log.Warn().Err(err).Dur("retry_in", retry).Msg("month change listener stopped")

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
		retry *= 2
		if retry > maxRetry {
			retry = maxRetry
		}
	}
}
