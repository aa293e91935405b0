// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Saves counts persistence attempts by target ("cloud", "local") and
	// result ("ok", "error").
	Saves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fire_saves_total",
		Help: "Persistence attempts by target and result.",
	}, []string{"target", "result"})

	// LoadFallbacks counts loads served from the local mirror because the
	// cloud store failed.
	LoadFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fire_load_fallbacks_total",
		Help: "Loads served by the local mirror after a cloud failure.",
	})

	// SupersededSaves counts debounced saves replaced by a newer one before
	// running.
	SupersededSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fire_superseded_saves_total",
		Help: "Pending saves replaced by a newer write.",
	})

	// Refreshes counts external reloads by outcome ("replaced", "unchanged",
	// "skipped", "error").
	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fire_session_refreshes_total",
		Help: "Session reloads triggered by external changes.",
	}, []string{"outcome"})

	// RateFetches counts exchange rate lookups by source.
	RateFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fire_rate_fetches_total",
		Help: "Exchange rate lookups by source.",
	}, []string{"source"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fire_active_sessions",
		Help: "Users with an in-memory working copy.",
	})
)
