package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fire-server/src/migration"
	"fire-server/src/models"
	"fire-server/src/months"
	"fire-server/src/store"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps domain errors to a status code and a short message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidImport):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, months.ErrMonthNotFound):
		http.Error(w, "month not found", http.StatusNotFound)
	case errors.Is(err, months.ErrLastMonth):
		http.Error(w, "at least one month must remain", http.StatusConflict)
	case errors.Is(err, months.ErrNoFunds):
		http.Error(w, "no available funds to allocate", http.StatusConflict)
	case errors.Is(err, migration.ErrMixedLocales):
		http.Error(w, "data mixes category languages", http.StatusConflict)
	case errors.Is(err, months.ErrUnknownType):
		http.Error(w, "unknown category type", http.StatusBadRequest)
	case errors.Is(err, months.ErrNotInvestment):
		http.Error(w, "not an investment category", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidMonth):
		http.Error(w, "invalid month", http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
