package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"fire-server/src/categories"
	"fire-server/src/middleware"
	"fire-server/src/models"
	"fire-server/src/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SessionProvider hands out the working copy of an authenticated user.
type SessionProvider interface {
	Get(ctx context.Context, userID string) (*store.Session, error)
}

type monthsResponse struct {
	Months    []models.MonthRecord `json:"months"`
	Locale    categories.Locale    `json:"locale"`
	UpdatedAt *time.Time           `json:"updatedAt,omitempty"`
	// Warning is set while the stored months cannot be edited.
	Warning string `json:"warning,omitempty"`
}

// session loads the caller's session, writing the error response itself.
func session(w http.ResponseWriter, r *http.Request, sessions SessionProvider) (*store.Session, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	sess, err := sessions.Get(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load session")
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func writeMonths(w http.ResponseWriter, sess *store.Session) {
	resp := monthsResponse{Months: sess.Months(), Locale: sess.Locale()}
	if at := sess.UpdatedAt(); !at.IsZero() {
		resp.UpdatedAt = &at
	}
	if err := sess.Err(); err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func monthParam(w http.ResponseWriter, r *http.Request) (models.Month, bool) {
	id, err := models.ParseMonth(chi.URLParam(r, "month_id"))
	if err != nil {
		http.Error(w, "invalid month id", http.StatusBadRequest)
		return models.Month{}, false
	}
	return id, true
}

func GetMonths(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		writeMonths(w, sess)
	}
}

func UpdateMonthValue(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := monthParam(w, r)
		if !ok {
			return
		}
		t, err := models.ParseCategoryType(chi.URLParam(r, "type"))
		if err != nil {
			http.Error(w, "unknown category type", http.StatusBadRequest)
			return
		}
		category, err := url.PathUnescape(chi.URLParam(r, "category"))
		if err != nil || category == "" {
			http.Error(w, "missing category", http.StatusBadRequest)
			return
		}

		var req struct {
			Value models.Amount `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		if err := sess.Update(id, t, category, float64(req.Value)); err != nil {
			writeError(w, err)
			return
		}
		writeMonths(w, sess)
	}
}

func SetCollaboratesInDebt(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := monthParam(w, r)
		if !ok {
			return
		}
		var req struct {
			Value bool `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		if err := sess.SetCollaboratesInDebt(id, req.Value); err != nil {
			writeError(w, err)
			return
		}
		writeMonths(w, sess)
	}
}

func AddPreviousMonth(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		if err := sess.AddPrevious(); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("user_id", sess.UserID()).Msg("added previous month")
		writeMonths(w, sess)
	}
}

func RemoveOldestMonth(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		if err := sess.RemoveOldest(); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("user_id", sess.UserID()).Msg("removed oldest month")
		writeMonths(w, sess)
	}
}

func AllocateFunds(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := monthParam(w, r)
		if !ok {
			return
		}
		var req struct {
			Category string `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		amount, err := sess.Allocate(id, req.Category)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Allocated float64              `json:"allocated"`
			Months    []models.MonthRecord `json:"months"`
		}{amount, sess.Months()})
	}
}
