package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"fire-server/src/categories"
	"fire-server/src/models"

	"github.com/rs/zerolog/log"
)

func GetConfig(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.Config())
	}
}

func validConfig(cfg models.UserConfig) bool {
	for _, v := range []float64{cfg.TargetInvestment, cfg.ExpectedReturn, cfg.InvestmentRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return cfg.TargetInvestment >= 0 &&
		cfg.TargetYear >= 1900 && cfg.TargetYear <= 2200 &&
		cfg.ExpectedReturn > -100 && cfg.ExpectedReturn <= 100 &&
		cfg.InvestmentRate >= 0 && cfg.InvestmentRate <= 100
}

func UpdateConfig(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg models.UserConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !validConfig(cfg) {
			http.Error(w, "invalid config values", http.StatusBadRequest)
			return
		}
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		saved := sess.UpdateConfig(r.Context(), cfg)
		log.Info().Str("user_id", sess.UserID()).Msg("updated config")
		writeJSON(w, http.StatusOK, saved)
	}
}

func SetLocale(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Locale string `json:"locale"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Locale == "" {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		locale := categories.ParseLocale(req.Locale)
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		from := sess.Locale()
		if err := sess.SetLocale(r.Context(), locale); err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("user_id", sess.UserID()).Str("from", string(from)).Str("to", string(locale)).Msg("switched locale")
		writeMonths(w, sess)
	}
}

// GetCategories returns the category schema of ?locale=, or the default.
func GetCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := categories.DefaultLocale
		if q := r.URL.Query().Get("locale"); q != "" {
			locale = categories.ParseLocale(q)
		}
		writeJSON(w, http.StatusOK, categories.ForLocale(locale))
	}
}
