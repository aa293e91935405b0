package handlers

import (
	"net/http"
)

func GetRates(rates RateFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rates.Fetch(r.Context()))
	}
}

type RateRefresher interface {
	RateFetcher
	Invalidate()
}

// RefreshRates discards the cached rates and fetches them again.
func RefreshRates(rates RateRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rates.Invalidate()
		writeJSON(w, http.StatusOK, rates.Fetch(r.Context()))
	}
}
