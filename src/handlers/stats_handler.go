package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fire-server/src/categories"
	"fire-server/src/format"
	"fire-server/src/models"
	"fire-server/src/stats"

	"github.com/go-chi/chi/v5"
)

// RateFetcher returns the current exchange rates. It never fails.
type RateFetcher interface {
	Fetch(ctx context.Context) models.Rates
}

// Clock is overridden in tests.
type Clock func() time.Time

type statsResponse struct {
	Dashboard *stats.Dashboard  `json:"dashboard"`
	Display   map[string]string `json:"display,omitempty"`
	Locale    categories.Locale `json:"locale"`
	Currency  string            `json:"currency"`
	Rates     *models.Rates     `json:"rates,omitempty"`
}

// ratesFor returns rates only when the locale displays a converted
// currency.
func ratesFor(ctx context.Context, locale categories.Locale, rates RateFetcher) *models.Rates {
	if rates == nil || format.CurrencyFor(locale) == "EUR" {
		return nil
	}
	r := rates.Fetch(ctx)
	return &r
}

func GetStats(sessions SessionProvider, rates RateFetcher, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		locale := sess.Locale()
		d := stats.Compute(sess.Months(), sess.Config(), categories.ForLocale(locale), now())
		resp := statsResponse{
			Dashboard: d,
			Locale:    locale,
			Currency:  format.CurrencyFor(locale),
			Rates:     ratesFor(r.Context(), locale, rates),
		}
		if d != nil {
			money := func(v float64) string { return format.Currency(v, locale, resp.Rates) }
			resp.Display = map[string]string{
				"netWorth":         money(d.NetWorth),
				"totalAssets":      money(d.TotalAssets),
				"totalLiabilities": money(d.TotalLiabilities),
				"investmentAssets": money(d.InvestmentAssets),
				"savings":          money(d.Savings),
				"yearlySpend":      money(d.YearlySpend),
				"fiNumber":         money(d.FINumber),
				"coastFiNumber":    money(d.CoastFINumber),
				"remaining":        money(d.Remaining),
				"savingsRate":      format.Percent(d.SavingsRate, locale),
				"progress":         format.Percent(d.Progress, locale),
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func GetSeries(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		records := sess.Months()
		schema := sess.Schema()
		writeJSON(w, http.StatusOK, map[string][]stats.SeriesPoint{
			"netWorth":    stats.NetWorthSeries(records),
			"savingsRate": stats.SavingsRateSeries(records),
			"progress":    stats.ProgressSeries(records, schema, sess.Config().TargetInvestment),
		})
	}
}

const defaultCategoryWindow = 12

// GetCategoryStats returns per-category averages and the recent trend of one
// category type.
func GetCategoryStats(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := models.ParseCategoryType(chi.URLParam(r, "type"))
		if err != nil {
			http.Error(w, "unknown category type", http.StatusBadRequest)
			return
		}
		window := defaultCategoryWindow
		if q := r.URL.Query().Get("window"); q != "" {
			window, err = strconv.Atoi(q)
			if err != nil || window < 0 {
				http.Error(w, "invalid window", http.StatusBadRequest)
				return
			}
		}

		sess, ok := session(w, r, sessions)
		if !ok {
			return
		}
		records := sess.Months()
		keys := sess.Schema().Keys(t)
		writeJSON(w, http.StatusOK, struct {
			Type     models.CategoryType            `json:"type"`
			Window   int                            `json:"window"`
			Averages map[string]float64             `json:"averages"`
			Trend    map[string][]stats.SeriesPoint `json:"trend"`
		}{
			Type:     t,
			Window:   window,
			Averages: stats.CategoryAverages(records, t, keys, window),
			Trend:    stats.CategoryTrend(records, t, keys, window),
		})
	}
}
