package stats

import (
	"math"

	"fire-server/src/categories"
	"fire-server/src/models"
)

type SeriesPoint struct {
	Month models.Month `json:"month"`
	Label string       `json:"label"`
	Value float64      `json:"value"`
}

func series(records []models.MonthRecord, fn func(models.MonthRecord) float64) []SeriesPoint {
	out := make([]SeriesPoint, len(records))
	for i, r := range records {
		out[i] = SeriesPoint{Month: r.ID, Label: r.MonthLabel, Value: fn(r)}
	}
	return out
}

func NetWorthSeries(records []models.MonthRecord) []SeriesPoint {
	return series(records, NetWorth)
}

func SavingsRateSeries(records []models.MonthRecord) []SeriesPoint {
	return series(records, SavingsRate)
}

// ProgressSeries is the month-by-month progress toward target, in percent,
// clamped to [0, 100].
func ProgressSeries(records []models.MonthRecord, schema categories.Schema, target float64) []SeriesPoint {
	target = sanitize(target)
	return series(records, func(r models.MonthRecord) float64 {
		if target <= 0 {
			return 0
		}
		return math.Min(100, math.Max(0, InvestmentAssetsTotal(r, schema)/target*100))
	})
}

// CategoryTrend returns the last maxPoints values of every category.
func CategoryTrend(records []models.MonthRecord, t models.CategoryType, keys []string, maxPoints int) map[string][]SeriesPoint {
	recent := Trailing(records, maxPoints)
	out := make(map[string][]SeriesPoint, len(keys))
	for _, key := range keys {
		out[key] = series(recent, func(r models.MonthRecord) float64 {
			return sanitize(r.Values(t).Get(key))
		})
	}
	return out
}

// MonthOverMonth compares the net worth of the last two months. It returns
// nil when there are fewer than two.
func MonthOverMonth(records []models.MonthRecord) *Delta {
	if len(records) < 2 {
		return nil
	}
	d := Compare(NetWorth(records[len(records)-1]), NetWorth(records[len(records)-2]))
	return &d
}
