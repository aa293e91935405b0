package stats

import (
	"sort"

	"fire-server/src/models"
)

// Trailing returns the last n records, clamped to what is available.
func Trailing(records []models.MonthRecord, n int) []models.MonthRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	return records[len(records)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func collect(records []models.MonthRecord, fn func(models.MonthRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = fn(r)
	}
	return out
}

// AverageNetIncome averages net income over the trailing window.
func AverageNetIncome(records []models.MonthRecord, window int) float64 {
	return mean(collect(Trailing(records, window), NetIncome))
}

// AverageMonthlySavings averages savings over the trailing window.
func AverageMonthlySavings(records []models.MonthRecord, window int) float64 {
	return mean(collect(Trailing(records, window), Savings))
}

// MedianMonthlySavings is the median of savings over the trailing window.
func MedianMonthlySavings(records []models.MonthRecord, window int) float64 {
	values := collect(Trailing(records, window), Savings)
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// AverageMonthlyExpenses averages total expenses over the trailing window.
func AverageMonthlyExpenses(records []models.MonthRecord, window int) float64 {
	return mean(collect(Trailing(records, window), TotalExpenses))
}

// CategoryAverages averages each category over the trailing window, counting
// only months where the category was positive. Categories without any
// positive month average 0.
func CategoryAverages(records []models.MonthRecord, t models.CategoryType, keys []string, window int) map[string]float64 {
	recent := Trailing(records, window)
	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		var samples []float64
		for _, r := range recent {
			if v := sanitize(r.Values(t).Get(key)); v > 0 {
				samples = append(samples, v)
			}
		}
		out[key] = mean(samples)
	}
	return out
}
