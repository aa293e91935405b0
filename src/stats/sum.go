// Package stats derives financial figures from month records. Every function
// is pure and total: malformed amounts count as 0.
package stats

import (
	"math"
	"sort"

	"fire-server/src/models"
)

// MaxMagnitude bounds accepted amounts. Values at or beyond it are rejected.
const MaxMagnitude = 1e15

// Valid reports whether v is accepted by aggregation.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < MaxMagnitude
}

// Sum adds the values of a category mapping, skipping rejected values.
func Sum(a models.Amounts) float64 {
	total, _ := SumChecked(a)
	return total
}

// SumChecked is Sum that also returns the keys whose values were rejected.
// Keys are visited in sorted order so results are reproducible.
func SumChecked(a models.Amounts) (float64, []string) {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var total float64
	var rejected []string
	for _, k := range keys {
		v := float64(a[k])
		if !Valid(v) {
			rejected = append(rejected, k)
			continue
		}
		total += v
	}
	return total, rejected
}

func sanitize(v float64) float64 {
	if !Valid(v) {
		return 0
	}
	return v
}
