package projection

import (
	"fire-server/src/models"
	"fire-server/src/stats"
)

const (
	// RateWindow is the number of months averaged for rate-based contributions.
	RateWindow = 6
	// HistoryWindow is the longest history used for the savings fallback.
	HistoryWindow = 60
)

type ContributionSource string

const (
	SourceRate    ContributionSource = "rate"
	SourceHistory ContributionSource = "history"
)

type Contribution struct {
	Monthly float64            `json:"monthly"`
	Source  ContributionSource `json:"source"`
}

// ResolveContribution picks the monthly contribution for the projection. A
// positive investment rate applies to the recent average net income;
// otherwise the long-run average of monthly savings is used.
func ResolveContribution(records []models.MonthRecord, investmentRate float64) Contribution {
	if stats.Valid(investmentRate) && investmentRate > 0 {
		return Contribution{
			Monthly: stats.AverageNetIncome(records, RateWindow) * investmentRate / 100,
			Source:  SourceRate,
		}
	}
	return Contribution{
		Monthly: stats.AverageMonthlySavings(records, HistoryWindow),
		Source:  SourceHistory,
	}
}
