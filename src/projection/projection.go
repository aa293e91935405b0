// Package projection simulates yearly compound growth of invested assets
// toward the user's goal.
package projection

import (
	"math"
	"time"

	"fire-server/src/categories"
	"fire-server/src/models"
	"fire-server/src/stats"
)

const (
	// DefaultMaxYears caps the simulation horizon.
	DefaultMaxYears = 50
	// BufferYears are simulated after the target is reached so the crossover
	// is visible.
	BufferYears = 5
)

type Point struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
	Target float64 `json:"target"`
}

type Result struct {
	Series      []Point `json:"series"`
	ReachedYear *int    `json:"reachedYear"`
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Project starts from currentInvested at startYear and, for every following
// year, applies the annual return and adds twelve monthly contributions. The
// contribution may be negative. A non-positive target, or a starting balance
// already at the target, is reached at startYear.
func Project(currentInvested, monthlyContribution, annualReturnPct, target float64, startYear, maxYears int) Result {
	if maxYears <= 0 {
		maxYears = DefaultMaxYears
	}
	balance := finite(currentInvested)
	contribution := finite(monthlyContribution)
	rate := finite(annualReturnPct) / 100
	target = finite(target)

	res := Result{Series: []Point{{Year: startYear, Amount: balance, Target: target}}}
	if target <= 0 || balance >= target {
		y := startYear
		res.ReachedYear = &y
	}

	for year := startYear + 1; year <= startYear+maxYears; year++ {
		if res.ReachedYear != nil && year > *res.ReachedYear+BufferYears {
			break
		}
		next := balance*(1+rate) + contribution*12
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		balance = next
		res.Series = append(res.Series, Point{Year: year, Amount: balance, Target: target})
		if res.ReachedYear == nil && balance >= target {
			y := year
			res.ReachedYear = &y
		}
	}
	return res
}

// Plan is the projection the dashboard shows for the latest month.
type Plan struct {
	CurrentInvested float64      `json:"currentInvested"`
	Contribution    Contribution `json:"contribution"`
	Target          float64      `json:"target"`
	ExpectedReturn  float64      `json:"expectedReturn"`
	TargetYear      int          `json:"targetYear"`
	YearsToTarget   *int         `json:"yearsToTarget"`
	OnTrack         bool         `json:"onTrack"`
	CoastNumber     float64      `json:"coastNumber"`
	Result
}

// BuildPlan resolves the inputs from the records and config and runs the
// projection starting at now's year.
func BuildPlan(records []models.MonthRecord, cfg models.UserConfig, schema categories.Schema, now time.Time) Plan {
	startYear := now.Year()
	plan := Plan{
		Contribution:   ResolveContribution(records, cfg.InvestmentRate),
		Target:         cfg.TargetInvestment,
		ExpectedReturn: cfg.ExpectedReturn,
		TargetYear:     cfg.TargetYear,
	}
	if len(records) > 0 {
		plan.CurrentInvested = stats.InvestmentAssetsTotal(records[len(records)-1], schema)
	}
	plan.Result = Project(plan.CurrentInvested, plan.Contribution.Monthly, cfg.ExpectedReturn, cfg.TargetInvestment, startYear, DefaultMaxYears)
	if plan.ReachedYear != nil {
		years := *plan.ReachedYear - startYear
		plan.YearsToTarget = &years
		plan.OnTrack = cfg.TargetYear == 0 || *plan.ReachedYear <= cfg.TargetYear
	}
	plan.CoastNumber = stats.CoastNumber(cfg.TargetInvestment, cfg.ExpectedReturn, cfg.TargetYear-startYear)
	return plan
}
