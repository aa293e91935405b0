package stats

import (
	"math"
	"time"

	"fire-server/src/categories"
	"fire-server/src/models"
)

// YearComparisons compares the latest month with the first month of the
// current calendar year.
type YearComparisons struct {
	BaselineMonth models.Month `json:"baselineMonth"`
	BaselineLabel string       `json:"baselineLabel"`
	NetWorth      Delta        `json:"netWorth"`
	Assets        Delta        `json:"assets"`
	Liabilities   Delta        `json:"liabilities"`
	Savings       Delta        `json:"savings"`
	SavingsRate   Delta        `json:"savingsRate"`
	YearlySpend   *Delta       `json:"yearlySpend"`
}

// Dashboard is the set of headline figures for the latest month.
type Dashboard struct {
	Month             models.Month    `json:"month"`
	NetWorth          float64         `json:"netWorth"`
	TotalAssets       float64         `json:"totalAssets"`
	TotalLiabilities  float64         `json:"totalLiabilities"`
	DebtCollaboration float64         `json:"debtCollaboration"`
	InvestmentAssets  float64         `json:"investmentAssets"`
	NetIncome         float64         `json:"netIncome"`
	Savings           float64         `json:"savings"`
	SavingsRate       float64         `json:"savingsRate"`
	YearlySpend       float64         `json:"yearlySpend"`
	FINumber          float64         `json:"fiNumber"`
	CoastFINumber     float64         `json:"coastFiNumber"`
	Progress          float64         `json:"progress"`
	Remaining         float64         `json:"remaining"`
	MonthOverMonth    *Delta          `json:"monthOverMonth"`
	YearComparisons   YearComparisons `json:"yearComparisons"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// Compute derives the dashboard. It returns nil when there are no records.
func Compute(records []models.MonthRecord, cfg models.UserConfig, schema categories.Schema, now time.Time) *Dashboard {
	if len(records) == 0 {
		return nil
	}
	current := records[len(records)-1]
	year := now.Year()

	target := sanitize(cfg.TargetInvestment)
	investment := InvestmentAssetsTotal(current, schema)
	yearlySpend := AverageMonthlyExpenses(records, 12) * 12

	d := &Dashboard{
		Month:             current.ID,
		NetWorth:          NetWorth(current),
		TotalAssets:       TotalAssets(current),
		TotalLiabilities:  TotalLiabilities(current),
		DebtCollaboration: TotalDebtCollaboration(current),
		InvestmentAssets:  investment,
		NetIncome:         NetIncome(current),
		Savings:           Savings(current),
		SavingsRate:       yearSavingsRate(records, year),
		YearlySpend:       yearlySpend,
		FINumber:          target,
		Remaining:         math.Max(0, target-investment),
		MonthOverMonth:    MonthOverMonth(records),
	}
	if target > 0 {
		d.Progress = investment / target * 100
	}

	targetYear := cfg.TargetYear
	if targetYear == 0 {
		targetYear = year + 10
	}
	d.CoastFINumber = CoastNumber(target, cfg.ExpectedReturn, targetYear-year)

	baseline := records[0]
	for _, r := range records {
		if r.ID.Year() == year {
			baseline = r
			break
		}
	}
	d.YearComparisons = YearComparisons{
		BaselineMonth: baseline.ID,
		BaselineLabel: baseline.MonthLabel,
		NetWorth:      Compare(NetWorth(current), NetWorth(baseline)),
		Assets:        Compare(TotalAssets(current), TotalAssets(baseline)),
		Liabilities:   Compare(TotalLiabilities(current), TotalLiabilities(baseline)),
		Savings:       Compare(Savings(current), Savings(baseline)),
		SavingsRate:   Compare(SavingsRate(current), SavingsRate(baseline)),
	}

	var previous []models.MonthRecord
	for _, r := range records {
		if r.ID.Year() == year-1 {
			previous = append(previous, r)
		}
	}
	if len(previous) > 0 {
		delta := Compare(yearlySpend, mean(collect(previous, TotalExpenses))*12)
		d.YearComparisons.YearlySpend = &delta
	}

	for _, r := range records {
		d.Warnings = append(d.Warnings, Rejected(r)...)
	}
	return d
}

func yearSavingsRate(records []models.MonthRecord, year int) float64 {
	var rates []float64
	for _, r := range records {
		if r.ID.Year() == year {
			rates = append(rates, SavingsRate(r))
		}
	}
	return mean(rates)
}

// CoastNumber is the amount that, invested today at the expected return,
// grows into target after the given number of years.
func CoastNumber(target, expectedReturnPct float64, years int) float64 {
	target = sanitize(target)
	if years <= 0 || target <= 0 || !Valid(expectedReturnPct) || expectedReturnPct <= 0 {
		return target
	}
	return target * math.Exp(-float64(years)*math.Log1p(expectedReturnPct/100))
}
