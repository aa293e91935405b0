package stats

import (
	"fire-server/src/categories"
	"fire-server/src/models"
)

func GrossIncome(m models.MonthRecord) float64 { return Sum(m.Income) }

func TotalTaxes(m models.MonthRecord) float64 { return Sum(m.Taxes) }

func TotalExpenses(m models.MonthRecord) float64 { return Sum(m.Expenses) }

func TotalAssets(m models.MonthRecord) float64 { return Sum(m.Assets) }

func TotalLiabilities(m models.MonthRecord) float64 { return Sum(m.Liabilities) }

func TotalDebtCollaboration(m models.MonthRecord) float64 { return Sum(m.DebtCollaboration) }

// NetIncome is gross income minus taxes.
func NetIncome(m models.MonthRecord) float64 {
	return GrossIncome(m) - TotalTaxes(m)
}

// Savings is net income minus expenses.
func Savings(m models.MonthRecord) float64 {
	return NetIncome(m) - TotalExpenses(m)
}

// AvailableFunds is what a month can still allocate to investments.
func AvailableFunds(m models.MonthRecord) float64 {
	return Savings(m)
}

// SavingsRate is savings as a percentage of net income, 0 when net income is
// not positive.
func SavingsRate(m models.MonthRecord) float64 {
	ni := NetIncome(m)
	if ni <= 0 {
		return 0
	}
	return Savings(m) / ni * 100
}

// NetWorth counts assets and debt collaboration against liabilities.
func NetWorth(m models.MonthRecord) float64 {
	return TotalAssets(m) + TotalDebtCollaboration(m) - TotalLiabilities(m)
}

// InvestmentAssetsTotal sums the investment-eligible assets of the schema
// plus the debt collaboration total.
func InvestmentAssetsTotal(m models.MonthRecord, schema categories.Schema) float64 {
	var total float64
	for _, key := range schema.Investment {
		total += sanitize(m.Assets.Get(key))
	}
	return total + TotalDebtCollaboration(m)
}

// IsEmptyMonth reports whether no flows, assets or liabilities have been
// entered for the month.
func IsEmptyMonth(m models.MonthRecord) bool {
	for _, t := range []models.CategoryType{models.Income, models.Taxes, models.Expenses, models.Assets, models.Liabilities} {
		for _, v := range m.Values(t) {
			if sanitize(float64(v)) != 0 {
				return false
			}
		}
	}
	return true
}

// Rejected lists "type/key" for every value of m that aggregation ignores.
func Rejected(m models.MonthRecord) []string {
	var out []string
	for _, t := range models.CategoryTypes {
		_, bad := SumChecked(m.Values(t))
		for _, k := range bad {
			out = append(out, m.ID.String()+" "+string(t)+"/"+k)
		}
	}
	return out
}
