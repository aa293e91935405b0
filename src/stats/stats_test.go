package stats

import (
	"math"
	"testing"
	"time"

	"fire-server/src/categories"
	"fire-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, id string) models.MonthRecord {
	t.Helper()
	m, err := models.ParseMonth(id)
	require.NoError(t, err)
	return models.MonthRecord{ID: m, MonthLabel: id}
}

func flows(t *testing.T, id string, income, taxes, expenses float64) models.MonthRecord {
	r := month(t, id)
	r.Income = models.Amounts{"Salary": models.Amount(income)}
	r.Taxes = models.Amounts{"IRPF": models.Amount(taxes)}
	r.Expenses = models.Amounts{"Rent": models.Amount(expenses)}
	return r
}

func TestSumRejectsInvalid(t *testing.T) {
	total, rejected := SumChecked(models.Amounts{
		"ok":   100,
		"neg":  -40,
		"nan":  models.Amount(math.NaN()),
		"inf":  models.Amount(math.Inf(1)),
		"huge": 1e15,
	})
	assert.Equal(t, 60.0, total)
	assert.Equal(t, []string{"huge", "inf", "nan"}, rejected)
	assert.Equal(t, 0.0, Sum(nil))
}

func TestMonthFigures(t *testing.T) {
	r := flows(t, "2024-01", 3000, 500, 1000)
	assert.Equal(t, 2500.0, NetIncome(r))
	assert.Equal(t, 1500.0, Savings(r))
	assert.InDelta(t, 60.0, SavingsRate(r), 1e-9)
}

func TestSavingsRateZeroWhenNoNetIncome(t *testing.T) {
	assert.Equal(t, 0.0, SavingsRate(flows(t, "2024-01", 500, 500, 100)))
	assert.Equal(t, 0.0, SavingsRate(flows(t, "2024-01", 100, 500, 0)))
	assert.Equal(t, 0.0, SavingsRate(month(t, "2024-01")))
}

func TestNetWorthIsAdditive(t *testing.T) {
	r := month(t, "2024-01")
	r.Assets = models.Amounts{"Banco": 1000, "Cripto": 500}
	r.Liabilities = models.Amounts{"Hipoteca": 300}
	r.DebtCollaboration = models.Amounts{"Hipoteca": 200}
	assert.Equal(t, 1400.0, NetWorth(r))
}

func TestInvestmentAssetsTotal(t *testing.T) {
	schema := categories.ForLocale(categories.Spanish)
	r := month(t, "2024-01")
	r.Assets = models.Amounts{"Banco": 1000, "Cripto": 500, "Inmobiliario": 90000, "Fondos Indexados": 250}
	r.DebtCollaboration = models.Amounts{"Hipoteca": 200}
	assert.Equal(t, 950.0, InvestmentAssetsTotal(r, schema))
}

func TestTrailingWindowsClamp(t *testing.T) {
	records := []models.MonthRecord{
		flows(t, "2024-01", 1000, 0, 400),
		flows(t, "2024-02", 2000, 0, 400),
		flows(t, "2024-03", 3000, 0, 400),
	}
	assert.Equal(t, 2000.0, AverageNetIncome(records, 60))
	assert.Equal(t, 2500.0, AverageNetIncome(records, 2))
	assert.Equal(t, 0.0, AverageNetIncome(records, 0))
	assert.Equal(t, 0.0, AverageNetIncome(nil, 6))
	assert.Equal(t, 1600.0, AverageMonthlySavings(records, 12))
	assert.Equal(t, 1600.0, MedianMonthlySavings(records, 12))
	assert.Equal(t, 2100.0, MedianMonthlySavings(records, 2))
}

func TestCategoryAveragesPositiveOnly(t *testing.T) {
	a := month(t, "2024-01")
	a.Expenses = models.Amounts{"Gym": 40, "Gifts": 0}
	b := month(t, "2024-02")
	b.Expenses = models.Amounts{"Gym": 0, "Gifts": 0}
	c := month(t, "2024-03")
	c.Expenses = models.Amounts{"Gym": 60}

	avg := CategoryAverages([]models.MonthRecord{a, b, c}, models.Expenses, []string{"Gym", "Gifts", "Music"}, 12)
	assert.Equal(t, 50.0, avg["Gym"])
	assert.Equal(t, 0.0, avg["Gifts"])
	assert.Equal(t, 0.0, avg["Music"])
}

func TestCompare(t *testing.T) {
	d := Compare(150, 100)
	assert.Equal(t, 50.0, d.Difference)
	require.NotNil(t, d.Percent)
	assert.Equal(t, 50.0, *d.Percent)

	d = Compare(150, 0)
	assert.Equal(t, 150.0, d.Difference)
	assert.Nil(t, d.Percent)
}

func TestCoastNumber(t *testing.T) {
	assert.InDelta(t, 100000/math.Pow(1.07, 10), CoastNumber(100000, 7, 10), 1e-6)
	assert.Equal(t, 100000.0, CoastNumber(100000, 7, 0))
	assert.Equal(t, 100000.0, CoastNumber(100000, 0, 5))
	assert.Equal(t, 0.0, CoastNumber(math.Inf(1), 7, 5))
}

func TestDashboardTwoMonths(t *testing.T) {
	schema := categories.ForLocale(categories.English)
	jan := flows(t, "2024-01", 3000, 500, 1000)
	jan.Assets = models.Amounts{"Bank": 1000, "Index Funds": 4000}
	feb := flows(t, "2024-02", 3000, 500, 1200)
	feb.Assets = models.Amounts{"Bank": 1500, "Index Funds": 5000}

	d := Compute([]models.MonthRecord{jan, feb}, models.UserConfig{TargetInvestment: 10000, TargetYear: 2030, ExpectedReturn: 7}, schema, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, d)

	assert.Equal(t, 2500.0, d.NetIncome)
	assert.Equal(t, 1300.0, d.Savings)
	assert.InDelta(t, 56.0, d.SavingsRate, 1e-9)
	assert.Equal(t, 6500.0, d.NetWorth)
	assert.Equal(t, 5000.0, d.InvestmentAssets)
	assert.Equal(t, 50.0, d.Progress)
	assert.Equal(t, 5000.0, d.Remaining)
	assert.Equal(t, 13200.0, d.YearlySpend)

	assert.Equal(t, "2024-01", d.YearComparisons.BaselineMonth.String())
	assert.Equal(t, 1500.0, d.YearComparisons.NetWorth.Difference)
	assert.Equal(t, -200.0, d.YearComparisons.Savings.Difference)
	assert.InDelta(t, -8.0, d.YearComparisons.SavingsRate.Difference, 1e-9)
	assert.Nil(t, d.YearComparisons.YearlySpend)
	require.NotNil(t, d.MonthOverMonth)
	assert.Equal(t, 1500.0, d.MonthOverMonth.Difference)
	assert.Empty(t, d.Warnings)
}

func TestDashboardPreviousYearSpend(t *testing.T) {
	schema := categories.ForLocale(categories.English)
	records := []models.MonthRecord{
		flows(t, "2023-12", 0, 0, 1000),
		flows(t, "2024-01", 0, 0, 2000),
	}
	d := Compute(records, models.DefaultUserConfig(), schema, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, d.YearComparisons.YearlySpend)
	assert.Equal(t, 18000.0-12000.0, d.YearComparisons.YearlySpend.Difference)
	assert.Equal(t, "2024-01", d.YearComparisons.BaselineMonth.String())
}

func TestDashboardEmpty(t *testing.T) {
	assert.Nil(t, Compute(nil, models.DefaultUserConfig(), categories.ForLocale(categories.Spanish), time.Now()))
}

func TestDashboardWarnings(t *testing.T) {
	r := flows(t, "2024-01", 1000, 0, 0)
	r.Assets = models.Amounts{"Bank": models.Amount(math.NaN())}
	d := Compute([]models.MonthRecord{r}, models.DefaultUserConfig(), categories.ForLocale(categories.English), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"2024-01 assets/Bank"}, d.Warnings)
}

func TestProgressSeriesClamped(t *testing.T) {
	schema := categories.ForLocale(categories.English)
	a := month(t, "2024-01")
	a.Assets = models.Amounts{"Crypto": 500}
	b := month(t, "2024-02")
	b.Assets = models.Amounts{"Crypto": 5000}
	c := month(t, "2024-03")
	c.Liabilities = models.Amounts{"Other": 10}

	s := ProgressSeries([]models.MonthRecord{a, b, c}, schema, 1000)
	require.Len(t, s, 3)
	assert.Equal(t, 50.0, s[0].Value)
	assert.Equal(t, 100.0, s[1].Value)
	assert.Equal(t, 0.0, s[2].Value)
}

func TestCategoryTrendLimitsPoints(t *testing.T) {
	var records []models.MonthRecord
	start := models.NewMonth(2023, time.January)
	for i := 0; i < 15; i++ {
		r := models.MonthRecord{ID: start.AddMonths(i), Expenses: models.Amounts{"Gym": models.Amount(i)}}
		records = append(records, r)
	}
	trend := CategoryTrend(records, models.Expenses, []string{"Gym"}, 12)
	require.Len(t, trend["Gym"], 12)
	assert.Equal(t, 3.0, trend["Gym"][0].Value)
	assert.Equal(t, 14.0, trend["Gym"][11].Value)
}

func TestIsEmptyMonth(t *testing.T) {
	r := month(t, "2024-01")
	r.Assets = models.Amounts{"Bank": 0}
	assert.True(t, IsEmptyMonth(r))
	r.Expenses = models.Amounts{"Gym": 1}
	assert.False(t, IsEmptyMonth(r))
}
