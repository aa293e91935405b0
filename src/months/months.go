// Package months implements the mutations allowed on a user's ordered month
// records. Functions never modify their input; they return a new slice.
package months

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"fire-server/src/categories"
	"fire-server/src/format"
	"fire-server/src/models"
	"fire-server/src/stats"
)

var (
	ErrEmpty          = errors.New("no months recorded")
	ErrMonthNotFound  = errors.New("month not found")
	ErrLastMonth      = errors.New("at least one month must remain")
	ErrUnknownType    = errors.New("unknown category type")
	ErrNoFunds        = errors.New("no available funds to allocate")
	ErrNotInvestment  = errors.New("not an investment category")
	ErrDuplicateMonth = errors.New("duplicate month")
	ErrUnordered      = errors.New("months are not in ascending order")
)

// New returns a month with every category of the schema set to 0.
func New(id models.Month, schema categories.Schema) models.MonthRecord {
	return models.MonthRecord{
		ID:                id,
		MonthLabel:        format.MonthLabel(id, schema.Locale),
		Income:            models.Zeroed(schema.Income),
		Taxes:             models.Zeroed(schema.Taxes),
		Expenses:          models.Zeroed(schema.Expenses),
		Assets:            models.Zeroed(schema.Assets),
		Liabilities:       models.Zeroed(schema.Liabilities),
		DebtCollaboration: models.Zeroed(schema.Liabilities),
	}
}

// Find returns the index of the month with the given id, or -1.
func Find(records []models.MonthRecord, id models.Month) int {
	for i, r := range records {
		if r.ID.Equal(id) {
			return i
		}
	}
	return -1
}

// EnsureCurrent makes sure the month containing now exists. An empty history
// gets a single zeroed month. Otherwise the new month carries the latest
// balances (assets, liabilities and debt collaboration) with zeroed flows.
// The boolean reports whether a month was added.
func EnsureCurrent(records []models.MonthRecord, now time.Time, schema categories.Schema) ([]models.MonthRecord, bool) {
	current := models.MonthOf(now)
	if len(records) == 0 {
		return []models.MonthRecord{New(current, schema)}, true
	}
	last := records[len(records)-1]
	if Find(records, current) >= 0 || !last.ID.Before(current) {
		return records, false
	}

	next := New(current, schema)
	next.Assets = last.Assets.Clone()
	next.Liabilities = last.Liabilities.Clone()
	if last.DebtCollaboration != nil {
		next.DebtCollaboration = last.DebtCollaboration.Clone()
	}
	next.CollaboratesInDebt = last.CollaboratesInDebt

	out := models.CloneRecords(records)
	return append(out, next), true
}

// AddPrevious prepends the month before the oldest one. Assets and
// liabilities are copied from the oldest month; debt collaboration starts at
// zero.
func AddPrevious(records []models.MonthRecord, schema categories.Schema) ([]models.MonthRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	first := records[0]
	prev := New(first.ID.AddMonths(-1), schema)
	prev.Assets = first.Assets.Clone()
	prev.Liabilities = first.Liabilities.Clone()

	out := make([]models.MonthRecord, 0, len(records)+1)
	out = append(out, prev)
	return append(out, models.CloneRecords(records)...), nil
}

// RemoveOldest drops the oldest month as long as another one remains.
func RemoveOldest(records []models.MonthRecord) ([]models.MonthRecord, error) {
	if len(records) <= 1 {
		return nil, ErrLastMonth
	}
	return models.CloneRecords(records[1:]), nil
}

type UpdateOptions struct {
	// AutoCash recomputes the cash category as the month's unassigned funds
	// after every edit that can change them.
	AutoCash bool
	Schema   categories.Schema
}

// Update sets one category value of one month. Non-finite values are stored
// as 0.
func Update(records []models.MonthRecord, id models.Month, t models.CategoryType, key string, value float64, opts UpdateOptions) ([]models.MonthRecord, error) {
	idx := Find(records, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMonthNotFound, id)
	}
	out := models.CloneRecords(records)
	m := &out[idx]
	field := m.Field(t)
	if field == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	if *field == nil {
		*field = models.Amounts{}
	}
	(*field)[key] = models.Amount(value)

	cash := opts.Schema.CashCategory()
	if opts.AutoCash && cash != "" && !(t == models.Assets && key == cash) && t != models.Liabilities {
		recomputeCash(m, cash)
	}
	return out, nil
}

func recomputeCash(m *models.MonthRecord, cash string) {
	var assigned float64
	for key, v := range m.Assets {
		if key != cash && stats.Valid(float64(v)) {
			assigned += float64(v)
		}
	}
	assigned += stats.TotalDebtCollaboration(*m)
	if m.Assets == nil {
		m.Assets = models.Amounts{}
	}
	m.Assets[cash] = models.Amount(math.Max(0, stats.Savings(*m)-assigned))
}

// SetCollaboratesInDebt toggles the debt collaboration flag of a month.
func SetCollaboratesInDebt(records []models.MonthRecord, id models.Month, value bool) ([]models.MonthRecord, error) {
	idx := Find(records, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMonthNotFound, id)
	}
	out := models.CloneRecords(records)
	out[idx].CollaboratesInDebt = value
	return out, nil
}

// Allocate adds the month's available funds (net income minus expenses) to
// an investment category. It returns the allocated amount.
func Allocate(records []models.MonthRecord, id models.Month, category string, opts UpdateOptions) ([]models.MonthRecord, float64, error) {
	if !opts.Schema.IsInvestment(category) {
		return nil, 0, fmt.Errorf("%w: %q", ErrNotInvestment, category)
	}
	idx := Find(records, id)
	if idx < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMonthNotFound, id)
	}
	available := stats.AvailableFunds(records[idx])
	if available <= 0 {
		return nil, 0, fmt.Errorf("%w: %.2f", ErrNoFunds, available)
	}
	current := records[idx].Assets.Get(category)
	if !stats.Valid(current) {
		current = 0
	}
	out, err := Update(records, id, models.Assets, category, current+available, opts)
	if err != nil {
		return nil, 0, err
	}
	return out, available, nil
}

// Validate checks the ordering invariants: unique ids in ascending order.
func Validate(records []models.MonthRecord) error {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].ID, records[i].ID
		if prev.Equal(cur) {
			return fmt.Errorf("%w: %s", ErrDuplicateMonth, cur)
		}
		if !prev.Before(cur) {
			return fmt.Errorf("%w: %s after %s", ErrUnordered, cur, prev)
		}
	}
	return nil
}

// Sort returns the records ordered by month.
func Sort(records []models.MonthRecord) []models.MonthRecord {
	out := models.CloneRecords(records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID.Before(out[j].ID) })
	return out
}

// Fill adds every schema category missing from a record with value 0 and
// sets missing labels. Extra categories are kept.
func Fill(records []models.MonthRecord, schema categories.Schema) []models.MonthRecord {
	out := models.CloneRecords(records)
	for i := range out {
		m := &out[i]
		if m.MonthLabel == "" {
			m.MonthLabel = format.MonthLabel(m.ID, schema.Locale)
		}
		for _, t := range models.CategoryTypes {
			field := m.Field(t)
			if *field == nil {
				*field = models.Amounts{}
			}
			for _, key := range schema.Keys(t) {
				if _, ok := (*field)[key]; !ok {
					(*field)[key] = 0
				}
			}
		}
	}
	return out
}
