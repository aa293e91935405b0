package models

import "fmt"

// CategoryType names one of the category mappings of a MonthRecord.
type CategoryType string

const (
	Income            CategoryType = "income"
	Taxes             CategoryType = "taxes"
	Expenses          CategoryType = "expenses"
	Assets            CategoryType = "assets"
	Liabilities       CategoryType = "liabilities"
	DebtCollaboration CategoryType = "debtCollaboration"
)

// CategoryTypes lists every mapping in record order.
var CategoryTypes = []CategoryType{Income, Taxes, Expenses, Assets, Liabilities, DebtCollaboration}

func ParseCategoryType(s string) (CategoryType, error) {
	for _, t := range CategoryTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown category type %q", s)
}

// MonthRecord holds one month of balances and flows.
type MonthRecord struct {
	ID                 Month   `json:"id"`
	MonthLabel         string  `json:"monthLabel"`
	Income             Amounts `json:"income"`
	Taxes              Amounts `json:"taxes"`
	Expenses           Amounts `json:"expenses"`
	Assets             Amounts `json:"assets"`
	Liabilities        Amounts `json:"liabilities"`
	DebtCollaboration  Amounts `json:"debtCollaboration"`
	CollaboratesInDebt bool    `json:"collaboratesInDebt"`
}

// Field returns a pointer to the mapping of the given type, or nil for an
// unknown type.
func (r *MonthRecord) Field(t CategoryType) *Amounts {
	switch t {
	case Income:
		return &r.Income
	case Taxes:
		return &r.Taxes
	case Expenses:
		return &r.Expenses
	case Assets:
		return &r.Assets
	case Liabilities:
		return &r.Liabilities
	case DebtCollaboration:
		return &r.DebtCollaboration
	}
	return nil
}

// Values returns the mapping of the given type without allocating.
func (r MonthRecord) Values(t CategoryType) Amounts {
	if f := r.Field(t); f != nil {
		return *f
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r MonthRecord) Clone() MonthRecord {
	out := r
	for _, t := range CategoryTypes {
		if f := r.Field(t); *f != nil {
			*out.Field(t) = f.Clone()
		}
	}
	return out
}

// CloneRecords deep-copies a slice of records.
func CloneRecords(records []MonthRecord) []MonthRecord {
	if records == nil {
		return nil
	}
	out := make([]MonthRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
