// Package categories holds the per-locale category catalog and the
// translation tables between locales.
package categories

import (
	"slices"

	"fire-server/src/models"
)

type entry struct {
	es, en     string
	investment bool
	cash       bool
}

func (e entry) label(l Locale) string {
	if l == English {
		return e.en
	}
	return e.es
}

var catalog = map[models.CategoryType][]entry{
	models.Assets: {
		{es: "Banco", en: "Bank", cash: true},
		{es: "Fondo Emergencia", en: "Emergency Fund", investment: true},
		{es: "Cartera Inversión", en: "Investment Portfolio", investment: true},
		{es: "Fondos Indexados", en: "Index Funds", investment: true},
		{es: "Planes Pensiones", en: "Pension Plans", investment: true},
		{es: "Inmobiliario", en: "Real Estate"},
		{es: "Cripto", en: "Crypto", investment: true},
	},
	models.Liabilities: {
		{es: "Hipoteca", en: "Mortgage"},
		{es: "Préstamo Coche", en: "Car Loan"},
		{es: "Tarjetas Crédito", en: "Credit Cards"},
		{es: "Otros", en: "Other"},
	},
	models.Income: {
		{es: "Salario Bruto", en: "Gross Salary"},
		{es: "Bonus", en: "Bonus"},
		{es: "Dividendos", en: "Dividends"},
		{es: "Negocio", en: "Business"},
		{es: "Otros", en: "Other"},
	},
	models.Taxes: {
		{es: "IRPF", en: "Income Tax"},
		{es: "Seguridad Social", en: "Social Security"},
		{es: "Autónomos", en: "Self-Employment Tax"},
	},
	models.Expenses: {
		{es: "Vivienda", en: "Housing"},
		{es: "Gas (Casa)", en: "Gas (Home)"},
		{es: "Electricidad", en: "Electric"},
		{es: "Internet", en: "Internet"},
		{es: "Seguros", en: "Insurance"},
		{es: "Supermercado", en: "Groceries"},
		{es: "Restaurantes", en: "Eating Out"},
		{es: "Gasolina", en: "Gas (Car)"},
		{es: "Taxi/VTC", en: "Rideshare"},
		{es: "Transporte Público", en: "Public Transit"},
		{es: "Peajes", en: "Tolls"},
		{es: "Ocio", en: "Entertainment"},
		{es: "Ropa", en: "Clothing"},
		{es: "Cuidado Personal", en: "Self Care"},
		{es: "Tintorería", en: "Dry Cleaning"},
		{es: "Gimnasio", en: "Gym"},
		{es: "Música", en: "Music"},
		{es: "Educación", en: "Education"},
		{es: "Médico", en: "Medical"},
		{es: "Regalos", en: "Gifts"},
		{es: "Donaciones", en: "Charity"},
		{es: "Comisiones", en: "Fees"},
		{es: "Varios", en: "Misc"},
	},
}

// Schema is the ordered category catalog of one locale.
type Schema struct {
	Locale      Locale   `json:"locale"`
	Assets      []string `json:"assets"`
	Liabilities []string `json:"liabilities"`
	Income      []string `json:"income"`
	Taxes       []string `json:"taxes"`
	Expenses    []string `json:"expenses"`
	Investment  []string `json:"investment"`
	Cash        string   `json:"cash"`
}

// ForLocale returns the schema of l, or of DefaultLocale when l is unknown.
// The returned slices are fresh copies.
func ForLocale(l Locale) Schema {
	if !l.Valid() {
		l = DefaultLocale
	}
	s := Schema{
		Locale:      l,
		Assets:      labels(models.Assets, l),
		Liabilities: labels(models.Liabilities, l),
		Income:      labels(models.Income, l),
		Taxes:       labels(models.Taxes, l),
		Expenses:    labels(models.Expenses, l),
	}
	for _, e := range catalog[models.Assets] {
		if e.investment {
			s.Investment = append(s.Investment, e.label(l))
		}
		if e.cash {
			s.Cash = e.label(l)
		}
	}
	return s
}

// InvestmentForLocale returns the asset categories that count toward the
// investment goal.
func InvestmentForLocale(l Locale) []string {
	return ForLocale(l).Investment
}

func labels(t models.CategoryType, l Locale) []string {
	entries := catalog[t]
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.label(l)
	}
	return out
}

// Keys returns the labels for a category type. Debt collaboration mirrors
// liabilities.
func (s Schema) Keys(t models.CategoryType) []string {
	switch t {
	case models.Assets:
		return s.Assets
	case models.Liabilities, models.DebtCollaboration:
		return s.Liabilities
	case models.Income:
		return s.Income
	case models.Taxes:
		return s.Taxes
	case models.Expenses:
		return s.Expenses
	}
	return nil
}

// CashCategory is the asset holding uninvested money.
func (s Schema) CashCategory() string { return s.Cash }

func (s Schema) IsInvestment(key string) bool {
	return slices.Contains(s.Investment, key)
}

func (s Schema) Has(t models.CategoryType, key string) bool {
	return slices.Contains(s.Keys(t), key)
}

// Translate maps a label of type t from one locale to another. Labels that
// are not in the catalog are reported as not found.
func Translate(t models.CategoryType, key string, from, to Locale) (string, bool) {
	if t == models.DebtCollaboration {
		t = models.Liabilities
	}
	for _, e := range catalog[t] {
		if e.label(from) == key {
			return e.label(to), true
		}
	}
	return "", false
}

// DetectLocale reports which locale's asset labels appear in the record.
func DetectLocale(r models.MonthRecord) (Locale, bool) {
	for _, l := range Locales {
		if HasAssetKeys(r, l) {
			return l, true
		}
	}
	return "", false
}

// HasAssetKeys reports whether any asset label of l is present in r.
func HasAssetKeys(r models.MonthRecord, l Locale) bool {
	for _, key := range ForLocale(l).Assets {
		if _, ok := r.Assets[key]; ok {
			return true
		}
	}
	return false
}
