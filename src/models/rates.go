package models

import "time"

type RateSource string

const (
	RateSourceAPI      RateSource = "api"
	RateSourceCache    RateSource = "cache"
	RateSourceFallback RateSource = "fallback"
)

// Rates are EUR-based conversion factors.
type Rates struct {
	EUR       float64    `json:"EUR"`
	USD       float64    `json:"USD"`
	Source    RateSource `json:"source"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Get returns the factor for a currency code, 0 when unknown.
func (r Rates) Get(code string) float64 {
	switch code {
	case "EUR":
		return r.EUR
	case "USD":
		return r.USD
	}
	return 0
}
