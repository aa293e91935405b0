package models

// UserConfig holds the user's investment goals.
type UserConfig struct {
	TargetInvestment float64 `json:"targetInvestment" toml:"target_investment"`
	TargetYear       int     `json:"targetYear" toml:"target_year"`
	ExpectedReturn   float64 `json:"expectedReturn" toml:"expected_return"`
	InvestmentRate   float64 `json:"investmentRate" toml:"investment_rate"`
	Locale           string  `json:"locale,omitempty" toml:"locale"`
}

func DefaultUserConfig() UserConfig {
	return UserConfig{
		TargetInvestment: 1000000,
		TargetYear:       2035,
		ExpectedReturn:   7.0,
		InvestmentRate:   15,
	}
}
