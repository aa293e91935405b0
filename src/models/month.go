package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidMonth = errors.New("invalid month id")

// Month identifies a calendar month. It is serialized as "YYYY-MM".
type Month time.Time

func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth parses a canonical "YYYY-MM" id.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month(t), nil
}

func (m Month) Year() int {
	return time.Time(m).Year()
}

func (m Month) Month() time.Month {
	return time.Time(m).Month()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), m.Month())
}

func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddMonths returns a new Month with n months added. n may be negative.
func (m Month) AddMonths(n int) Month {
	return Month(time.Time(m).AddDate(0, n, 0))
}

func (m Month) Before(other Month) bool {
	return time.Time(m).Before(time.Time(other))
}

func (m Month) After(other Month) bool {
	return time.Time(m).After(time.Time(other))
}

func (m Month) Equal(other Month) bool {
	return m.Year() == other.Year() && m.Month() == other.Month()
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMonth, string(b))
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
