package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value as stored in a category mapping.
//
// Decoding is lenient: numbers, numeric strings, booleans and null are all
// accepted. Anything else decodes to NaN so that aggregation can reject it.
// Non-finite values always encode as 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		*a = 0
		return nil
	case bytes.Equal(raw, []byte("true")):
		*a = 1
		return nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		f = math.NaN()
	}
	*a = Amount(f)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("0"), nil
	}
	return json.Marshal(f)
}

// Amounts maps a category label to its amount.
type Amounts map[string]Amount

// Get returns the amount stored under key, 0 when missing.
func (a Amounts) Get(key string) float64 {
	return float64(a[key])
}

func (a Amounts) Clone() Amounts {
	out := make(Amounts, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Zeroed returns a mapping with every given key set to 0.
func Zeroed(keys []string) Amounts {
	out := make(Amounts, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	return out
}
