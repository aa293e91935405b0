package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountsUnmarshalLenient(t *testing.T) {
	var a Amounts
	err := json.Unmarshal([]byte(`{"a": 12.5, "b": "300", "c": null, "d": "", "e": "abc", "f": 1e400, "g": true}`), &a)
	require.NoError(t, err)

	assert.Equal(t, 12.5, a.Get("a"))
	assert.Equal(t, 300.0, a.Get("b"))
	assert.Equal(t, 0.0, a.Get("c"))
	assert.Equal(t, 0.0, a.Get("d"))
	assert.True(t, math.IsNaN(a.Get("e")))
	assert.True(t, math.IsInf(a.Get("f"), 1))
	assert.Equal(t, 1.0, a.Get("g"))
	assert.Equal(t, 0.0, a.Get("missing"))
}

func TestAmountMarshalNonFinite(t *testing.T) {
	b, err := json.Marshal(Amounts{"x": Amount(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 0}`, string(b))

	b, err = json.Marshal(Amount(1500.25))
	require.NoError(t, err)
	assert.Equal(t, "1500.25", string(b))
}

func TestMonthRecordClone(t *testing.T) {
	r := MonthRecord{
		ID:     NewMonth(2024, 1),
		Assets: Amounts{"Bank": 10},
	}
	c := r.Clone()
	c.Assets["Bank"] = 99

	assert.Equal(t, 10.0, r.Assets.Get("Bank"))
	assert.Nil(t, c.Income)
}

func TestParseCategoryType(t *testing.T) {
	ct, err := ParseCategoryType("debtCollaboration")
	require.NoError(t, err)
	assert.Equal(t, DebtCollaboration, ct)

	_, err = ParseCategoryType("collaboratesInDebt")
	assert.Error(t, err)
}
