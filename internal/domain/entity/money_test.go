package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		want      *Money
		expectErr bool
	}{
		{name: "blank is absent", raw: "   ", want: nil},
		{name: "whole dollars", raw: "80", want: moneyPtr(8000)},
		{name: "cents", raw: "12.5", want: moneyPtr(1250)},
		{name: "rounds to the cent", raw: "0.005", want: moneyPtr(1)},
		{name: "currency symbol and separators", raw: "$1,234.50", want: moneyPtr(123450)},
		{name: "negative parses", raw: "-3", want: moneyPtr(-300)},
		{name: "not a number", raw: "abc", expectErr: true},
		{name: "infinity", raw: "Inf", expectErr: true},
		{name: "largest accepted amount", raw: "10000000000", want: moneyPtr(MaxAmount)},
		{name: "above the ceiling", raw: "10000000000.01", expectErr: true},
		{name: "would overflow cents", raw: "90000000000000000", expectErr: true},
		{name: "exponent beyond range", raw: "1e17", expectErr: true},
		{name: "negative beyond range", raw: "-1e17", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.raw)
			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0).String())
	assert.Equal(t, "$80.00", Dollars(80).String())
	assert.Equal(t, "$1,234.50", Money(123450).String())
	assert.Equal(t, "$1,000,000.01", Money(100000001).String())
	assert.Equal(t, "-$3.05", Money(-305).String())
}

func TestMoney_MulRateRoundsHalfUp(t *testing.T) {
	assert.Equal(t, Money(3600), Dollars(120).MulRate(0.30))
	assert.Equal(t, Money(53), Money(105).MulRate(0.5))
	assert.Equal(t, Money(0), Money(1).MulRate(0.30))
}

func TestMoney_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: 1250})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":12.50}`, string(raw))

	var decoded struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"30"}`), &decoded))
	assert.Equal(t, Dollars(30), decoded.Price)
}

func TestMoney_UnmarshalRejectsOutOfRange(t *testing.T) {
	var decoded struct {
		Price Money `json:"price"`
	}
	err := json.Unmarshal([]byte(`{"price":1e17}`), &decoded)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormNumber_AcceptsNumbersAndStrings(t *testing.T) {
	var form struct {
		A FormNumber `json:"a"`
		B FormNumber `json:"b"`
		C FormNumber `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.5,"b":"40","c":null}`), &form))

	a, err := form.A.Amount()
	require.NoError(t, err)
	assert.Equal(t, Money(1250), *a)

	b, err := form.B.Amount()
	require.NoError(t, err)
	assert.Equal(t, Dollars(40), *b)

	c, err := form.C.Amount()
	require.NoError(t, err)
	assert.Nil(t, c)
}
