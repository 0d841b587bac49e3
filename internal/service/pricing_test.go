package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopcarts/internal/models"
)

func TestLinePrice_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		unit     string
		quantity int
		want     string
	}{
		{unit: "1.235", quantity: 2, want: "2.47"},
		{unit: "3.33", quantity: 4, want: "13.32"},
		{unit: "1.005", quantity: 1, want: "1.01"},
		{unit: "0.125", quantity: 1, want: "0.13"},
		{unit: "0.135", quantity: 1, want: "0.14"},
		{unit: "2.5", quantity: 3, want: "7.50"},
		{unit: "0", quantity: 10, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got := LinePrice(decimal.RequireFromString(tt.unit), tt.quantity)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestReprice_InfersUnitPrice(t *testing.T) {
	item := &models.Item{Quantity: 3, Price: decimal.RequireFromString("9.99")}

	got, err := Reprice(item, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "13.32", got.StringFixed(2))
}

func TestReprice_NonTerminatingUnitPrice(t *testing.T) {
	item := &models.Item{Quantity: 3, Price: decimal.RequireFromString("10.00")}

	got, err := Reprice(item, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.StringFixed(2))

	got, err = Reprice(item, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.StringFixed(2))
}

func TestReprice_ExplicitUnitPrice(t *testing.T) {
	item := &models.Item{Quantity: 1, Price: decimal.RequireFromString("100")}
	unit := decimal.RequireFromString("1.235")

	got, err := Reprice(item, 2, &unit)
	require.NoError(t, err)
	assert.Equal(t, "2.47", got.StringFixed(2))
}

func TestReprice_Rejects(t *testing.T) {
	item := &models.Item{Quantity: 1, Price: decimal.RequireFromString("1")}

	_, err := Reprice(item, 0, nil)
	require.ErrorIs(t, err, models.ErrInvalidQuantity)

	neg := decimal.RequireFromString("-0.01")
	_, err = Reprice(item, 1, &neg)
	require.ErrorIs(t, err, errNegativeUnitPrice)
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: `4`, want: 4},
		{raw: `"4"`, want: 4},
		{raw: `" 12 "`, want: 12},
		{raw: `4.0`, want: 4},
		{raw: `-3`, want: -3},
		{raw: `4.5`, wantErr: true},
		{raw: `"four"`, wantErr: true},
		{raw: `true`, wantErr: true},
		{raw: `[1]`, wantErr: true},
		{raw: `{}`, wantErr: true},
		{raw: `""`, wantErr: true},
		{raw: `99999999999`, wantErr: true},
		{raw: `1e1000000`, wantErr: true},
		{raw: `"1e-1000000"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseInteger(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := parseDecimal(json.RawMessage(`"1.235"`))
	require.NoError(t, err)
	assert.Equal(t, "1.235", d.String())

	d, err = parseDecimal(json.RawMessage(`9.99`))
	require.NoError(t, err)
	assert.Equal(t, "9.99", d.String())

	_, err = parseDecimal(json.RawMessage(`"abc"`))
	require.Error(t, err)
}

func TestParseDecimal_RejectsExtremeExponents(t *testing.T) {
	for _, raw := range []string{
		`1e10000000`,
		`"1e10000000"`,
		`1e-10000000`,
		`"1e999999999"`,
		`"` + strings.Repeat("9", 100) + `"`,
	} {
		t.Run(raw[:min(len(raw), 16)], func(t *testing.T) {
			_, err := parseDecimal(json.RawMessage(raw))
			require.ErrorIs(t, err, errOutOfRange)
		})
	}

	d, err := parseDecimal(json.RawMessage(`1.5e3`))
	require.NoError(t, err)
	assert.Equal(t, "1500", d.String())
}

func TestAbsent(t *testing.T) {
	assert.True(t, absent(nil))
	assert.True(t, absent(json.RawMessage(`null`)))
	assert.True(t, absent(json.RawMessage(` null `)))
	assert.False(t, absent(json.RawMessage(`0`)))
	assert.False(t, absent(json.RawMessage(`""`)))
}
