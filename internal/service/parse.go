package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric input longer than maxTextLen or with an exponent outside
// ±maxExponent is rejected before any arithmetic.
const (
	maxExponent = 12
	maxTextLen  = 64
)

var (
	errNotScalar  = errors.New("value must be a number or a numeric string")
	errNotInteger = errors.New("value must be an integer")
	errOutOfRange = errors.New("value is out of range")

	errNegativeUnitPrice = errors.New("unit_price must not be negative")

	minInt = decimal.NewFromInt(math.MinInt32)
	maxInt = decimal.NewFromInt(math.MaxInt32)
)

func absent(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}

func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case json.Number:
		return t.String(), nil
	case string:
		return strings.TrimSpace(t), nil
	default:
		return "", errNotScalar
	}
}

func parseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	s, err := scalarText(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if len(s) > maxTextLen {
		return decimal.Zero, errOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a decimal", s)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, errOutOfRange
	}
	return d, nil
}

// parseInteger accepts 4, 4.0 and "4" but rejects 4.5 and "four".
func parseInteger(raw json.RawMessage) (int, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		if errors.Is(err, errOutOfRange) {
			return 0, err
		}
		return 0, errNotInteger
	}
	if !d.IsInteger() {
		return 0, errNotInteger
	}
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return 0, errOutOfRange
	}
	return int(d.IntPart()), nil
}

func requiredInt(raw json.RawMessage, field, missing string) (int, error) {
	if absent(raw) {
		return 0, fmt.Errorf("%w: %s", ErrValidation, missing)
	}
	n, err := parseInteger(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrValidation, field)
	}
	return n, nil
}
