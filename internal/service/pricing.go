package service

import (
	"github.com/Skotchmaster/shopcarts/internal/models"
	"github.com/shopspring/decimal"
)

const pricePlaces = 2

// LinePrice is unit × quantity rounded to cents, ties away from zero
// (1.005 -> 1.01, never banker's rounding).
func LinePrice(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(pricePlaces)
}

// Reprice returns the new line total for item at quantity. A nil unit price
// means the item's current implied unit price is kept.
func Reprice(item *models.Item, quantity int, unit *decimal.Decimal) (decimal.Decimal, error) {
	if quantity < models.MinQuantity {
		return decimal.Zero, models.ErrInvalidQuantity
	}

	u := item.UnitPrice()
	if unit != nil {
		u = *unit
	}
	if u.IsNegative() {
		return decimal.Zero, errNegativeUnitPrice
	}
	return LinePrice(u, quantity), nil
}
