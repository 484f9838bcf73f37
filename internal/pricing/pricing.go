// Package pricing turns catalog prices into kg-equivalent amounts.
//
// Every quantity in the cart and in stock is kg. A product priced per 100 g
// (unit "g") therefore costs ten times its listed price per kg. The cart
// view and checkout both go through this package so they always agree.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

var gramsPerKgFactor = decimal.NewFromInt(10)

// PricePerKg converts a listed price to its per-kg equivalent.
func PricePerKg(price decimal.Decimal, unit models.Unit) decimal.Decimal {
	if unit == models.UnitGram {
		return price.Mul(gramsPerKgFactor)
	}
	return price
}

// LineTotal is the exact cost of qty kg at the given listed price. Totals
// are summed unrounded; rounding to cents happens where an amount is stored.
func LineTotal(price decimal.Decimal, unit models.Unit, qty float64) decimal.Decimal {
	return PricePerKg(price, unit).Mul(decimal.NewFromFloat(qty))
}

// Price builds the priced view of a cart. Missing products contribute nothing.
func Price(lines []models.CartLine) models.CartView {
	view := models.CartView{
		Lines: make([]models.PricedLine, 0, len(lines)),
		Total: decimal.Zero,
		Count: len(lines),
	}
	for _, l := range lines {
		pl := models.PricedLine{CartLine: l, PricePerKg: decimal.Zero, Subtotal: decimal.Zero}
		if !l.Missing {
			pl.PricePerKg = PricePerKg(l.PricePerUnit, l.UnitType)
			pl.Subtotal = LineTotal(l.PricePerUnit, l.UnitType, l.Quantity)
		}
		view.Total = view.Total.Add(pl.Subtotal)
		view.Lines = append(view.Lines, pl)
	}
	return view
}
