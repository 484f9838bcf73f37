package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

func TestPricePerKg(t *testing.T) {
	tests := []struct {
		name  string
		price string
		unit  models.Unit
		want  string
	}{
		{"per kg unchanged", "100", models.UnitKg, "100"},
		{"per 100g times ten", "12.5", models.UnitGram, "125"},
		{"zero", "0", models.UnitGram, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PricePerKg(decimal.RequireFromString(tt.price), tt.unit)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "50", LineTotal(decimal.NewFromInt(100), models.UnitKg, 0.5).String())
	// 50 g of basil at 20 per 100 g
	assert.Equal(t, "10", LineTotal(decimal.NewFromInt(20), models.UnitGram, 0.05).String())
	assert.Equal(t, "0.004", LineTotal(decimal.NewFromInt(1), models.UnitKg, 0.004).String())
}

func TestPrice_SmallLinesAreNotLost(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: 1, Quantity: 0.004, PricePerUnit: decimal.RequireFromString("1.00"), UnitType: models.UnitKg},
		{ProductID: 2, Quantity: 0.004, PricePerUnit: decimal.RequireFromString("1.00"), UnitType: models.UnitKg},
		{ProductID: 3, Quantity: 0.004, PricePerUnit: decimal.RequireFromString("1.00"), UnitType: models.UnitKg},
		{ProductID: 4, Quantity: 0.333, PricePerUnit: decimal.RequireFromString("0.07"), UnitType: models.UnitGram},
	}

	view := Price(lines)

	want := 3*0.004*1.00 + 0.333*0.7
	got, _ := view.Total.Float64()
	assert.InDelta(t, want, got, 1e-9)
	assert.Equal(t, "0.2451", view.Total.String())
}

func TestPrice_TotalIsSumOfLines(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: 1, Quantity: 0.75, PricePerUnit: decimal.RequireFromString("80"), UnitType: models.UnitKg},
		{ProductID: 2, Quantity: 0.1, PricePerUnit: decimal.RequireFromString("15"), UnitType: models.UnitGram},
		{ProductID: 3, Quantity: 2, PricePerUnit: decimal.RequireFromString("99.99"), UnitType: models.UnitKg},
		{ProductID: 4, Quantity: 1, Missing: true},
	}

	view := Price(lines)

	sum := decimal.Zero
	for _, l := range view.Lines {
		sum = sum.Add(l.Subtotal)
	}
	assert.True(t, sum.Equal(view.Total))
	assert.Equal(t, "274.98", view.Total.String())
	assert.Equal(t, 4, view.Count)
	assert.True(t, view.Lines[3].Subtotal.IsZero())
}

func TestPrice_Empty(t *testing.T) {
	view := Price(nil)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
	assert.Equal(t, 0, view.Count)
}
