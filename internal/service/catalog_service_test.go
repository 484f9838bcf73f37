package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

func TestCatalogService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := &models.Product{
		Name:         "  Green Apples ",
		Category:     models.CategoryFruit,
		PricePerUnit: decimal.RequireFromString("180"),
		UnitType:     models.UnitKg,
		Stock:        25,
	}
	id, err := f.catalog.Create(ctx, p)
	require.NoError(t, err)

	got, err := f.catalog.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Green Apples", got.Name)
	assert.Equal(t, "placeholders/fruit.png", got.ImagePath)

	got.Stock = 12
	require.NoError(t, f.catalog.Update(ctx, got))
	assert.Equal(t, 12.0, f.stock(t, id))

	require.NoError(t, f.catalog.Delete(ctx, id))
	_, err = f.catalog.Get(ctx, id)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, f.catalog.Delete(ctx, id), ErrProductNotFound)
	assert.ErrorIs(t, f.catalog.Update(ctx, got), ErrProductNotFound)
}

func TestCatalogService_RejectsInvalidProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := func() *models.Product {
		return &models.Product{Name: "Basil", Category: models.CategoryHerb, PricePerUnit: decimal.NewFromInt(20), UnitType: models.UnitGram, Stock: 1}
	}

	tests := []struct {
		name   string
		mutate func(*models.Product)
	}{
		{"blank name", func(p *models.Product) { p.Name = "  " }},
		{"bad category", func(p *models.Product) { p.Category = "nut" }},
		{"bad unit", func(p *models.Product) { p.UnitType = "lb" }},
		{"negative price", func(p *models.Product) { p.PricePerUnit = decimal.NewFromInt(-1) }},
		{"negative stock", func(p *models.Product) { p.Stock = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			_, err := f.catalog.Create(ctx, p)
			assert.ErrorIs(t, err, models.ErrInvalidProduct)
		})
	}
}

func TestCatalogService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range []*models.Product{
		{Name: "Organic Tomatoes", Category: models.CategoryVegetable, UnitType: models.UnitKg},
		{Name: "Cherry Tomatoes", Category: models.CategoryFruit, UnitType: models.UnitKg},
		{Name: "Fresh Basil", Category: models.CategoryHerb, UnitType: models.UnitGram},
	} {
		_, err := f.catalog.Create(ctx, p)
		require.NoError(t, err)
	}

	all, err := f.catalog.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Fresh Basil", all[0].Name, "newest first")

	tomatoes, err := f.catalog.List(ctx, models.ProductFilter{Search: "tomato"})
	require.NoError(t, err)
	assert.Len(t, tomatoes, 2)

	veg, err := f.catalog.List(ctx, models.ProductFilter{Category: models.CategoryVegetable, Search: "TOMATO"})
	require.NoError(t, err)
	require.Len(t, veg, 1)
	assert.Equal(t, "Organic Tomatoes", veg[0].Name)

	_, err = f.catalog.List(ctx, models.ProductFilter{Category: "nuts"})
	assert.ErrorIs(t, err, models.ErrInvalidProduct)
}
