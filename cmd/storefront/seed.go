package main

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/farmfresh-storefront/internal/concurrency"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

var demoUsers = []service.Registration{
	{Username: "admin", Email: "admin@farmfresh.local", Password: "admin123", Location: "panjim", Role: models.RoleAdmin},
	{Username: "shopper", Email: "shopper@farmfresh.local", Password: "shopper123", Location: "margao"},
}

var demoProducts = []models.Product{
	{Name: "Organic Tomatoes", Category: models.CategoryVegetable, PricePerUnit: decimal.NewFromInt(60), UnitType: models.UnitKg, Stock: 50,
		Availability: models.Availability{Margao: true, Panjim: true, Vasco: true}},
	{Name: "Red Onions", Category: models.CategoryVegetable, PricePerUnit: decimal.NewFromInt(45), UnitType: models.UnitKg, Stock: 80,
		Availability: models.Availability{Margao: true, Panjim: true}},
	{Name: "Alphonso Mangoes", Category: models.CategoryFruit, PricePerUnit: decimal.NewFromInt(400), UnitType: models.UnitKg, Stock: 20,
		Availability: models.Availability{Panjim: true, Vasco: true}},
	{Name: "Bananas", Category: models.CategoryFruit, PricePerUnit: decimal.NewFromInt(50), UnitType: models.UnitKg, Stock: 40,
		Availability: models.Availability{Margao: true, Vasco: true}},
	{Name: "Fresh Basil", Category: models.CategoryHerb, PricePerUnit: decimal.NewFromInt(20), UnitType: models.UnitGram, Stock: 3,
		Availability: models.Availability{Margao: true, Panjim: true, Vasco: true}},
	{Name: "Coriander", Category: models.CategoryHerb, PricePerUnit: decimal.NewFromInt(8), UnitType: models.UnitGram, Stock: 5,
		Availability: models.Availability{Panjim: true}},
}

// seedWorkers bounds concurrent registrations, each of which runs bcrypt.
const seedWorkers = 4

// seedDemo fills an empty in-memory store so the storefront is usable
// without a database. Products are created in order so their ids are stable.
func seedDemo(ctx context.Context, auth *service.AuthService, catalog *service.CatalogService) error {
	err := concurrency.Run(ctx, seedWorkers, len(demoUsers), func(ctx context.Context, i int) error {
		_, err := auth.Register(ctx, demoUsers[i])
		return err
	})
	if err != nil {
		return err
	}
	for _, p := range demoProducts {
		p := p
		if _, err := catalog.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
