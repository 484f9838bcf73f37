package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Cheertaboi/farmfresh-storefront/internal/cache"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository/memstore"
)

// countingSettlements records how many transactions were opened.
type countingSettlements struct {
	repository.Settlements
	begun atomic.Int32
}

func (c *countingSettlements) BeginSettlement(ctx context.Context) (repository.SettlementTx, error) {
	c.begun.Add(1)
	return c.Settlements.BeginSettlement(ctx)
}

type fixture struct {
	store       *memstore.Store
	counts      *cache.MemoryCache
	settlements *countingSettlements
	logs        *observer.ObservedLogs
	cart        *CartService
	checkout    *CheckoutService
	catalog     *CatalogService
	auth        *AuthService
	accounts    *AccountService
}

func newFixture(t *testing.T, opts ...CheckoutOption) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	store := memstore.New()
	counts := cache.NewMemoryCache()
	settlements := &countingSettlements{Settlements: store}

	return &fixture{
		store:       store,
		counts:      counts,
		settlements: settlements,
		logs:        logs,
		cart:        NewCartService(store, store, counts, log),
		checkout:    NewCheckoutService(store, settlements, counts, log, opts...),
		catalog:     NewCatalogService(store, log),
		auth:        NewAuthService(store, log),
		accounts:    NewAccountService(store, store),
	}
}

type productDef struct {
	name  string
	price string
	unit  models.Unit
	stock float64
	zones models.Availability
}

func (f *fixture) product(t *testing.T, p productDef) int64 {
	t.Helper()
	if p.unit == "" {
		p.unit = models.UnitKg
	}
	if p.name == "" {
		p.name = "Organic Tomatoes"
	}
	id, err := f.catalog.Create(context.Background(), &models.Product{
		Name:         p.name,
		Category:     models.CategoryVegetable,
		PricePerUnit: decimal.RequireFromString(p.price),
		UnitType:     p.unit,
		Stock:        p.stock,
		Availability: p.zones,
	})
	require.NoError(t, err)
	return id
}

var everywhere = models.Availability{Margao: true, Panjim: true, Vasco: true}

func shopper(userID int64) models.Identity {
	return models.Identity{UserID: userID, Username: "shopper", Role: models.RoleCustomer, Location: models.LocationPanjim}
}

func (f *fixture) stock(t *testing.T, productID int64) float64 {
	t.Helper()
	p, err := f.store.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}
