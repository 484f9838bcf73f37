package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Cheertaboi/farmfresh-storefront/internal/api"
	"github.com/Cheertaboi/farmfresh-storefront/internal/cache"
	"github.com/Cheertaboi/farmfresh-storefront/internal/config"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository/memstore"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
	"github.com/Cheertaboi/farmfresh-storefront/internal/telemetry"
	"github.com/Cheertaboi/farmfresh-storefront/pkg/db"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("storefront stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Development() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

type stores struct {
	products    repository.ProductStore
	carts       repository.CartStore
	orders      repository.OrderStore
	users       repository.UserStore
	settlements repository.Settlements
	close       func() error
	memory      bool
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		m := memstore.New()
		return &stores{products: m, carts: m, orders: m, users: m, settlements: m, close: func() error { return nil }, memory: true}, nil
	}

	conn, err := db.NewPostgresConnection(cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	orders := repository.NewOrderRepo(conn)
	return &stores{
		products:    repository.NewProductRepo(conn),
		carts:       repository.NewCartRepo(conn),
		orders:      orders,
		users:       repository.NewUserRepo(conn),
		settlements: orders,
		close:       conn.Close,
	}, nil
}

func openCache(ctx context.Context, cfg config.Config, log *zap.Logger) (cache.CartCountCache, func() error, error) {
	if cfg.Redis.URL == "" {
		return cache.NewMemoryCache(), func() error { return nil }, nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.CountTTL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("cart counts cached in redis", zap.Duration("ttl", cfg.Redis.CountTTL))
	return rc, rc.Close, nil
}

func confirmationPolicy(cfg config.Config) service.ConfirmationPolicy {
	if cfg.Checkout.Confirmation == config.ConfirmPlaceOrder {
		return service.PlaceOrder{}
	}
	return service.PaymentCode(cfg.Checkout.PaymentCode)
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(cfg.Tracing.Enabled, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	counts, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	// create services
	svc := api.Services{
		Catalog: service.NewCatalogService(st.products, log),
		Cart:    service.NewCartService(st.products, st.carts, counts, log),
		Checkout: service.NewCheckoutService(st.carts, st.settlements, counts, log,
			service.WithDeliveryFee(cfg.Checkout.DeliveryFee),
			service.WithConfirmation(confirmationPolicy(cfg))),
		Auth:     service.NewAuthService(st.users, log),
		Accounts: service.NewAccountService(st.users, st.orders),
	}

	if st.memory {
		if err := seedDemo(ctx, svc.Auth, svc.Catalog); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("in-memory storage seeded with demo catalog")
	}

	router := api.NewRouter(svc, log, api.Options{SecureCookies: !cfg.Development()})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      otelhttp.NewHandler(router, telemetry.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	log.Info("starting storefront",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage),
		zap.String("confirmation", cfg.Checkout.Confirmation))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	<-idleConnsClosed
	log.Info("server stopped")
	return nil
}
