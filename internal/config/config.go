// Package config assembles the storefront settings from built-in defaults,
// an optional YAML file, a .env file and the process environment, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Cheertaboi/farmfresh-storefront/pkg/db"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	ConfirmPaymentCode = "payment_code"
	ConfirmPlaceOrder  = "place_order"
)

type Config struct {
	Env      string            `yaml:"env"`
	HTTPAddr string            `yaml:"http_addr"`
	Storage  string            `yaml:"storage"`
	Postgres db.PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig       `yaml:"redis"`
	Checkout CheckoutConfig    `yaml:"checkout"`
	Log      LogConfig         `yaml:"log"`
	Tracing  TracingConfig     `yaml:"tracing"`
}

// RedisConfig enables the shared cart-count cache. An empty URL keeps the
// cache in process memory.
type RedisConfig struct {
	URL      string        `yaml:"url"`
	CountTTL time.Duration `yaml:"count_ttl"`
}

type CheckoutConfig struct {
	Confirmation string          `yaml:"confirmation"`
	PaymentCode  string          `yaml:"payment_code"`
	DeliveryFee  decimal.Decimal `yaml:"delivery_fee"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		Env:      "development",
		HTTPAddr: ":8080",
		Storage:  StoragePostgres,
		Postgres: db.DefaultPostgresConfig(),
		Redis:    RedisConfig{CountTTL: 10 * time.Minute},
		Checkout: CheckoutConfig{
			Confirmation: ConfirmPaymentCode,
			PaymentCode:  "2004",
			DeliveryFee:  decimal.NewFromInt(30),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// CONFIG_FILE variable is consulted, and no file at all is fine.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"APP_ENV":               &c.Env,
		"HTTP_ADDR":             &c.HTTPAddr,
		"STORAGE":               &c.Storage,
		"REDIS_URL":             &c.Redis.URL,
		"CHECKOUT_CONFIRMATION": &c.Checkout.Confirmation,
		"CHECKOUT_PAYMENT_CODE": &c.Checkout.PaymentCode,
		"LOG_LEVEL":             &c.Log.Level,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("CART_COUNT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CART_COUNT_TTL: %w", err)
		}
		c.Redis.CountTTL = ttl
	}
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("DELIVERY_FEE: %w", err)
		}
		c.Checkout.DeliveryFee = fee
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = on
	}

	pg, err := db.LoadPostgresConfig(c.Postgres)
	if err != nil {
		return err
	}
	c.Postgres = pg
	return nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	switch c.Checkout.Confirmation {
	case ConfirmPaymentCode:
		if c.Checkout.PaymentCode == "" {
			errs = append(errs, errors.New("checkout.payment_code is required for payment_code confirmation"))
		}
	case ConfirmPlaceOrder:
	default:
		errs = append(errs, fmt.Errorf("checkout.confirmation must be %q or %q, got %q",
			ConfirmPaymentCode, ConfirmPlaceOrder, c.Checkout.Confirmation))
	}
	if c.Checkout.DeliveryFee.IsNegative() {
		errs = append(errs, errors.New("checkout.delivery_fee must not be negative"))
	}
	if c.Redis.CountTTL <= 0 {
		errs = append(errs, errors.New("redis.count_ttl must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}
