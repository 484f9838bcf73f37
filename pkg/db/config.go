package db

import (
	"fmt"
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// DSN, when set, is used as-is and the fields above are ignored.
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "postgres",
		DBName:       "farmfresh",
		SSLMode:      "disable",
		MaxOpenConns: 20,
	}
}

// LoadPostgresConfig overlays DB_* environment variables on cfg.
func LoadPostgresConfig(cfg PostgresConfig) (PostgresConfig, error) {
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.Port = port
	}
	for env, dst := range map[string]*string{
		"DB_HOST":     &cfg.Host,
		"DB_USER":     &cfg.User,
		"DB_PASSWORD": &cfg.Password,
		"DB_NAME":     &cfg.DBName,
		"DB_SSLMODE":  &cfg.SSLMode,
		"DB_DSN":      &cfg.DSN,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	return cfg, nil
}

func (c PostgresConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}
