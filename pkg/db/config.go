package db

import (
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func LoadPostgresConfig() PostgresConfig {
	cfg := PostgresConfig{
		Host:            envOr("DB_HOST", "localhost"),
		Port:            5432,
		User:            envOr("DB_USER", "postgres"),
		Password:        envOr("DB_PASSWORD", "postgres"),
		DBName:          envOr("DB_NAME", "pizzastore"),
		SSLMode:         envOr("DB_SSLMODE", "disable"),
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
	}
	if p, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && p > 0 {
		cfg.Port = p
	}
	if n, err := strconv.Atoi(os.Getenv("DB_MAX_OPEN_CONNS")); err == nil && n > 0 {
		cfg.MaxOpenConns = n
	}
	if n, err := strconv.Atoi(os.Getenv("DB_MAX_IDLE_CONNS")); err == nil && n > 0 {
		cfg.MaxIdleConns = n
	}
	if d, err := time.ParseDuration(os.Getenv("DB_CONN_MAX_LIFETIME")); err == nil && d > 0 {
		cfg.ConnMaxLifetime = d
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
