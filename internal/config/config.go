package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr     string
	RedisURL string

	// Pricing knobs for the order workflow.
	FreeDeliveryThreshold float64
	DeliveryCharge        float64
	DeliveryETA           time.Duration

	// Local time of day at which the daily inventory reset fires.
	ResetHour   int
	ResetMinute int
}

func Load() *Config {
	cfg := &Config{
		Addr:                  ":8080",
		RedisURL:              os.Getenv("REDIS_URL"),
		FreeDeliveryThreshold: 500,
		DeliveryCharge:        40,
		DeliveryETA:           45 * time.Minute,
		ResetHour:             23,
		ResetMinute:           59,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if v := os.Getenv("FREE_DELIVERY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.FreeDeliveryThreshold = f
		}
	}
	if v := os.Getenv("DELIVERY_CHARGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.DeliveryCharge = f
		}
	}
	if v := os.Getenv("INVENTORY_RESET_AT"); v != "" {
		if t, err := time.Parse("15:04", v); err == nil {
			cfg.ResetHour = t.Hour()
			cfg.ResetMinute = t.Minute()
		}
	}
	return cfg
}
