package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var loadEnv sync.Once

// Config reads an environment variable, loading .env once if present
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables")
		}
	})
	return os.Getenv(key)
}

func ConfigDefault(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

// TaxPercentage is the surcharge rate applied to order subtotals (default 10%)
func TaxPercentage() decimal.Decimal {
	raw := ConfigDefault("RESTAURANT_TAX_PERCENTAGE", "10")
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("invalid RESTAURANT_TAX_PERCENTAGE %q, falling back to 10", raw)
		return decimal.NewFromInt(10)
	}
	return pct
}

func TableCount() int {
	n, err := strconv.Atoi(ConfigDefault("RESTAURANT_TABLES_COUNT", "10"))
	if err != nil || n < 1 {
		return 10
	}
	return n
}

func CacheTTL() time.Duration {
	seconds, err := strconv.Atoi(ConfigDefault("RESTAURANT_CACHE_TTL", "3600"))
	if err != nil || seconds < 0 {
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}

func RestaurantName() string {
	return ConfigDefault("RESTAURANT_NAME", "Restaurant ABC")
}
