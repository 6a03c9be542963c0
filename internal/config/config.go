package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	TVDBAPIKey  string
	TVDBPin     string
	TVDBBaseURL string

	SubspleaseBaseURL string

	CacheCapacity int
	CacheTTL      time.Duration

	// Per-IP rate limiting for the resolution endpoints. Disabled when
	// RateLimitRPS <= 0.
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("TVDB_API_KEY"))
	if apiKey == "" {
		return Config{}, errors.New("TVDB_API_KEY is required")
	}
	addr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if addr == "" {
		addr = ":3000"
	}
	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}
	pin := strings.TrimSpace(os.Getenv("TVDB_PIN"))
	if pin == "" {
		pin = "hello world"
	}

	return Config{
		HTTPAddr:          addr,
		LogLevel:          logLevel,
		TVDBAPIKey:        apiKey,
		TVDBPin:           pin,
		TVDBBaseURL:       strings.TrimSpace(os.Getenv("TVDB_BASE_URL")),
		SubspleaseBaseURL: strings.TrimSpace(os.Getenv("SUBSPLEASE_BASE_URL")),
		CacheCapacity:     envInt("CACHE_CAPACITY", 5000),
		CacheTTL:          envDuration("CACHE_TTL", 72*time.Hour),
		RateLimitRPS:      envFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    envInt("RATE_LIMIT_BURST", 10),
	}, nil
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
