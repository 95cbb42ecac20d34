// Package config collects the application-level settings that do not belong
// to a single backing service. Database and Redis connection settings live
// with their packages.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port         string
	MetricsPort  string
	Env          string
	MinBet       float64
	KafkaBrokers []string
	KafkaTopic   string
	CacheTTL     time.Duration
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		Env:          getEnv("APP_ENV", "local"),
		MinBet:       getEnvAsFloat("MIN_BET", 0.01),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "gamehouse.rounds.settled"),
		CacheTTL:     getEnvAsDuration("OPEN_ROUND_TTL", 24*time.Hour),
	}
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
