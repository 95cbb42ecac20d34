package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestGetClientReturnsWrappedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	s := &service{client: client}
	if s.GetClient() != client {
		t.Error("expected the configured client back")
	}
}

func TestHealthReportsDownOnClosedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DialTimeout: time.Second})
	client.Close()

	s := &service{client: client}
	stats := s.Health()

	if stats["status"] != "down" {
		t.Errorf("status = %q, want down", stats["status"])
	}
	if stats["error"] == "" {
		t.Error("expected an error detail for a down cache")
	}
	if _, ok := stats["message"]; ok {
		t.Error("a down cache must not report a healthy message")
	}
}

func TestNewWithoutRedisReturnsNil(t *testing.T) {
	// New degrades to a nil service when nothing answers the ping; callers
	// run without the hot cache.
	oldAddr := redisAddr
	redisAddr = "localhost:1"
	defer func() { redisAddr = oldAddr }()

	if svc := New(); svc != nil {
		t.Error("expected nil service when redis is unreachable")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		want       string
	}{
		{"set", "CACHE_TEST_SET", "custom", "default", "custom"},
		{"unset", "CACHE_TEST_UNSET", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			if got := getEnv(tt.key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnv(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		want       int
	}{
		{"valid integer", "CACHE_TEST_INT", "42", 0, 42},
		{"not a number", "CACHE_TEST_BAD", "nope", 10, 10},
		{"unset", "CACHE_TEST_MISSING", "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			if got := getEnvAsInt(tt.key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvAsInt(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}
