package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Pool returns the underlying connection pool for repositories.
	Pool() *pgxpool.Pool

	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection pool.
	Close() error
}

type service struct {
	pool *pgxpool.Pool
}

var (
	database   = getEnv("GAMEHOUSE_DB_DATABASE", "gamehouse")
	password   = getEnv("GAMEHOUSE_DB_PASSWORD", "postgres")
	username   = getEnv("GAMEHOUSE_DB_USERNAME", "postgres")
	port       = getEnv("GAMEHOUSE_DB_PORT", "5432")
	host       = getEnv("GAMEHOUSE_DB_HOST", "localhost")
	schema     = getEnv("GAMEHOUSE_DB_SCHEMA", "public")
	dbInstance *service
)

// DSN builds the connection string from the package-level settings.
func DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		username, password, host, port, database, schema)
}

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}

	pool, err := pgxpool.New(context.Background(), DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	dbInstance = &service{pool: pool}
	return dbInstance
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.pool.Ping(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("database is down")
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	poolStats := s.pool.Stat()
	stats["total_conns"] = strconv.FormatInt(int64(poolStats.TotalConns()), 10)
	stats["idle_conns"] = strconv.FormatInt(int64(poolStats.IdleConns()), 10)
	stats["acquired_conns"] = strconv.FormatInt(int64(poolStats.AcquiredConns()), 10)
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	return stats
}

// Close closes the database connection pool.
func (s *service) Close() error {
	log.Info().Str("database", database).Msg("disconnected from database")
	s.pool.Close()
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
