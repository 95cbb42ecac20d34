package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"gamehouse/internal/cache"
	"gamehouse/internal/database"
	"gamehouse/internal/settle"
	"gamehouse/internal/wallet"
)

type FiberServer struct {
	*fiber.App

	db     database.Service
	cache  cache.Service
	ledger wallet.Ledger
	engine *settle.Engine
	hub    *Hub
}

// New wires the HTTP surface around an already-constructed settlement
// engine. The caller owns the engine's dependencies; the server only owns
// the transport.
func New(engine *settle.Engine, ledger wallet.Ledger, db database.Service, cacheSvc cache.Service, hub *Hub) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:  "gamehouse",
			AppName:       "gamehouse",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			IdleTimeout:   120 * time.Second,
			StrictRouting: false,
		}),

		db:     db,
		cache:  cacheSvc,
		ledger: ledger,
		engine: engine,
		hub:    hub,
	}

	server.App.Use(recover.New())
	server.App.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	go hub.Run()

	return server
}

// Shutdown closes the server and its backing connections.
func (s *FiberServer) Shutdown() error {
	log.Info().Msg("server shutting down")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("fiber shutdown failed")
	}

	if s.cache != nil {
		s.cache.Close()
	}
	if s.db != nil {
		s.db.Close()
	}

	return nil
}
