package server

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Accept,Authorization,Content-Type",
		AllowCredentials: false, // credentials require explicit origins
		MaxAge:           300,
	}))

	s.App.Get("/health", s.healthHandler)

	api := s.App.Group("/api/v1")

	api.Post("/bets", s.placeBetHandler)
	api.Get("/rounds/:roundId", s.getRoundHandler)

	api.Post("/mines/reveal", s.minesRevealHandler)
	api.Post("/mines/cashout", s.minesCashoutHandler)

	api.Get("/wallets/:walletId/balance", s.getBalanceHandler)
	api.Post("/wallets/:walletId/deposit", s.depositHandler)

	s.App.Get("/ws", websocket.New(s.settlementsWebSocketHandler))
}
