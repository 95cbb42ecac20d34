package server

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gamehouse/internal/round"
	"gamehouse/internal/settle"
	"gamehouse/internal/wallet"
)

// Health handler

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	health := fiber.Map{
		"database": s.db.Health(),
		"ws": fiber.Map{
			"connected_clients": s.hub.ClientCount(),
		},
	}
	if s.cache != nil {
		health["cache"] = s.cache.Health()
	}
	return c.JSON(health)
}

// Settlement handlers

func (s *FiberServer) placeBetHandler(c *fiber.Ctx) error {
	var in settle.BetInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	receipt, err := s.engine.PlaceBet(c.Context(), in)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(receipt)
}

func (s *FiberServer) getRoundHandler(c *fiber.Ctx) error {
	id := c.Params("roundId")
	view, err := s.engine.GetRound(c.Context(), id)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(view)
}

// Mines handlers

func (s *FiberServer) minesRevealHandler(c *fiber.Ctx) error {
	var in settle.RevealInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := s.engine.RevealTile(c.Context(), in)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(result)
}

func (s *FiberServer) minesCashoutHandler(c *fiber.Ctx) error {
	var in settle.CashoutInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := s.engine.CashoutMines(c.Context(), in)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(result)
}

// Wallet handlers

func (s *FiberServer) getBalanceHandler(c *fiber.Ctx) error {
	walletID := strings.ToLower(c.Params("walletId"))
	if walletID == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Wallet ID is required",
		})
	}

	balance, err := s.ledger.Balance(c.Context(), walletID)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(fiber.Map{
		"wallet_id": walletID,
		"balance":   balance,
	})
}

func (s *FiberServer) depositHandler(c *fiber.Ctx) error {
	walletID := strings.ToLower(c.Params("walletId"))
	if walletID == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Wallet ID is required",
		})
	}

	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Amount must be positive",
		})
	}

	balance, err := s.ledger.Credit(c.Context(), walletID, body.Amount)
	if err != nil {
		return s.settleError(c, err)
	}
	return c.JSON(fiber.Map{
		"wallet_id": walletID,
		"balance":   balance,
	})
}

// settleError maps engine errors onto status codes. Anything unrecognized
// is logged and surfaced as an opaque 500 so storage details never leak.
func (s *FiberServer) settleError(c *fiber.Ctx, err error) error {
	var validationErr *settle.ValidationError
	var resolverErr *settle.ResolverError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Msg})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Insufficient balance",
			"code":  "insufficient_funds",
		})
	case errors.Is(err, wallet.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
	case errors.Is(err, round.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Round not found"})
	case errors.Is(err, settle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Round belongs to another wallet"})
	case errors.Is(err, settle.ErrWrongGame):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Operation not supported for this game"})
	case errors.Is(err, settle.ErrRoundClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Round already resolved"})
	case errors.As(err, &resolverErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": resolverErr.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// WebSocket handler

func (s *FiberServer) settlementsWebSocketHandler(conn *websocket.Conn) {
	walletID := strings.ToLower(conn.Query("wallet_id", "anonymous"))

	s.hub.RegisterClient(conn, walletID)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.UnregisterClient(conn)
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var clientMsg map[string]interface{}
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			continue
		}

		if msgType, ok := clientMsg["type"].(string); ok && msgType == "ping" {
			pongJSON, _ := json.Marshal(map[string]string{"type": "pong"})
			conn.WriteMessage(websocket.TextMessage, pongJSON)
		}
	}
}
