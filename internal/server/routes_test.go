package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamehouse/internal/events"
	"gamehouse/internal/games"
	"gamehouse/internal/round"
	"gamehouse/internal/settle"
	"gamehouse/internal/wallet"
)

type stubDatabase struct{}

func (stubDatabase) Pool() *pgxpool.Pool       { return nil }
func (stubDatabase) Health() map[string]string { return map[string]string{"status": "up"} }
func (stubDatabase) Close() error              { return nil }

func newTestServer() (*FiberServer, *wallet.Memory, *round.Memory) {
	ledger := wallet.NewMemory()
	rounds := round.NewMemory()
	hub := NewHub()
	engine := settle.NewEngine(ledger, rounds, nil, games.NewRegistry(), events.NewNoop(), settle.DefaultMinBet)

	srv := New(engine, ledger, stubDatabase{}, nil, hub)
	srv.RegisterFiberRoutes()
	return srv, ledger, rounds
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal body %q: %v", b, err)
	}
	return out
}

func TestHealthHandler(t *testing.T) {
	srv, _, _ := newTestServer()

	resp, err := srv.Test(jsonRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK, got %v", resp.Status)
	}

	body := decodeBody(t, resp)
	if _, ok := body["database"]; !ok {
		t.Error("health response missing database section")
	}
}

func TestPlaceBetEndpoint(t *testing.T) {
	srv, ledger, _ := newTestServer()
	ledger.Credit(context.Background(), "0xabc", 100)

	resp, err := srv.Test(jsonRequest("POST", "/api/v1/bets", map[string]any{
		"wallet_address": "0xabc",
		"game_id":        "dice",
		"bet_amount":     20,
		"client_seed":    "seed",
		"options":        map[string]any{"target": 50, "over": true},
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.Status)
	}

	body := decodeBody(t, resp)
	if body["round_id"] == "" {
		t.Error("response missing round_id")
	}
	verification, ok := body["verification"].(map[string]any)
	if !ok {
		t.Fatal("response missing verification bundle")
	}
	if verification["server_seed_hash"] == "" {
		t.Error("verification missing server_seed_hash")
	}
}

func TestPlaceBetEndpointErrors(t *testing.T) {
	srv, ledger, _ := newTestServer()
	ledger.Credit(context.Background(), "0xabc", 10)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name: "insufficient funds",
			payload: map[string]any{
				"wallet_address": "0xabc", "game_id": "dice", "bet_amount": 50,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown game",
			payload: map[string]any{
				"wallet_address": "0xabc", "game_id": "roulette", "bet_amount": 5,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "resolver rejects options",
			payload: map[string]any{
				"wallet_address": "0xabc", "game_id": "dice", "bet_amount": 5,
				"options": map[string]any{"target": 99.5, "over": true},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.Test(jsonRequest("POST", "/api/v1/bets", tt.payload))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %v, want %d", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestGetRoundEndpoint(t *testing.T) {
	srv, ledger, _ := newTestServer()
	ledger.Credit(context.Background(), "0xabc", 100)

	resp, err := srv.Test(jsonRequest("POST", "/api/v1/bets", map[string]any{
		"wallet_address": "0xabc", "game_id": "coinflip", "bet_amount": 10,
	}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	roundID := decodeBody(t, resp)["round_id"].(string)

	resp, err = srv.Test(jsonRequest("GET", "/api/v1/rounds/"+roundID, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.Status)
	}

	body := decodeBody(t, resp)
	if body["status"] != "resolved" {
		t.Errorf("status = %v, want resolved", body["status"])
	}
	if body["server_seed"] == "" {
		t.Error("resolved round should reveal the server seed")
	}

	resp, _ = srv.Test(jsonRequest("GET", "/api/v1/rounds/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing round status = %v, want 404", resp.Status)
	}
}

func TestMinesFlowEndpoints(t *testing.T) {
	srv, _, rounds := newTestServer()

	// Fund through the deposit endpoint.
	resp, err := srv.Test(jsonRequest("POST", "/api/v1/wallets/0xabc/deposit", map[string]any{"amount": 100}))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit status = %v", resp.Status)
	}

	resp, err = srv.Test(jsonRequest("POST", "/api/v1/bets", map[string]any{
		"wallet_address": "0xabc", "game_id": "mines", "bet_amount": 10,
		"options": map[string]any{"mines": 3},
	}))
	if err != nil {
		t.Fatalf("bet failed: %v", err)
	}
	betBody := decodeBody(t, resp)
	roundID := betBody["round_id"].(string)

	outcome := betBody["outcome"].(map[string]any)
	if _, leaked := outcome["mine_positions"]; leaked {
		t.Fatal("open round leaked mine positions over the wire")
	}

	// Look up the hidden layout directly in the store to drive the flow.
	stored, err := rounds.Get(context.Background(), roundID)
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	var layout games.MinesOutcome
	if err := json.Unmarshal(stored.Outcome, &layout); err != nil {
		t.Fatalf("unmarshal layout: %v", err)
	}
	safe := -1
	for tile := 0; tile < layout.TotalTiles; tile++ {
		if !layout.IsMine(tile) {
			safe = tile
			break
		}
	}

	resp, err = srv.Test(jsonRequest("POST", "/api/v1/mines/reveal", map[string]any{
		"wallet_address": "0xabc", "round_id": roundID, "tile_index": safe,
	}))
	if err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reveal status = %v", resp.Status)
	}
	if decodeBody(t, resp)["is_mine"] != false {
		t.Error("safe tile reported as mine")
	}

	resp, _ = srv.Test(jsonRequest("POST", "/api/v1/mines/reveal", map[string]any{
		"wallet_address": "0xother", "round_id": roundID, "tile_index": safe,
	}))
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign wallet reveal status = %v, want 403", resp.Status)
	}

	resp, err = srv.Test(jsonRequest("POST", "/api/v1/mines/cashout", map[string]any{
		"wallet_address": "0xabc", "round_id": roundID, "revealed_indices": []int{safe},
	}))
	if err != nil {
		t.Fatalf("cashout failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cashout status = %v", resp.Status)
	}
	cashout := decodeBody(t, resp)
	if cashout["cashed_out"] != true {
		t.Error("expected cashed_out true")
	}
	if cashout["payout"] != 11.92 {
		t.Errorf("payout = %v, want 11.92", cashout["payout"])
	}
	if cashout["new_balance"] != 101.92 {
		t.Errorf("new_balance = %v, want 101.92", cashout["new_balance"])
	}

	resp, _ = srv.Test(jsonRequest("POST", "/api/v1/mines/cashout", map[string]any{
		"wallet_address": "0xabc", "round_id": roundID, "revealed_indices": []int{safe},
	}))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second cashout status = %v, want 409", resp.Status)
	}
}

func TestWalletBalanceEndpoint(t *testing.T) {
	srv, ledger, _ := newTestServer()
	ledger.Credit(context.Background(), "0xabc", 42.5)

	resp, err := srv.Test(jsonRequest("GET", "/api/v1/wallets/0xABC/balance", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.Status)
	}

	body := decodeBody(t, resp)
	if body["balance"] != 42.5 {
		t.Errorf("balance = %v, want 42.5", body["balance"])
	}
	if body["wallet_id"] != "0xabc" {
		t.Errorf("wallet_id = %v, want lowercased 0xabc", body["wallet_id"])
	}
}

func TestDepositEndpointRejectsNonPositive(t *testing.T) {
	srv, _, _ := newTestServer()

	for _, amount := range []float64{0, -5} {
		resp, err := srv.Test(jsonRequest("POST", "/api/v1/wallets/0xabc/deposit", map[string]any{"amount": amount}))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("amount %v: status = %v, want 400", amount, resp.Status)
		}
	}
}
