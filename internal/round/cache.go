package round

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const openRoundKeyPrefix = "round:open:"

// Cache keeps open multi-step rounds hot in Redis so reveal reads skip the
// database. Postgres stays authoritative: cash-out never trusts the cache,
// and a miss here just falls through to the store.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedRound struct {
	ID               string          `json:"id"`
	WalletID         string          `json:"wallet_id"`
	GameID           string          `json:"game_id"`
	Stake            float64         `json:"stake"`
	ServerSeed       string          `json:"server_seed"`
	ServerSeedHash   string          `json:"server_seed_hash"`
	ClientSeed       string          `json:"client_seed"`
	Nonce            int64           `json:"nonce"`
	Outcome          json.RawMessage `json:"outcome"`
	VerificationHash string          `json:"verification_hash"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PutOpen caches a pending round's private state.
func (c *Cache) PutOpen(ctx context.Context, r *Round) {
	if c == nil || c.client == nil {
		return
	}

	b, err := json.Marshal(cachedRound{
		ID:               r.ID,
		WalletID:         r.WalletID,
		GameID:           r.GameID,
		Stake:            r.Stake,
		ServerSeed:       r.ServerSeed,
		ServerSeedHash:   r.ServerSeedHash,
		ClientSeed:       r.ClientSeed,
		Nonce:            r.Nonce,
		Outcome:          r.Outcome,
		VerificationHash: r.VerificationHash,
		CreatedAt:        r.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, openRoundKeyPrefix+r.ID, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("round_id", r.ID).Msg("failed to cache open round")
	}
}

// GetOpen returns a cached open round, or a miss.
func (c *Cache) GetOpen(ctx context.Context, id string) (*Round, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, openRoundKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}

	var cached cachedRound
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}

	return &Round{
		ID:               cached.ID,
		WalletID:         cached.WalletID,
		GameID:           cached.GameID,
		Stake:            cached.Stake,
		ServerSeed:       cached.ServerSeed,
		ServerSeedHash:   cached.ServerSeedHash,
		ClientSeed:       cached.ClientSeed,
		Nonce:            cached.Nonce,
		Outcome:          cached.Outcome,
		VerificationHash: cached.VerificationHash,
		Status:           StatusPendingCashout,
		CreatedAt:        cached.CreatedAt,
	}, true
}

// Drop evicts a round once it resolves.
func (c *Cache) Drop(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, openRoundKeyPrefix+id).Err(); err != nil {
		log.Warn().Err(err).Str("round_id", id).Msg("failed to evict open round")
	}
}
