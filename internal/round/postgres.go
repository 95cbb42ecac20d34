package round

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roundColumns = `id, wallet_id, game_id, stake, payout, multiplier,
	server_seed, server_seed_hash, client_seed, nonce, outcome,
	verification_hash, status, created_at, settled_at`

// Postgres is the production round store.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Create(ctx context.Context, r *Round) error {
	const query = `
		INSERT INTO rounds (id, wallet_id, game_id, stake, payout, multiplier,
			server_seed, server_seed_hash, client_seed, nonce, outcome,
			verification_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := p.pool.Exec(ctx, query,
		r.ID, r.WalletID, r.GameID, r.Stake, r.Payout, r.Multiplier,
		r.ServerSeed, r.ServerSeedHash, r.ClientSeed, r.Nonce, r.Outcome,
		r.VerificationHash, r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	r, err := scanRound(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return r, nil
}

func (p *Postgres) Resolve(ctx context.Context, id string, payout, multiplier float64) (*Round, error) {
	query := `
		UPDATE rounds
		SET payout = $2, multiplier = $3, status = $4, settled_at = now()
		WHERE id = $1 AND status = $5
		RETURNING ` + roundColumns

	r, err := scanRound(p.pool.QueryRow(ctx, query, id, payout, multiplier,
		StatusResolved, StatusPendingCashout))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the round is unknown or it already left pending_cashout.
		if _, getErr := p.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyResolved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve round: %w", err)
	}
	return r, nil
}

func scanRound(row pgx.Row) (*Round, error) {
	var r Round
	err := row.Scan(
		&r.ID, &r.WalletID, &r.GameID, &r.Stake, &r.Payout, &r.Multiplier,
		&r.ServerSeed, &r.ServerSeedHash, &r.ClientSeed, &r.Nonce, &r.Outcome,
		&r.VerificationHash, &r.Status, &r.CreatedAt, &r.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
