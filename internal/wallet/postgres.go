package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production ledger. The debit is a single conditional
// UPDATE, so the precondition check and the mutation are indivisible from
// the perspective of every other statement touching the same row.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Debit(ctx context.Context, walletID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	const query = `
		UPDATE wallets
		SET balance = balance - $2, updated_at = now()
		WHERE wallet_id = $1 AND balance >= $2
		RETURNING balance
	`

	var balance float64
	err := p.pool.QueryRow(ctx, query, walletID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit wallet: %w", err)
	}
	return balance, nil
}

func (p *Postgres) Credit(ctx context.Context, walletID string, amount float64) (float64, error) {
	if amount <= 0 {
		return p.Balance(ctx, walletID)
	}

	const query = `
		INSERT INTO wallets (wallet_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (wallet_id)
		DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = now()
		RETURNING balance
	`

	var balance float64
	if err := p.pool.QueryRow(ctx, query, walletID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return balance, nil
}

func (p *Postgres) Balance(ctx context.Context, walletID string) (float64, error) {
	const query = `SELECT balance FROM wallets WHERE wallet_id = $1`

	var balance float64
	err := p.pool.QueryRow(ctx, query, walletID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read wallet balance: %w", err)
	}
	return balance, nil
}
