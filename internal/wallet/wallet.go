// Package wallet implements the balance ledger. The one hard invariant is
// that a balance never goes below zero, no matter how requests interleave:
// the debit's sufficient-funds check and the decrement are a single atomic
// operation in every implementation.
package wallet

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds is the expected business outcome when a debit's
	// precondition fails; it also covers debits against unknown wallets.
	ErrInsufficientFunds = errors.New("insufficient balance or invalid wallet")

	// ErrInvalidAmount rejects non-positive debits before any money moves.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Ledger is the only writer of wallet balances.
type Ledger interface {
	// Debit subtracts amount if and only if the current balance covers it,
	// returning the updated balance.
	Debit(ctx context.Context, walletID string, amount float64) (float64, error)

	// Credit adds amount to the wallet, creating it if missing (deposits may
	// arrive before a first bet). Non-positive amounts are a no-op that
	// returns the current balance.
	Credit(ctx context.Context, walletID string, amount float64) (float64, error)

	// Balance returns the current balance; unknown wallets read as zero.
	Balance(ctx context.Context, walletID string) (float64, error)
}
