package settle

import (
	"errors"
	"fmt"
)

// Distinct sentinels per failure condition so the transport layer can tell a
// stale client from an attacker and map each to its own status code.
var (
	ErrForbidden   = errors.New("round belongs to another wallet")
	ErrWrongGame   = errors.New("operation not supported for this game")
	ErrRoundClosed = errors.New("round already resolved")
)

// ValidationError covers bad or missing input detected before any money
// moves; safe to retry after fixing the request.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ResolverError wraps a game resolver's rejection of its inputs. By the time
// it surfaces the stake has already been refunded.
type ResolverError struct {
	Err error
}

func (e *ResolverError) Error() string { return e.Err.Error() }
func (e *ResolverError) Unwrap() error { return e.Err }
