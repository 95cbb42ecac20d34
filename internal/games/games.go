// Package games holds the outcome resolvers: pure deterministic functions
// mapping a uniform float plus configuration and player options into a
// structured outcome and payout multiplier. The settlement engine never
// branches on game math; it only asks the registry.
package games

import (
	"errors"
	"fmt"
)

// Game identifiers.
const (
	Dice     = "dice"
	Coinflip = "coinflip"
	Limbo    = "limbo"
	Plinko   = "plinko"
	Crash    = "crash"
	Mines    = "mines"
)

// ErrBadOptions marks resolver rejections caused by invalid player options.
// Any error returned by a Resolver wraps it.
var ErrBadOptions = errors.New("invalid game options")

// Options carries the player-supplied, game-specific bet parameters as they
// arrive from the request body.
type Options map[string]any

// Config is the per-game configuration the registry provides.
type Config struct {
	RTP        float64
	TotalTiles int
	MinMines   int
	MaxMines   int
	MineCount  int
}

// Result is what a resolver produces. Multiplier is zero for a losing bet.
type Result struct {
	Outcome    any
	Multiplier float64
}

// Resolver computes the outcome for one round. It must be pure and
// deterministic: the same float and options always yield the same result.
type Resolver func(f float64, cfg Config, opts Options) (Result, error)

type entry struct {
	resolve  Resolver
	cfg      Config
	deferred bool
}

// Registry maps game identifiers to their resolver and configuration.
type Registry struct {
	games map[string]entry
}

// NewRegistry returns a registry with every supported game registered.
func NewRegistry() *Registry {
	r := &Registry{games: make(map[string]entry)}
	r.register(Dice, resolveDice, Config{RTP: 0.99}, false)
	r.register(Coinflip, resolveCoinflip, Config{RTP: 0.96}, false)
	r.register(Limbo, resolveLimbo, Config{RTP: 0.99}, false)
	r.register(Plinko, resolvePlinko, Config{RTP: 0.97}, false)
	r.register(Crash, resolveCrash, Config{RTP: 0.99}, false)
	r.register(Mines, resolveMines, Config{
		RTP:        0.96,
		TotalTiles: minesGridSize,
		MinMines:   minesMinCount,
		MaxMines:   minesMaxCount,
		MineCount:  3,
	}, true)
	return r
}

func (r *Registry) register(id string, resolve Resolver, cfg Config, deferred bool) {
	r.games[id] = entry{resolve: resolve, cfg: cfg, deferred: deferred}
}

// Supported reports whether the game identifier is registered.
func (r *Registry) Supported(id string) bool {
	_, ok := r.games[id]
	return ok
}

// Deferred reports whether settlement for this game spans multiple calls
// (the round opens in pending_cashout instead of resolving immediately).
func (r *Registry) Deferred(id string) bool {
	return r.games[id].deferred
}

// Config returns the configuration for a registered game.
func (r *Registry) Config(id string) Config {
	return r.games[id].cfg
}

// Resolve runs the game's resolver against the derived float.
func (r *Registry) Resolve(id string, f float64, opts Options) (Result, error) {
	e, ok := r.games[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown game %q", ErrBadOptions, id)
	}
	return e.resolve(f, e.cfg, opts)
}

// Round2 rounds a monetary amount down to two decimal places.
func Round2(v float64) float64 {
	return float64(int64(v*100)) / 100.0
}

// floatOpt reads a numeric option; JSON numbers decode as float64.
func floatOpt(opts Options, key string, def float64) (float64, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadOptions, key)
	}
}

func intOpt(opts Options, key string, def int) (int, error) {
	f, err := floatOpt(opts, key, float64(def))
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadOptions, key)
	}
	return int(f), nil
}

func boolOpt(opts Options, key string, def bool) (bool, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrBadOptions, key)
	}
	return b, nil
}

func stringOpt(opts Options, key, def string) (string, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrBadOptions, key)
	}
	return s, nil
}

// floatState projects the 52 derivation bits of a uniform float onto a
// splitmix64 stream so resolvers that need more than one decision (plinko
// paths, mine layouts) can expand the float deterministically.
func floatState(f float64) uint64 {
	return uint64(f * (1 << 52))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
