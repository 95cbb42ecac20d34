// Package fair implements the provably fair commit-and-reveal protocol.
// A server seed is committed via its SHA-256 hash before a round resolves;
// after the seed is revealed the player can recompute the round's uniform
// float and verification hash and confirm nothing was altered post hoc.
package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	serverSeedBytes = 32
	clientSeedBytes = 16

	// floatBits is the digest prefix width used for float derivation.
	// 52 bits fit exactly in a float64 mantissa, so the division below is
	// lossless and the result is bit-identical on every platform.
	floatBits = 52
	floatHex  = floatBits / 4
)

// GenerateServerSeed returns a hex-encoded seed with 256 bits of CSPRNG
// entropy. A read failure from the system RNG is not recoverable.
func GenerateServerSeed() string {
	b := make([]byte, serverSeedBytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("fair: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// GenerateClientSeed returns a random fallback seed for players that did not
// supply their own.
func GenerateClientSeed() string {
	b := make([]byte, clientSeedBytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("fair: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// Commitment returns the SHA-256 hash of the server seed. It is published to
// the player before the round resolves.
func Commitment(serverSeed string) string {
	h := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(h[:])
}

// UniformFloat derives a deterministic float in [0, 1) from the seed pair and
// nonce. It computes HMAC-SHA256 over "clientSeed:nonce" keyed by the server
// seed and normalizes the first 52 bits of the digest.
func UniformFloat(serverSeed, clientSeed string, nonce int64) float64 {
	data := fmt.Sprintf("%s:%d", clientSeed, nonce)
	h := hmac.New(sha256.New, []byte(serverSeed))
	h.Write([]byte(data))
	digest := hex.EncodeToString(h.Sum(nil))

	v, err := strconv.ParseUint(digest[:floatHex], 16, 64)
	if err != nil {
		panic(fmt.Sprintf("fair: digest parse failed: %v", err))
	}
	return float64(v) / float64(uint64(1)<<floatBits)
}

// VerificationHash binds the seed commitment, client seed, nonce and the
// serialized outcome. The serialization order is fixed; given the revealed
// server seed and the published outcome, a player reproduces this hash
// exactly.
func VerificationHash(serverSeed, clientSeed string, nonce int64, outcome []byte) string {
	data := fmt.Sprintf("%s:%s:%d:%s", Commitment(serverSeed), clientSeed, nonce, outcome)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}
