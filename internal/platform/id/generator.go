package id

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// codeAlphabet omits 0/O/1/I/L to keep league codes unambiguous when
// shared verbally or by screenshot.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const LeagueCodeLength = 6

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() string
	NewLeagueCode() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() string {
	return uuid.NewString()
}

// NewLeagueCode returns a 6-character shareable join token.
func (g *RandomGenerator) NewLeagueCode() (string, error) {
	buf := make([]byte, LeagueCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, LeagueCodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(out), nil
}
