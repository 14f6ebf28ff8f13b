package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const defaultIDBytes = 8

// Generator creates opaque IDs for correlating background work in logs.
type Generator interface {
	NewID() (string, error)
}

type Option func(*RandomGenerator)

// WithPrefix prepends prefix to every generated ID.
func WithPrefix(prefix string) Option {
	return func(g *RandomGenerator) {
		g.prefix = prefix
	}
}

// WithBytes sets how many random bytes back each ID. Values below one are
// ignored.
func WithBytes(n int) Option {
	return func(g *RandomGenerator) {
		if n > 0 {
			g.size = n
		}
	}
}

type RandomGenerator struct {
	prefix string
	size   int
}

func NewRandomGenerator(opts ...Option) *RandomGenerator {
	g := &RandomGenerator{size: defaultIDBytes}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.prefix + hex.EncodeToString(buf), nil
}
