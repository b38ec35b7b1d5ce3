// Package token generates the random identifiers and secrets of a simulated
// swarm: swarm IDs, join tokens and unlock keys. The values carry no security
// properties, they only need to be unique enough to tell rotations apart.
package token

import (
	"math/rand"
)

const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	IDLength        = 32
	UnlockKeyLength = 32
	JoinTokenLength = 64
)

// Generator produces fixed-length alphanumeric strings. It is not safe for
// concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded with seed. Equal seeds produce equal
// sequences, which keeps tests deterministic.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// String returns a random string of n characters drawn uniformly from Alphabet.
func (g *Generator) String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = Alphabet[g.rnd.Intn(len(Alphabet))]
	}

	return string(b)
}

func (g *Generator) ID() string {
	return g.String(IDLength)
}

func (g *Generator) UnlockKey() string {
	return g.String(UnlockKeyLength)
}

func (g *Generator) JoinToken() string {
	return g.String(JoinTokenLength)
}

// Rotate calls next until it returns something other than old.
func Rotate(old string, next func() string) string {
	for {
		if v := next(); v != old {
			return v
		}
	}
}
