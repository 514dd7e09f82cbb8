// Package generator builds CAPTCHA challenge strings.
package generator

import (
	"math/rand"
	"time"
)

// Challenge length bounds, inclusive.
const (
	MinLength = 6
	MaxLength = 12
)

// Alphabet is the set of characters a challenge is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces random alphanumeric challenges.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate picks a length uniformly from [MinLength, MaxLength] and fills it
// with characters drawn uniformly from Alphabet.
func (g *Generator) Generate() string {
	length := MinLength + g.rnd.Intn(MaxLength-MinLength+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = Alphabet[g.rnd.Intn(len(Alphabet))]
	}
	return string(buf)
}

// Valid reports whether s could have been produced by Generate.
func Valid(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return true
}

func isAlnum(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
}
