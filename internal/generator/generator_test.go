package generator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRespectsBounds(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		c := gen.Generate()
		require.Truef(t, Valid(c), "invalid challenge %q", c)
		for _, r := range c {
			require.Truef(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q in %q", r, c)
		}
	}
}

func TestGenerateCoversEveryLength(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))
	seen := map[int]int{}
	for i := 0; i < 5000; i++ {
		seen[len(gen.Generate())]++
	}
	for l := MinLength; l <= MaxLength; l++ {
		assert.Greaterf(t, seen[l], 0, "length %d never generated", l)
	}
	assert.Len(t, seen, MaxLength-MinLength+1)
}

func TestGenerateDeterministicWithSource(t *testing.T) {
	a := NewWithSource(rand.NewSource(42))
	b := NewWithSource(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("abcDEF"))
	assert.True(t, Valid("0123456789ab"))
	assert.False(t, Valid("abcde"))
	assert.False(t, Valid("abcdefghijklm"))
	assert.False(t, Valid("abc-def"))
	assert.False(t, Valid("5 - 8 = -3"))
}

func TestAlphabetSize(t *testing.T) {
	assert.Len(t, Alphabet, 62)
}
