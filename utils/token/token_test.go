package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/utils/token"
)

func TestNewOpaque(t *testing.T) {
	t.Run("should generate distinct tokens", func(t *testing.T) {
		seen := make(map[string]struct{})

		for range 100 {
			tok, err := token.NewOpaque()
			require.NoError(t, err)

			_, dup := seen[tok]
			assert.False(t, dup)

			seen[tok] = struct{}{}
		}
	})

	t.Run("should carry enough entropy", func(t *testing.T) {
		tok, err := token.NewOpaque()
		require.NoError(t, err)

		// base62 encodes ~5.95 bits per character.
		assert.GreaterOrEqual(t, len(tok), 40)
	})
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "abcdefgh...", token.Prefix("abcdefghijklmnop", 8))
	assert.Equal(t, "short", token.Prefix("short", 8))
}
