package token

import (
	"crypto/rand"
	"errors"

	"github.com/jxskiss/base62"

	"github.com/shopmesh/shopmesh/internal/errs"
)

// EntropyBytes is the amount of randomness backing each opaque token. 32 bytes
// (256 bits) keeps brute-force guessing out of reach for a short-lived token.
const EntropyBytes = 32

var ErrGenerateToken = errors.New("failed to generate random token")

// NewOpaque returns a URL-safe random token suitable for single-use
// credentials.
func NewOpaque() (string, error) {
	buf := make([]byte, EntropyBytes)

	_, err := rand.Read(buf)
	if err != nil {
		return "", errs.Wrap(ErrGenerateToken, err)
	}

	return base62.EncodeToString(buf), nil
}

// Prefix returns the first n characters of a token for operator logs. Token
// values are never logged in full.
func Prefix(token string, n int) string {
	if len(token) <= n {
		return token
	}

	return token[:n] + "..."
}
