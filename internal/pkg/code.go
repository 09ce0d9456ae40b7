package pkg

import (
	"crypto/rand"
	"math/big"
	"strings"
)

var codeCharset = []byte("0123456789")

// RandDigits returns an n-digit verification code drawn from crypto/rand,
// uniform per position.
func RandDigits(n int) (string, error) {
	max := big.NewInt(int64(len(codeCharset)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeCharset[idx.Int64()])
	}
	return b.String(), nil
}
