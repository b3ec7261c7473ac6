package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// tokenAlphabet is the 36-symbol set session tokens and verification codes
// are drawn from.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateID produces a cryptographically secure random identifier of the
// given length over tokenAlphabet.
func generateID(length int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random symbol: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}

	return string(buf), nil
}
