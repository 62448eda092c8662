package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const addressCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomAddress generates a random ledger address with the given body
// length, e.g. "rl1x7k2...". Bodies must be at least one character.
func RandomAddress(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	body := make([]byte, length)
	for i := range body {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(addressCharset))))
		if err != nil {
			return "", err
		}
		body[i] = addressCharset[num.Int64()]
	}

	return "rl1" + string(body), nil
}
