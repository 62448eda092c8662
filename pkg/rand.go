package pkg

import (
	"math/rand"
	"strings"
)

// RandAddressBody returns n random characters drawn from the address
// charset. Callers prepend the ledger prefix themselves.
func RandAddressBody(n int) string {
	var builder strings.Builder
	builder.Grow(n)

	for range n {
		letter := addressCharset[rand.Intn(len(addressCharset))] //nolint:gosec
		builder.WriteByte(letter)
	}

	return builder.String()
}
