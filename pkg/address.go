package pkg

import (
	"fmt"
	"strings"
)

const (
	addressPrefix    = "rl1"
	maxAddressLength = 90
)

const addressCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// ValidateAddress checks a ledger identity for the expected prefix,
// length bounds and lowercase alphanumeric body.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, addressPrefix) {
		return fmt.Errorf("address must start with %q", addressPrefix)
	}
	if len(address) <= len(addressPrefix) {
		return fmt.Errorf("address is too short")
	}
	if len(address) > maxAddressLength {
		return fmt.Errorf("address exceeds %d characters", maxAddressLength)
	}
	for _, r := range address[len(addressPrefix):] {
		if !strings.ContainsRune(addressCharset, r) {
			return fmt.Errorf("address contains invalid character %q", r)
		}
	}
	return nil
}
