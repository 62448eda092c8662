package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandAddressBody(t *testing.T) {
	cases := []int{0, 3, 5, 10}
	for _, length := range cases {
		str := RandAddressBody(length)
		assert.Len(t, str, length)
	}
}

func TestValidateAddress(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, ValidateAddress("rl1"+RandAddressBody(20)))
	})
	t.Run("missing prefix", func(t *testing.T) {
		require.Error(t, ValidateAddress("xyz1abcdef"))
	})
	t.Run("prefix only", func(t *testing.T) {
		require.Error(t, ValidateAddress("rl1"))
	})
	t.Run("uppercase body", func(t *testing.T) {
		require.Error(t, ValidateAddress("rl1ABCDEF"))
	})
	t.Run("too long", func(t *testing.T) {
		require.Error(t, ValidateAddress("rl1"+RandAddressBody(100)))
	})
}
