package auth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_RangeAndWidth(t *testing.T) {
	firstDigits := make(map[byte]bool)

	for i := 0; i < 1000; i++ {
		code := GenerateOTP()
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)

		firstDigits[code[0]] = true
	}

	// with 1000 draws every leading digit 1-9 should appear
	for d := byte('1'); d <= '9'; d++ {
		assert.True(t, firstDigits[d], "leading digit %c never generated", d)
	}
}
