package auth

import (
	"math/rand/v2"
	"strconv"
)

// GenerateOTP returns a uniformly random six-digit code in [100000, 999999].
// The range construction keeps the width fixed, so no leading zeros. The code
// is a short-lived, human-typeable secret delivered over email, not a
// cryptographic key.
func GenerateOTP() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}
