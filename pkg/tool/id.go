package tool

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// referralAlphabet omits 0/O and 1/I so codes survive being read aloud.
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns a random upper-case code of length n.
func GenerateReferralCode(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[idx.Int64()]
	}
	return string(b), nil
}
