package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// otpDigits is the length of a one-time code.
	otpDigits = 6
	// OTPTTL is how long a one-time code stays valid after issuance.
	OTPTTL = 5 * time.Minute
)

// generateOTP returns a random numeric code of otpDigits digits, zero-padded.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
