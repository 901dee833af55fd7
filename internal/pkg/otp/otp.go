package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultDigits is the code length used when NewNumeric receives a
// non-positive length.
const DefaultDigits = 6

// Generator produces one-time passcodes.
type Generator interface {
	// Generate returns a fresh plaintext code.
	Generate() (string, error)
}

// Numeric implements Generator with decimal codes from a CSPRNG.
type Numeric struct {
	digits int
}

// NewNumeric constructs a Numeric generator producing codes of the given
// length. Lengths below 1 fall back to DefaultDigits.
func NewNumeric(digits int) *Numeric {
	if digits < 1 {
		digits = DefaultDigits
	}

	return &Numeric{digits: digits}
}

var ten = big.NewInt(10)

// Generate returns a code of fixed length where every digit is drawn
// independently from 0-9.
func (n *Numeric) Generate() (string, error) {
	buf := make([]byte, n.digits)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to draw random digit: %w", err)
		}
		buf[i] = byte('0' + d.Int64())
	}

	return string(buf), nil
}
