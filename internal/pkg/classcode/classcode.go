// Package classcode generates the short join codes students use to enroll
// in a class.
package classcode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the fixed number of characters in a class code.
const Length = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxAttempts bounds the collision-retry loop so a nearly exhausted code
// space surfaces as an error instead of spinning forever.
const maxAttempts = 100

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generate returns a new unique class code, regenerating on collision until
// an unused code is found.
func Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := random()
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("error checking class code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique class code after %d attempts", maxAttempts)
}

// IsValid reports whether a string has the shape of a class code: exactly
// Length uppercase letters or digits.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for _, c := range code {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func random() (string, error) {
	buf := make([]byte, Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate class code: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
