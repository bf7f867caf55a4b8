// Package refcode generates human-readable reference numbers for orders
// and jobs, e.g. ORD7F3K29QX1.
package refcode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxAttempts bounds the collision retry loop per length before the
// suffix is widened by one character.
const maxAttempts = 5

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generate returns a unique code of the form prefix + random suffix.
// On repeated collisions the suffix grows by one character so the
// probability of another clash drops by a factor of 36.
func Generate(ctx context.Context, prefix string, length int, exists ExistsFunc) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("refcode prefix is required")
	}
	if length <= 0 {
		return "", fmt.Errorf("refcode length must be positive")
	}
	if exists == nil {
		return "", fmt.Errorf("refcode exists check is required")
	}

	for widen := 0; widen < 3; widen++ {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			suffix, err := randomSuffix(length + widen)
			if err != nil {
				return "", err
			}
			code := prefix + suffix
			taken, err := exists(ctx, code)
			if err != nil {
				return "", fmt.Errorf("checking refcode %s: %w", code, err)
			}
			if !taken {
				return code, nil
			}
		}
	}
	return "", fmt.Errorf("could not generate unique refcode with prefix %s", prefix)
}

func randomSuffix(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading randomness: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
