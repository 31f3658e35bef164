package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomInt returns a uniformly distributed integer in [lo, hi].
func RandomInt(lo, hi int) (int, error) {
	if hi < lo {
		return 0, fmt.Errorf("cryptox: empty range [%d, %d]", lo, hi)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo)+1))
	if err != nil {
		return 0, fmt.Errorf("cryptox: random int: %w", err)
	}
	return lo + int(n.Int64()), nil
}
