package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomIntBounds(t *testing.T) {
	for range 2000 {
		n, err := RandomInt(1, 10000)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 10000)
	}
}

func TestRandomIntCoversSmallRange(t *testing.T) {
	seen := map[int]bool{}
	for range 500 {
		n, err := RandomInt(1, 3)
		require.NoError(t, err)
		seen[n] = true
	}
	require.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

func TestRandomIntSingleValue(t *testing.T) {
	n, err := RandomInt(7, 7)
	require.NoError(t, err)
	require.Equal(t, 7, n)
}

func TestRandomIntEmptyRange(t *testing.T) {
	_, err := RandomInt(5, 4)
	require.Error(t, err)
}
