package common

import (
	"crypto/rand"
	"math/big"
)

// RandomInt returns a random integer in [0, max) using crypto/rand.
func RandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// Shuffle performs a Fisher-Yates shuffle over n elements.
func Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := RandomInt(i + 1)
		swap(i, j)
	}
}
