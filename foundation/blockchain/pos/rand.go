package pos

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Rand represents the behavior required to draw the random value used by
// the proposer lottery.
type Rand interface {
	Uint64n(n uint64) (uint64, error)
}

// CryptoRand draws values from the operating system's secure random source.
type CryptoRand struct{}

// Uint64n returns a uniformly distributed value in [0, n).
func (CryptoRand) Uint64n(n uint64) (uint64, error) {
	if n == 0 {
		return 0, errors.New("random range must be greater than zero")
	}

	nBig, err := rand.Int(rand.Reader, new(big.Int).SetUint64(n))
	if err != nil {
		return 0, err
	}

	return nBig.Uint64(), nil
}
