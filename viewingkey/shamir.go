package viewingkey

import (
	"errors"
	"fmt"

	"github.com/hashicorp/vault/shamir"

	"github.com/jwtradera/scrt-strongbox/interfaces"
)

// SplitSeed splits an instantiation seed into shares using Shamir's Secret
// Sharing, so no single operator holds the seed. The seed should be
// securely erased after the shares are distributed.
func SplitSeed(seed []byte, parts, threshold int) ([][]byte, error) {
	if len(seed) < interfaces.MinSeedLen {
		return nil, interfaces.ErrInsufficientSeed
	}

	shares, err := shamir.Split(seed, parts, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split seed: %w", err)
	}

	return shares, nil
}

// CombineSeedShares reconstructs an instantiation seed from a threshold
// number of shares. The reconstructed seed exists only in memory.
func CombineSeedShares(shares [][]byte) ([]byte, error) {
	if len(shares) < 2 {
		return nil, errors.New("at least two seed shares are required")
	}

	seed, err := shamir.Combine(shares)
	if err != nil {
		return nil, fmt.Errorf("failed to combine seed shares: %w", err)
	}

	if len(seed) < interfaces.MinSeedLen {
		return nil, interfaces.ErrInsufficientSeed
	}

	return seed, nil
}
