package pos

import "fmt"

// The random draw is taken over the total stake of every
// registered validator, but only eligible validators add to the running sum
// while walking the list. When some stake is held by inactive or recently
// proposing validators, a draw can land past the eligible stake and no
// validator is selected for that height. The chain still produces the block
// with no proposer.

// SelectProposer runs the stake weighted lottery for the block at the
// specified height. The boolean is false when no validator was selected.
func (r *Registry) SelectProposer(currentHeight uint64) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.validators) == 0 {
		r.evHandler("pos: SelectProposer: height[%d]: no validators registered", currentHeight)
		return "", false, nil
	}

	// A zero total leaves no range to draw from.
	if r.totalStake == 0 {
		r.evHandler("pos: SelectProposer: height[%d]: no stake registered", currentHeight)
		return "", false, nil
	}

	draw, err := r.rand.Uint64n(r.totalStake)
	if err != nil {
		return "", false, fmt.Errorf("drawing random stake: %w", err)
	}

	var cumulative uint64
	for _, v := range r.sorted() {
		if !r.isEligible(v, currentHeight) {
			continue
		}

		cumulative += v.Stake
		if draw < cumulative {
			r.evHandler("pos: SelectProposer: height[%d]: draw[%d]: SELECTED: %s", currentHeight, draw, v.Address)
			return v.Address, true, nil
		}
	}

	r.evHandler("pos: SelectProposer: height[%d]: draw[%d]: eligible[%d]: no proposer", currentHeight, draw, cumulative)

	return "", false, nil
}

// IsEligible reports whether the validator can propose the block at the
// specified height.
func (r *Registry) IsEligible(address string, currentHeight uint64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.validators[address]
	if !exists {
		return false, fmt.Errorf("eligible %q: %w", address, ErrNotFound)
	}

	return r.isEligible(v, currentHeight), nil
}

// isEligible requires the validator to be active and to have waited the
// finality threshold since its last proposal.
func (r *Registry) isEligible(v Validator, currentHeight uint64) bool {
	if !v.Active {
		return false
	}

	if currentHeight < v.LastProposedHeight {
		return false
	}

	return currentHeight-v.LastProposedHeight >= r.finalityThreshold
}
