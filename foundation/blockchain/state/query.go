package state

import (
	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
)

// QueryLastest represents to query the latest block in the chain.
const QueryLastest = ^uint64(0) >> 1

// =============================================================================

// QueryBlock returns the block at the specified height.
func (s *State) QueryBlock(height uint64) (database.Block, error) {
	return s.db.GetBlock(height)
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	if from == QueryLastest {
		from = s.db.Height()
		to = from
	}
	if to == QueryLastest {
		to = s.db.Height()
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.GetBlock(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByNumber: getblock: ERROR: %s", err)
			return out
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByProposer returns the set of blocks credited to the specified
// validator. If the address is empty, all blocks are returned.
func (s *State) QueryBlocksByProposer(address string) ([]database.Block, error) {
	var out []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if address == "" || block.Proposer == address {
			out = append(out, block)
		}
	}

	return out, nil
}

// QueryValidator returns the specified validator.
func (s *State) QueryValidator(address string) (pos.Validator, error) {
	return s.registry.Get(address)
}

// QueryEligible reports whether the validator can propose the next block.
func (s *State) QueryEligible(address string) (bool, error) {
	return s.registry.IsEligible(address, s.db.Height()+1)
}

// IsFinalized reports whether the block at the specified height has enough
// blocks on top of it to be considered final.
func (s *State) IsFinalized(height uint64) bool {
	return s.registry.IsFinalized(height, s.db.Height())
}
