package state

import (
	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveBlocks returns a copy of every block starting with genesis.
func (s *State) RetrieveBlocks() []database.Block {
	return s.db.Copy()
}

// RetrieveValidators returns a copy of the validators sorted by address.
func (s *State) RetrieveValidators() []pos.Validator {
	return s.registry.Copy()
}

// RetrieveTotalStake returns the stake held by all validators.
func (s *State) RetrieveTotalStake() uint64 {
	return s.registry.TotalStake()
}

// RetrieveFinalityThreshold returns the configured finality threshold.
func (s *State) RetrieveFinalityThreshold() uint64 {
	return s.registry.FinalityThreshold()
}
