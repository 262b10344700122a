package public

import (
	"github.com/ardanlabs/stakechain/business/sys/validate"
	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
	"github.com/ardanlabs/stakechain/foundation/nameservice"
)

type block struct {
	Number        uint64 `json:"number"`
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     uint64 `json:"timestamp"`
	Data          string `json:"data"`
	Proposer      string `json:"proposer"`
	ProposerName  string `json:"proposer_name"`
	Finalized     bool   `json:"finalized"`
}

func toBlock(blk database.Block, ns *nameservice.NameService, finalized bool) block {
	return block{
		Number:        blk.Header.Number,
		Hash:          blk.Hash,
		PrevBlockHash: blk.Header.PrevBlockHash,
		TimeStamp:     blk.Header.TimeStamp,
		Data:          blk.Header.Data,
		Proposer:      blk.Proposer,
		ProposerName:  ns.Lookup(blk.Proposer),
		Finalized:     finalized,
	}
}

type validator struct {
	Address            string `json:"address"`
	Name               string `json:"name"`
	Stake              uint64 `json:"stake"`
	Active             bool   `json:"active"`
	LastProposedHeight uint64 `json:"last_proposed_height"`
	Eligible           bool   `json:"eligible"`
}

func toValidator(v pos.Validator, ns *nameservice.NameService, eligible bool) validator {
	return validator{
		Address:            v.Address,
		Name:               ns.Lookup(v.Address),
		Stake:              v.Stake,
		Active:             v.Active,
		LastProposedHeight: v.LastProposedHeight,
		Eligible:           eligible,
	}
}

type validators struct {
	LatestBlock string      `json:"latest_block"`
	TotalStake  uint64      `json:"total_stake"`
	Validators  []validator `json:"validators"`
}

type status struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockNumber uint64 `json:"latest_block_number"`
	TotalStake        uint64 `json:"total_stake"`
	Validators        int    `json:"validators"`
	FinalityThreshold uint64 `json:"finality_threshold"`
	Subscribers       int    `json:"subscribers"`
}

type finality struct {
	Number    uint64 `json:"number"`
	Finalized bool   `json:"finalized"`
}

// submitTx requires the data field to be present. The payload itself is
// opaque to the chain, so an empty string is accepted.
type submitTx struct {
	Data *string `json:"data" validate:"required"`
}

// Validate checks the transaction carries the data field.
func (tx submitTx) Validate() error {
	return validate.Check(tx)
}
