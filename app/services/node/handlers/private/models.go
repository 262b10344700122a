package private

import (
	"github.com/ardanlabs/stakechain/business/sys/validate"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
)

type newValidator struct {
	Address string `json:"address" validate:"required"`
	Stake   uint64 `json:"stake"`
}

// Validate checks the validator can be registered.
func (nv newValidator) Validate() error {
	return validate.Check(nv)
}

type updateStake struct {
	Stake *uint64 `json:"stake" validate:"required"`
}

// Validate checks a stake value was provided.
func (us updateStake) Validate() error {
	return validate.Check(us)
}

type validator struct {
	Address            string `json:"address"`
	Stake              uint64 `json:"stake"`
	Active             bool   `json:"active"`
	LastProposedHeight uint64 `json:"last_proposed_height"`
}

func toValidator(v pos.Validator) validator {
	return validator{
		Address:            v.Address,
		Stake:              v.Stake,
		Active:             v.Active,
		LastProposedHeight: v.LastProposedHeight,
	}
}

type penalty struct {
	Validator  validator `json:"validator"`
	Slashed    uint64    `json:"slashed"`
	TotalStake uint64    `json:"total_stake"`
}
