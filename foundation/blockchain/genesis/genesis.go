// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
	"github.com/go-playground/validator/v10"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date              time.Time         `json:"date"`
	ChainID           uint16            `json:"chain_id"`                                               // The chain id represents an unique id for this running instance.
	FinalityThreshold uint64            `json:"finality_threshold" validate:"gte=1"`                    // Blocks that must pass before a validator proposes again.
	PenaltyPercentage uint64            `json:"penalty_percentage" validate:"lte=100"`                  // Percentage of stake slashed on a penalty.
	Data              string            `json:"data" validate:"required"`                               // Payload recorded in the genesis block.
	Validators        map[string]uint64 `json:"validators" validate:"dive,keys,required,endkeys,gte=0"` // Starting stake for validators.
}

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:              time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:           1,
		FinalityThreshold: 1,
		PenaltyPercentage: 10,
		Data:              "Genesis Block",
		Validators:        map[string]uint64{},
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values are usable to start a chain.
func (g Genesis) Validate() error {
	if err := validator.New().Struct(g); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	// Different spellings of one hex address map to the same validator.
	seen := make(map[string]string, len(g.Validators))
	for address := range g.Validators {
		normalized := signature.ToAddress(address)
		if other, exists := seen[normalized]; exists {
			return fmt.Errorf("invalid genesis: validators %q and %q are the same address", other, address)
		}
		seen[normalized] = address
	}

	return nil
}
