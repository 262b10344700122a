// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks and validators.
type EventHandler func(v string, args ...any)

// Clock returns the time used to stamp new blocks.
type Clock func() time.Time

// =============================================================================

// Config represents the configuration required to start
// the blockchain.
type Config struct {
	Genesis   genesis.Genesis
	Clock     Clock
	Rand      pos.Rand
	EvHandler EventHandler
}

// State manages the blockchain and the validators that propose blocks.
type State struct {
	mu        sync.Mutex
	evHandler EventHandler
	clock     Clock

	genesis  genesis.Genesis
	db       *database.Database
	registry *pos.Registry
}

// New constructs a new blockchain with a genesis block and the genesis
// validators registered.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Construct the registry that decides who proposes each block.
	registry, err := pos.New(pos.Config{
		FinalityThreshold: cfg.Genesis.FinalityThreshold,
		PenaltyPercentage: cfg.Genesis.PenaltyPercentage,
		Rand:              cfg.Rand,
		EvHandler:         pos.EventHandler(ev),
	})
	if err != nil {
		return nil, err
	}

	// Apply the genesis stake for the founding validators.
	for address, stake := range cfg.Genesis.Validators {
		if err := registry.Add(signature.ToAddress(address), stake); err != nil {
			return nil, fmt.Errorf("genesis validator %q: %w", address, err)
		}
	}

	// Synthesize the genesis block which starts the chain.
	db, err := database.New(database.NewGenesisBlock(cfg.Genesis.Data, clock()), ev)
	if err != nil {
		return nil, err
	}

	state := State{
		evHandler: ev,
		clock:     clock,

		genesis:  cfg.Genesis,
		db:       db,
		registry: registry,
	}

	ev("state: New: genesis: hash[%s]: validators[%d]: stake[%d]", db.LatestBlock().Hash, registry.Len(), registry.TotalStake())

	return &state, nil
}

// Append selects a proposer for the next block, creates the block with the
// specified data and adds it to the chain. When no validator is eligible
// the block is still added with no proposer.
func (s *State) Append(data string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.db.LatestBlock()
	height := latest.Header.Number + 1

	s.evHandler("state: Append: blk[%d]: started", height)
	defer s.evHandler("state: Append: blk[%d]: completed", height)

	proposer, selected, err := s.registry.SelectProposer(height)
	if err != nil {
		return database.Block{}, fmt.Errorf("selecting proposer: %w", err)
	}

	if !selected {
		s.evHandler("state: Append: blk[%d]: WARNING: no eligible proposer", height)
		proposer = database.NoProposer
	}

	block := database.NewBlock(height, data, latest.Hash, proposer, s.clock())

	if err := s.db.Write(block); err != nil {
		return database.Block{}, fmt.Errorf("writing block: %w", err)
	}

	if selected {
		if err := s.registry.RecordProposal(proposer, height); err != nil {
			return database.Block{}, fmt.Errorf("recording proposal: %w", err)
		}
	}

	s.evHandler("viewer: block: blk[%d]: hash[%s]: proposer[%s]", height, block.Hash, block.Proposer)

	return block, nil
}

// Validate walks the entire chain and confirms every block links to its
// parent.
func (s *State) Validate() error {
	return s.db.Validate()
}
