// Package pos maintains the set of validators for the chain and implements
// the stake weighted proposer selection, penalty and finality rules.
package pos

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ErrNotFound is returned when an operation references an address that is
// not registered as a validator.
var ErrNotFound = errors.New("validator not found")

// ErrStakeOverflow is returned when a stake change would push the total
// stake past the largest value it can hold.
var ErrStakeOverflow = errors.New("total stake overflow")

// EventHandler defines a function that is called when events
// occur in the processing of validators.
type EventHandler func(v string, args ...any)

// =============================================================================

// Validator represents an account that can propose blocks.
type Validator struct {
	Address            string `json:"address"`
	Stake              uint64 `json:"stake"`
	Active             bool   `json:"active"`
	LastProposedHeight uint64 `json:"last_proposed_height"` // Zero when it has never proposed.
}

// Config represents the settings the registry is constructed with.
type Config struct {
	FinalityThreshold uint64
	PenaltyPercentage uint64
	Rand              Rand
	EvHandler         EventHandler
}

// Registry manages the set of validators and the total stake they hold.
type Registry struct {
	mu                sync.RWMutex
	validators        map[string]Validator
	totalStake        uint64
	finalityThreshold uint64
	penaltyPercentage uint64
	rand              Rand
	evHandler         EventHandler
}

// New constructs a registry with no validators.
func New(cfg Config) (*Registry, error) {
	if cfg.FinalityThreshold == 0 {
		return nil, errors.New("finality threshold must be at least 1")
	}

	if cfg.PenaltyPercentage > 100 {
		return nil, fmt.Errorf("penalty percentage must be between 0 and 100, got %d", cfg.PenaltyPercentage)
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = CryptoRand{}
	}

	reg := Registry{
		validators:        make(map[string]Validator),
		finalityThreshold: cfg.FinalityThreshold,
		penaltyPercentage: cfg.PenaltyPercentage,
		rand:              rnd,
		evHandler:         ev,
	}

	return &reg, nil
}

// FinalityThreshold returns the number of blocks that must pass before a
// validator can propose again and before a block is considered final.
func (r *Registry) FinalityThreshold() uint64 {
	return r.finalityThreshold
}

// PenaltyPercentage returns the percentage of stake slashed on a penalty.
func (r *Registry) PenaltyPercentage() uint64 {
	return r.penaltyPercentage
}

// TotalStake returns the sum of the stake held by all validators.
func (r *Registry) TotalStake() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.totalStake
}

// Len returns the number of registered validators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.validators)
}

// Get returns the validator for the specified address.
func (r *Registry) Get(address string) (Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.validators[address]
	if !exists {
		return Validator{}, fmt.Errorf("get %q: %w", address, ErrNotFound)
	}

	return v, nil
}

// Copy returns a copy of all the validators sorted by address.
func (r *Registry) Copy() []Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted()
}

// =============================================================================

// Add registers a validator as active with the specified stake. Adding an
// address that already exists replaces the record and the total stake is
// adjusted by the difference.
func (r *Registry) Add(address string, stake uint64) error {
	if address == "" {
		return errors.New("validator address is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var oldStake uint64
	if old, exists := r.validators[address]; exists {
		oldStake = old.Stake
	}

	total, err := r.adjustedTotal(oldStake, stake)
	if err != nil {
		return fmt.Errorf("add %q: %w", address, err)
	}

	r.validators[address] = Validator{
		Address: address,
		Stake:   stake,
		Active:  true,
	}
	r.totalStake = total

	r.evHandler("pos: Add: validator[%s]: stake[%d]: total[%d]", address, stake, r.totalStake)

	return nil
}

// UpdateStake replaces the stake held by the specified validator.
func (r *Registry) UpdateStake(address string, stake uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.validators[address]
	if !exists {
		return fmt.Errorf("update stake %q: %w", address, ErrNotFound)
	}

	total, err := r.adjustedTotal(v.Stake, stake)
	if err != nil {
		return fmt.Errorf("update stake %q: %w", address, err)
	}

	r.totalStake = total
	v.Stake = stake
	r.validators[address] = v

	r.evHandler("pos: UpdateStake: validator[%s]: stake[%d]: total[%d]", address, stake, r.totalStake)

	return nil
}

// Remove deletes the specified validator and its stake from the registry.
func (r *Registry) Remove(address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.validators[address]
	if !exists {
		return fmt.Errorf("remove %q: %w", address, ErrNotFound)
	}

	delete(r.validators, address)
	r.totalStake -= v.Stake

	r.evHandler("pos: Remove: validator[%s]: total[%d]", address, r.totalStake)

	return nil
}

// Penalize slashes the configured percentage of the validator's stake and
// deactivates it. The amount slashed is returned.
func (r *Registry) Penalize(address string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.validators[address]
	if !exists {
		return 0, fmt.Errorf("penalize %q: %w", address, ErrNotFound)
	}

	penalty := v.Stake * r.penaltyPercentage / 100

	v.Stake -= penalty
	v.Active = false
	r.validators[address] = v
	r.totalStake -= penalty

	r.evHandler("pos: Penalize: validator[%s]: slashed[%d]: stake[%d]: total[%d]", address, penalty, v.Stake, r.totalStake)

	return penalty, nil
}

// Reactivate marks the validator as active again. Stake is not restored.
func (r *Registry) Reactivate(address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.validators[address]
	if !exists {
		return fmt.Errorf("reactivate %q: %w", address, ErrNotFound)
	}

	v.Active = true
	r.validators[address] = v

	r.evHandler("pos: Reactivate: validator[%s]", address)

	return nil
}

// RecordProposal remembers the height of the last block the validator
// proposed.
func (r *Registry) RecordProposal(address string, height uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.validators[address]
	if !exists {
		return fmt.Errorf("record proposal %q: %w", address, ErrNotFound)
	}

	v.LastProposedHeight = height
	r.validators[address] = v

	return nil
}

// IsFinalized reports whether the block at the specified height has at
// least the finality threshold of blocks on top of it.
func (r *Registry) IsFinalized(height uint64, currentHeight uint64) bool {
	if height > currentHeight {
		return false
	}

	return currentHeight-height >= r.finalityThreshold
}

// =============================================================================

// adjustedTotal returns the total stake after replacing oldStake with
// newStake. The caller must hold a lock.
func (r *Registry) adjustedTotal(oldStake uint64, newStake uint64) (uint64, error) {
	rest := r.totalStake - oldStake
	if newStake > math.MaxUint64-rest {
		return 0, fmt.Errorf("%w: total[%d] stake[%d]", ErrStakeOverflow, rest, newStake)
	}

	return rest + newStake, nil
}

// sorted returns the validators ordered by address. The caller must
// hold a lock.
func (r *Registry) sorted() []Validator {
	vals := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		vals = append(vals, v)
	}

	sort.Sort(byAddress(vals))

	return vals
}

// byAddress provides sorting support by the validator address.
type byAddress []Validator

// Len returns the number of validators in the list.
func (ba byAddress) Len() int {
	return len(ba)
}

// Less sorts the list by address in ascending order so selection walks
// the validators in the same order on every call.
func (ba byAddress) Less(i, j int) bool {
	return ba[i].Address < ba[j].Address
}

// Swap moves validators in the order of the address value.
func (ba byAddress) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
