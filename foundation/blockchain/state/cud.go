package state

import (
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
)

// RegisterValidator adds a validator with the specified stake. Registering
// an existing validator replaces its record.
func (s *State) RegisterValidator(address string, stake uint64) (pos.Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Add(address, stake); err != nil {
		return pos.Validator{}, err
	}

	s.evHandler("viewer: validator: registered[%s]: stake[%d]", address, stake)

	return s.registry.Get(address)
}

// UpdateStake replaces the stake held by the specified validator.
func (s *State) UpdateStake(address string, stake uint64) (pos.Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.UpdateStake(address, stake); err != nil {
		return pos.Validator{}, err
	}

	s.evHandler("viewer: validator: updated[%s]: stake[%d]", address, stake)

	return s.registry.Get(address)
}

// RemoveValidator deletes the specified validator and its stake.
func (s *State) RemoveValidator(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Remove(address); err != nil {
		return err
	}

	s.evHandler("viewer: validator: removed[%s]", address)

	return nil
}

// PenalizeValidator slashes the stake of the specified validator and
// deactivates it.
func (s *State) PenalizeValidator(address string) (pos.Validator, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slashed, err := s.registry.Penalize(address)
	if err != nil {
		return pos.Validator{}, 0, err
	}

	s.evHandler("viewer: validator: penalized[%s]: slashed[%d]", address, slashed)

	v, err := s.registry.Get(address)
	if err != nil {
		return pos.Validator{}, 0, err
	}

	return v, slashed, nil
}

// ReactivateValidator makes the specified validator active again.
func (s *State) ReactivateValidator(address string) (pos.Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Reactivate(address); err != nil {
		return pos.Validator{}, err
	}

	s.evHandler("viewer: validator: reactivated[%s]", address)

	return s.registry.Get(address)
}
