// Package database maintains the ordered set of blocks that make up the
// chain in memory and the rules for linking one block to the next.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBlockNotFound is returned when a block number is past the tip.
var ErrBlockNotFound = errors.New("block does not exist")

// Database manages the append only sequence of blocks. The first block is
// always the genesis block and the sequence is never empty.
type Database struct {
	mu        sync.RWMutex
	blocks    []Block
	evHandler func(v string, args ...any)
}

// New constructs a database starting with the specified genesis block.
func New(genesis Block, evHandler func(v string, args ...any)) (*Database, error) {
	if err := genesis.ValidateGenesis(); err != nil {
		return nil, err
	}

	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		blocks:    []Block{genesis},
		evHandler: ev,
	}

	return &db, nil
}

// Write validates the block against the latest block and appends it.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := db.blocks[len(db.blocks)-1]
	if err := block.ValidateBlock(latest, db.evHandler); err != nil {
		return err
	}

	db.blocks = append(db.blocks, block)

	return nil
}

// LatestBlock returns the block at the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1]
}

// Height returns the number of the block at the tip of the chain.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return uint64(len(db.blocks) - 1)
}

// GetBlock returns the block with the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return Block{}, fmt.Errorf("block %d: %w", num, ErrBlockNotFound)
	}

	return db.blocks[num], nil
}

// Copy returns a copy of all the blocks starting with genesis.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	copy(blocks, db.blocks)

	return blocks
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() *Iterator {
	return &Iterator{db: db}
}

// Validate walks the entire chain checking every block links to its parent.
func (db *Database) Validate() error {
	iter := db.ForEach()

	genesis, err := iter.Next()
	if err != nil {
		return err
	}

	if err := genesis.ValidateGenesis(); err != nil {
		return err
	}

	prev := genesis
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		if err := block.ValidateBlock(prev, db.evHandler); err != nil {
			return fmt.Errorf("block %d: %w", block.Header.Number, err)
		}

		prev = block
	}

	return nil
}

// =============================================================================

// Iterator walks through the blocks in the database in order.
type Iterator struct {
	db      *Database
	current uint64 // Current block number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (it *Iterator) Next() (Block, error) {
	if it.eoc {
		return Block{}, errors.New("end of chain")
	}

	block, err := it.db.GetBlock(it.current)
	if err != nil {
		it.eoc = true
		return Block{}, nil
	}

	it.current++

	return block, nil
}

// Done returns the end of chain value.
func (it *Iterator) Done() bool {
	return it.eoc
}
