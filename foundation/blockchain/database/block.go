package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
)

// ErrChainIntegrity is returned when a block does not link correctly to
// its parent. The chain can't be trusted once this happens.
var ErrChainIntegrity = errors.New("blockchain integrity violated")

// NoProposer is recorded as the proposer of blocks for which no validator
// was eligible, including the genesis block.
const NoProposer = "0x0000000000000000000000000000000000000000"

// =============================================================================

// BlockHeader represents the information that is committed to by the
// block hash.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Height of the block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Unix seconds when the block was created.
	Data          string `json:"data"`            // Transaction payload carried by the block.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
}

// Block represents a single entry in the ledger.
type Block struct {
	Header   BlockHeader
	Hash     string
	Proposer string
}

// NewBlock constructs a block linked to the specified previous hash and
// computes its hash. The timestamp comes from now, so two blocks with the
// same inputs created at different times will not share a hash.
func NewBlock(number uint64, data string, prevBlockHash string, proposer string, now time.Time) Block {
	if proposer == "" {
		proposer = NoProposer
	}

	b := Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     uint64(now.UTC().Unix()),
			Data:          data,
			PrevBlockHash: prevBlockHash,
		},
		Proposer: proposer,
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewGenesisBlock constructs the first block of the chain.
func NewGenesisBlock(data string, now time.Time) Block {
	return NewBlock(0, data, signature.ZeroHash, NoProposer, now)
}

// hashHeader is the form of the header that is hashed. Data is carried as
// bytes so the payload is committed to exactly, even when it is not valid
// UTF-8.
type hashHeader struct {
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	Data          []byte `json:"data"`
	PrevBlockHash string `json:"prev_block_hash"`
}

// ComputeHash returns the hash of the block header. The proposer is not
// part of the hash.
func (b Block) ComputeHash() string {
	hh := hashHeader{
		Number:        b.Header.Number,
		TimeStamp:     b.Header.TimeStamp,
		Data:          []byte(b.Header.Data),
		PrevBlockHash: b.Header.PrevBlockHash,
	}

	return signature.Hash(hh)
}

// HasProposer reports whether a validator was credited with the block.
func (b Block) HasProposer() bool {
	return b.Proposer != NoProposer
}

// ValidateBlock takes a block and validates it as the next block after
// the specified previous block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := previousBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("%w: this block is not the next number, got %d, exp %d", ErrChainIntegrity, b.Header.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("%w: parent block hash doesn't match our known parent, got %s, exp %s", ErrChainIntegrity, b.Header.PrevBlockHash, previousBlock.Hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash matches block contents", b.Header.Number)

	if hash := b.ComputeHash(); b.Hash != hash {
		return fmt.Errorf("%w: block hash doesn't match contents, got %s, exp %s", ErrChainIntegrity, b.Hash, hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block's timestamp is not before parent block's timestamp", b.Header.Number)

	if b.Header.TimeStamp < previousBlock.Header.TimeStamp {
		parentTime := time.Unix(int64(previousBlock.Header.TimeStamp), 0)
		blockTime := time.Unix(int64(b.Header.TimeStamp), 0)
		return fmt.Errorf("%w: block timestamp is before parent block, parent %s, block %s", ErrChainIntegrity, parentTime, blockTime)
	}

	return nil
}

// ValidateGenesis checks the block is a well formed genesis block.
func (b Block) ValidateGenesis() error {
	if b.Header.Number != 0 {
		return fmt.Errorf("%w: genesis block number is %d", ErrChainIntegrity, b.Header.Number)
	}

	if b.Header.PrevBlockHash != signature.ZeroHash {
		return fmt.Errorf("%w: genesis parent hash is %s", ErrChainIntegrity, b.Header.PrevBlockHash)
	}

	if hash := b.ComputeHash(); b.Hash != hash {
		return fmt.Errorf("%w: genesis hash doesn't match contents, got %s, exp %s", ErrChainIntegrity, b.Hash, hash)
	}

	return nil
}
