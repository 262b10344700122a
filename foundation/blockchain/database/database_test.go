package database_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var start = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func ev(v string, args ...any) {}

// =============================================================================

func TestBlockHash(t *testing.T) {
	t.Log("Given the need to hash blocks from their contents and creation time.")
	{
		b1 := database.NewBlock(1, "Alice -> Bob, 5 ETH", signature.ZeroHash, "A", start)
		b2 := database.NewBlock(1, "Alice -> Bob, 5 ETH", signature.ZeroHash, "A", start)
		if b1.Hash != b2.Hash {
			t.Fatalf("\t%s\tShould get the same hash with a fixed timestamp: %s != %s", failed, b1.Hash, b2.Hash)
		}
		t.Logf("\t%s\tShould get the same hash with a fixed timestamp.", success)

		b3 := database.NewBlock(1, "Alice -> Bob, 5 ETH", signature.ZeroHash, "A", start.Add(time.Second))
		if b1.Hash == b3.Hash {
			t.Fatalf("\t%s\tShould get a different hash at a different timestamp.", failed)
		}
		t.Logf("\t%s\tShould get a different hash at a different timestamp.", success)

		b4 := database.NewBlock(1, "Alice -> Bob, 5 ETH", signature.ZeroHash, "B", start)
		if b1.Hash != b4.Hash {
			t.Fatalf("\t%s\tShould not include the proposer in the hash.", failed)
		}
		t.Logf("\t%s\tShould not include the proposer in the hash.", success)

		b5 := database.NewBlock(11, " Alice -> Bob, 5 ETH", signature.ZeroHash, "A", start)
		b6 := database.NewBlock(1, "1 Alice -> Bob, 5 ETH", signature.ZeroHash, "A", start)
		if b5.Hash == b6.Hash {
			t.Fatalf("\t%s\tShould not collide when fields are split differently.", failed)
		}
		t.Logf("\t%s\tShould not collide when fields are split differently.", success)

		b7 := database.NewBlock(1, "data", signature.ZeroHash, "", start)
		if b7.HasProposer() || b7.Proposer != database.NoProposer {
			t.Fatalf("\t%s\tShould record the sentinel proposer when none is given.", failed)
		}
		t.Logf("\t%s\tShould record the sentinel proposer when none is given.", success)
	}
}

func TestBlockHashBinaryData(t *testing.T) {
	t.Log("Given the need to commit to payloads that are not valid UTF-8.")
	{
		b1 := database.NewBlock(1, "pay\xff", signature.ZeroHash, "A", start)
		b2 := database.NewBlock(1, "pay\xfe", signature.ZeroHash, "A", start)
		if b1.Hash == b2.Hash {
			t.Fatalf("\t%s\tShould get different hashes for different bytes: %s", failed, b1.Hash)
		}
		t.Logf("\t%s\tShould get different hashes for different bytes.", success)

		genesis := database.NewGenesisBlock("Genesis Block", start)
		db, err := database.New(genesis, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the database: %s", failed, err)
		}

		tampered := database.NewBlock(1, "pay\xff", genesis.Hash, "A", start)
		tampered.Header.Data = "pay\xfe"

		if err := db.Write(tampered); !errors.Is(err, database.ErrChainIntegrity) {
			t.Fatalf("\t%s\tShould reject a block whose bytes changed after hashing, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a block whose bytes changed after hashing.", success)

		if db.Height() != 0 {
			t.Fatalf("\t%s\tShould leave the chain untouched, height %d.", failed, db.Height())
		}
		t.Logf("\t%s\tShould leave the chain untouched.", success)
	}
}

func TestValidateBlock(t *testing.T) {
	genesis := database.NewGenesisBlock("Genesis Block", start)
	good := database.NewBlock(1, "tx", genesis.Hash, "A", start.Add(time.Second))

	tampered := good
	tampered.Header.Data = "tx changed"

	badParent := database.NewBlock(1, "tx", signature.ZeroHash, "A", start.Add(time.Second))
	badNumber := database.NewBlock(2, "tx", genesis.Hash, "A", start.Add(time.Second))
	badTime := database.NewBlock(1, "tx", genesis.Hash, "A", start.Add(-time.Second))
	sameTime := database.NewBlock(1, "tx", genesis.Hash, "A", start)

	type table struct {
		name  string
		block database.Block
		valid bool
	}

	tt := []table{
		{name: "good", block: good, valid: true},
		{name: "same time", block: sameTime, valid: true},
		{name: "tampered", block: tampered, valid: false},
		{name: "bad parent", block: badParent, valid: false},
		{name: "bad number", block: badNumber, valid: false},
		{name: "bad time", block: badTime, valid: false},
	}

	t.Log("Given the need to validate a block against its parent.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := tst.block.ValidateBlock(genesis, ev)
				if tst.valid {
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould accept the block: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould accept the block.", success, testID)
					return
				}

				if !errors.Is(err, database.ErrChainIntegrity) {
					t.Fatalf("\t%s\tTest %d:\tShould reject the block with an integrity error, got %v.", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the block with an integrity error.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func TestDatabase(t *testing.T) {
	genesis := database.NewGenesisBlock("Genesis Block", start)

	db, err := database.New(genesis, nil)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database: %s", failed, err)
	}
	t.Logf("\t%s\tShould be able to construct the database.", success)

	prev := genesis
	for i := uint64(1); i <= 5; i++ {
		block := database.NewBlock(i, "tx", prev.Hash, database.NoProposer, start.Add(time.Duration(i)*time.Second))
		if err := db.Write(block); err != nil {
			t.Fatalf("\t%s\tShould be able to write block %d: %s", failed, i, err)
		}
		prev = block
	}
	t.Logf("\t%s\tShould be able to write blocks.", success)

	if db.Height() != 5 || db.LatestBlock().Hash != prev.Hash {
		t.Fatalf("\t%s\tShould have the last block at the tip: height[%d].", failed, db.Height())
	}
	t.Logf("\t%s\tShould have the last block at the tip.", success)

	out := database.NewBlock(9, "tx", prev.Hash, database.NoProposer, start.Add(time.Hour))
	if err := db.Write(out); !errors.Is(err, database.ErrChainIntegrity) {
		t.Fatalf("\t%s\tShould reject a block out of order, got %v.", failed, err)
	}
	if db.Height() != 5 {
		t.Fatalf("\t%s\tShould not append a rejected block.", failed)
	}
	t.Logf("\t%s\tShould reject a block out of order.", success)

	if _, err := db.GetBlock(6); !errors.Is(err, database.ErrBlockNotFound) {
		t.Fatalf("\t%s\tShould not find a block past the tip, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould not find a block past the tip.", success)

	blocks := db.Copy()
	if blocks[0].Header.Number != 0 {
		t.Fatalf("\t%s\tShould start with the genesis block.", failed)
	}
	for n := 1; n < len(blocks); n++ {
		if blocks[n].Header.PrevBlockHash != blocks[n-1].Hash || blocks[n].Header.Number != uint64(n) {
			t.Fatalf("\t%s\tShould link block %d to its parent.", failed, n)
		}
	}
	t.Logf("\t%s\tShould link every block to its parent.", success)

	if err := db.Validate(); err != nil {
		t.Fatalf("\t%s\tShould validate the whole chain: %s", failed, err)
	}
	t.Logf("\t%s\tShould validate the whole chain.", success)

	var count int
	iter := db.ForEach()
	for _, err := iter.Next(); !iter.Done(); _, err = iter.Next() {
		if err != nil {
			t.Fatalf("\t%s\tShould iterate without error: %s", failed, err)
		}
		count++
	}
	if count != 6 {
		t.Fatalf("\t%s\tShould iterate over every block, got %d.", failed, count)
	}
	t.Logf("\t%s\tShould iterate over every block.", success)
}

func TestBadGenesis(t *testing.T) {
	genesis := database.NewBlock(0, "Genesis Block", "0x01", database.NoProposer, start)

	if _, err := database.New(genesis, nil); !errors.Is(err, database.ErrChainIntegrity) {
		t.Fatalf("\t%s\tShould reject a genesis block with a parent, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould reject a genesis block with a parent.", success)
}
