package pos_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// fixedRand always draws the same value, wrapped into the requested range.
type fixedRand uint64

func (fr fixedRand) Uint64n(n uint64) (uint64, error) {
	return uint64(fr) % n, nil
}

// brokenRand simulates a failing random source.
type brokenRand struct{}

func (brokenRand) Uint64n(n uint64) (uint64, error) {
	return 0, errors.New("entropy exhausted")
}

func newRegistry(t *testing.T, threshold uint64, penalty uint64, rnd pos.Rand) *pos.Registry {
	reg, err := pos.New(pos.Config{
		FinalityThreshold: threshold,
		PenaltyPercentage: penalty,
		Rand:              rnd,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a registry: %s", failed, err)
	}

	return reg
}

func sumStake(reg *pos.Registry) uint64 {
	var sum uint64
	for _, v := range reg.Copy() {
		sum += v.Stake
	}
	return sum
}

// =============================================================================

func TestConfig(t *testing.T) {
	type table struct {
		name      string
		threshold uint64
		penalty   uint64
		valid     bool
	}

	tt := []table{
		{name: "valid", threshold: 1, penalty: 10, valid: true},
		{name: "full penalty", threshold: 3, penalty: 100, valid: true},
		{name: "zero threshold", threshold: 0, penalty: 10, valid: false},
		{name: "penalty too big", threshold: 1, penalty: 101, valid: false},
	}

	t.Log("Given the need to validate the registry configuration.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				_, err := pos.New(pos.Config{FinalityThreshold: tst.threshold, PenaltyPercentage: tst.penalty})
				if (err == nil) != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould get valid=%v, got err=%v.", failed, testID, tst.valid, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get valid=%v.", success, testID, tst.valid)
			}

			t.Run(tst.name, f)
		}
	}
}

func TestStakeBookkeeping(t *testing.T) {
	type op struct {
		kind    string
		address string
		stake   uint64
		err     error
	}

	type table struct {
		name  string
		ops   []op
		total uint64
	}

	tt := []table{
		{
			name: "add and update",
			ops: []op{
				{kind: "add", address: "A", stake: 70},
				{kind: "add", address: "B", stake: 30},
				{kind: "update", address: "A", stake: 10},
			},
			total: 40,
		},
		{
			name: "re-add overwrites",
			ops: []op{
				{kind: "add", address: "A", stake: 70},
				{kind: "add", address: "A", stake: 20},
				{kind: "add", address: "B", stake: 5},
			},
			total: 25,
		},
		{
			name: "remove and penalize",
			ops: []op{
				{kind: "add", address: "A", stake: 70},
				{kind: "add", address: "B", stake: 30},
				{kind: "add", address: "C", stake: 55},
				{kind: "penalize", address: "C"},
				{kind: "remove", address: "B"},
			},
			total: 120,
		},
		{
			name: "unknown addresses",
			ops: []op{
				{kind: "add", address: "A", stake: 70},
				{kind: "update", address: "X", stake: 100, err: pos.ErrNotFound},
				{kind: "remove", address: "X", err: pos.ErrNotFound},
				{kind: "penalize", address: "X", err: pos.ErrNotFound},
				{kind: "reactivate", address: "X", err: pos.ErrNotFound},
				{kind: "record", address: "X", stake: 4, err: pos.ErrNotFound},
			},
			total: 70,
		},
		{
			name: "stake overflow",
			ops: []op{
				{kind: "add", address: "A", stake: math.MaxUint64 - 10},
				{kind: "add", address: "B", stake: 11, err: pos.ErrStakeOverflow},
				{kind: "add", address: "B", stake: 10},
				{kind: "update", address: "B", stake: 11, err: pos.ErrStakeOverflow},
				{kind: "add", address: "A", stake: math.MaxUint64 - 10},
				{kind: "update", address: "A", stake: math.MaxUint64 - 10},
			},
			total: math.MaxUint64,
		},
	}

	t.Log("Given the need to keep total stake equal to the sum of all stake.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					reg := newRegistry(t, 1, 10, fixedRand(0))

					for i, o := range tst.ops {
						var err error
						switch o.kind {
						case "add":
							err = reg.Add(o.address, o.stake)
						case "update":
							err = reg.UpdateStake(o.address, o.stake)
						case "remove":
							err = reg.Remove(o.address)
						case "penalize":
							_, err = reg.Penalize(o.address)
						case "reactivate":
							err = reg.Reactivate(o.address)
						case "record":
							err = reg.RecordProposal(o.address, o.stake)
						}

						if !errors.Is(err, o.err) {
							t.Fatalf("\t%s\tTest %d:\tOp %d %s: Should get error %v, got %v.", failed, testID, i, o.kind, o.err, err)
						}

						if reg.TotalStake() != sumStake(reg) {
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, reg.TotalStake())
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, sumStake(reg))
							t.Fatalf("\t%s\tTest %d:\tOp %d %s: Should keep the total equal to the sum.", failed, testID, i, o.kind)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep the total equal to the sum after every operation.", success, testID)

					if reg.TotalStake() != tst.total {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, reg.TotalStake())
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.total)
						t.Fatalf("\t%s\tTest %d:\tShould have the right total stake.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have the right total stake.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestRemoveUnknown(t *testing.T) {
	reg := newRegistry(t, 1, 10, fixedRand(0))
	if err := reg.Add("A", 50); err != nil {
		t.Fatalf("\t%s\tShould be able to add a validator: %s", failed, err)
	}

	err := reg.Remove("nobody")
	if !errors.Is(err, pos.ErrNotFound) {
		t.Fatalf("\t%s\tShould get a not found error, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould get a not found error.", success)

	if reg.TotalStake() != 50 || reg.Len() != 1 {
		t.Fatalf("\t%s\tShould leave the registry untouched: total[%d] len[%d].", failed, reg.TotalStake(), reg.Len())
	}
	t.Logf("\t%s\tShould leave the registry untouched.", success)
}

func TestPenalizeAndReactivate(t *testing.T) {
	type table struct {
		name    string
		stake   uint64
		penalty uint64
		slashed uint64
	}

	tt := []table{
		{name: "even", stake: 70, penalty: 10, slashed: 7},
		{name: "truncates", stake: 33, penalty: 10, slashed: 3},
		{name: "small stake", stake: 9, penalty: 10, slashed: 0},
		{name: "everything", stake: 500, penalty: 100, slashed: 500},
	}

	t.Log("Given the need to slash and reactivate validators.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				reg := newRegistry(t, 1, tst.penalty, fixedRand(0))
				if err := reg.Add("A", tst.stake); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to add a validator: %s", failed, testID, err)
				}

				slashed, err := reg.Penalize("A")
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to penalize: %s", failed, testID, err)
				}

				if slashed != tst.slashed {
					t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, slashed)
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.slashed)
					t.Fatalf("\t%s\tTest %d:\tShould slash the right amount.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould slash the right amount.", success, testID)

				v, err := reg.Get("A")
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to get the validator: %s", failed, testID, err)
				}

				if v.Active || v.Stake != tst.stake-tst.slashed || reg.TotalStake() != tst.stake-tst.slashed {
					t.Fatalf("\t%s\tTest %d:\tShould be inactive with reduced stake: %+v total[%d].", failed, testID, v, reg.TotalStake())
				}
				t.Logf("\t%s\tTest %d:\tShould be inactive with reduced stake.", success, testID)

				if err := reg.Reactivate("A"); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to reactivate: %s", failed, testID, err)
				}

				v, _ = reg.Get("A")
				if !v.Active || v.Stake != tst.stake-tst.slashed {
					t.Fatalf("\t%s\tTest %d:\tShould be active with the same stake: %+v.", failed, testID, v)
				}
				t.Logf("\t%s\tTest %d:\tShould be active with the same stake.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func TestSelectProposer(t *testing.T) {
	t.Log("Given the need to select proposers weighted by stake.")
	{
		t.Logf("\tTest 0:\tWhen both validators are eligible.")
		{
			for draw := uint64(0); draw < 100; draw++ {
				reg := newRegistry(t, 1, 10, fixedRand(draw))
				reg.Add("A", 70)
				reg.Add("B", 30)

				addr, ok, err := reg.SelectProposer(10)
				if err != nil || !ok {
					t.Fatalf("\t%s\tTest 0:\tdraw[%d]: Should select a proposer: ok[%v] err[%v]", failed, draw, ok, err)
				}

				exp := "A"
				if draw >= 70 {
					exp = "B"
				}
				if addr != exp {
					t.Fatalf("\t%s\tTest 0:\tdraw[%d]: Should select %s, got %s.", failed, draw, exp, addr)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould select by cumulative stake in address order.", success)
		}

		t.Logf("\tTest 1:\tWhen A proposed at the current height.")
		{
			for draw := uint64(0); draw < 100; draw++ {
				reg := newRegistry(t, 1, 10, fixedRand(draw))
				reg.Add("A", 70)
				reg.Add("B", 30)
				reg.RecordProposal("A", 5)

				addr, ok, err := reg.SelectProposer(5)
				if err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould not fail: %s", failed, err)
				}

				if addr == "A" {
					t.Fatalf("\t%s\tTest 1:\tdraw[%d]: Should never select A.", failed, draw)
				}

				// B only accumulates 30 of the 100 stake drawn against.
				if ok != (draw < 30) || (ok && addr != "B") {
					t.Fatalf("\t%s\tTest 1:\tdraw[%d]: Should select B only below 30: addr[%s] ok[%v].", failed, draw, addr, ok)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould only ever select B or nobody.", success)
		}

		t.Logf("\tTest 2:\tWhen a validator is inactive.")
		{
			for draw := uint64(0); draw < 100; draw++ {
				reg := newRegistry(t, 1, 0, fixedRand(draw))
				reg.Add("A", 70)
				reg.Add("B", 30)
				reg.Penalize("B")

				addr, ok, _ := reg.SelectProposer(10)
				if addr == "B" {
					t.Fatalf("\t%s\tTest 2:\tdraw[%d]: Should never select an inactive validator.", failed, draw)
				}
				if ok != (draw < 70) {
					t.Fatalf("\t%s\tTest 2:\tdraw[%d]: Should select A only below 70.", failed, draw)
				}
			}
			t.Logf("\t%s\tTest 2:\tShould never select an inactive validator.", success)
		}

		t.Logf("\tTest 3:\tWhen the threshold has not passed since the last proposal.")
		{
			reg := newRegistry(t, 3, 10, fixedRand(0))
			reg.Add("A", 10)
			reg.RecordProposal("A", 4)

			for height := uint64(0); height < 12; height++ {
				addr, ok, _ := reg.SelectProposer(height)
				eligible := height >= 4 && height-4 >= 3
				if ok != eligible {
					t.Fatalf("\t%s\tTest 3:\theight[%d]: Should select=%v, got addr[%s].", failed, height, eligible, addr)
				}
			}
			t.Logf("\t%s\tTest 3:\tShould respect the finality threshold.", success)
		}
	}
}

func TestSelectNone(t *testing.T) {
	type table struct {
		name       string
		validators map[string]uint64
	}

	tt := []table{
		{name: "empty", validators: map[string]uint64{}},
		{name: "zero stake", validators: map[string]uint64{"A": 0, "B": 0}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			reg := newRegistry(t, 1, 10, brokenRand{})
			for addr, stake := range tst.validators {
				reg.Add(addr, stake)
			}

			for _, height := range []uint64{0, 1, 100} {
				addr, ok, err := reg.SelectProposer(height)
				if err != nil || ok || addr != "" {
					t.Fatalf("\t%s\tTest %s:\tShould report no proposer: addr[%s] ok[%v] err[%v].", failed, tst.name, addr, ok, err)
				}
			}
			t.Logf("\t%s\tTest %s:\tShould report no proposer without drawing.", success, tst.name)
		}

		t.Run(tst.name, f)
	}
}

func TestSelectRandFailure(t *testing.T) {
	reg := newRegistry(t, 1, 10, brokenRand{})
	reg.Add("A", 10)

	if _, _, err := reg.SelectProposer(1); err == nil {
		t.Fatalf("\t%s\tShould return the random source failure.", failed)
	}
	t.Logf("\t%s\tShould return the random source failure.", success)
}

func TestIsFinalized(t *testing.T) {
	reg := newRegistry(t, 2, 10, fixedRand(0))

	type table struct {
		height  uint64
		current uint64
		final   bool
	}

	tt := []table{
		{height: 0, current: 0, final: false},
		{height: 0, current: 1, final: false},
		{height: 0, current: 2, final: true},
		{height: 3, current: 4, final: false},
		{height: 3, current: 9, final: true},
		{height: 7, current: 5, final: false},
	}

	for _, tst := range tt {
		name := fmt.Sprintf("%d-of-%d", tst.height, tst.current)
		f := func(t *testing.T) {
			if got := reg.IsFinalized(tst.height, tst.current); got != tst.final {
				t.Fatalf("\t%s\tTest %s:\tShould get finalized=%v.", failed, name, tst.final)
			}
			t.Logf("\t%s\tTest %s:\tShould get finalized=%v.", success, name, tst.final)
		}

		t.Run(name, f)
	}
}

func TestCryptoRand(t *testing.T) {
	var rnd pos.CryptoRand

	for _, n := range []uint64{1, 2, 7, 100, 1 << 40} {
		for i := 0; i < 50; i++ {
			v, err := rnd.Uint64n(n)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to draw a value: %s", failed, err)
			}
			if v >= n {
				t.Fatalf("\t%s\tShould draw below %d, got %d.", failed, n, v)
			}
		}
	}
	t.Logf("\t%s\tShould draw values inside the range.", success)

	if _, err := rnd.Uint64n(0); err == nil {
		t.Fatalf("\t%s\tShould reject an empty range.", failed)
	}
	t.Logf("\t%s\tShould reject an empty range.", success)
}
