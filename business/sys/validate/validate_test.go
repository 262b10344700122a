package validate_test

import (
	"testing"

	"github.com/ardanlabs/stakechain/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type newValidator struct {
	Address string `json:"address" validate:"required"`
	Stake   uint64 `json:"stake" validate:"gte=1"`
}

func Test_Check(t *testing.T) {
	if err := validate.Check(newValidator{Address: "A", Stake: 10}); err != nil {
		t.Fatalf("\t%s\tShould accept a valid value: %s", failed, err)
	}
	t.Logf("\t%s\tShould accept a valid value.", success)

	err := validate.Check(newValidator{})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("\t%s\tShould get field errors, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould get field errors.", success)

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["address"]; !exists {
		t.Fatalf("\t%s\tShould use the json name for the field: %v", failed, fields)
	}
	if _, exists := fields["stake"]; !exists {
		t.Fatalf("\t%s\tShould report the stake field: %v", failed, fields)
	}
	t.Logf("\t%s\tShould report every field by its json name.", success)
}
