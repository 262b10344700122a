package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/stakechain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Lookup(t *testing.T) {
	const address = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

	pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a private key: %s", failed, err)
	}

	root := t.TempDir()
	if err := crypto.SaveECDSA(filepath.Join(root, "kennedy"+nameservice.KeyExtension), pk); err != nil {
		t.Fatalf("\t%s\tShould be able to save the key: %s", failed, err)
	}

	ns, err := nameservice.New(root)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the name service: %s", failed, err)
	}
	t.Logf("\t%s\tShould be able to load the name service.", success)

	if name := ns.Lookup(address); name != "kennedy" {
		t.Fatalf("\t%s\tShould find the name for the address, got %s.", failed, name)
	}
	t.Logf("\t%s\tShould find the name for the address.", success)

	if name := ns.Lookup("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"); name != "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32" {
		t.Fatalf("\t%s\tShould return the address when there is no name, got %s.", failed, name)
	}
	t.Logf("\t%s\tShould return the address when there is no name.", success)

	if len(ns.Copy()) != 1 {
		t.Fatalf("\t%s\tShould have a single entry.", failed)
	}
	t.Logf("\t%s\tShould have a single entry.", success)
}
