// Package signature provides helper functions for handling the blockchain
// hashing and validator key needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to JSON
// before hashing so every field is delimited and named, which keeps two
// different values from producing the same input bytes.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// PublicKeyToAddress converts the public key into the validator address
// used on the chain.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(pk).String()
}

// IsAddress reports whether the string is a hex encoded 20 byte address.
func IsAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ToAddress normalizes a hex address into its checksum form. Values that
// are not hex addresses are returned unchanged.
func ToAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}
	return common.HexToAddress(address).String()
}
