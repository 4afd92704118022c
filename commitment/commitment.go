/*
SPDX-License-Identifier: Apache-2.0
*/

// Package commitment seals bid amounts behind a secret so that a bid can be
// committed during the bidding window and opened during the reveal window.
//
// A commitment is the Keccak-256 digest of the 32 byte big endian encoding of
// the amount followed by the UTF-8 bytes of the secret. This is the packed
// (uint256, string) encoding used by web3 tooling, so a bidder may compute the
// seal with any Ethereum library as well as with Seal.
package commitment

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Size is the length of a commitment in bytes.
const Size = 32

// Commitment is a sealed bid.
type Commitment [Size]byte

// Seal computes the commitment over amount and secret.
func Seal(amount uint64, secret string) Commitment {
	// amount as uint256: 24 zero bytes of padding, then the uint64
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], amount)

	keccak := sha3.NewLegacyKeccak256()
	keccak.Write(word[:])
	keccak.Write([]byte(secret))

	var c Commitment
	keccak.Sum(c[:0])
	return c
}

// Verify reports whether c is the seal of amount and secret.
func Verify(amount uint64, secret string, c Commitment) bool {
	sealed := Seal(amount, secret)
	return subtle.ConstantTimeCompare(sealed[:], c[:]) == 1
}

// Parse decodes a hex encoded commitment. The 0x prefix is optional.
func Parse(s string) (Commitment, error) {
	var c Commitment
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return c, fmt.Errorf("could not decode commitment: %v", err)
	}
	if len(raw) != Size {
		return c, fmt.Errorf("commitment is %d bytes long, expected %d", len(raw), Size)
	}
	copy(c[:], raw)
	return c, nil
}

// String returns the 0x prefixed hex encoding.
func (c Commitment) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// IsZero reports whether c is the all zero value.
func (c Commitment) IsZero() bool {
	return c == Commitment{}
}
