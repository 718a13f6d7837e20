// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ava-labs/movesdk/consts"
)

const AddressLen = consts.AddressLen

// Address is a 32-byte account or object identifier. The zero value is
// the empty address. Addresses are always held in canonical form: parsing
// lower-cases and left-zero-pads, so two spellings of the same address
// compare equal with == and serialize to identical bytes.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// ParseAddress parses a hex address, with or without the 0x prefix. Short
// forms are zero-padded on the left: "0x2", "0x02" and the full 64-nibble
// spelling all parse to the same Address.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(raw) == 0 || len(raw) > AddressLen*2 {
		return EmptyAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var a Address
	copy(a[AddressLen-len(decoded):], decoded)
	return a, nil
}

// MustAddress parses a hex address and panics on failure. For tests and
// package-level constants.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes converts a raw 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// String returns the canonical 0x-prefixed, fully-padded, lower-case form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the canonical hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address, normalizing short forms.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
