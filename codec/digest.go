// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/ava-labs/movesdk/consts"
)

const DigestLen = consts.DigestLen

// Digest is the 32-byte hash pinning one version of a stored object. Its
// textual form is base58, matching how object digests circulate off-chain.
type Digest [DigestLen]byte

var EmptyDigest = Digest{}

// ParseDigest parses a base58-encoded digest.
func ParseDigest(s string) (Digest, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return EmptyDigest, fmt.Errorf("%w: %q", ErrInvalidDigest, s)
	}
	if len(decoded) != DigestLen {
		return EmptyDigest, fmt.Errorf("%w: %d bytes", ErrInvalidDigest, len(decoded))
	}
	var d Digest
	copy(d[:], decoded)
	return d, nil
}

// MustDigest parses a base58 digest and panics on failure. For tests.
func MustDigest(s string) Digest {
	d, err := ParseDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DigestFromBytes converts a raw 32-byte slice into a Digest.
func DigestFromBytes(b []byte) (Digest, error) {
	if len(b) != DigestLen {
		return EmptyDigest, fmt.Errorf("%w: %d bytes", ErrInvalidDigest, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// MarshalText returns the base58 representation of d.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a base58-encoded digest.
func (d *Digest) UnmarshalText(input []byte) error {
	parsed, err := ParseDigest(string(input))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
