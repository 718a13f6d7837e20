// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestDigestRoundTrip(t *testing.T) {
	require := require.New(t)

	raw := bytes.Repeat([]byte{0x11}, DigestLen)
	digest, err := DigestFromBytes(raw)
	require.NoError(err)

	parsed, err := ParseDigest(digest.String())
	require.NoError(err)
	require.Equal(digest, parsed)
}

func TestDigestTextIsBase58(t *testing.T) {
	require := require.New(t)

	raw := bytes.Repeat([]byte{0xab}, DigestLen)
	digest, err := DigestFromBytes(raw)
	require.NoError(err)
	require.Equal(base58.Encode(raw), digest.String())
}

func TestParseDigestInvalid(t *testing.T) {
	require := require.New(t)

	// 0, O, I and l are not base58 characters.
	_, err := ParseDigest("0OIl")
	require.ErrorIs(err, ErrInvalidDigest)

	// Wrong decoded size.
	_, err = ParseDigest(base58.Encode([]byte{1, 2, 3}))
	require.ErrorIs(err, ErrInvalidDigest)
}

func TestDigestFromBytesWrongSize(t *testing.T) {
	require := require.New(t)
	_, err := DigestFromBytes(make([]byte, 16))
	require.ErrorIs(err, ErrInvalidDigest)
}
