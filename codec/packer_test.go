// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/consts"
)

func TestUvarintExactBytes(t *testing.T) {
	tests := map[uint64][]byte{
		0:     {0x00},
		1:     {0x01},
		127:   {0x7f},
		128:   {0x80, 0x01},
		300:   {0xac, 0x02},
		16383: {0xff, 0x7f},
		16384: {0x80, 0x80, 0x01},
	}
	for value, expected := range tests {
		p := NewWriter(0, consts.MaxInt)
		p.PackUvarint(value)
		require.NoError(t, p.Err())
		require.Equal(t, expected, p.Bytes(), "value %d", value)
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	require := require.New(t)
	for _, value := range []uint64{
		0, 1, 127, 128, 255, 300, 16383, 16384,
		1<<32 - 1, 1 << 32, consts.MaxUint64,
	} {
		w := NewWriter(0, consts.MaxInt)
		w.PackUvarint(value)
		require.NoError(w.Err())

		r := NewReader(w.Bytes(), consts.MaxInt)
		require.Equal(value, r.UnpackUvarint())
		require.NoError(r.Err())
		require.True(r.Empty())
	}
}

func TestUvarintRejectsNonMinimal(t *testing.T) {
	require := require.New(t)

	// 0x80 0x00 decodes to 0 but spends two bytes.
	r := NewReader([]byte{0x80, 0x00}, consts.MaxInt)
	r.UnpackUvarint()
	require.ErrorIs(r.Err(), ErrNonMinimalUvarint)
	require.ErrorIs(r.Err(), ErrDecoding)
}

func TestUvarintOverflow(t *testing.T) {
	require := require.New(t)

	// Ten continuation groups with a final group > 1 exceeds 64 bits.
	raw := bytes.Repeat([]byte{0xff}, 9)
	raw = append(raw, 0x02)
	r := NewReader(raw, consts.MaxInt)
	r.UnpackUvarint()
	require.ErrorIs(r.Err(), ErrUvarintOverflow)
}

func TestUvarintTruncated(t *testing.T) {
	require := require.New(t)
	r := NewReader([]byte{0x80}, consts.MaxInt)
	r.UnpackUvarint()
	require.ErrorIs(r.Err(), ErrInsufficientLength)
}

func TestFixedIntsLittleEndian(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, consts.MaxInt)
	p.PackUint16(0x0102)
	p.PackUint32(0x01020304)
	p.PackUint64(0x0102030405060708)
	require.NoError(p.Err())
	require.Equal([]byte{
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, p.Bytes())

	r := NewReader(p.Bytes(), consts.MaxInt)
	require.Equal(uint16(0x0102), r.UnpackUint16())
	require.Equal(uint32(0x01020304), r.UnpackUint32())
	require.Equal(uint64(0x0102030405060708), r.UnpackUint64())
	require.NoError(r.Err())
	require.True(r.Empty())
}

func TestUint128RoundTrip(t *testing.T) {
	require := require.New(t)

	w := NewWriter(0, consts.MaxInt)
	w.PackUint128(0x0102030405060708, 0x090a0b0c0d0e0f10)
	require.NoError(w.Err())
	require.Len(w.Bytes(), consts.Uint128Len)

	r := NewReader(w.Bytes(), consts.MaxInt)
	lo, hi := r.UnpackUint128()
	require.Equal(uint64(0x0102030405060708), lo)
	require.Equal(uint64(0x090a0b0c0d0e0f10), hi)
	require.NoError(r.Err())
}

func TestBool(t *testing.T) {
	require := require.New(t)

	w := NewWriter(0, consts.MaxInt)
	w.PackBool(true)
	w.PackBool(false)
	require.Equal([]byte{0x01, 0x00}, w.Bytes())

	r := NewReader(w.Bytes(), consts.MaxInt)
	require.True(r.UnpackBool())
	require.False(r.UnpackBool())
	require.NoError(r.Err())

	// A bool byte other than 0/1 has no canonical meaning.
	r = NewReader([]byte{0x02}, consts.MaxInt)
	r.UnpackBool()
	require.ErrorIs(r.Err(), ErrInvalidBool)
}

func TestStringRoundTrip(t *testing.T) {
	require := require.New(t)
	for _, s := range []string{"", "abc", "héllo", "日本語"} {
		w := NewWriter(0, consts.MaxInt)
		w.PackString(s)
		require.NoError(w.Err())

		r := NewReader(w.Bytes(), consts.MaxInt)
		require.Equal(s, r.UnpackString())
		require.NoError(r.Err())
		require.True(r.Empty())
	}
}

func TestStringInvalidUTF8(t *testing.T) {
	require := require.New(t)

	w := NewWriter(0, consts.MaxInt)
	w.PackString(string([]byte{0xff, 0xfe}))
	require.ErrorIs(w.Err(), ErrInvalidUTF8Encode)
	require.ErrorIs(w.Err(), ErrEncoding)

	// Valid length prefix, invalid payload.
	w = NewWriter(0, consts.MaxInt)
	w.PackBytes([]byte{0xff})
	require.NoError(w.Err())
	r := NewReader(w.Bytes(), consts.MaxInt)
	r.UnpackString()
	require.ErrorIs(r.Err(), ErrInvalidUTF8Decode)
	require.ErrorIs(r.Err(), ErrDecoding)
}

func TestBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	w := NewWriter(0, consts.MaxInt)
	w.PackBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal([]byte{0x04, 0xde, 0xad, 0xbe, 0xef}, w.Bytes())

	r := NewReader(w.Bytes(), consts.MaxInt)
	require.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, r.UnpackBytes())
	require.True(r.Empty())
}

func TestLengthPrefixExceedsInput(t *testing.T) {
	require := require.New(t)

	// Length 5 with one byte remaining.
	r := NewReader([]byte{0x05, 0x01}, consts.MaxInt)
	r.UnpackBytes()
	require.ErrorIs(r.Err(), ErrLengthTooLarge)
}

func TestWriterSizeLimit(t *testing.T) {
	require := require.New(t)

	w := NewWriter(0, 4)
	w.PackUint64(1)
	require.ErrorIs(w.Err(), ErrSizeLimitExceeded)
	require.ErrorIs(w.Err(), ErrEncoding)
}

func TestPackBytesSizeCheckIsAtomic(t *testing.T) {
	require := require.New(t)

	// The whole encoded size is checked before any byte is written, so a
	// rejected pack leaves no dangling length prefix behind.
	w := NewWriter(0, 4)
	w.PackBytes(make([]byte, 8))
	require.ErrorIs(w.Err(), ErrSizeLimitExceeded)
	require.Empty(w.Bytes())

	w = NewWriter(0, 4)
	w.PackString("hello world")
	require.ErrorIs(w.Err(), ErrSizeLimitExceeded)
	require.Empty(w.Bytes())
}

func TestReaderSizeLimit(t *testing.T) {
	require := require.New(t)

	r := NewReader(make([]byte, 8), 4)
	require.ErrorIs(r.Err(), ErrInputTooLarge)
}

func TestOffsetTracksConsumedBytes(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x01, 0x02, 0x00, 0x03}, consts.MaxInt)
	require.Zero(r.Offset())

	r.UnpackByte()
	require.Equal(consts.ByteLen, r.Offset())

	r.UnpackUint16()
	require.Equal(consts.ByteLen+consts.Uint16Len, r.Offset())
	require.False(r.Empty())

	r.UnpackByte()
	require.True(r.Empty())
	require.NoError(r.Err())
}

func TestErrorSticks(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x01}, consts.MaxInt)
	r.UnpackUint64()
	first := r.Err()
	require.ErrorIs(first, ErrInsufficientLength)

	// Later calls are no-ops that keep the first error.
	require.Zero(r.UnpackByte())
	require.True(errors.Is(r.Err(), ErrInsufficientLength))
}
