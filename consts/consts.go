// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	// Uint128Len is the width of the largest fixed integer the wire
	// format supports.
	Uint128Len = 16

	AddressLen = 32
	DigestLen  = 32

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint32 = ^uint32(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)

	// MaxUvarintLen64 is the most bytes a ULEB128-encoded uint64 can take.
	MaxUvarintLen64 = 10

	// MaxTransactionSize bounds the encoded size of a single transaction
	// envelope. Anything larger is rejected before decoding begins.
	MaxTransactionSize = 128 * 1024
)
