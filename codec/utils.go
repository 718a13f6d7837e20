// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// BytesLen returns the encoded size of a length-prefixed byte sequence.
func BytesLen(msg []byte) int {
	return uvarintSize(uint64(len(msg))) + len(msg)
}

// StringLen returns the encoded size of a length-prefixed string.
func StringLen(msg string) int {
	return uvarintSize(uint64(len(msg))) + len(msg)
}
