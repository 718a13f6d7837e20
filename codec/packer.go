// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/ava-labs/movesdk/consts"
)

// Packer is a combined writer/reader for the canonical wire format:
// fixed-width integers are little-endian, lengths and union discriminants
// are minimally-encoded ULEB128, sequences are length-prefixed, and
// structs are positional with no field tags.
//
// Errors accumulate: the first failure sticks, every later call is a
// no-op, and the caller checks Err once at the end. A Packer holds no
// shared state, so independent sessions may pack concurrently.
type Packer struct {
	b       []byte
	offset  int
	maxSize int
	err     error
}

// NewWriter returns a Packer that serializes into a fresh buffer. Writes
// that would grow the buffer past [maxSize] fail with
// ErrSizeLimitExceeded.
func NewWriter(initialCapacity, maxSize int) *Packer {
	return &Packer{
		b:       make([]byte, 0, initialCapacity),
		maxSize: maxSize,
	}
}

// NewReader returns a Packer that deserializes from [src].
func NewReader(src []byte, maxSize int) *Packer {
	p := &Packer{
		b:       src,
		maxSize: maxSize,
	}
	if len(src) > maxSize {
		p.addErr(ErrInputTooLarge)
	}
	return p
}

func (p *Packer) addErr(err error) {
	if p.err != nil {
		return
	}
	p.err = err
}

// Err returns the first error encountered, if any.
func (p *Packer) Err() error { return p.err }

// Bytes returns the underlying buffer. In write mode this is the encoded
// output; callers must check Err before using it.
func (p *Packer) Bytes() []byte { return p.b }

// Offset reports how many bytes have been consumed in read mode.
func (p *Packer) Offset() int { return p.offset }

// Empty reports whether all input has been consumed. Top-level decoders
// use this to reject trailing bytes.
func (p *Packer) Empty() bool { return p.offset >= len(p.b) }

// grow reserves [n] more output bytes, enforcing the size limit.
func (p *Packer) grow(n int) bool {
	if p.err != nil {
		return false
	}
	if len(p.b)+n > p.maxSize {
		p.addErr(ErrSizeLimitExceeded)
		return false
	}
	return true
}

// take consumes [n] input bytes and returns them.
func (p *Packer) take(n int) []byte {
	if p.err != nil {
		return nil
	}
	if p.offset+n > len(p.b) {
		p.addErr(ErrInsufficientLength)
		return nil
	}
	out := p.b[p.offset : p.offset+n]
	p.offset += n
	return out
}

func (p *Packer) PackByte(v byte) {
	if !p.grow(consts.ByteLen) {
		return
	}
	p.b = append(p.b, v)
}

func (p *Packer) UnpackByte() byte {
	raw := p.take(consts.ByteLen)
	if raw == nil {
		return 0
	}
	return raw[0]
}

// PackBool packs a bool as a single 0/1 byte.
func (p *Packer) PackBool(v bool) {
	if v {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
}

// UnpackBool rejects any byte other than 0 or 1 so a logical value has
// exactly one byte representation.
func (p *Packer) UnpackBool() bool {
	switch p.UnpackByte() {
	case 0:
		return false
	case 1:
		return true
	default:
		p.addErr(ErrInvalidBool)
		return false
	}
}

func (p *Packer) PackUint16(v uint16) {
	if !p.grow(consts.Uint16Len) {
		return
	}
	p.b = binary.LittleEndian.AppendUint16(p.b, v)
}

func (p *Packer) UnpackUint16() uint16 {
	raw := p.take(consts.Uint16Len)
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(raw)
}

func (p *Packer) PackUint32(v uint32) {
	if !p.grow(consts.Uint32Len) {
		return
	}
	p.b = binary.LittleEndian.AppendUint32(p.b, v)
}

func (p *Packer) UnpackUint32() uint32 {
	raw := p.take(consts.Uint32Len)
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

func (p *Packer) PackUint64(v uint64) {
	if !p.grow(consts.Uint64Len) {
		return
	}
	p.b = binary.LittleEndian.AppendUint64(p.b, v)
}

func (p *Packer) UnpackUint64() uint64 {
	raw := p.take(consts.Uint64Len)
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(raw)
}

// PackUint128 packs the 128-bit value hi<<64|lo little-endian.
func (p *Packer) PackUint128(lo uint64, hi uint64) {
	p.PackUint64(lo)
	p.PackUint64(hi)
}

func (p *Packer) UnpackUint128() (lo uint64, hi uint64) {
	lo = p.UnpackUint64()
	hi = p.UnpackUint64()
	return lo, hi
}

// PackUvarint packs [v] as ULEB128: 7 data bits per byte, little-endian
// groups, continuation bit set on all bytes but the last.
func (p *Packer) PackUvarint(v uint64) {
	if !p.grow(uvarintSize(v)) {
		return
	}
	for v >= 0x80 {
		p.b = append(p.b, byte(v)|0x80)
		v >>= 7
	}
	p.b = append(p.b, byte(v))
}

// UnpackUvarint unpacks a ULEB128 value, rejecting encodings that are not
// minimal (a redundant trailing 0x00 group) or that overflow 64 bits.
// Canonicity requires exactly one byte representation per value.
func (p *Packer) UnpackUvarint() uint64 {
	var (
		value uint64
		shift uint
	)
	for i := 0; i < consts.MaxUvarintLen64; i++ {
		raw := p.take(consts.ByteLen)
		if raw == nil {
			return 0
		}
		group := raw[0]
		if i == consts.MaxUvarintLen64-1 && group > 1 {
			p.addErr(ErrUvarintOverflow)
			return 0
		}
		value |= uint64(group&0x7f) << shift
		if group&0x80 == 0 {
			if i > 0 && group == 0 {
				p.addErr(ErrNonMinimalUvarint)
				return 0
			}
			return value
		}
		shift += 7
	}
	p.addErr(ErrUvarintOverflow)
	return 0
}

func uvarintSize(v uint64) int {
	size := 1
	for v >= 0x80 {
		size++
		v >>= 7
	}
	return size
}

// PackLen packs a sequence length prefix.
func (p *Packer) PackLen(n int) {
	if n < 0 || uint64(n) > uint64(consts.MaxUint32) {
		p.addErr(ErrTooManyItems)
		return
	}
	p.PackUvarint(uint64(n))
}

// UnpackLen unpacks a sequence length prefix. Every element occupies at
// least one byte, so a prefix larger than the remaining input is rejected
// up front instead of allocating for it.
func (p *Packer) UnpackLen() int {
	n := p.UnpackUvarint()
	if p.err != nil {
		return 0
	}
	if n > uint64(consts.MaxUint32) {
		p.addErr(ErrTooManyItems)
		return 0
	}
	if n > uint64(len(p.b)-p.offset) {
		p.addErr(ErrLengthTooLarge)
		return 0
	}
	return int(n)
}

// PackFixedBytes packs [b] with no length prefix.
func (p *Packer) PackFixedBytes(b []byte) {
	if !p.grow(len(b)) {
		return
	}
	p.b = append(p.b, b...)
}

func (p *Packer) UnpackFixedBytes(size int) []byte {
	raw := p.take(size)
	if raw == nil {
		return nil
	}
	out := make([]byte, size)
	copy(out, raw)
	return out
}

// PackBytes packs a length-prefixed byte sequence. The size limit is
// checked against the full encoded size up front, so a failed pack never
// leaves a dangling length prefix in the buffer.
func (p *Packer) PackBytes(b []byte) {
	if !p.grow(BytesLen(b)) {
		return
	}
	p.PackLen(len(b))
	p.PackFixedBytes(b)
}

func (p *Packer) UnpackBytes() []byte {
	size := p.UnpackLen()
	if p.err != nil {
		return nil
	}
	return p.UnpackFixedBytes(size)
}

// PackString packs a length-prefixed UTF-8 string. Strings are packed
// verbatim; any normalization happens before they reach the codec.
func (p *Packer) PackString(s string) {
	if !utf8.ValidString(s) {
		p.addErr(ErrInvalidUTF8Encode)
		return
	}
	if !p.grow(StringLen(s)) {
		return
	}
	p.PackLen(len(s))
	p.PackFixedBytes([]byte(s))
}

func (p *Packer) UnpackString() string {
	raw := p.UnpackBytes()
	if p.err != nil {
		return ""
	}
	if !utf8.Valid(raw) {
		p.addErr(ErrInvalidUTF8Decode)
		return ""
	}
	return string(raw)
}

// PackOption packs the presence byte of an option. The caller packs the
// payload itself when [present] is true.
func (p *Packer) PackOption(present bool) {
	p.PackBool(present)
}

// UnpackOption unpacks an option presence byte, rejecting anything other
// than 0 or 1.
func (p *Packer) UnpackOption() bool {
	switch p.UnpackByte() {
	case 0:
		return false
	case 1:
		return true
	default:
		p.addErr(ErrInvalidOption)
		return false
	}
}

func (p *Packer) PackAddress(a Address) {
	p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	raw := p.take(consts.AddressLen)
	if raw == nil {
		return
	}
	copy(dest[:], raw)
}

func (p *Packer) PackDigest(d Digest) {
	p.PackFixedBytes(d[:])
}

func (p *Packer) UnpackDigest(dest *Digest) {
	raw := p.take(consts.DigestLen)
	if raw == nil {
		return
	}
	copy(dest[:], raw)
}
