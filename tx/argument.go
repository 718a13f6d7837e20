// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// ArgumentKind discriminates the Argument union.
type ArgumentKind uint8

const (
	KindGasCoin ArgumentKind = iota
	KindInput
	KindResult
	KindNestedResult
)

// Argument is a back-reference into a builder session: the implicit gas
// coin, an input pool slot, or a prior command's result. Arguments are
// plain indices, never pointers, so the transaction structure stays
// acyclic and trivially serializable. They are obtained from builder
// methods, which validate the reference at construction time.
type Argument struct {
	kind     ArgumentKind
	index    uint16
	subIndex uint16
}

// GasCoinArg references the implicit gas object.
func GasCoinArg() Argument {
	return Argument{kind: KindGasCoin}
}

// Kind reports which variant this argument is.
func (a Argument) Kind() ArgumentKind { return a.kind }

// Index returns the input or command index the argument points at. Zero
// for GasCoin.
func (a Argument) Index() uint16 { return a.index }

// SubIndex returns the nested result subindex. Zero for other kinds.
func (a Argument) SubIndex() uint16 { return a.subIndex }

func (a Argument) Marshal(p *codec.Packer) {
	p.PackUvarint(uint64(a.kind))
	switch a.kind {
	case KindGasCoin:
	case KindInput, KindResult:
		p.PackUint16(a.index)
	case KindNestedResult:
		p.PackUint16(a.index)
		p.PackUint16(a.subIndex)
	}
}

func unmarshalArgument(p *codec.Packer) (Argument, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return Argument{}, err
	}
	if tag > uint64(KindNestedResult) {
		return Argument{}, fmt.Errorf("%w: %d is not an argument kind", codec.ErrUnknownVariant, tag)
	}
	var a Argument
	switch ArgumentKind(tag) {
	case KindGasCoin:
		a.kind = KindGasCoin
	case KindInput, KindResult:
		a.kind = ArgumentKind(tag)
		a.index = p.UnpackUint16()
	case KindNestedResult:
		a.kind = KindNestedResult
		a.index = p.UnpackUint16()
		a.subIndex = p.UnpackUint16()
	default:
		return Argument{}, fmt.Errorf("%w: %d is not an argument kind", codec.ErrUnknownVariant, tag)
	}
	return a, p.Err()
}

// String implements fmt.Stringer.
func (a Argument) String() string {
	switch a.kind {
	case KindGasCoin:
		return "GasCoin"
	case KindInput:
		return fmt.Sprintf("Input(%d)", a.index)
	case KindResult:
		return fmt.Sprintf("Result(%d)", a.index)
	case KindNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.index, a.subIndex)
	default:
		return fmt.Sprintf("Argument(%d)", a.kind)
	}
}

// MarshalText renders the argument for JSON dumps of a transaction.
func (a Argument) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
