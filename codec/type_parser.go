// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/movesdk/consts"
)

// TypeParser is the discriminant table of one tagged union. Registration
// order assigns the wire discriminant, so variants must be registered in
// the union's schema order for the encoding to interoperate.
type TypeParser[T any] struct {
	typeToIndex    map[string]uint8
	indexToDecoder map[uint8]func(*Packer) (T, error)

	index uint8
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		typeToIndex:    map[string]uint8{},
		indexToDecoder: map[uint8]func(*Packer) (T, error){},
	}
}

// Register assigns the next discriminant to [o]'s concrete type and
// records [f] as its payload decoder.
func (p *TypeParser[T]) Register(o T, f func(*Packer) (T, error)) error {
	if p.index == consts.MaxUint8 {
		return ErrTooManyItems
	}
	k := fmt.Sprintf("%T", o)
	if _, ok := p.typeToIndex[k]; ok {
		return ErrDuplicateItem
	}
	p.typeToIndex[k] = p.index
	p.indexToDecoder[p.index] = f
	p.index++
	return nil
}

// LookupType returns the discriminant registered for [o]'s concrete type.
func (p *TypeParser[T]) LookupType(o T) (uint8, bool) {
	index, ok := p.typeToIndex[fmt.Sprintf("%T", o)]
	return index, ok
}

// LookupIndex returns the payload decoder registered for [index].
func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}
