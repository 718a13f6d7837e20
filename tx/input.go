// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Input discriminants.
const (
	inputPure uint8 = iota
	inputObject
)

// Input is one slot of the input pool: raw pre-encoded bytes or an object
// reference. Inputs are owned by the pool and referenced by index, never
// copied into commands.
type Input interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
}

var (
	_ Input = (*PureInput)(nil)
	_ Input = (*ObjectInput)(nil)
)

// PureInput carries caller-encoded value bytes. The pool stores them
// verbatim; identical bytes may carry different intended meanings, so
// pure inputs are never deduplicated.
type PureInput struct {
	Bytes codec.Bytes `json:"pure"`
}

func (*PureInput) GetTypeID() uint8 { return inputPure }

func (i *PureInput) Marshal(p *codec.Packer) {
	p.PackBytes(i.Bytes)
}

// ObjectInput carries an object reference.
type ObjectInput struct {
	Arg ObjectArg `json:"object"`
}

func (*ObjectInput) GetTypeID() uint8 { return inputObject }

func (i *ObjectInput) Marshal(p *codec.Packer) {
	marshalObjectArg(p, i.Arg)
}

func marshalInput(p *codec.Packer, in Input) {
	p.PackUvarint(uint64(in.GetTypeID()))
	in.Marshal(p)
}

func unmarshalInput(p *codec.Packer) (Input, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch {
	case tag == uint64(inputPure):
		raw := p.UnpackBytes()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return &PureInput{Bytes: raw}, nil
	case tag == uint64(inputObject):
		arg, err := unmarshalObjectArg(p)
		if err != nil {
			return nil, err
		}
		return &ObjectInput{Arg: arg}, nil
	default:
		return nil, fmt.Errorf("%w: %d is not an input", codec.ErrUnknownVariant, tag)
	}
}
