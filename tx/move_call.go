// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"github.com/ava-labs/movesdk/codec"
)

var _ Command = (*MoveCall)(nil)

// MoveCall invokes package::module::function with the given type
// arguments and arguments. The package address and every address inside
// the type arguments are normalized when the builder constructs the
// command; module and function names are preserved verbatim.
type MoveCall struct {
	Package       codec.Address `json:"package"`
	Module        string        `json:"module"`
	Function      string        `json:"function"`
	TypeArguments []TypeTag     `json:"typeArguments"`
	Arguments     []Argument    `json:"arguments"`
}

func (*MoveCall) GetTypeID() uint8 {
	return CommandMoveCall
}

func (c *MoveCall) Marshal(p *codec.Packer) {
	p.PackAddress(c.Package)
	p.PackString(c.Module)
	p.PackString(c.Function)
	p.PackLen(len(c.TypeArguments))
	for _, tag := range c.TypeArguments {
		MarshalTypeTag(p, tag)
	}
	marshalArguments(p, c.Arguments)
}

// Results is unknown at build time: how many values the call returns is
// decided by the called function. Subindex bounds on its results are
// deferred to execution rather than checked here.
func (*MoveCall) Results() (int, bool) {
	return 0, false
}

func (c *MoveCall) arguments() []Argument {
	return c.Arguments
}

func unmarshalMoveCall(p *codec.Packer) (Command, error) {
	var c MoveCall
	p.UnpackAddress(&c.Package)
	c.Module = p.UnpackString()
	c.Function = p.UnpackString()
	tagCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < tagCount; i++ {
		tag, err := UnmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		c.TypeArguments = append(c.TypeArguments, tag)
	}
	args, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	c.Arguments = args
	return &c, p.Err()
}
