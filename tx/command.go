// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// Command discriminants. Registration order in newCommandParser must
// match this table for the wire format to interoperate.
const (
	CommandMoveCall uint8 = iota
	CommandTransferObjects
	CommandSplitCoins
	CommandMergeCoins
	CommandPublish
	CommandMakeMoveVec
	CommandUpgrade
)

// Command is one step of a programmable transaction. Later commands may
// reference earlier commands' results, never the other way around; the
// builder enforces that ordering when arguments are resolved.
type Command interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)

	// Results reports the command's statically known result arity.
	// known is false when the arity is only decided at execution time.
	Results() (arity int, known bool)

	// arguments returns every back-reference the command holds, for
	// re-validation on append.
	arguments() []Argument
}

var commandParser = newCommandParser()

func newCommandParser() *codec.TypeParser[Command] {
	parser := codec.NewTypeParser[Command]()
	for _, err := range []error{
		parser.Register(&MoveCall{}, unmarshalMoveCall),
		parser.Register(&TransferObjects{}, unmarshalTransferObjects),
		parser.Register(&SplitCoins{}, unmarshalSplitCoins),
		parser.Register(&MergeCoins{}, unmarshalMergeCoins),
		parser.Register(&Publish{}, unmarshalPublish),
		parser.Register(&MakeMoveVec{}, unmarshalMakeMoveVec),
		parser.Register(&Upgrade{}, unmarshalUpgrade),
	} {
		if err != nil {
			panic(err)
		}
	}
	return parser
}

func marshalCommand(p *codec.Packer, cmd Command) {
	p.PackUvarint(uint64(cmd.GetTypeID()))
	cmd.Marshal(p)
}

func unmarshalCommand(p *codec.Packer) (Command, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if tag > uint64(consts.MaxUint8) {
		return nil, fmt.Errorf("%w: %d is not a command", codec.ErrUnknownVariant, tag)
	}
	decode, ok := commandParser.LookupIndex(uint8(tag))
	if !ok {
		return nil, fmt.Errorf("%w: %d is not a command", codec.ErrUnknownVariant, tag)
	}
	return decode(p)
}

func marshalArguments(p *codec.Packer, args []Argument) {
	p.PackLen(len(args))
	for _, arg := range args {
		arg.Marshal(p)
	}
}

func unmarshalArguments(p *codec.Packer) ([]Argument, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	args := make([]Argument, 0, count)
	for i := 0; i < count; i++ {
		arg, err := unmarshalArgument(p)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}
