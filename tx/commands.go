// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"github.com/ava-labs/movesdk/codec"
)

var (
	_ Command = (*TransferObjects)(nil)
	_ Command = (*SplitCoins)(nil)
	_ Command = (*MergeCoins)(nil)
	_ Command = (*Publish)(nil)
	_ Command = (*MakeMoveVec)(nil)
	_ Command = (*Upgrade)(nil)
)

// TransferObjects sends the listed objects to an address.
type TransferObjects struct {
	Objects []Argument `json:"objects"`
	Address Argument   `json:"address"`
}

func (*TransferObjects) GetTypeID() uint8 {
	return CommandTransferObjects
}

func (c *TransferObjects) Marshal(p *codec.Packer) {
	marshalArguments(p, c.Objects)
	c.Address.Marshal(p)
}

func (*TransferObjects) Results() (int, bool) {
	return 1, true
}

func (c *TransferObjects) arguments() []Argument {
	return append(append([]Argument{}, c.Objects...), c.Address)
}

func unmarshalTransferObjects(p *codec.Packer) (Command, error) {
	objects, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	address, err := unmarshalArgument(p)
	if err != nil {
		return nil, err
	}
	return &TransferObjects{Objects: objects, Address: address}, nil
}

// SplitCoins splits amounts off a coin. It produces one result per
// amount, in order.
type SplitCoins struct {
	Coin    Argument   `json:"coin"`
	Amounts []Argument `json:"amounts"`
}

func (*SplitCoins) GetTypeID() uint8 {
	return CommandSplitCoins
}

func (c *SplitCoins) Marshal(p *codec.Packer) {
	c.Coin.Marshal(p)
	marshalArguments(p, c.Amounts)
}

func (c *SplitCoins) Results() (int, bool) {
	return len(c.Amounts), true
}

func (c *SplitCoins) arguments() []Argument {
	return append(append([]Argument{}, c.Amounts...), c.Coin)
}

func unmarshalSplitCoins(p *codec.Packer) (Command, error) {
	coin, err := unmarshalArgument(p)
	if err != nil {
		return nil, err
	}
	amounts, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	return &SplitCoins{Coin: coin, Amounts: amounts}, nil
}

// MergeCoins merges the source coins into the destination coin.
type MergeCoins struct {
	Destination Argument   `json:"destination"`
	Sources     []Argument `json:"sources"`
}

func (*MergeCoins) GetTypeID() uint8 {
	return CommandMergeCoins
}

func (c *MergeCoins) Marshal(p *codec.Packer) {
	c.Destination.Marshal(p)
	marshalArguments(p, c.Sources)
}

func (*MergeCoins) Results() (int, bool) {
	return 1, true
}

func (c *MergeCoins) arguments() []Argument {
	return append(append([]Argument{}, c.Sources...), c.Destination)
}

func unmarshalMergeCoins(p *codec.Packer) (Command, error) {
	destination, err := unmarshalArgument(p)
	if err != nil {
		return nil, err
	}
	sources, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	return &MergeCoins{Destination: destination, Sources: sources}, nil
}

// Publish deploys the given compiled modules, which may depend on
// already-published packages.
type Publish struct {
	Modules      []codec.Bytes   `json:"modules"`
	Dependencies []codec.Address `json:"dependencies"`
}

func (*Publish) GetTypeID() uint8 {
	return CommandPublish
}

func (c *Publish) Marshal(p *codec.Packer) {
	p.PackLen(len(c.Modules))
	for _, module := range c.Modules {
		p.PackBytes(module)
	}
	p.PackLen(len(c.Dependencies))
	for _, dep := range c.Dependencies {
		p.PackAddress(dep)
	}
}

func (*Publish) Results() (int, bool) {
	return 1, true
}

func (*Publish) arguments() []Argument {
	return nil
}

func unmarshalPublish(p *codec.Packer) (Command, error) {
	var c Publish
	moduleCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < moduleCount; i++ {
		c.Modules = append(c.Modules, p.UnpackBytes())
	}
	depCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < depCount; i++ {
		var dep codec.Address
		p.UnpackAddress(&dep)
		c.Dependencies = append(c.Dependencies, dep)
	}
	return &c, p.Err()
}

// MakeMoveVec assembles the elements into a Move vector. Type is the
// element type and may be nil when the elements imply it.
type MakeMoveVec struct {
	Type     TypeTag    `json:"type,omitempty"`
	Elements []Argument `json:"elements"`
}

func (*MakeMoveVec) GetTypeID() uint8 {
	return CommandMakeMoveVec
}

func (c *MakeMoveVec) Marshal(p *codec.Packer) {
	p.PackOption(c.Type != nil)
	if c.Type != nil {
		MarshalTypeTag(p, c.Type)
	}
	marshalArguments(p, c.Elements)
}

func (*MakeMoveVec) Results() (int, bool) {
	return 1, true
}

func (c *MakeMoveVec) arguments() []Argument {
	return c.Elements
}

func unmarshalMakeMoveVec(p *codec.Packer) (Command, error) {
	var c MakeMoveVec
	if p.UnpackOption() {
		tag, err := UnmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		c.Type = tag
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	elements, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	c.Elements = elements
	return &c, nil
}

// Upgrade replaces a published package's modules, authorized by an
// upgrade ticket.
type Upgrade struct {
	Modules      []codec.Bytes   `json:"modules"`
	Dependencies []codec.Address `json:"dependencies"`
	Package      codec.Address   `json:"package"`
	Ticket       Argument        `json:"ticket"`
}

func (*Upgrade) GetTypeID() uint8 {
	return CommandUpgrade
}

func (c *Upgrade) Marshal(p *codec.Packer) {
	p.PackLen(len(c.Modules))
	for _, module := range c.Modules {
		p.PackBytes(module)
	}
	p.PackLen(len(c.Dependencies))
	for _, dep := range c.Dependencies {
		p.PackAddress(dep)
	}
	p.PackAddress(c.Package)
	c.Ticket.Marshal(p)
}

func (*Upgrade) Results() (int, bool) {
	return 1, true
}

func (c *Upgrade) arguments() []Argument {
	return []Argument{c.Ticket}
}

func unmarshalUpgrade(p *codec.Packer) (Command, error) {
	var c Upgrade
	moduleCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < moduleCount; i++ {
		c.Modules = append(c.Modules, p.UnpackBytes())
	}
	depCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < depCount; i++ {
		var dep codec.Address
		p.UnpackAddress(&dep)
		c.Dependencies = append(c.Dependencies, dep)
	}
	p.UnpackAddress(&c.Package)
	ticket, err := unmarshalArgument(p)
	if err != nil {
		return nil, err
	}
	c.Ticket = ticket
	return &c, p.Err()
}
