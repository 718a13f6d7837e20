// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// TransactionKind discriminants. Only the programmable kind is modeled;
// system kinds are rejected on decode rather than silently skipped.
const (
	kindProgrammable uint8 = iota
)

// TransactionData version discriminants.
const (
	transactionDataV1 uint8 = iota
)

// TransactionExpiration discriminants.
const (
	expirationNone uint8 = iota
	expirationEpoch
)

// ProgrammableTransaction is a finished builder session: the input pool
// plus the ordered command sequence. It is read-only once produced.
type ProgrammableTransaction struct {
	Inputs   []Input   `json:"inputs"`
	Commands []Command `json:"commands"`
}

// TransactionKind is the union of transaction payloads. The programmable
// kind is its only in-scope variant.
type TransactionKind interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
}

var _ TransactionKind = (*ProgrammableTransaction)(nil)

func (*ProgrammableTransaction) GetTypeID() uint8 {
	return kindProgrammable
}

func (pt *ProgrammableTransaction) Marshal(p *codec.Packer) {
	p.PackLen(len(pt.Inputs))
	for _, in := range pt.Inputs {
		marshalInput(p, in)
	}
	p.PackLen(len(pt.Commands))
	for _, cmd := range pt.Commands {
		marshalCommand(p, cmd)
	}
}

func unmarshalProgrammableTransaction(p *codec.Packer) (*ProgrammableTransaction, error) {
	inputCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	inputs := make([]Input, 0, inputCount)
	for i := 0; i < inputCount; i++ {
		in, err := unmarshalInput(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	commandCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	commands := make([]Command, 0, commandCount)
	for i := 0; i < commandCount; i++ {
		cmd, err := unmarshalCommand(p)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return &ProgrammableTransaction{
		Inputs:   inputs,
		Commands: commands,
	}, nil
}

func marshalTransactionKind(p *codec.Packer, kind TransactionKind) {
	p.PackUvarint(uint64(kind.GetTypeID()))
	kind.Marshal(p)
}

func unmarshalTransactionKind(p *codec.Packer) (TransactionKind, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch {
	case tag == uint64(kindProgrammable):
		return unmarshalProgrammableTransaction(p)
	default:
		return nil, fmt.Errorf("%w: %d is not a transaction kind", codec.ErrUnknownVariant, tag)
	}
}

// GasData describes how a transaction pays for execution.
type GasData struct {
	Payment []ObjectRef   `json:"payment"`
	Owner   codec.Address `json:"owner"`
	Price   uint64        `json:"price"`
	Budget  uint64        `json:"budget"`
}

func (g GasData) Marshal(p *codec.Packer) {
	p.PackLen(len(g.Payment))
	for _, ref := range g.Payment {
		ref.Marshal(p)
	}
	p.PackAddress(g.Owner)
	p.PackUint64(g.Price)
	p.PackUint64(g.Budget)
}

func unmarshalGasData(p *codec.Packer) (GasData, error) {
	var g GasData
	paymentCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return GasData{}, err
	}
	g.Payment = make([]ObjectRef, 0, paymentCount)
	for i := 0; i < paymentCount; i++ {
		ref, err := unmarshalObjectRef(p)
		if err != nil {
			return GasData{}, err
		}
		g.Payment = append(g.Payment, ref)
	}
	p.UnpackAddress(&g.Owner)
	g.Price = p.UnpackUint64()
	g.Budget = p.UnpackUint64()
	return g, p.Err()
}

// TransactionExpiration is either no expiration or a last valid epoch.
// The zero value means no expiration.
type TransactionExpiration struct {
	epoch    uint64
	hasEpoch bool
}

// NoExpiration returns an expiration that never triggers.
func NoExpiration() TransactionExpiration {
	return TransactionExpiration{}
}

// ExpireAtEpoch returns an expiration at the end of [epoch].
func ExpireAtEpoch(epoch uint64) TransactionExpiration {
	return TransactionExpiration{epoch: epoch, hasEpoch: true}
}

// Epoch returns the expiration epoch, if one is set.
func (e TransactionExpiration) Epoch() (uint64, bool) {
	return e.epoch, e.hasEpoch
}

// MarshalText renders the expiration for JSON dumps.
func (e TransactionExpiration) MarshalText() ([]byte, error) {
	if !e.hasEpoch {
		return []byte("none"), nil
	}
	return []byte(fmt.Sprintf("epoch:%d", e.epoch)), nil
}

func (e TransactionExpiration) Marshal(p *codec.Packer) {
	if !e.hasEpoch {
		p.PackUvarint(uint64(expirationNone))
		return
	}
	p.PackUvarint(uint64(expirationEpoch))
	p.PackUint64(e.epoch)
}

func unmarshalTransactionExpiration(p *codec.Packer) (TransactionExpiration, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return TransactionExpiration{}, err
	}
	switch {
	case tag == uint64(expirationNone):
		return NoExpiration(), nil
	case tag == uint64(expirationEpoch):
		e := ExpireAtEpoch(p.UnpackUint64())
		return e, p.Err()
	default:
		return TransactionExpiration{}, fmt.Errorf("%w: %d is not an expiration", codec.ErrUnknownVariant, tag)
	}
}

// TransactionData is the versioned top-level envelope handed to signing
// and submission. The wire form leads with the version discriminant,
// then kind, sender, gas data, and expiration.
type TransactionData struct {
	Kind       TransactionKind       `json:"kind"`
	Sender     codec.Address         `json:"sender"`
	GasData    GasData               `json:"gasData"`
	Expiration TransactionExpiration `json:"expiration"`
}

// NewTransactionData assembles a finished programmable transaction into
// the envelope. The sender must be set and the gas payment non-empty.
func NewTransactionData(
	sender codec.Address,
	pt *ProgrammableTransaction,
	gas GasData,
	expiration TransactionExpiration,
) (*TransactionData, error) {
	if sender == codec.EmptyAddress {
		return nil, ErrMissingSender
	}
	if len(gas.Payment) == 0 {
		return nil, ErrEmptyGasPayment
	}
	return &TransactionData{
		Kind:       pt,
		Sender:     sender,
		GasData:    gas,
		Expiration: expiration,
	}, nil
}

func (t *TransactionData) Marshal(p *codec.Packer) {
	p.PackUvarint(uint64(transactionDataV1))
	marshalTransactionKind(p, t.Kind)
	p.PackAddress(t.Sender)
	t.GasData.Marshal(p)
	t.Expiration.Marshal(p)
}

// Bytes encodes the envelope. Encoding the same logical value always
// yields byte-identical output, as signing requires.
func (t *TransactionData) Bytes() ([]byte, error) {
	p := codec.NewWriter(0, consts.MaxTransactionSize)
	t.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// UnmarshalTransactionData decodes a top-level envelope. Construction
// invariants are not re-checked (they are build-time concerns), but the
// structure itself is: unknown discriminants, truncation, and trailing
// bytes are all hard failures, and no partially populated value is ever
// returned.
func UnmarshalTransactionData(raw []byte) (*TransactionData, error) {
	p := codec.NewReader(raw, consts.MaxTransactionSize)
	version := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if version != uint64(transactionDataV1) {
		return nil, fmt.Errorf("%w: %d is not a transaction version", codec.ErrUnknownVariant, version)
	}
	kind, err := unmarshalTransactionKind(p)
	if err != nil {
		return nil, err
	}
	var t TransactionData
	t.Kind = kind
	p.UnpackAddress(&t.Sender)
	gas, err := unmarshalGasData(p)
	if err != nil {
		return nil, err
	}
	t.GasData = gas
	expiration, err := unmarshalTransactionExpiration(p)
	if err != nil {
		return nil, err
	}
	t.Expiration = expiration
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d bytes remain at offset %d",
			codec.ErrTrailingBytes, len(raw)-p.Offset(), p.Offset())
	}
	return &t, nil
}
