// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// ObjectArg discriminants.
const (
	objectArgImmOrOwned uint8 = iota
	objectArgShared
	objectArgReceiving
)

// ObjectRef pins one version of a stored object: its id plus the
// version/digest pair current at encode time. Resolving a fresh pair for
// an id is the network collaborator's job; the builder only records what
// it is handed.
type ObjectRef struct {
	ID      codec.Address `json:"objectId"`
	Version uint64        `json:"version"`
	Digest  codec.Digest  `json:"digest"`
}

func (r ObjectRef) Marshal(p *codec.Packer) {
	p.PackAddress(r.ID)
	p.PackUint64(r.Version)
	p.PackDigest(r.Digest)
}

func unmarshalObjectRef(p *codec.Packer) (ObjectRef, error) {
	var r ObjectRef
	p.UnpackAddress(&r.ID)
	r.Version = p.UnpackUint64()
	p.UnpackDigest(&r.Digest)
	return r, p.Err()
}

// ObjectArg is the union of ways an object can enter a transaction:
// exclusively owned or immutable, shared, or received.
type ObjectArg interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
	// ObjectID returns the underlying object id. The input pool
	// deduplicates object inputs by this id.
	ObjectID() codec.Address
}

var (
	_ ObjectArg = (*ImmOrOwnedObject)(nil)
	_ ObjectArg = (*SharedObject)(nil)
	_ ObjectArg = (*ReceivingObject)(nil)
)

// ImmOrOwnedObject references an immutable or exclusively-owned object at
// an exact version.
type ImmOrOwnedObject struct {
	Ref ObjectRef `json:"ref"`
}

func (*ImmOrOwnedObject) GetTypeID() uint8 { return objectArgImmOrOwned }

func (o *ImmOrOwnedObject) Marshal(p *codec.Packer) {
	o.Ref.Marshal(p)
}

func (o *ImmOrOwnedObject) ObjectID() codec.Address { return o.Ref.ID }

// SharedObject references a shared object by the version it was shared
// at. Mutable determines whether the command may write the object.
type SharedObject struct {
	ID                   codec.Address `json:"objectId"`
	InitialSharedVersion uint64        `json:"initialSharedVersion"`
	Mutable              bool          `json:"mutable"`
}

func (*SharedObject) GetTypeID() uint8 { return objectArgShared }

func (o *SharedObject) Marshal(p *codec.Packer) {
	p.PackAddress(o.ID)
	p.PackUint64(o.InitialSharedVersion)
	p.PackBool(o.Mutable)
}

func (o *SharedObject) ObjectID() codec.Address { return o.ID }

// ReceivingObject references an object sent to another object, to be
// claimed by the transaction.
type ReceivingObject struct {
	Ref ObjectRef `json:"ref"`
}

func (*ReceivingObject) GetTypeID() uint8 { return objectArgReceiving }

func (o *ReceivingObject) Marshal(p *codec.Packer) {
	o.Ref.Marshal(p)
}

func (o *ReceivingObject) ObjectID() codec.Address { return o.Ref.ID }

func marshalObjectArg(p *codec.Packer, o ObjectArg) {
	p.PackUvarint(uint64(o.GetTypeID()))
	o.Marshal(p)
}

func unmarshalObjectArg(p *codec.Packer) (ObjectArg, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch {
	case tag == uint64(objectArgImmOrOwned):
		ref, err := unmarshalObjectRef(p)
		if err != nil {
			return nil, err
		}
		return &ImmOrOwnedObject{Ref: ref}, nil
	case tag == uint64(objectArgShared):
		var o SharedObject
		p.UnpackAddress(&o.ID)
		o.InitialSharedVersion = p.UnpackUint64()
		o.Mutable = p.UnpackBool()
		return &o, p.Err()
	case tag == uint64(objectArgReceiving):
		ref, err := unmarshalObjectRef(p)
		if err != nil {
			return nil, err
		}
		return &ReceivingObject{Ref: ref}, nil
	default:
		return nil, fmt.Errorf("%w: %d is not an object arg", codec.ErrUnknownVariant, tag)
	}
}
