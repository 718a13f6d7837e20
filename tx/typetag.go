// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"
	"strings"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// Type tag discriminants, fixed by the Move type layout.
const (
	typeTagBool uint8 = iota
	typeTagU8
	typeTagU64
	typeTagU128
	typeTagAddress
	typeTagSigner
	typeTagVector
	typeTagStruct
	typeTagU16
	typeTagU32
	typeTagU256
)

// TypeTag identifies a Move type: a primitive, a vector of another type,
// or a fully-qualified struct. Tags appear in MoveCall type arguments and
// MakeMoveVec element types. Every address embedded in a tag is held in
// canonical form.
type TypeTag interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
	fmt.Stringer
}

type (
	BoolType    struct{}
	U8Type      struct{}
	U16Type     struct{}
	U32Type     struct{}
	U64Type     struct{}
	U128Type    struct{}
	U256Type    struct{}
	AddressType struct{}
	SignerType  struct{}
)

func (BoolType) GetTypeID() uint8    { return typeTagBool }
func (U8Type) GetTypeID() uint8      { return typeTagU8 }
func (U16Type) GetTypeID() uint8     { return typeTagU16 }
func (U32Type) GetTypeID() uint8     { return typeTagU32 }
func (U64Type) GetTypeID() uint8     { return typeTagU64 }
func (U128Type) GetTypeID() uint8    { return typeTagU128 }
func (U256Type) GetTypeID() uint8    { return typeTagU256 }
func (AddressType) GetTypeID() uint8 { return typeTagAddress }
func (SignerType) GetTypeID() uint8  { return typeTagSigner }

func (BoolType) Marshal(*codec.Packer)    {}
func (U8Type) Marshal(*codec.Packer)      {}
func (U16Type) Marshal(*codec.Packer)     {}
func (U32Type) Marshal(*codec.Packer)     {}
func (U64Type) Marshal(*codec.Packer)     {}
func (U128Type) Marshal(*codec.Packer)    {}
func (U256Type) Marshal(*codec.Packer)    {}
func (AddressType) Marshal(*codec.Packer) {}
func (SignerType) Marshal(*codec.Packer)  {}

func (BoolType) String() string    { return "bool" }
func (U8Type) String() string      { return "u8" }
func (U16Type) String() string     { return "u16" }
func (U32Type) String() string     { return "u32" }
func (U64Type) String() string     { return "u64" }
func (U128Type) String() string    { return "u128" }
func (U256Type) String() string    { return "u256" }
func (AddressType) String() string { return "address" }
func (SignerType) String() string  { return "signer" }

// VectorType is vector<Element>.
type VectorType struct {
	Element TypeTag
}

func (VectorType) GetTypeID() uint8 { return typeTagVector }

func (v VectorType) Marshal(p *codec.Packer) {
	MarshalTypeTag(p, v.Element)
}

func (v VectorType) String() string {
	return "vector<" + v.Element.String() + ">"
}

// StructType is a fully-qualified struct type such as
// 0x2::coin::Coin<0x2::sui::SUI>.
type StructType struct {
	Address    codec.Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

func (StructType) GetTypeID() uint8 { return typeTagStruct }

func (s StructType) Marshal(p *codec.Packer) {
	p.PackAddress(s.Address)
	p.PackString(s.Module)
	p.PackString(s.Name)
	p.PackLen(len(s.TypeParams))
	for _, param := range s.TypeParams {
		MarshalTypeTag(p, param)
	}
}

func (s StructType) String() string {
	var sb strings.Builder
	sb.WriteString(s.Address.String())
	sb.WriteString("::")
	sb.WriteString(s.Module)
	sb.WriteString("::")
	sb.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		sb.WriteByte('<')
		for i, param := range s.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(param.String())
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

// MarshalTypeTag packs [t]'s discriminant followed by its payload.
func MarshalTypeTag(p *codec.Packer, t TypeTag) {
	p.PackUvarint(uint64(t.GetTypeID()))
	t.Marshal(p)
}

// UnmarshalTypeTag is the inverse of MarshalTypeTag. Unknown
// discriminants are a hard decode failure.
func UnmarshalTypeTag(p *codec.Packer) (TypeTag, error) {
	tag := p.UnpackUvarint()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if tag > uint64(typeTagU256) {
		return nil, fmt.Errorf("%w: %d is not a type tag", codec.ErrUnknownVariant, tag)
	}
	switch uint8(tag) {
	case typeTagBool:
		return BoolType{}, nil
	case typeTagU8:
		return U8Type{}, nil
	case typeTagU16:
		return U16Type{}, nil
	case typeTagU32:
		return U32Type{}, nil
	case typeTagU64:
		return U64Type{}, nil
	case typeTagU128:
		return U128Type{}, nil
	case typeTagU256:
		return U256Type{}, nil
	case typeTagAddress:
		return AddressType{}, nil
	case typeTagSigner:
		return SignerType{}, nil
	case typeTagVector:
		element, err := UnmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		return VectorType{Element: element}, nil
	case typeTagStruct:
		return unmarshalStructType(p)
	default:
		return nil, fmt.Errorf("%w: %d is not a type tag", codec.ErrUnknownVariant, tag)
	}
}

func unmarshalStructType(p *codec.Packer) (TypeTag, error) {
	var s StructType
	p.UnpackAddress(&s.Address)
	s.Module = p.UnpackString()
	s.Name = p.UnpackString()
	paramCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < paramCount; i++ {
		param, err := UnmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		s.TypeParams = append(s.TypeParams, param)
	}
	return s, p.Err()
}

// ParseTypeTag parses the textual form of a Move type: a primitive name,
// vector<...>, or addr::module::Name with optional <...> type parameters.
// Addresses are normalized while parsing; module and struct names are
// preserved verbatim.
func ParseTypeTag(s string) (TypeTag, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "bool":
		return BoolType{}, nil
	case "u8":
		return U8Type{}, nil
	case "u16":
		return U16Type{}, nil
	case "u32":
		return U32Type{}, nil
	case "u64":
		return U64Type{}, nil
	case "u128":
		return U128Type{}, nil
	case "u256":
		return U256Type{}, nil
	case "address":
		return AddressType{}, nil
	case "signer":
		return SignerType{}, nil
	}
	if inner, ok := strings.CutPrefix(s, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, s)
		}
		element, err := ParseTypeTag(inner[:len(inner)-1])
		if err != nil {
			return nil, err
		}
		return VectorType{Element: element}, nil
	}
	return parseStructType(s)
}

func parseStructType(s string) (TypeTag, error) {
	qualifier := s
	var params []TypeTag
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, s)
		}
		qualifier = s[:open]
		for _, part := range splitTypeParams(s[open+1 : len(s)-1]) {
			param, err := ParseTypeTag(part)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		if len(params) == 0 {
			return nil, fmt.Errorf("%w: empty type parameters in %q", ErrInvalidTypeTag, s)
		}
	}
	parts := strings.Split(qualifier, "::")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, s)
	}
	addr, err := codec.ParseAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, s)
	}
	module, name := parts[1], parts[2]
	if !validIdentifier(module) || !validIdentifier(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTypeTag, s)
	}
	return StructType{
		Address:    addr,
		Module:     module,
		Name:       name,
		TypeParams: params,
	}, nil
}

// splitTypeParams splits a comma-separated type parameter list at nesting
// depth zero, so commas inside nested <...> lists stay intact.
func splitTypeParams(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

func validIdentifier(s string) bool {
	if len(s) == 0 || len(s) > int(consts.MaxUint8) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
