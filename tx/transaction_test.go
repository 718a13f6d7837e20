// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/codec"
)

func testGasData(t *testing.T) GasData {
	t.Helper()
	return GasData{
		Payment: []ObjectRef{testObjectRef("0x5", 7)},
		Owner:   codec.MustAddress("0x1"),
		Price:   1000,
		Budget:  5000,
	}
}

func TestAssemblerValidation(t *testing.T) {
	require := require.New(t)

	pt := NewBuilder().Finish()

	_, err := NewTransactionData(codec.EmptyAddress, pt, testGasData(t), NoExpiration())
	require.ErrorIs(err, ErrMissingSender)
	require.ErrorIs(err, ErrValidation)

	_, err = NewTransactionData(codec.MustAddress("0x1"), pt, GasData{
		Owner:  codec.MustAddress("0x1"),
		Price:  1,
		Budget: 1,
	}, NoExpiration())
	require.ErrorIs(err, ErrEmptyGasPayment)
}

func TestArgumentExactBytes(t *testing.T) {
	tests := map[string]struct {
		arg      Argument
		expected []byte
	}{
		"gasCoin": {
			arg:      GasCoinArg(),
			expected: []byte{0x00},
		},
		"input": {
			arg:      Argument{kind: KindInput, index: 3},
			expected: []byte{0x01, 0x03, 0x00},
		},
		"result": {
			arg:      Argument{kind: KindResult, index: 1},
			expected: []byte{0x02, 0x01, 0x00},
		},
		"nestedResult": {
			arg:      Argument{kind: KindNestedResult, index: 1, subIndex: 2},
			expected: []byte{0x03, 0x01, 0x00, 0x02, 0x00},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			p := codec.NewWriter(0, 64)
			test.arg.Marshal(p)
			require.NoError(p.Err())
			require.Equal(test.expected, p.Bytes())
		})
	}
}

func TestEnvelopeExactBytes(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	_, err := b.MergeCoins(b.GasCoin(), nil)
	require.NoError(err)

	data, err := NewTransactionData(
		codec.MustAddress("0x1"),
		b.Finish(),
		testGasData(t),
		NoExpiration(),
	)
	require.NoError(err)

	raw, err := data.Bytes()
	require.NoError(err)

	sender := codec.MustAddress("0x1")
	paymentID := codec.MustAddress("0x5")
	var expected []byte
	expected = append(expected, 0x00)       // version V1
	expected = append(expected, 0x00)       // kind: programmable
	expected = append(expected, 0x00)       // inputs: none
	expected = append(expected, 0x01)       // commands: one
	expected = append(expected, 0x03)       // MergeCoins
	expected = append(expected, 0x00)       // destination: GasCoin
	expected = append(expected, 0x00)       // sources: none
	expected = append(expected, sender[:]...)
	expected = append(expected, 0x01) // payment: one ref
	expected = append(expected, paymentID[:]...)
	expected = append(expected, 0x07, 0, 0, 0, 0, 0, 0, 0) // version 7
	expected = append(expected, bytes.Repeat([]byte{0x11}, codec.DigestLen)...)
	expected = append(expected, sender[:]...)                    // gas owner
	expected = append(expected, 0xe8, 0x03, 0, 0, 0, 0, 0, 0)    // price 1000
	expected = append(expected, 0x88, 0x13, 0, 0, 0, 0, 0, 0)    // budget 5000
	expected = append(expected, 0x00)                            // no expiration
	require.Equal(expected, raw)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	addrArg, err := b.PureAddress(codec.MustAddress("0xcafe"))
	require.NoError(err)
	amount, err := b.PureUint64(42)
	require.NoError(err)
	split, err := b.SplitCoins(b.GasCoin(), []Argument{amount})
	require.NoError(err)
	coin, err := split.Nested(0)
	require.NoError(err)
	_, err = b.TransferObjects([]Argument{coin}, addrArg)
	require.NoError(err)

	original, err := NewTransactionData(
		codec.MustAddress("0xa11ce"),
		b.Finish(),
		testGasData(t),
		ExpireAtEpoch(99),
	)
	require.NoError(err)

	raw, err := original.Bytes()
	require.NoError(err)

	decoded, err := UnmarshalTransactionData(raw)
	require.NoError(err)
	require.Equal(original, decoded)

	epoch, ok := decoded.Expiration.Epoch()
	require.True(ok)
	require.Equal(uint64(99), epoch)
}

func TestDeterminism(t *testing.T) {
	require := require.New(t)

	// The same logical transaction, with addresses spelled differently,
	// must encode to byte-identical output.
	build := func(pkg string, sender string) []byte {
		b := NewBuilder()
		tag, err := ParseTypeTag(pkg + "::sui::SUI")
		require.NoError(err)
		_, err = b.MoveCall(
			codec.MustAddress(pkg), "coin", "zero", []TypeTag{tag}, nil,
		)
		require.NoError(err)
		data, err := NewTransactionData(
			codec.MustAddress(sender), b.Finish(), testGasData(t), NoExpiration(),
		)
		require.NoError(err)
		raw, err := data.Bytes()
		require.NoError(err)
		return raw
	}

	first := build("0x2", "0x1")
	second := build(
		"0x0000000000000000000000000000000000000000000000000000000000000002",
		"0x01",
	)
	require.Equal(first, second)

	// Encoding the same value twice is also byte-identical.
	require.Equal(first, build("0x2", "0x1"))
}

// Scenario: a MoveCall holding one argument of every kind survives a
// round trip with its references and target intact.
func TestMoveCallArgumentKindsRoundTrip(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	for i := 0; i < 4; i++ {
		_, err := b.PureUint64(uint64(i))
		require.NoError(err)
	}
	// Two preliminary calls so Result(1) and NestedResult(0,1) resolve;
	// command 0 is a MoveCall, so subindex 1 is legal.
	first, err := b.MoveCall(codec.MustAddress("0x2"), "coin", "zero", nil, nil)
	require.NoError(err)
	second, err := b.MoveCall(codec.MustAddress("0x2"), "coin", "zero", nil, nil)
	require.NoError(err)

	nested, err := first.Nested(1)
	require.NoError(err)
	input3, err := b.Input(3)
	require.NoError(err)
	args := []Argument{b.GasCoin(), nested, input3, second.Arg()}
	_, err = b.MoveCall(codec.MustAddress("0x3"), "marketplace", "list", nil, args)
	require.NoError(err)

	data, err := NewTransactionData(
		codec.MustAddress("0x1"), b.Finish(), testGasData(t), NoExpiration(),
	)
	require.NoError(err)
	raw, err := data.Bytes()
	require.NoError(err)
	decoded, err := UnmarshalTransactionData(raw)
	require.NoError(err)

	pt, ok := decoded.Kind.(*ProgrammableTransaction)
	require.True(ok)
	call, ok := pt.Commands[2].(*MoveCall)
	require.True(ok)
	require.Equal(args, call.Arguments)
	require.Equal("marketplace", call.Module)
	require.Equal("list", call.Function)
}

// Scenario: an empty object list is preserved as an empty list, not
// dropped or turned into null.
func TestTransferObjectsEmptyListRoundTrip(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	addrArg, err := b.PureAddress(codec.MustAddress("0xcafe"))
	require.NoError(err)
	_, err = b.TransferObjects(nil, addrArg)
	require.NoError(err)

	data, err := NewTransactionData(
		codec.MustAddress("0x1"), b.Finish(), testGasData(t), NoExpiration(),
	)
	require.NoError(err)
	raw, err := data.Bytes()
	require.NoError(err)
	decoded, err := UnmarshalTransactionData(raw)
	require.NoError(err)

	pt := decoded.Kind.(*ProgrammableTransaction)
	transfer, ok := pt.Commands[0].(*TransferObjects)
	require.True(ok)
	require.NotNil(transfer.Objects)
	require.Empty(transfer.Objects)
	require.Equal(addrArg, transfer.Address)
}

// Scenario: a four-input, four-command transaction chaining three calls
// and a transfer round-trips to an identical structure.
func TestChainedTransactionRoundTrip(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	objArg, err := b.ImmOrOwnedObject(testObjectRef("0xaa", 3))
	require.NoError(err)
	names, err := b.PureStringVector([]string{"alpha", "beta"})
	require.NoError(err)
	values, err := b.PureStringVector([]string{"x"})
	require.NoError(err)
	recipient, err := b.PureAddress(codec.MustAddress("0xcafe"))
	require.NoError(err)

	itemTag, err := ParseTypeTag("0x2::devnet_nft::DevNetNFT")
	require.NoError(err)

	mint, err := b.MoveCall(
		codec.MustAddress("0x2"), "devnet_nft", "mint",
		[]TypeTag{itemTag}, []Argument{objArg, names},
	)
	require.NoError(err)
	_, err = b.MoveCall(
		codec.MustAddress("0x2"), "devnet_nft", "describe",
		nil, []Argument{mint.Arg(), values},
	)
	require.NoError(err)
	_, err = b.MoveCall(
		codec.MustAddress("0x2"), "devnet_nft", "freeze_metadata",
		nil, []Argument{mint.Arg()},
	)
	require.NoError(err)
	_, err = b.TransferObjects([]Argument{mint.Arg()}, recipient)
	require.NoError(err)

	original, err := NewTransactionData(
		codec.MustAddress("0xa11ce"), b.Finish(), testGasData(t), NoExpiration(),
	)
	require.NoError(err)

	raw, err := original.Bytes()
	require.NoError(err)
	decoded, err := UnmarshalTransactionData(raw)
	require.NoError(err)
	require.Equal(original, decoded)

	pt := decoded.Kind.(*ProgrammableTransaction)
	require.Len(pt.Inputs, 4)
	require.Len(pt.Commands, 4)
}

// Scenario: an out-of-range command discriminant is a decode failure,
// never a default variant.
func TestUnknownCommandDiscriminant(t *testing.T) {
	require := require.New(t)

	raw := []byte{
		0x00, // version V1
		0x00, // kind: programmable
		0x00, // inputs: none
		0x01, // commands: one
		0x09, // not a command discriminant
	}
	decoded, err := UnmarshalTransactionData(raw)
	require.ErrorIs(err, codec.ErrUnknownVariant)
	require.ErrorIs(err, codec.ErrDecoding)
	require.Nil(decoded)
}

func TestUnknownTransactionVersion(t *testing.T) {
	require := require.New(t)

	_, err := UnmarshalTransactionData([]byte{0x07})
	require.ErrorIs(err, codec.ErrUnknownVariant)
}

func TestTrailingBytesRejected(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	_, err := b.MergeCoins(b.GasCoin(), nil)
	require.NoError(err)
	data, err := NewTransactionData(
		codec.MustAddress("0x1"), b.Finish(), testGasData(t), NoExpiration(),
	)
	require.NoError(err)
	raw, err := data.Bytes()
	require.NoError(err)

	_, err = UnmarshalTransactionData(append(raw, 0x00))
	require.ErrorIs(err, codec.ErrTrailingBytes)
	require.ErrorContains(err, "1 bytes remain")
}

func TestTruncatedEnvelopeRejected(t *testing.T) {
	require := require.New(t)

	b := NewBuilder()
	_, err := b.MergeCoins(b.GasCoin(), nil)
	require.NoError(err)
	data, err := NewTransactionData(
		codec.MustAddress("0x1"), b.Finish(), testGasData(t), NoExpiration(),
	)
	require.NoError(err)
	raw, err := data.Bytes()
	require.NoError(err)

	for _, cut := range []int{1, len(raw) / 2, len(raw) - 1} {
		_, err := UnmarshalTransactionData(raw[:cut])
		require.ErrorIs(err, codec.ErrDecoding, "cut %d", cut)
	}
}
