// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// Builder is one programmable-transaction construction session. It owns
// the input pool and the command sequence, validates every back-reference
// at the call site that creates it, and hands the finished structure to
// the assembler exactly once.
//
// A Builder is single-owner and not safe for concurrent use. Callers that
// need parallelism build independent sessions.
type Builder struct {
	inputs      []Input
	objectIndex map[codec.Address]uint16
	commands    []Command
	done        bool

	log *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a logger to the session. Input registration and
// command appends are reported at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder starts an empty construction session.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		objectIndex: map[codec.Address]uint16{},
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GasCoin references the implicit gas object. Always valid.
func (*Builder) GasCoin() Argument {
	return GasCoinArg()
}

// Input references input pool slot [i]. The slot must already exist.
func (b *Builder) Input(i uint16) (Argument, error) {
	if int(i) >= len(b.inputs) {
		return Argument{}, fmt.Errorf("%w: %d >= %d", ErrInputOutOfRange, i, len(b.inputs))
	}
	return Argument{kind: KindInput, index: i}, nil
}

// Result references the single (or first) result of command [i]. Only
// strictly backward references are representable: the command must
// already have been appended.
func (b *Builder) Result(i uint16) (Argument, error) {
	if int(i) >= len(b.commands) {
		return Argument{}, fmt.Errorf("%w: %d >= %d", ErrResultOutOfRange, i, len(b.commands))
	}
	return Argument{kind: KindResult, index: i}, nil
}

// NestedResult references result [j] of command [i]. When command [i]'s
// arity is statically known, [j] is bounds-checked here; a MoveCall's
// arity is unknown at build time, so any subindex is accepted and left to
// execution.
func (b *Builder) NestedResult(i uint16, j uint16) (Argument, error) {
	if int(i) >= len(b.commands) {
		return Argument{}, fmt.Errorf("%w: %d >= %d", ErrResultOutOfRange, i, len(b.commands))
	}
	if arity, known := b.commands[i].Results(); known && int(j) >= arity {
		return Argument{}, fmt.Errorf("%w: %d >= %d", ErrSubindexOutOfRange, j, arity)
	}
	return Argument{kind: KindNestedResult, index: i, subIndex: j}, nil
}

// validateArgument re-checks a resolved argument against the current pool
// and sequence. Arguments only come from builder methods, but a stale one
// from another session must not slip into this sequence.
func (b *Builder) validateArgument(a Argument) error {
	switch a.kind {
	case KindGasCoin:
		return nil
	case KindInput:
		_, err := b.Input(a.index)
		return err
	case KindResult:
		_, err := b.Result(a.index)
		return err
	case KindNestedResult:
		_, err := b.NestedResult(a.index, a.subIndex)
		return err
	default:
		return fmt.Errorf("%w: unknown argument kind %d", ErrValidation, a.kind)
	}
}

func (b *Builder) addInput(in Input) (Argument, error) {
	if b.done {
		return Argument{}, ErrSessionDone
	}
	if len(b.inputs) >= int(consts.MaxUint16) {
		return Argument{}, ErrTooManyInputs
	}
	index := uint16(len(b.inputs))
	b.inputs = append(b.inputs, in)
	return Argument{kind: KindInput, index: index}, nil
}

// PureBytes registers caller-encoded value bytes as a new input slot.
// Pure inputs always append: identical bytes may carry different intended
// meanings, so they are never deduplicated.
func (b *Builder) PureBytes(raw []byte) (Argument, error) {
	owned := make([]byte, len(raw))
	copy(owned, raw)
	arg, err := b.addInput(&PureInput{Bytes: owned})
	if err != nil {
		return Argument{}, err
	}
	b.log.Debug("registered pure input",
		zap.Uint16("index", arg.index),
		zap.Int("size", len(owned)),
	)
	return arg, nil
}

func (b *Builder) pure(pack func(p *codec.Packer)) (Argument, error) {
	p := codec.NewWriter(0, consts.MaxTransactionSize)
	pack(p)
	if err := p.Err(); err != nil {
		return Argument{}, err
	}
	return b.PureBytes(p.Bytes())
}

// PureBool registers an encoded bool input.
func (b *Builder) PureBool(v bool) (Argument, error) {
	return b.pure(func(p *codec.Packer) { p.PackBool(v) })
}

// PureUint16 registers an encoded u16 input.
func (b *Builder) PureUint16(v uint16) (Argument, error) {
	return b.pure(func(p *codec.Packer) { p.PackUint16(v) })
}

// PureUint64 registers an encoded u64 input.
func (b *Builder) PureUint64(v uint64) (Argument, error) {
	return b.pure(func(p *codec.Packer) { p.PackUint64(v) })
}

// PureAddress registers an encoded address input.
func (b *Builder) PureAddress(a codec.Address) (Argument, error) {
	return b.pure(func(p *codec.Packer) { p.PackAddress(a) })
}

// PureString registers an encoded UTF-8 string input.
func (b *Builder) PureString(s string) (Argument, error) {
	return b.pure(func(p *codec.Packer) { p.PackString(s) })
}

// PureStringVector registers an encoded vector<string> input.
func (b *Builder) PureStringVector(values []string) (Argument, error) {
	return b.pure(func(p *codec.Packer) {
		p.PackLen(len(values))
		for _, v := range values {
			p.PackString(v)
		}
	})
}

// Object registers an object input, deduplicated by object id: a second
// registration of the same id returns the first slot's index with the
// stored reference updated to the most recently supplied version. Stale
// version/digest pairs for one object therefore collapse onto one slot.
// When both registrations are shared references, requested mutability is
// merged rather than downgraded. The pool stores its own copy of [arg].
func (b *Builder) Object(arg ObjectArg) (Argument, error) {
	if b.done {
		return Argument{}, ErrSessionDone
	}
	owned := cloneObjectArg(arg)
	id := owned.ObjectID()
	if index, ok := b.objectIndex[id]; ok {
		existing := b.inputs[index].(*ObjectInput)
		if prior, ok := existing.Arg.(*SharedObject); ok {
			if next, ok := owned.(*SharedObject); ok {
				next.Mutable = next.Mutable || prior.Mutable
			}
		}
		existing.Arg = owned
		b.log.Debug("deduplicated object input",
			zap.Uint16("index", index),
			zap.Stringer("objectId", id),
		)
		return Argument{kind: KindInput, index: index}, nil
	}
	ref, err := b.addInput(&ObjectInput{Arg: owned})
	if err != nil {
		return Argument{}, err
	}
	b.objectIndex[id] = ref.index
	b.log.Debug("registered object input",
		zap.Uint16("index", ref.index),
		zap.Stringer("objectId", id),
	)
	return ref, nil
}

// ImmOrOwnedObject registers an owned-object input by reference.
func (b *Builder) ImmOrOwnedObject(ref ObjectRef) (Argument, error) {
	return b.Object(&ImmOrOwnedObject{Ref: ref})
}

// SharedObject registers a shared-object input.
func (b *Builder) SharedObject(id codec.Address, initialSharedVersion uint64, mutable bool) (Argument, error) {
	return b.Object(&SharedObject{
		ID:                   id,
		InitialSharedVersion: initialSharedVersion,
		Mutable:              mutable,
	})
}

// ReceivingObject registers a receiving-object input by reference.
func (b *Builder) ReceivingObject(ref ObjectRef) (Argument, error) {
	return b.Object(&ReceivingObject{Ref: ref})
}

// Result is the typed handle of an appended command.
type Result struct {
	b     *Builder
	index uint16
}

// Index returns the command's position in the sequence.
func (r Result) Index() uint16 { return r.index }

// Arg references the command's result as a whole.
func (r Result) Arg() Argument {
	return Argument{kind: KindResult, index: r.index}
}

// Nested references result [j] of the command, with the same arity
// enforcement as Builder.NestedResult.
func (r Result) Nested(j uint16) (Argument, error) {
	return r.b.NestedResult(r.index, j)
}

// appendCommand validates every reference the command holds, then appends
// it. A failed append leaves the sequence unchanged.
func (b *Builder) appendCommand(cmd Command) (Result, error) {
	if b.done {
		return Result{}, ErrSessionDone
	}
	if len(b.commands) >= int(consts.MaxUint16) {
		return Result{}, ErrTooManyCommands
	}
	for _, arg := range cmd.arguments() {
		if err := b.validateArgument(arg); err != nil {
			return Result{}, err
		}
	}
	index := uint16(len(b.commands))
	b.commands = append(b.commands, cmd)
	b.log.Debug("appended command",
		zap.Uint16("index", index),
		zap.String("command", fmt.Sprintf("%T", cmd)),
	)
	return Result{b: b, index: index}, nil
}

// MoveCall appends a package::module::function invocation. Addresses in
// [typeArgs] are canonical by construction (ParseAddress/ParseTypeTag
// normalize them); [module] and [function] are preserved verbatim.
func (b *Builder) MoveCall(
	pkg codec.Address,
	module string,
	function string,
	typeArgs []TypeTag,
	args []Argument,
) (Result, error) {
	if !validIdentifier(module) || !validIdentifier(function) {
		return Result{}, fmt.Errorf("%w: %q::%q is not a valid target", ErrValidation, module, function)
	}
	var tags []TypeTag
	if len(typeArgs) > 0 {
		tags = append(tags, typeArgs...)
	}
	return b.appendCommand(&MoveCall{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: tags,
		Arguments:     cloneArgs(args),
	})
}

// TransferObjects appends a transfer of [objects] to [address]. An empty
// object list is preserved as an empty list.
func (b *Builder) TransferObjects(objects []Argument, address Argument) (Result, error) {
	return b.appendCommand(&TransferObjects{
		Objects: cloneArgs(objects),
		Address: address,
	})
}

// SplitCoins appends a split of [amounts] off [coin]. The command
// produces len(amounts) results.
func (b *Builder) SplitCoins(coin Argument, amounts []Argument) (Result, error) {
	return b.appendCommand(&SplitCoins{
		Coin:    coin,
		Amounts: cloneArgs(amounts),
	})
}

// MergeCoins appends a merge of [sources] into [destination].
func (b *Builder) MergeCoins(destination Argument, sources []Argument) (Result, error) {
	return b.appendCommand(&MergeCoins{
		Destination: destination,
		Sources:     cloneArgs(sources),
	})
}

// Publish appends a package publication.
func (b *Builder) Publish(modules [][]byte, dependencies []codec.Address) (Result, error) {
	return b.appendCommand(&Publish{
		Modules:      cloneModules(modules),
		Dependencies: cloneAddresses(dependencies),
	})
}

// MakeMoveVec appends vector assembly of [elements]. [elemType] may be
// nil when the element type is implied.
func (b *Builder) MakeMoveVec(elemType TypeTag, elements []Argument) (Result, error) {
	return b.appendCommand(&MakeMoveVec{
		Type:     elemType,
		Elements: cloneArgs(elements),
	})
}

// Upgrade appends a package upgrade authorized by [ticket].
func (b *Builder) Upgrade(
	modules [][]byte,
	dependencies []codec.Address,
	pkg codec.Address,
	ticket Argument,
) (Result, error) {
	return b.appendCommand(&Upgrade{
		Modules:      cloneModules(modules),
		Dependencies: cloneAddresses(dependencies),
		Package:      pkg,
		Ticket:       ticket,
	})
}

// Finish freezes the session and returns the completed structure. Any
// mutation afterwards fails with ErrSessionDone; a new transaction needs
// a new session.
func (b *Builder) Finish() *ProgrammableTransaction {
	b.done = true
	inputs := b.inputs
	if inputs == nil {
		inputs = []Input{}
	}
	commands := b.commands
	if commands == nil {
		commands = []Command{}
	}
	b.log.Debug("finished session",
		zap.Int("inputs", len(inputs)),
		zap.Int("commands", len(commands)),
	)
	return &ProgrammableTransaction{
		Inputs:   inputs,
		Commands: commands,
	}
}

// cloneArgs copies an argument list so later caller mutation cannot reach
// an appended command. The result is never nil: an empty list stays an
// empty list on the wire.
func cloneArgs(args []Argument) []Argument {
	return append([]Argument{}, args...)
}

// cloneObjectArg copies an object reference so the pool owns its entry
// outright: later mutation of the caller's struct cannot reach the pool,
// and mutability merging on dedup cannot reach the caller.
func cloneObjectArg(arg ObjectArg) ObjectArg {
	switch o := arg.(type) {
	case *ImmOrOwnedObject:
		c := *o
		return &c
	case *SharedObject:
		c := *o
		return &c
	case *ReceivingObject:
		c := *o
		return &c
	default:
		return arg
	}
}

func cloneModules(modules [][]byte) []codec.Bytes {
	if len(modules) == 0 {
		return nil
	}
	out := make([]codec.Bytes, len(modules))
	for i, m := range modules {
		owned := make([]byte, len(m))
		copy(owned, m)
		out[i] = owned
	}
	return out
}

func cloneAddresses(addrs []codec.Address) []codec.Address {
	if len(addrs) == 0 {
		return nil
	}
	return append([]codec.Address{}, addrs...)
}
