// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kiosk plans transfer-policy maintenance on top of a
// transaction builder session. It is a pure consumer of the builder's
// public API and introduces no encoding logic of its own.
package kiosk

import (
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/tx"
)

// State is the policy planner's lifecycle position. Transitions only move
// forward: Uninitialized -> Configured -> Finalized.
type State uint8

const (
	StateUninitialized State = iota
	StateConfigured
	StateFinalized
)

// Policy plans rule attachment and removal against one transfer policy.
// Operations that need the policy and its capability fail with a
// precondition error until Configure has run; Finalize is terminal.
type Policy struct {
	builder   *tx.Builder
	framework codec.Address

	state    State
	policy   tx.Argument
	cap      tx.Argument
	itemType tx.TypeTag
	attached set.Set[string]

	log *zap.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithLogger attaches a logger to the planner.
func WithLogger(log *zap.Logger) Option {
	return func(p *Policy) {
		p.log = log
	}
}

// NewPolicy returns an unconfigured planner appending to [builder].
// [framework] is the package holding the transfer_policy module.
func NewPolicy(builder *tx.Builder, framework codec.Address, opts ...Option) *Policy {
	p := &Policy{
		builder:   builder,
		framework: framework,
		attached:  set.Set[string]{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the planner's current lifecycle position.
func (p *Policy) State() State {
	return p.state
}

// Configure registers the shared policy object and its owned capability
// and records the traded item type. It is the one-shot transition out of
// StateUninitialized.
func (p *Policy) Configure(policy *tx.SharedObject, cap tx.ObjectRef, itemType tx.TypeTag) error {
	switch p.state {
	case StateFinalized:
		return ErrFinalized
	case StateConfigured:
		return ErrAlreadyConfigured
	}
	policyArg, err := p.builder.Object(policy)
	if err != nil {
		return err
	}
	capArg, err := p.builder.ImmOrOwnedObject(cap)
	if err != nil {
		return err
	}
	p.policy = policyArg
	p.cap = capArg
	p.itemType = itemType
	p.state = StateConfigured
	p.log.Debug("configured policy",
		zap.Stringer("policy", policy.ID),
		zap.Stringer("itemType", itemType),
	)
	return nil
}

func (p *Policy) requireConfigured() error {
	switch p.state {
	case StateUninitialized:
		return ErrNotConfigured
	case StateFinalized:
		return ErrFinalized
	default:
		return nil
	}
}

// ruleType is the marker struct identifying a rule inside a policy.
func ruleType(pkg codec.Address, module string, params ...tx.TypeTag) tx.StructType {
	return tx.StructType{
		Address:    pkg,
		Module:     module,
		Name:       "Rule",
		TypeParams: params,
	}
}

// AttachRoyaltyRule adds a royalty payment rule: [basisPoints] of every
// trade price, at least [minAmount], must be paid before a transfer is
// approved.
func (p *Policy) AttachRoyaltyRule(rulePackage codec.Address, basisPoints uint16, minAmount uint64) error {
	if err := p.requireConfigured(); err != nil {
		return err
	}
	rule := ruleType(rulePackage, "royalty_rule")
	if p.attached.Contains(rule.String()) {
		return ErrRuleAttached
	}
	bpArg, err := p.builder.PureUint16(basisPoints)
	if err != nil {
		return err
	}
	minArg, err := p.builder.PureUint64(minAmount)
	if err != nil {
		return err
	}
	if _, err := p.builder.MoveCall(
		rulePackage,
		"royalty_rule",
		"add",
		[]tx.TypeTag{p.itemType},
		[]tx.Argument{p.policy, p.cap, bpArg, minArg},
	); err != nil {
		return err
	}
	p.attached.Add(rule.String())
	p.log.Debug("attached royalty rule",
		zap.Uint16("basisPoints", basisPoints),
		zap.Uint64("minAmount", minAmount),
	)
	return nil
}

// AttachLockRule adds a lock rule: purchased items must be locked in a
// kiosk rather than taken directly.
func (p *Policy) AttachLockRule(rulePackage codec.Address) error {
	if err := p.requireConfigured(); err != nil {
		return err
	}
	rule := ruleType(rulePackage, "kiosk_lock_rule")
	if p.attached.Contains(rule.String()) {
		return ErrRuleAttached
	}
	if _, err := p.builder.MoveCall(
		rulePackage,
		"kiosk_lock_rule",
		"add",
		[]tx.TypeTag{p.itemType},
		[]tx.Argument{p.policy, p.cap},
	); err != nil {
		return err
	}
	p.attached.Add(rule.String())
	p.log.Debug("attached lock rule")
	return nil
}

// RemoveRule detaches a previously attached rule. [module] names the rule
// module inside [rulePackage]; its Rule and Config markers drive the
// framework's remove_rule call.
func (p *Policy) RemoveRule(rulePackage codec.Address, module string) error {
	if err := p.requireConfigured(); err != nil {
		return err
	}
	rule := ruleType(rulePackage, module)
	if !p.attached.Contains(rule.String()) {
		return ErrRuleNotAttached
	}
	config := tx.StructType{
		Address: rulePackage,
		Module:  module,
		Name:    "Config",
	}
	if _, err := p.builder.MoveCall(
		p.framework,
		"transfer_policy",
		"remove_rule",
		[]tx.TypeTag{p.itemType, rule, config},
		[]tx.Argument{p.policy, p.cap},
	); err != nil {
		return err
	}
	p.attached.Remove(rule.String())
	p.log.Debug("removed rule", zap.String("module", module))
	return nil
}

// AttachedRules returns the markers of currently attached rules.
func (p *Policy) AttachedRules() []string {
	return p.attached.List()
}

// Finalize ends the planning session. The planner accepts no further
// mutation; the underlying builder session is finished separately.
func (p *Policy) Finalize() error {
	if p.state == StateUninitialized {
		return ErrNotConfigured
	}
	if p.state == StateFinalized {
		return ErrFinalized
	}
	p.state = StateFinalized
	p.log.Debug("finalized policy", zap.Int("rules", p.attached.Len()))
	return nil
}
