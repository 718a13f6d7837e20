// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kiosk

import (
	"errors"
	"fmt"
)

// ErrPrecondition is the category sentinel for operations invoked in the
// wrong policy state.
var (
	ErrPrecondition = errors.New("precondition failed")

	ErrNotConfigured     = fmt.Errorf("%w: policy is not configured", ErrPrecondition)
	ErrAlreadyConfigured = fmt.Errorf("%w: policy is already configured", ErrPrecondition)
	ErrFinalized         = fmt.Errorf("%w: policy is finalized", ErrPrecondition)
	ErrRuleAttached      = fmt.Errorf("%w: rule is already attached", ErrPrecondition)
	ErrRuleNotAttached   = fmt.Errorf("%w: rule is not attached", ErrPrecondition)
)
