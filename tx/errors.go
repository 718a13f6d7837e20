// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tx

import (
	"errors"
	"fmt"
)

// ErrValidation is the category sentinel for construction-time failures.
// Every reference, arity, or finalize error wraps it, so callers can
// branch with errors.Is(err, ErrValidation) without matching the exact
// cause.
var (
	ErrValidation = errors.New("validation failed")

	ErrInputOutOfRange    = fmt.Errorf("%w: input index out of range", ErrValidation)
	ErrResultOutOfRange   = fmt.Errorf("%w: result index out of range", ErrValidation)
	ErrSubindexOutOfRange = fmt.Errorf("%w: nested result subindex out of range", ErrValidation)
	ErrTooManyInputs      = fmt.Errorf("%w: input pool is full", ErrValidation)
	ErrTooManyCommands    = fmt.Errorf("%w: command sequence is full", ErrValidation)
	ErrMissingSender      = fmt.Errorf("%w: sender is not set", ErrValidation)
	ErrEmptyGasPayment    = fmt.Errorf("%w: gas payment is empty", ErrValidation)
	ErrSessionDone        = fmt.Errorf("%w: builder session already finished", ErrValidation)

	ErrInvalidTypeTag = errors.New("invalid type tag")
)
