// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"
)

// ErrEncoding and ErrDecoding are the category sentinels every codec
// failure wraps. Callers branch with errors.Is on these; the specific
// sentinels below exist for tests and error messages.
var (
	ErrEncoding = errors.New("encoding failed")
	ErrDecoding = errors.New("decoding failed")

	ErrTooManyItems  = errors.New("too many items")
	ErrDuplicateItem = errors.New("duplicate item")

	ErrInsufficientLength = fmt.Errorf("%w: insufficient length", ErrDecoding)
	ErrTrailingBytes      = fmt.Errorf("%w: trailing bytes", ErrDecoding)
	ErrUnknownVariant     = fmt.Errorf("%w: unknown variant", ErrDecoding)
	ErrNonMinimalUvarint  = fmt.Errorf("%w: uvarint not minimally encoded", ErrDecoding)
	ErrUvarintOverflow    = fmt.Errorf("%w: uvarint overflows", ErrDecoding)
	ErrInvalidBool        = fmt.Errorf("%w: bool byte not 0 or 1", ErrDecoding)
	ErrInvalidOption      = fmt.Errorf("%w: option byte not 0 or 1", ErrDecoding)
	ErrLengthTooLarge     = fmt.Errorf("%w: length prefix exceeds input", ErrDecoding)
	ErrInputTooLarge      = fmt.Errorf("%w: input exceeds size limit", ErrDecoding)
	ErrInvalidUTF8Decode  = fmt.Errorf("%w: string is not valid utf-8", ErrDecoding)

	ErrInvalidUTF8Encode = fmt.Errorf("%w: string is not valid utf-8", ErrEncoding)
	ErrSizeLimitExceeded = fmt.Errorf("%w: size limit exceeded", ErrEncoding)

	ErrInvalidSize    = errors.New("invalid size")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidDigest  = errors.New("invalid digest")
)
