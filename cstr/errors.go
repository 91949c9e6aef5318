package cstr

import "github.com/asakhar/cutils/errors"

// Sentinels for errors.Is. They match errors of the same kind raised in any phase.
var (
	ErrNulNotFound     = &errors.Error{Kind: errors.KindNulNotFound}
	ErrUnrepresentable = &errors.Error{Kind: errors.KindUnrepresentable}
	ErrInvalidUTF8     = &errors.Error{Kind: errors.KindInvalidUTF8}
	ErrWriteZero       = &errors.Error{Kind: errors.KindWriteZero}
	ErrShortWrite      = &errors.Error{Kind: errors.KindShortWrite}
	ErrCapacity        = &errors.Error{Kind: errors.KindCapacity}
)
