// Package errors provides structured error types for the cutils library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries context: the operation path, the code-unit width
// involved, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindUnrepresentable).
//		Path("Static", "Encode").
//		Width(8).
//		Value('Ā').
//		Detail("scalar U+0100 does not fit").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NulNotFound(errors.PhaseConstruct, 64)
//	err := errors.Unrepresentable(errors.PhaseEncode, 'Ā', 8)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target without a Phase matches every phase of its Kind, which is how the
// sentinels exported by package cstr are compared.
package errors
