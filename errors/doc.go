// Package errors provides structured error types for the monoshim library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the capability name, the export
// name involved, a cause chain, and, for foreign call failures, the
// address of the managed exception object the runtime produced.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindForeignCall).
//		Capability("runtime-invoke").
//		Exception(excAddr).
//		Detail("invoke raised").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported("generic-argument-count")
//	err := errors.OutOfBounds(288, 8, 96)
//
// All errors implement the standard error interface and support
// errors.Is/As; two *Error values match when Phase and Kind agree. The
// kind predicates (IsUnsupported, IsNotInitialized, ...) are the intended
// way for callers to branch on failure class.
package errors
