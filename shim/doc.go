// Package shim exposes the stable capability API over a loaded Mono
// runtime binary.
//
// A Shim is attached to a loaded library once; attachment detects the
// runtime build, freezes the capability table for that build, and
// pre-resolves the exports the table names. After that every operation
// consults the table to decide whether it is served by a resolved export
// call or by a bounds-checked raw field read, and the shim is safe for
// concurrent use.
//
// The shim has exactly two states: before Attach completes every
// operation fails with not_initialized, and the transition to Ready is
// one-way for the process lifetime, mirroring the runtime's own
// single-instantiation model.
//
// Capabilities missing from the active build fail per call with
// unsupported; use Available to probe for graceful degradation:
//
//	if s.Available(variant.CapClassGenericArgCount) {
//	    n, _ := s.GenericArgumentCount(klass)
//	}
//
// Failures reported by the runtime itself are relayed verbatim: a
// runtime-invoke that raises carries the managed exception object's
// handle in the returned error, untranslated.
package shim
