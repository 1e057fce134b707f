// Package access performs bounds-checked raw field reads and writes over
// opaque foreign handles.
//
// A read covers the machine word at the descriptor's byte offset, shifts
// right by the descriptor's bit shift, and masks to its bit width; boolean
// interpretation treats a nonzero masked value as true, and equality
// interpretation compares the masked value against the descriptor's
// expected discriminant. Memory is never dereferenced as a typed foreign
// structure, only reached through raw offset arithmetic on the Memory
// interface, so the shim carries no compile-time dependency on foreign
// layouts.
//
// Every access is rejected up front when the handle is nil or the
// descriptor reaches outside the owning structure's known minimum size
// for the active build.
package access
