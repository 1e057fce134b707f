package monoshim

import (
	"reflect"

	"github.com/ebitengine/purego"

	"github.com/hostbridge/monoshim/errors"
)

// Library looks up named entry points in a loaded runtime binary.
//
// Lookup returns the address of the export, or a symbol_not_found error
// when the name is absent. Absence is a normal condition: the two Mono
// builds export different symbol sets and the shim degrades per
// capability rather than failing at load.
type Library interface {
	Lookup(name string) (uintptr, error)
}

// Invoker dispatches calls into resolved foreign procedures and converts
// Go functions into foreign-callable pointers.
//
// Arguments and results are machine words; pointer arguments are passed
// as their raw addresses. The production implementation is NativeInvoker;
// tests substitute scripted fakes.
type Invoker interface {
	Call(addr uintptr, args ...uintptr) (uintptr, error)
	MakeCallback(fn any) (uintptr, error)
}

// NativeInvoker performs real foreign calls through purego.
type NativeInvoker struct{}

// Call invokes the procedure at addr with the platform C calling
// convention. The foreign call itself cannot fail from Go's point of
// view; errors here mean the address was invalid before the call.
func (NativeInvoker) Call(addr uintptr, args ...uintptr) (uintptr, error) {
	if addr == 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "call through nil procedure address")
	}
	r1, _, _ := purego.SyscallN(addr, args...)
	return r1, nil
}

// MakeCallback converts fn into a C-callable pointer. The returned
// pointer is never released; callback slots in the runtime are installed
// for the process lifetime.
func (NativeInvoker) MakeCallback(fn any) (uintptr, error) {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return 0, errors.InvalidInput(errors.PhaseCall, "callback must be a function")
	}
	return purego.NewCallback(fn), nil
}
