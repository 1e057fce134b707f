package shim

import (
	"runtime"
	"unsafe"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// NewObject allocates an uninitialized managed object of klass in
// domain. The object is owned by the runtime's garbage collector; the
// shim never frees it.
func (s *Shim) NewObject(domain monoshim.Domain, klass monoshim.Class) (monoshim.Object, error) {
	if domain.IsNil() || klass.IsNil() {
		return 0, errors.InvalidHandle("nil domain or class")
	}
	r, err := s.call(variant.CapObjectNew, uintptr(domain), uintptr(klass))
	if err != nil {
		return 0, err
	}
	return monoshim.Object(r), nil
}

// NewString allocates a managed string holding text.
func (s *Shim) NewString(domain monoshim.Domain, text string) (monoshim.String, error) {
	if domain.IsNil() {
		return 0, errors.InvalidHandle("nil domain")
	}
	buf := cstr(text)
	r, err := s.call(variant.CapStringNew, uintptr(domain), bufPtr(buf))
	runtime.KeepAlive(buf)
	if err != nil {
		return 0, err
	}
	return monoshim.String(r), nil
}

// EmptyString returns the runtime's interned empty string.
func (s *Shim) EmptyString() (monoshim.String, error) {
	r, err := s.call(variant.CapStringEmpty)
	if err != nil {
		return 0, err
	}
	return monoshim.String(r), nil
}

// NewArray allocates a one-dimensional managed array of elem.
func (s *Shim) NewArray(domain monoshim.Domain, elem monoshim.Class, length int) (monoshim.Array, error) {
	if domain.IsNil() || elem.IsNil() {
		return 0, errors.InvalidHandle("nil domain or element class")
	}
	if length < 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "negative array length")
	}
	r, err := s.call(variant.CapArrayNew, uintptr(domain), uintptr(elem), uintptr(length))
	if err != nil {
		return 0, err
	}
	return monoshim.Array(r), nil
}

// NewArray2D allocates a two-dimensional managed array.
func (s *Shim) NewArray2D(domain monoshim.Domain, elem monoshim.Class, len1, len2 int) (monoshim.Array, error) {
	if domain.IsNil() || elem.IsNil() {
		return 0, errors.InvalidHandle("nil domain or element class")
	}
	if len1 < 0 || len2 < 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "negative array length")
	}
	r, err := s.call(variant.CapArrayNew2D, uintptr(domain), uintptr(elem), uintptr(len1), uintptr(len2))
	if err != nil {
		return 0, err
	}
	return monoshim.Array(r), nil
}

// NewArray3D allocates a three-dimensional managed array.
func (s *Shim) NewArray3D(domain monoshim.Domain, elem monoshim.Class, len1, len2, len3 int) (monoshim.Array, error) {
	if domain.IsNil() || elem.IsNil() {
		return 0, errors.InvalidHandle("nil domain or element class")
	}
	if len1 < 0 || len2 < 0 || len3 < 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "negative array length")
	}
	r, err := s.call(variant.CapArrayNew3D, uintptr(domain), uintptr(elem), uintptr(len1), uintptr(len2), uintptr(len3))
	if err != nil {
		return 0, err
	}
	return monoshim.Array(r), nil
}

// RuntimeInvoke calls a managed method. obj is the receiver (nil for
// static methods); params are raw argument slots laid out per the
// method's signature.
//
// When the managed code raises, the error is foreign_call and carries
// the managed exception object's handle verbatim; the shim performs no
// translation.
func (s *Shim) RuntimeInvoke(method monoshim.Method, obj monoshim.Object, params []uintptr) (monoshim.Object, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}

	var paramsPtr uintptr
	if len(params) > 0 {
		paramsPtr = uintptr(unsafe.Pointer(&params[0]))
	}

	var exc uintptr
	r, err := s.call(variant.CapRuntimeInvoke,
		uintptr(method), uintptr(obj), paramsPtr,
		uintptr(unsafe.Pointer(&exc)),
	)
	runtime.KeepAlive(params)
	if err != nil {
		return 0, err
	}
	if exc != 0 {
		return 0, errors.ForeignCall(string(variant.CapRuntimeInvoke), exc)
	}
	return monoshim.Object(r), nil
}

// ObjectSize returns the byte size of a managed object.
func (s *Shim) ObjectSize(obj monoshim.Object) (uint32, error) {
	if obj.IsNil() {
		return 0, errors.InvalidHandle("nil object")
	}
	r, err := s.call(variant.CapObjectSize, uintptr(obj))
	if err != nil {
		return 0, err
	}
	return uint32(r), nil
}

// ObjectVTable returns the vtable of a managed object.
func (s *Shim) ObjectVTable(obj monoshim.Object) (monoshim.VTable, error) {
	if obj.IsNil() {
		return 0, errors.InvalidHandle("nil object")
	}
	r, err := s.call(variant.CapObjectVTable, uintptr(obj))
	if err != nil {
		return 0, err
	}
	return monoshim.VTable(r), nil
}

// VTableClass returns the class a vtable belongs to.
func (s *Shim) VTableClass(vtable monoshim.VTable) (monoshim.Class, error) {
	if vtable.IsNil() {
		return 0, errors.InvalidHandle("nil vtable")
	}
	r, err := s.call(variant.CapVTableClass, uintptr(vtable))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// VTableDomain returns the domain a vtable belongs to.
func (s *Shim) VTableDomain(vtable monoshim.VTable) (monoshim.Domain, error) {
	if vtable.IsNil() {
		return 0, errors.InvalidHandle("nil vtable")
	}
	r, err := s.call(variant.CapVTableDomain, uintptr(vtable))
	if err != nil {
		return 0, err
	}
	return monoshim.Domain(r), nil
}
