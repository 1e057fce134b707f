package shim

import (
	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// IsGenericMethod reports whether method is a generic method definition.
// The backing flag sits one bit apart between the two builds; the active
// build's descriptor carries the right position.
func (s *Shim) IsGenericMethod(method monoshim.Method) (bool, error) {
	return s.queryBool(variant.CapMethodIsGeneric, uintptr(method))
}

// IsInflatedMethod reports whether method is an instantiated generic
// method.
func (s *Shim) IsInflatedMethod(method monoshim.Method) (bool, error) {
	return s.queryBool(variant.CapMethodIsInflated, uintptr(method))
}

// InflateMethod instantiates a generic method with the given context
// (MakeGenericMethod).
func (s *Shim) InflateMethod(method monoshim.Method, ctx monoshim.GenericContext) (monoshim.Method, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}
	r, err := s.call(variant.CapMethodInflate, uintptr(method), uintptr(ctx))
	if err != nil {
		return 0, err
	}
	return monoshim.Method(r), nil
}

// InflateMethodFull instantiates a generic method against an explicit
// declaring class and context.
func (s *Shim) InflateMethodFull(method monoshim.Method, owner monoshim.Class, ctx monoshim.GenericContext) (monoshim.Method, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}
	r, err := s.call(variant.CapMethodInflateFull, uintptr(method), uintptr(owner), uintptr(ctx))
	if err != nil {
		return 0, err
	}
	return monoshim.Method(r), nil
}

// GetInflatedMethod returns the inflated form of method. Some builds
// implement this as the identity function.
func (s *Shim) GetInflatedMethod(method monoshim.Method) (monoshim.Method, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}
	r, err := s.call(variant.CapMethodGetInflated, uintptr(method))
	if err != nil {
		return 0, err
	}
	return monoshim.Method(r), nil
}

// MethodGenericContainer returns the generic container of a generic
// method definition. Bleeding-edge only; the legacy build reports
// unsupported.
func (s *Shim) MethodGenericContainer(method monoshim.Method) (monoshim.GenericContainer, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}
	r, err := s.call(variant.CapMethodGenericContainer, uintptr(method))
	if err != nil {
		return 0, err
	}
	return monoshim.GenericContainer(r), nil
}

// MethodFromReflection extracts the MonoMethod behind a managed
// MethodInfo object. The legacy build reads the pointer straight out of
// the reflection object; bleeding-edge exports an accessor.
func (s *Shim) MethodFromReflection(refmethod monoshim.ReflectionMethod) (monoshim.Method, error) {
	r, err := s.queryPtr(variant.CapMethodFromReflection, uintptr(refmethod))
	if err != nil {
		return 0, err
	}
	return monoshim.Method(r), nil
}

// MethodSignature returns the opaque signature of method.
func (s *Shim) MethodSignature(method monoshim.Method) (uintptr, error) {
	if method.IsNil() {
		return 0, errors.InvalidHandle("nil method")
	}
	return s.call(variant.CapMethodSignature, uintptr(method))
}
