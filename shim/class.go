package shim

import (
	"runtime"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// IsGenericClass reports whether klass is an open generic type
// definition (List<T>, not List<int>). Backed by a flags bit in the
// legacy build and by the class kind discriminant in the bleeding-edge
// build.
func (s *Shim) IsGenericClass(klass monoshim.Class) (bool, error) {
	return s.queryBool(variant.CapClassIsGenericDefinition, uintptr(klass))
}

// IsInflatedClass reports whether klass is an instantiated generic type
// (List<int>).
func (s *Shim) IsInflatedClass(klass monoshim.Class) (bool, error) {
	return s.queryBool(variant.CapClassIsInflated, uintptr(klass))
}

// IsBlittable reports whether klass can be copied bit-for-bit with no
// managed references.
func (s *Shim) IsBlittable(klass monoshim.Class) (bool, error) {
	return s.queryBool(variant.CapClassIsBlittable, uintptr(klass))
}

// IsAbstract reports whether klass is abstract.
func (s *Shim) IsAbstract(klass monoshim.Class) (bool, error) {
	return s.queryBool(variant.CapClassIsAbstract, uintptr(klass))
}

// IsInterface reports whether klass is an interface.
func (s *Shim) IsInterface(klass monoshim.Class) (bool, error) {
	return s.queryBool(variant.CapClassIsInterface, uintptr(klass))
}

// GenericParameterCount returns the number of type parameters of a
// generic type definition, 0 for non-generic classes.
func (s *Shim) GenericParameterCount(klass monoshim.Class) (int, error) {
	if klass.IsNil() {
		return 0, errors.InvalidHandle("nil class")
	}
	n, err := s.call(variant.CapClassGenericParamCount, uintptr(klass))
	if err != nil {
		return 0, err
	}
	return int(int32(n)), nil
}

// GenericParameterAt returns the type parameter at index of a generic
// type definition.
func (s *Shim) GenericParameterAt(klass monoshim.Class, index int) (monoshim.Class, error) {
	if klass.IsNil() {
		return 0, errors.InvalidHandle("nil class")
	}
	if index < 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "negative generic parameter index")
	}
	r, err := s.call(variant.CapClassGenericParamAt, uintptr(klass), uintptr(index))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// GenericTypeDefinition returns the open definition of an instantiated
// generic type (List<int> -> List<T>), or the nil class when klass is
// not inflated.
func (s *Shim) GenericTypeDefinition(klass monoshim.Class) (monoshim.Class, error) {
	if klass.IsNil() {
		return 0, errors.InvalidHandle("nil class")
	}
	r, err := s.call(variant.CapClassGenericDefinitionOf, uintptr(klass))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// GenericArgumentCount returns the number of type arguments of an
// instantiated generic type. Only the bleeding-edge build exports this;
// on the legacy build the error is unsupported.
func (s *Shim) GenericArgumentCount(klass monoshim.Class) (int, error) {
	if klass.IsNil() {
		return 0, errors.InvalidHandle("nil class")
	}
	n, err := s.call(variant.CapClassGenericArgCount, uintptr(klass))
	if err != nil {
		return 0, err
	}
	return int(int32(n)), nil
}

// GenericArgumentAt returns the type argument at index of an
// instantiated generic type. Bleeding-edge only, like
// GenericArgumentCount.
func (s *Shim) GenericArgumentAt(klass monoshim.Class, index int) (monoshim.Class, error) {
	if klass.IsNil() {
		return 0, errors.InvalidHandle("nil class")
	}
	if index < 0 {
		return 0, errors.InvalidInput(errors.PhaseCall, "negative generic argument index")
	}
	r, err := s.call(variant.CapClassGenericArgAt, uintptr(klass), uintptr(index))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// ClassFromToken resolves a metadata type token within image.
func (s *Shim) ClassFromToken(image monoshim.Image, token uint32) (monoshim.Class, error) {
	if image.IsNil() {
		return 0, errors.InvalidHandle("nil image")
	}
	r, err := s.call(variant.CapClassFromToken, uintptr(image), uintptr(token))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// ClassFromType returns the class a MonoType describes.
func (s *Shim) ClassFromType(typ monoshim.Type) (monoshim.Class, error) {
	if typ.IsNil() {
		return 0, errors.InvalidHandle("nil type")
	}
	r, err := s.call(variant.CapClassFromType, uintptr(typ))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// ClassUserdata returns the embedder userdata pointer stored on klass.
// Field-backed on the legacy build, export-backed on bleeding-edge.
func (s *Shim) ClassUserdata(klass monoshim.Class) (uintptr, error) {
	return s.queryPtr(variant.CapClassUserdataGet, uintptr(klass))
}

// SetClassUserdata stores an embedder userdata pointer on klass.
func (s *Shim) SetClassUserdata(klass monoshim.Class, userdata uintptr) error {
	return s.storePtr(variant.CapClassUserdataSet, uintptr(klass), userdata)
}

// UserdataOffset returns the byte offset of the userdata slot inside the
// class structure, as reported by the runtime itself. The export is
// provisional in the source material, so the value is queried rather
// than assumed.
func (s *Shim) UserdataOffset() (uint32, error) {
	r, err := s.call(variant.CapClassUserdataOffset)
	if err != nil {
		return 0, err
	}
	return uint32(r), nil
}

// TypeFromName parses a type name ("System.Collections.Generic.List`1")
// within image and returns its MonoType.
func (s *Shim) TypeFromName(name string, image monoshim.Image) (monoshim.Type, error) {
	if name == "" {
		return 0, errors.InvalidInput(errors.PhaseCall, "empty type name")
	}
	buf := cstr(name)
	r, err := s.call(variant.CapTypeFromName, bufPtr(buf), uintptr(image))
	runtime.KeepAlive(buf)
	if err != nil {
		return 0, err
	}
	return monoshim.Type(r), nil
}

// TypeIsGenericParameter reports whether typ is an unbound generic
// parameter (T, TKey). Bleeding-edge only.
func (s *Shim) TypeIsGenericParameter(typ monoshim.Type) (bool, error) {
	return s.queryBool(variant.CapTypeIsGenericParameter, uintptr(typ))
}

// TypeFromReflection returns the MonoType behind a managed System.Type
// object. The legacy build exports this under
// mono_reflection_type_get_handle; alias resolution hides the rename.
func (s *Shim) TypeFromReflection(reftype monoshim.ReflectionType) (monoshim.Type, error) {
	if reftype.IsNil() {
		return 0, errors.InvalidHandle("nil reflection type")
	}
	r, err := s.call(variant.CapTypeFromReflection, uintptr(reftype))
	if err != nil {
		return 0, err
	}
	return monoshim.Type(r), nil
}
