package shim

import (
	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/variant"
)

// PrimitiveClass returns the class object for one of the runtime's
// built-in types, named per variant.PrimitiveNames. Unknown names report
// unsupported.
func (s *Shim) PrimitiveClass(name string) (monoshim.Class, error) {
	r, err := s.call(variant.Primitive(name))
	if err != nil {
		return 0, err
	}
	return monoshim.Class(r), nil
}

// Typed getters for the common built-in classes.

func (s *Shim) BooleanClass() (monoshim.Class, error)   { return s.PrimitiveClass("boolean") }
func (s *Shim) ByteClass() (monoshim.Class, error)      { return s.PrimitiveClass("byte") }
func (s *Shim) SByteClass() (monoshim.Class, error)     { return s.PrimitiveClass("sbyte") }
func (s *Shim) CharClass() (monoshim.Class, error)      { return s.PrimitiveClass("char") }
func (s *Shim) Int16Class() (monoshim.Class, error)     { return s.PrimitiveClass("int16") }
func (s *Shim) UInt16Class() (monoshim.Class, error)    { return s.PrimitiveClass("uint16") }
func (s *Shim) Int32Class() (monoshim.Class, error)     { return s.PrimitiveClass("int32") }
func (s *Shim) UInt32Class() (monoshim.Class, error)    { return s.PrimitiveClass("uint32") }
func (s *Shim) Int64Class() (monoshim.Class, error)     { return s.PrimitiveClass("int64") }
func (s *Shim) UInt64Class() (monoshim.Class, error)    { return s.PrimitiveClass("uint64") }
func (s *Shim) SingleClass() (monoshim.Class, error)    { return s.PrimitiveClass("single") }
func (s *Shim) DoubleClass() (monoshim.Class, error)    { return s.PrimitiveClass("double") }
func (s *Shim) StringClass() (monoshim.Class, error)    { return s.PrimitiveClass("string") }
func (s *Shim) ObjectClass() (monoshim.Class, error)    { return s.PrimitiveClass("object") }
func (s *Shim) EnumClass() (monoshim.Class, error)      { return s.PrimitiveClass("enum") }
func (s *Shim) ArrayClass() (monoshim.Class, error)     { return s.PrimitiveClass("array") }
func (s *Shim) ExceptionClass() (monoshim.Class, error) { return s.PrimitiveClass("exception") }
func (s *Shim) VoidClass() (monoshim.Class, error)      { return s.PrimitiveClass("void") }
func (s *Shim) IntPtrClass() (monoshim.Class, error)    { return s.PrimitiveClass("intptr") }
func (s *Shim) UIntPtrClass() (monoshim.Class, error)   { return s.PrimitiveClass("uintptr") }
