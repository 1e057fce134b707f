package monoshim

// Opaque handles for foreign runtime objects. Each handle wraps a raw
// foreign address with a distinct Go type so a Method cannot be passed
// where a Class is expected. Handle 0 is reserved and always invalid.
//
// The shim never allocates or frees the memory behind a handle; the
// foreign runtime owns it. Creation operations (NewObject, NewString,
// NewArray) forward to the runtime's own allocator and release, where it
// exists at all, goes through designated runtime operations.

// Class refers to a foreign MonoClass.
type Class uintptr

// Method refers to a foreign MonoMethod.
type Method uintptr

// Domain refers to a foreign MonoDomain.
type Domain uintptr

// Object refers to a managed object reference.
type Object uintptr

// String refers to a managed string.
type String uintptr

// Array refers to a managed array.
type Array uintptr

// Type refers to a foreign MonoType.
type Type uintptr

// Image refers to a foreign MonoImage.
type Image uintptr

// GenericContext refers to a foreign MonoGenericContext.
type GenericContext uintptr

// GenericContainer refers to a foreign MonoGenericContainer.
type GenericContainer uintptr

// ReflectionType refers to a managed System.Type object.
type ReflectionType uintptr

// ReflectionMethod refers to a managed MethodInfo object.
type ReflectionMethod uintptr

// VTable refers to a foreign MonoVTable.
type VTable uintptr

// LivenessState refers to an allocated liveness calculation state.
type LivenessState uintptr

// AssemblyName refers to a foreign MonoAssemblyName.
type AssemblyName uintptr

// Assembly refers to a foreign MonoAssembly.
type Assembly uintptr

// Profiler refers to a caller-defined profiler instance passed back to
// installed callbacks.
type Profiler uintptr

func (h Class) IsNil() bool            { return h == 0 }
func (h Method) IsNil() bool           { return h == 0 }
func (h Domain) IsNil() bool           { return h == 0 }
func (h Object) IsNil() bool           { return h == 0 }
func (h String) IsNil() bool           { return h == 0 }
func (h Array) IsNil() bool            { return h == 0 }
func (h Type) IsNil() bool             { return h == 0 }
func (h Image) IsNil() bool            { return h == 0 }
func (h GenericContext) IsNil() bool   { return h == 0 }
func (h GenericContainer) IsNil() bool { return h == 0 }
func (h ReflectionType) IsNil() bool   { return h == 0 }
func (h ReflectionMethod) IsNil() bool { return h == 0 }
func (h VTable) IsNil() bool           { return h == 0 }
func (h LivenessState) IsNil() bool    { return h == 0 }
func (h AssemblyName) IsNil() bool     { return h == 0 }
func (h Assembly) IsNil() bool         { return h == 0 }
