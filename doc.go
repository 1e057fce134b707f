// Package monoshim provides a compatibility layer for embedding hosts that
// drive a Unity Mono runtime shared library without access to its private
// headers.
//
// Unity ships two Mono builds with different internal struct layouts,
// bit-flag positions, and export sets: the legacy runtime (mono) and the
// MonoBleedingEdge runtime (mono-2.0-bdwgc). This library detects which
// build is loaded and exposes one stable, semantically named API that is
// translated per build into either a resolved export call or a raw
// offset-based memory read.
//
// # Architecture Overview
//
//	monoshim/        Root package with handle types and foreign-access interfaces
//	├── shim/        High-level capability API (predicates, object model, lifecycle)
//	├── variant/     Known runtime builds, field descriptors, capability registry
//	├── resolve/     Export resolution with alias fallback and caching
//	├── access/      Bounds-checked raw field reads over opaque handles
//	└── errors/      Structured error types
//
// # Quick Start
//
// Attach to a loaded runtime and query it:
//
//	lib, err := monoshim.OpenLibrary("/path/to/mono-2.0-bdwgc.so")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := shim.Attach(lib, monoshim.NewNativeMemory(), monoshim.NativeInvoker{})
//	if err != nil {
//	    log.Fatal(err) // unknown runtime build is fatal, never guessed
//	}
//
//	ok, err := s.IsGenericClass(klass)
//
// # Handles
//
// Foreign objects are represented by typed opaque handles (Class, Method,
// Domain, Object, ...). A handle is a raw foreign address with a phantom
// type tag; it is never dereferenced through Go struct definitions and the
// foreign runtime owns all referenced memory. The shim cannot detect
// use-after-free: a handle is valid only as long as the runtime keeps the
// underlying object alive, and that is a caller obligation.
//
// # Thread Safety
//
// Attach runs detection and table construction exactly once per Shim.
// After that the shim is immutable and all operations are safe for
// concurrent use, except thread-affinity operations (attach/detach,
// domain push/pop) whose per-thread semantics belong to the runtime
// itself.
package monoshim
