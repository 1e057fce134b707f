package variant

import (
	"github.com/hostbridge/monoshim/errors"
)

// Backing binds one capability to its implementation strategy for a
// build: exactly one of Field or Symbol is set. Field-backed capabilities
// are served by raw memory reads; symbol-backed ones by resolved export
// calls.
type Backing struct {
	Field  *FieldDescriptor
	Symbol *SymbolEntry
}

func (b Backing) IsField() bool  { return b.Field != nil }
func (b Backing) IsSymbol() bool { return b.Symbol != nil }

func (b Backing) String() string {
	switch {
	case b.Field != nil:
		return "field " + b.Field.Struct.String()
	case b.Symbol != nil:
		return "symbol " + b.Symbol.Name
	default:
		return "unbacked"
	}
}

// Layout is one registry entry: everything the shim needs to serve the
// capability API against a build. Built once at startup, read-only after.
type Layout struct {
	Variant     Variant
	Table       map[Capability]Backing
	StructSizes map[StructKind]uint32
}

// StructSize returns the minimum allocation size the build guarantees for
// the given foreign structure. Field reads must stay inside it.
func (l *Layout) StructSize(k StructKind) uint32 {
	return l.StructSizes[k]
}

// Lookup returns the backing for cap. The second result is false when the
// build has no backing for the capability at all.
func (l *Layout) Lookup(cap Capability) (Backing, bool) {
	b, ok := l.Table[cap]
	return b, ok
}

// Struct field offsets, from disassembly of the two runtime builds. A
// wrong value here silently misreads foreign state, so every descriptor
// is validated against the structure sizes below when the registry is
// built.
const (
	classFlagsOffset       = 0x14 // internal flags word, both builds
	legacyClassFlags2      = 0x18 // legacy extended flags word
	beClassKindOffset      = 0x1e // bleeding-edge class kind discriminant
	methodFlagsOffset      = 0x00 // packed method flags word, both builds
	reflMethodPtrOffset    = 16   // MonoMethod* inside MonoReflectionMethod
	legacyUserdataOffset   = 288  // userdata pointer in legacy MonoClass
	classKindGenericDef    = 2    // class kind: open generic definition
	classKindGenericInst   = 3    // class kind: inflated instantiation
	blittableBit           = 5
	abstractBit            = 7
	legacyClassGenericBit  = 18
	legacyClassInflatedBit = 19
	legacyMethodGenericBit = 10
	beMethodGenericBit     = 11
)

var legacyStructSizes = map[StructKind]uint32{
	StructClass:            296, // must cover the userdata slot at 288
	StructMethod:           40,
	StructReflectionMethod: 24,
}

var beStructSizes = map[StructKind]uint32{
	StructClass:            32,
	StructMethod:           40,
	StructReflectionMethod: 24,
}

// Registry returns the capability table for a build. The table is freshly
// built and owned by the caller; the shim freezes it at initialization.
func Registry(v Variant) (*Layout, error) {
	var l *Layout
	switch v {
	case Legacy:
		l = &Layout{Variant: v, Table: legacyTable(), StructSizes: legacyStructSizes}
	case BleedingEdge:
		l = &Layout{Variant: v, Table: bleedingEdgeTable(), StructSizes: beStructSizes}
	default:
		return nil, errors.UnknownVariant("no registry entry for " + v.String())
	}

	for cap, b := range l.Table {
		if !b.IsField() {
			continue
		}
		if err := b.Field.Validate(l.StructSize(b.Field.Struct)); err != nil {
			return nil, errors.New(errors.PhaseInit, errors.KindInvalidInput).
				Capability(string(cap)).
				Cause(err).
				Detail("field descriptor rejected for %s", v).
				Build()
		}
	}
	return l, nil
}

// commonTable holds the capabilities backed identically in both builds.
func commonTable() map[Capability]Backing {
	t := map[Capability]Backing{
		// class metadata shared across builds
		CapClassIsBlittable: field(FieldDescriptor{
			Struct: StructClass, Offset: classFlagsOffset, Word: 4,
			Shift: blittableBit, Width: 1,
		}),
		CapClassIsAbstract: field(FieldDescriptor{
			Struct: StructClass, Offset: classFlagsOffset, Word: 4,
			Shift: abstractBit, Width: 1,
		}),
		CapClassIsInterface:       sym("mono_unity_class_is_interface", 1, true),
		CapClassGenericParamCount: sym("mono_unity_class_get_generic_parameter_count", 1, true),
		CapClassGenericParamAt:    sym("mono_unity_class_get_generic_parameter_at", 2, true),
		CapClassGenericDefinitionOf: sym(
			"mono_unity_class_get_generic_type_definition", 1, true),
		CapClassFromToken:      sym("mono_unity_class_get", 2, true),
		CapClassFromType:       symAlias("mono_class_from_mono_type", 1, true, "mono_class_from_mono_type_internal"),
		CapClassUserdataOffset: sym("mono_class_get_userdata_offset", 0, true),

		// method metadata
		CapMethodInflate:     sym("mono_class_inflate_generic_method", 2, true),
		CapMethodInflateFull: sym("mono_class_inflate_generic_method_full", 3, true),
		CapMethodGetInflated: sym("mono_get_inflated_method", 1, true),
		CapMethodSignature:   symAlias("mono_method_signature", 1, true, "mono_method_signature_internal"),

		// types
		CapTypeFromName:       sym("mono_reflection_type_from_name", 2, true),
		CapTypeFromReflection: symAlias("mono_reflection_type_get_type", 1, true, "mono_reflection_type_get_handle"),

		// object model
		CapObjectNew:     sym("mono_unity_object_new", 2, true),
		CapObjectSize:    symAlias("mono_object_get_size", 1, true, "mono_object_get_size_internal"),
		CapObjectVTable:  symAlias("mono_object_get_vtable", 1, true, "mono_object_get_vtable_internal"),
		CapStringNew:     sym("mono_unity_string_new", 2, true),
		CapStringEmpty:   sym("mono_unity_string_empty_wrapper", 0, true),
		CapArrayNew:      sym("mono_unity_array_new", 3, true),
		CapArrayNew2D:    sym("mono_unity_array_new_2d", 4, true),
		CapArrayNew3D:    sym("mono_unity_array_new_3d", 5, true),
		CapRuntimeInvoke: sym("mono_unity_runtime_invoke", 4, true),
		CapVTableClass:   symAlias("mono_vtable_class", 1, true, "mono_vtable_class_internal"),
		CapVTableDomain:  symAlias("mono_vtable_domain", 1, true, "mono_vtable_domain_internal"),

		// runtime lifecycle
		CapRootDomain:               symAlias("mono_get_root_domain", 0, true, "mono_get_root_domain_internal"),
		CapDomainSet:                symAlias("mono_domain_set", 2, true, "mono_domain_set_internal"),
		CapDomainSetConfig:          sym("mono_unity_domain_set_config", 3, false),
		CapDomainPushRef:            sym("mono_thread_push_appdomain_ref", 1, false),
		CapDomainPopRef:             sym("mono_thread_pop_appdomain_ref", 0, false),
		CapThreadAttach:             symAlias("mono_thread_attach", 1, true, "mono_thread_attach_internal"),
		CapThreadDetach:             symAlias("mono_thread_detach", 1, false, "mono_thread_detach_internal"),
		CapThreadFastDetach:         sym("mono_unity_thread_fast_detach", 0, false),
		CapSuspendOtherThreads:      sym("mono_thread_suspend_all_other_threads", 0, false),
		CapSetShuttingDown:          sym("mono_threads_set_shutting_down", 0, false),
		CapThreadPoolCleanup:        sym("mono_thread_pool_cleanup", 0, false),
		CapJITCleanup:               sym("mono_unity_jit_cleanup", 1, false),
		CapSetMainArgs:              sym("mono_unity_runtime_set_main_args", 2, false),
		CapUnhandledExceptionPolicy: sym("mono_runtime_unhandled_exception_policy_set", 1, false),
		CapSecurityMode:             sym("mono_security_set_mode", 1, false),
		CapVerifierMode:             sym("mono_verifier_set_mode", 1, false),
		CapAssembliesPath:           sym("mono_set_assemblies_path_null_separated", 1, false),
		CapGCSafeEnter:              symAlias("mono_threads_enter_gc_safe_region", 1, true, "mono_threads_enter_gc_safe_region_internal"),
		CapGCSafeExit:               symAlias("mono_threads_exit_gc_safe_region", 2, false, "mono_threads_exit_gc_safe_region_internal"),

		// unity embedding surface
		CapDataDirGet:         sym("mono_unity_get_data_dir", 0, true),
		CapDataDirSet:         sym("mono_unity_set_data_dir", 1, false),
		CapEmbeddingHostName:  sym("mono_unity_set_embeddinghostname", 1, false),
		CapVprintfFunc:        sym("mono_unity_set_vprintf_func", 1, false),
		CapSocketSecurity:     sym("mono_unity_socket_security_enabled_set", 1, false),
		CapFindPluginCallback: sym("mono_set_find_plugin_callback", 1, false),
		CapPathRemapper:       sym("mono_unity_register_path_remapper", 1, false),
		CapMemoryCallbacks:    sym("mono_unity_install_memory_callbacks", 1, false),
		CapFreeForeign:        sym("mono_unity_g_free", 1, false),
		CapBacktraceFromCtx:   sym("mono_unity_backtrace_from_context", 1, true),
		CapLoaderError:        sym("mono_unity_loader_get_last_error_and_error_prepare_exception", 1, true),
		CapUpgradeRemoteClass: sym("mono_upgrade_remote_class_wrapper", 2, false),

		// assemblies and metadata
		CapAssemblyGetImage:  symAlias("mono_assembly_get_image", 1, true, "mono_assembly_get_image_internal"),
		CapAssemblyGetName:   symAlias("mono_assembly_get_name", 1, true, "mono_assembly_get_name_internal"),
		CapAssemblyNameParse: sym("mono_assembly_name_parse", 2, true),
		CapCustomAttrsNext:   sym("mono_custom_attrs_get_attrs", 2, true),
		CapGCHandleInDomain:  sym("mono_gchandle_is_in_domain", 2, true),

		// liveness walks
		CapLivenessAllocate:    sym("mono_unity_liveness_allocate_struct", 5, true),
		CapLivenessStopWorld:   sym("mono_unity_liveness_stop_gc_world", 1, false),
		CapLivenessStartWorld:  sym("mono_unity_liveness_start_gc_world", 1, false),
		CapLivenessFinalize:    sym("mono_unity_liveness_finalize", 1, false),
		CapLivenessFree:        sym("mono_unity_liveness_free_struct", 1, false),
		CapLivenessFromRoot:    sym("mono_unity_liveness_calculation_from_root", 2, false),
		CapLivenessFromStatics: sym("mono_unity_liveness_calculation_from_statics", 1, false),

		// legacy profiler installation, kept for backward compatibility
		// in both builds
		CapProfilerInstall:           sym("mono_profiler_install", 2, false),
		CapProfilerInstallThread:     sym("mono_profiler_install_thread", 2, false),
		CapProfilerInstallAllocation: sym("mono_profiler_install_allocation", 1, false),
		CapProfilerInstallEnterLeave: sym("mono_profiler_install_enter_leave", 2, false),
		CapProfilerInstallException:  sym("mono_profiler_install_exception", 3, false),
		CapProfilerInstallGC:         sym("mono_profiler_install_gc", 2, false),
		CapProfilerInstallJITEnd:     sym("mono_profiler_install_jit_end", 1, false),
		CapProfilerSetEvents:         sym("mono_profiler_set_events", 1, false),
	}

	for _, name := range PrimitiveNames {
		t[Primitive(name)] = sym("mono_get_"+name+"_class", 0, true)
	}
	return t
}

// legacyTable adds the legacy build's raw layouts on top of the common
// set. Class genericity lives in the extended flags word; method
// genericity at bits 10/11; the MonoMethod pointer of a reflection object
// and the class userdata slot are read directly.
func legacyTable() map[Capability]Backing {
	t := commonTable()

	t[CapClassIsGenericDefinition] = field(FieldDescriptor{
		Struct: StructClass, Offset: legacyClassFlags2, Word: 4,
		Shift: legacyClassGenericBit, Width: 1,
	})
	t[CapClassIsInflated] = field(FieldDescriptor{
		Struct: StructClass, Offset: legacyClassFlags2, Word: 4,
		Shift: legacyClassInflatedBit, Width: 1,
	})
	t[CapMethodIsGeneric] = field(FieldDescriptor{
		Struct: StructMethod, Offset: methodFlagsOffset, Word: 4,
		Shift: legacyMethodGenericBit, Width: 1,
	})
	t[CapMethodIsInflated] = field(FieldDescriptor{
		Struct: StructMethod, Offset: methodFlagsOffset, Word: 4,
		Shift: legacyMethodGenericBit + 1, Width: 1,
	})
	t[CapMethodFromReflection] = field(FieldDescriptor{
		Struct: StructReflectionMethod, Offset: reflMethodPtrOffset, Word: 8,
	})
	t[CapClassUserdataGet] = field(FieldDescriptor{
		Struct: StructClass, Offset: legacyUserdataOffset, Word: 8,
	})
	t[CapClassUserdataSet] = field(FieldDescriptor{
		Struct: StructClass, Offset: legacyUserdataOffset, Word: 8,
	})

	// legacy fast attach returns the previous thread state
	t[CapThreadFastAttach] = sym("mono_unity_thread_fast_attach", 1, true)

	// Deliberately unbacked in legacy: class.generic-argument-count/-at,
	// type.is-generic-parameter, method.generic-container,
	// unity.tls-interface. The exports do not exist and no safe layout
	// is known, so these degrade to unsupported.
	return t
}

// bleedingEdgeTable adds the MonoBleedingEdge layouts and the exports
// that build alone carries. Class genericity is a kind discriminant, not
// a flag bit; method genericity shifts up one bit.
func bleedingEdgeTable() map[Capability]Backing {
	t := commonTable()

	t[CapClassIsGenericDefinition] = field(FieldDescriptor{
		Struct: StructClass, Offset: beClassKindOffset, Word: 1,
		Width: 3, Mode: ModeEquals, Equals: classKindGenericDef,
	})
	t[CapClassIsInflated] = field(FieldDescriptor{
		Struct: StructClass, Offset: beClassKindOffset, Word: 1,
		Width: 3, Mode: ModeEquals, Equals: classKindGenericInst,
	})
	t[CapMethodIsGeneric] = field(FieldDescriptor{
		Struct: StructMethod, Offset: methodFlagsOffset, Word: 4,
		Shift: beMethodGenericBit, Width: 1,
	})
	t[CapMethodIsInflated] = field(FieldDescriptor{
		Struct: StructMethod, Offset: methodFlagsOffset, Word: 4,
		Shift: beMethodGenericBit + 1, Width: 1,
	})

	t[CapClassGenericArgCount] = sym("mono_unity_class_get_generic_argument_count", 1, true)
	t[CapClassGenericArgAt] = sym("mono_unity_class_get_generic_argument_at", 2, true)
	t[CapTypeIsGenericParameter] = sym("mono_type_is_generic_parameter", 1, true)
	t[CapMethodGenericContainer] = sym("mono_method_get_generic_container", 1, true)
	t[CapMethodFromReflection] = sym("unity_mono_reflection_method_get_method", 1, true)
	t[CapClassUserdataGet] = sym("mono_class_get_userdata", 1, true)
	t[CapClassUserdataSet] = sym("mono_class_set_userdata", 2, false)
	t[CapUnityTLSInterface] = sym("mono_unity_get_unitytls_interface", 0, true)

	// bleeding-edge fast attach returns nothing
	t[CapThreadFastAttach] = sym("mono_unity_thread_fast_attach", 1, false)

	return t
}
