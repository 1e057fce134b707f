package variant

// Capability is the logical name of one stable shim operation. The
// registry maps each capability, per build, to the field descriptor or
// export that backs it.
type Capability string

// Class metadata capabilities.
const (
	CapClassIsGenericDefinition Capability = "class.is-generic-definition"
	CapClassIsInflated          Capability = "class.is-inflated"
	CapClassIsBlittable         Capability = "class.is-blittable"
	CapClassIsAbstract          Capability = "class.is-abstract"
	CapClassIsInterface         Capability = "class.is-interface"
	CapClassGenericParamCount   Capability = "class.generic-parameter-count"
	CapClassGenericParamAt      Capability = "class.generic-parameter-at"
	CapClassGenericDefinitionOf Capability = "class.generic-type-definition"
	CapClassGenericArgCount     Capability = "class.generic-argument-count"
	CapClassGenericArgAt        Capability = "class.generic-argument-at"
	CapClassFromToken           Capability = "class.from-token"
	CapClassFromType            Capability = "class.from-type"
	CapClassUserdataGet         Capability = "class.userdata-get"
	CapClassUserdataSet         Capability = "class.userdata-set"
	CapClassUserdataOffset      Capability = "class.userdata-offset"
)

// Method metadata capabilities.
const (
	CapMethodIsGeneric        Capability = "method.is-generic"
	CapMethodIsInflated       Capability = "method.is-inflated"
	CapMethodInflate          Capability = "method.inflate"
	CapMethodInflateFull      Capability = "method.inflate-full"
	CapMethodGetInflated      Capability = "method.get-inflated"
	CapMethodGenericContainer Capability = "method.generic-container"
	CapMethodFromReflection   Capability = "method.from-reflection"
	CapMethodSignature        Capability = "method.signature"
)

// Type capabilities.
const (
	CapTypeFromName           Capability = "type.from-name"
	CapTypeIsGenericParameter Capability = "type.is-generic-parameter"
	CapTypeFromReflection     Capability = "type.from-reflection"
)

// Object model capabilities.
const (
	CapObjectNew     Capability = "object.new"
	CapObjectSize    Capability = "object.size"
	CapObjectVTable  Capability = "object.vtable"
	CapStringNew     Capability = "string.new"
	CapStringEmpty   Capability = "string.empty"
	CapArrayNew      Capability = "array.new"
	CapArrayNew2D    Capability = "array.new-2d"
	CapArrayNew3D    Capability = "array.new-3d"
	CapRuntimeInvoke Capability = "runtime.invoke"
	CapVTableClass   Capability = "vtable.class"
	CapVTableDomain  Capability = "vtable.domain"
)

// Runtime lifecycle capabilities.
const (
	CapRootDomain               Capability = "domain.root"
	CapDomainSet                Capability = "domain.set"
	CapDomainSetConfig          Capability = "domain.set-config"
	CapDomainPushRef            Capability = "thread.push-domain-ref"
	CapDomainPopRef             Capability = "thread.pop-domain-ref"
	CapThreadAttach             Capability = "thread.attach"
	CapThreadDetach             Capability = "thread.detach"
	CapThreadFastAttach         Capability = "thread.fast-attach"
	CapThreadFastDetach         Capability = "thread.fast-detach"
	CapSuspendOtherThreads      Capability = "thread.suspend-others"
	CapSetShuttingDown          Capability = "runtime.set-shutting-down"
	CapThreadPoolCleanup        Capability = "threadpool.cleanup"
	CapJITCleanup               Capability = "runtime.jit-cleanup"
	CapSetMainArgs              Capability = "runtime.set-main-args"
	CapUnhandledExceptionPolicy Capability = "runtime.unhandled-exception-policy"
	CapSecurityMode             Capability = "security.set-mode"
	CapVerifierMode             Capability = "verifier.set-mode"
	CapAssembliesPath           Capability = "assemblies.set-path"
	CapGCSafeEnter              Capability = "gc.safe-region-enter"
	CapGCSafeExit               Capability = "gc.safe-region-exit"
)

// Unity embedding capabilities.
const (
	CapDataDirGet         Capability = "unity.data-dir-get"
	CapDataDirSet         Capability = "unity.data-dir-set"
	CapEmbeddingHostName  Capability = "unity.embedding-host-name"
	CapVprintfFunc        Capability = "unity.set-vprintf"
	CapSocketSecurity     Capability = "unity.socket-security"
	CapFindPluginCallback Capability = "unity.find-plugin-callback"
	CapPathRemapper       Capability = "unity.path-remapper"
	CapMemoryCallbacks    Capability = "unity.memory-callbacks"
	CapFreeForeign        Capability = "unity.free"
	CapUnityTLSInterface  Capability = "unity.tls-interface"
	CapBacktraceFromCtx   Capability = "unity.backtrace-from-context"
	CapLoaderError        Capability = "loader.last-error-exception"
	CapUpgradeRemoteClass Capability = "remoting.upgrade-remote-class"
)

// Assembly and metadata capabilities.
const (
	CapAssemblyGetImage  Capability = "assembly.image"
	CapAssemblyGetName   Capability = "assembly.name"
	CapAssemblyNameParse Capability = "assembly.parse-name"
	CapCustomAttrsNext   Capability = "attrs.next"
	CapGCHandleInDomain  Capability = "gchandle.in-domain"
)

// Liveness walk capabilities.
const (
	CapLivenessAllocate    Capability = "liveness.allocate"
	CapLivenessStopWorld   Capability = "liveness.stop-gc-world"
	CapLivenessStartWorld  Capability = "liveness.start-gc-world"
	CapLivenessFinalize    Capability = "liveness.finalize"
	CapLivenessFree        Capability = "liveness.free"
	CapLivenessFromRoot    Capability = "liveness.from-root"
	CapLivenessFromStatics Capability = "liveness.from-statics"
)

// Profiler installation capabilities.
const (
	CapProfilerInstall           Capability = "profiler.install"
	CapProfilerInstallThread     Capability = "profiler.install-thread"
	CapProfilerInstallAllocation Capability = "profiler.install-allocation"
	CapProfilerInstallEnterLeave Capability = "profiler.install-enter-leave"
	CapProfilerInstallException  Capability = "profiler.install-exception"
	CapProfilerInstallGC         Capability = "profiler.install-gc"
	CapProfilerInstallJITEnd     Capability = "profiler.install-jit-end"
	CapProfilerSetEvents         Capability = "profiler.set-events"
)

// PrimitiveNames lists the built-in type class getters, in the order the
// runtime declares them.
var PrimitiveNames = []string{
	"boolean", "byte", "sbyte", "char",
	"int16", "uint16", "int32", "uint32", "int64", "uint64",
	"single", "double",
	"string", "object", "enum", "array", "exception", "void",
	"intptr", "uintptr",
}

// Primitive returns the capability for a built-in type class getter,
// e.g. Primitive("int32") == "primitive.int32".
func Primitive(name string) Capability {
	return Capability("primitive." + name)
}
