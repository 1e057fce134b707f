package shim

import (
	"runtime"
	"strings"
	"unsafe"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// RootDomain returns the runtime's root application domain.
func (s *Shim) RootDomain() (monoshim.Domain, error) {
	r, err := s.call(variant.CapRootDomain)
	if err != nil {
		return 0, err
	}
	return monoshim.Domain(r), nil
}

// ThreadAttach attaches the calling OS thread to domain and returns the
// runtime's thread handle. Per-thread state belongs to the runtime; do
// not mix attach and detach of the same thread concurrently with other
// operations on it.
func (s *Shim) ThreadAttach(domain monoshim.Domain) (uintptr, error) {
	if domain.IsNil() {
		return 0, errors.InvalidHandle("nil domain")
	}
	return s.call(variant.CapThreadAttach, uintptr(domain))
}

// ThreadDetach detaches a thread previously returned by ThreadAttach.
func (s *Shim) ThreadDetach(thread uintptr) error {
	if thread == 0 {
		return errors.InvalidHandle("nil thread")
	}
	_, err := s.call(variant.CapThreadDetach, thread)
	return err
}

// ThreadFastAttach performs the Unity fast-path attach of the calling
// thread to domain. The legacy build returns the previous thread state;
// the bleeding-edge build returns nothing and the result is 0 there.
func (s *Shim) ThreadFastAttach(domain monoshim.Domain) (uintptr, error) {
	if domain.IsNil() {
		return 0, errors.InvalidHandle("nil domain")
	}
	b, err := s.backing(variant.CapThreadFastAttach)
	if err != nil {
		return 0, err
	}
	r, err := s.call(variant.CapThreadFastAttach, uintptr(domain))
	if err != nil {
		return 0, err
	}
	if b.IsSymbol() && !b.Symbol.HasResult {
		return 0, nil
	}
	return r, nil
}

// ThreadFastDetach performs the Unity fast-path detach of the calling
// thread.
func (s *Shim) ThreadFastDetach() error {
	_, err := s.call(variant.CapThreadFastDetach)
	return err
}

// DomainSet makes domain current for the calling thread. force bypasses
// the runtime's unload check.
func (s *Shim) DomainSet(domain monoshim.Domain, force bool) (bool, error) {
	if domain.IsNil() {
		return false, errors.InvalidHandle("nil domain")
	}
	var f uintptr
	if force {
		f = 1
	}
	r, err := s.call(variant.CapDomainSet, uintptr(domain), f)
	if err != nil {
		return false, err
	}
	return r != 0, nil
}

// DomainSetConfig sets the base directory and configuration file of
// domain. The bleeding-edge build implements this as a no-op stub.
func (s *Shim) DomainSetConfig(domain monoshim.Domain, baseDir, configFile string) error {
	if domain.IsNil() {
		return errors.InvalidHandle("nil domain")
	}
	dir := cstr(baseDir)
	cfg := cstr(configFile)
	_, err := s.call(variant.CapDomainSetConfig, uintptr(domain), bufPtr(dir), bufPtr(cfg))
	runtime.KeepAlive(dir)
	runtime.KeepAlive(cfg)
	return err
}

// PushDomainRef pushes an app domain reference onto the calling thread.
func (s *Shim) PushDomainRef(domain monoshim.Domain) error {
	if domain.IsNil() {
		return errors.InvalidHandle("nil domain")
	}
	_, err := s.call(variant.CapDomainPushRef, uintptr(domain))
	return err
}

// PopDomainRef pops the calling thread's top app domain reference.
func (s *Shim) PopDomainRef() error {
	_, err := s.call(variant.CapDomainPopRef)
	return err
}

// SuspendOtherThreads suspends every managed thread except the caller.
// Used during shutdown; the foreign call may block.
func (s *Shim) SuspendOtherThreads() error {
	_, err := s.call(variant.CapSuspendOtherThreads)
	return err
}

// SetShuttingDown marks the runtime as shutting down.
func (s *Shim) SetShuttingDown() error {
	_, err := s.call(variant.CapSetShuttingDown)
	return err
}

// ThreadPoolCleanup tears down the managed thread pool.
func (s *Shim) ThreadPoolCleanup() error {
	_, err := s.call(variant.CapThreadPoolCleanup)
	return err
}

// JITCleanup shuts down the JIT for domain, including thread shutdown.
func (s *Shim) JITCleanup(domain monoshim.Domain) error {
	if domain.IsNil() {
		return errors.InvalidHandle("nil domain")
	}
	_, err := s.call(variant.CapJITCleanup, uintptr(domain))
	return err
}

// SetMainArgs forwards the host process arguments to the runtime.
func (s *Shim) SetMainArgs(args []string) error {
	if len(args) == 0 {
		return errors.InvalidInput(errors.PhaseCall, "empty argument vector")
	}
	bufs := make([][]byte, len(args))
	argv := make([]uintptr, len(args))
	for i, a := range args {
		bufs[i] = cstr(a)
		argv[i] = bufPtr(bufs[i])
	}
	_, err := s.call(variant.CapSetMainArgs,
		uintptr(len(args)), uintptr(unsafe.Pointer(&argv[0])))
	runtime.KeepAlive(bufs)
	runtime.KeepAlive(argv)
	return err
}

// SetUnhandledExceptionPolicy sets the runtime policy for unhandled
// managed exceptions.
func (s *Shim) SetUnhandledExceptionPolicy(policy int) error {
	_, err := s.call(variant.CapUnhandledExceptionPolicy, uintptr(policy))
	return err
}

// SetSecurityMode sets the runtime security mode.
func (s *Shim) SetSecurityMode(mode int) error {
	_, err := s.call(variant.CapSecurityMode, uintptr(mode))
	return err
}

// SetVerifierMode sets the IL verifier mode.
func (s *Shim) SetVerifierMode(mode int) error {
	_, err := s.call(variant.CapVerifierMode, uintptr(mode))
	return err
}

// SetAssembliesPath points assembly loading at paths, joined with NUL
// separators per the export's contract.
func (s *Shim) SetAssembliesPath(paths []string) error {
	if len(paths) == 0 {
		return errors.InvalidInput(errors.PhaseCall, "empty assemblies path")
	}
	buf := append([]byte(strings.Join(paths, "\x00")), 0)
	_, err := s.call(variant.CapAssembliesPath, bufPtr(buf))
	runtime.KeepAlive(buf)
	return err
}

// GCSafeRegionEnter enters a GC-safe region and returns the region
// cookie. stackdata anchors the region to the caller's stack.
func (s *Shim) GCSafeRegionEnter(stackdata uintptr) (uintptr, error) {
	return s.call(variant.CapGCSafeEnter, stackdata)
}

// GCSafeRegionExit exits a GC-safe region entered with
// GCSafeRegionEnter.
func (s *Shim) GCSafeRegionExit(cookie, stackdata uintptr) error {
	_, err := s.call(variant.CapGCSafeExit, cookie, stackdata)
	return err
}

// DataDir returns the Unity data directory the runtime was configured
// with.
func (s *Shim) DataDir() (string, error) {
	r, err := s.call(variant.CapDataDirGet)
	if err != nil {
		return "", err
	}
	return s.readCString(r)
}

// SetDataDir sets the Unity data directory.
func (s *Shim) SetDataDir(dir string) error {
	buf := cstr(dir)
	_, err := s.call(variant.CapDataDirSet, bufPtr(buf))
	runtime.KeepAlive(buf)
	return err
}

// SetEmbeddingHostName reports the embedding host name to the runtime.
func (s *Shim) SetEmbeddingHostName(name string) error {
	buf := cstr(name)
	_, err := s.call(variant.CapEmbeddingHostName, bufPtr(buf))
	runtime.KeepAlive(buf)
	return err
}

// SetVprintfFunc installs the runtime's vprintf hook. fn must be a
// foreign-callable pointer (see Invoker.MakeCallback).
func (s *Shim) SetVprintfFunc(fn uintptr) error {
	_, err := s.call(variant.CapVprintfFunc, fn)
	return err
}

// SetSocketSecurity enables or disables managed socket security.
func (s *Shim) SetSocketSecurity(enabled bool) error {
	var v uintptr
	if enabled {
		v = 1
	}
	_, err := s.call(variant.CapSocketSecurity, v)
	return err
}

// FindPluginFunc locates a native plugin by name for the runtime.
type FindPluginFunc func(name uintptr) uintptr

// SetFindPluginCallback installs the plugin-loading hook.
func (s *Shim) SetFindPluginCallback(fn FindPluginFunc) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseCall, "nil plugin callback")
	}
	ptr, err := s.callbacks.make(s, fn)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapFindPluginCallback, ptr)
	return err
}

// PathRemapFunc rewrites a path the runtime is about to open.
type PathRemapFunc func(path uintptr) uintptr

// SetPathRemapper installs the Unity path remapping hook.
func (s *Shim) SetPathRemapper(fn PathRemapFunc) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseCall, "nil path remapper")
	}
	ptr, err := s.callbacks.make(s, fn)
	if err != nil {
		return err
	}
	_, err = s.call(variant.CapPathRemapper, ptr)
	return err
}

// InstallMemoryCallbacks installs the Unity memory allocation callback
// table. callbacks is the address of a caller-built foreign structure.
func (s *Shim) InstallMemoryCallbacks(callbacks uintptr) error {
	if callbacks == 0 {
		return errors.InvalidHandle("nil callback table")
	}
	_, err := s.call(variant.CapMemoryCallbacks, callbacks)
	return err
}

// FreeForeign releases memory the runtime handed out through its own
// allocator (mono_unity_g_free). This is the only deallocation path the
// shim exposes.
func (s *Shim) FreeForeign(ptr uintptr) error {
	if ptr == 0 {
		return nil
	}
	_, err := s.call(variant.CapFreeForeign, ptr)
	return err
}

// UnityTLSInterface returns the Unity TLS interface pointer.
// Bleeding-edge only.
func (s *Shim) UnityTLSInterface() (uintptr, error) {
	return s.call(variant.CapUnityTLSInterface)
}

// BacktraceFromContext extracts a backtrace from a saved thread context.
func (s *Shim) BacktraceFromContext(ctx uintptr) (uintptr, error) {
	if ctx == 0 {
		return 0, errors.InvalidHandle("nil context")
	}
	return s.call(variant.CapBacktraceFromCtx, ctx)
}

// LoaderError returns the pending loader error as a prepared managed
// exception, or the nil object when none is pending. The export's
// signature is inferred from naming convention in the source material;
// treat availability as provisional and probe with Available first.
func (s *Shim) LoaderError(domain monoshim.Domain) (monoshim.Object, error) {
	if domain.IsNil() {
		return 0, errors.InvalidHandle("nil domain")
	}
	r, err := s.call(variant.CapLoaderError, uintptr(domain))
	if err != nil {
		return 0, err
	}
	return monoshim.Object(r), nil
}

// UpgradeRemoteClass upgrades the remote class of a remoting proxy
// object.
func (s *Shim) UpgradeRemoteClass(obj monoshim.Object, klass monoshim.Class) error {
	if obj.IsNil() || klass.IsNil() {
		return errors.InvalidHandle("nil object or class")
	}
	_, err := s.call(variant.CapUpgradeRemoteClass, uintptr(obj), uintptr(klass))
	return err
}

// AssemblyImage returns the image of a loaded assembly.
func (s *Shim) AssemblyImage(assembly monoshim.Assembly) (monoshim.Image, error) {
	if assembly.IsNil() {
		return 0, errors.InvalidHandle("nil assembly")
	}
	r, err := s.call(variant.CapAssemblyGetImage, uintptr(assembly))
	if err != nil {
		return 0, err
	}
	return monoshim.Image(r), nil
}

// AssemblyGetName returns the name record of a loaded assembly.
func (s *Shim) AssemblyGetName(assembly monoshim.Assembly) (monoshim.AssemblyName, error) {
	if assembly.IsNil() {
		return 0, errors.InvalidHandle("nil assembly")
	}
	r, err := s.call(variant.CapAssemblyGetName, uintptr(assembly))
	if err != nil {
		return 0, err
	}
	return monoshim.AssemblyName(r), nil
}

// AssemblyNameParse parses a display name ("mscorlib, Version=...") into
// the foreign name record at aname, which the caller obtained from the
// runtime.
func (s *Shim) AssemblyNameParse(name string, aname monoshim.AssemblyName) (bool, error) {
	if aname.IsNil() {
		return false, errors.InvalidHandle("nil assembly name record")
	}
	if name == "" {
		return false, errors.InvalidInput(errors.PhaseCall, "empty assembly name")
	}
	buf := cstr(name)
	r, err := s.call(variant.CapAssemblyNameParse, bufPtr(buf), uintptr(aname))
	runtime.KeepAlive(buf)
	if err != nil {
		return false, err
	}
	return r != 0, nil
}

// CustomAttrsNext advances a custom attribute iterator. iter must point
// at a zeroed slot on first call; the nil object signals exhaustion.
func (s *Shim) CustomAttrsNext(attrs uintptr, iter *uintptr) (monoshim.Object, error) {
	if attrs == 0 {
		return 0, errors.InvalidHandle("nil attribute collection")
	}
	if iter == nil {
		return 0, errors.InvalidInput(errors.PhaseCall, "nil iterator slot")
	}
	r, err := s.call(variant.CapCustomAttrsNext, attrs, uintptr(unsafe.Pointer(iter)))
	if err != nil {
		return 0, err
	}
	return monoshim.Object(r), nil
}

// GCHandleInDomain reports whether gchandle belongs to domain.
func (s *Shim) GCHandleInDomain(gchandle uint32, domain monoshim.Domain) (bool, error) {
	if domain.IsNil() {
		return false, errors.InvalidHandle("nil domain")
	}
	r, err := s.call(variant.CapGCHandleInDomain, uintptr(gchandle), uintptr(domain))
	if err != nil {
		return false, err
	}
	return r != 0, nil
}
