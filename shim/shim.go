package shim

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/resolve"
	"github.com/hostbridge/monoshim/variant"
)

// Shim is the stable capability surface over one loaded runtime binary.
//
// Attach builds it in a single irreversible step: detect the build,
// freeze its capability table, pre-resolve exports. All methods are safe
// for concurrent use once attached, except the thread-affinity operations
// documented on them.
type Shim struct {
	lib monoshim.Library
	mem monoshim.Memory
	inv monoshim.Invoker
	log *zap.Logger

	initOnce sync.Once
	initErr  error
	ready    atomic.Bool

	build    variant.Variant
	layout   *variant.Layout
	resolver *resolve.Resolver

	liveness  livenessLedger
	callbacks callbackSet
}

// Option configures a Shim before attachment.
type Option func(*Shim)

// WithLogger overrides the package logger for this shim.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shim) {
		if l != nil {
			s.log = l
		}
	}
}

// Attach detects the runtime build behind lib and returns a Ready shim.
//
// Detection never guesses: an unrecognized binary fails with
// unknown_variant and the returned shim must not be used. Per-capability
// resolution failures are not fatal here; they surface as unsupported
// when the capability is invoked.
func Attach(lib monoshim.Library, mem monoshim.Memory, inv monoshim.Invoker, opts ...Option) (*Shim, error) {
	if lib == nil || mem == nil || inv == nil {
		return nil, errors.InvalidInput(errors.PhaseInit, "nil library, memory, or invoker")
	}

	s := &Shim{
		lib: lib,
		mem: mem,
		inv: inv,
		log: Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.liveness.init()

	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shim) init() error {
	s.initOnce.Do(func() {
		build, err := variant.Detect(s.lib)
		if err != nil {
			s.initErr = err
			return
		}

		layout, err := variant.Registry(build)
		if err != nil {
			s.initErr = err
			return
		}

		s.build = build
		s.layout = layout
		s.resolver = resolve.New(s.lib)

		resolved, missing := s.preResolve()
		s.ready.Store(true)

		s.log.Info("runtime shim attached",
			zap.Stringer("variant", build),
			zap.Int("symbols_resolved", resolved),
			zap.Int("symbols_missing", missing),
		)
	})
	return s.initErr
}

// preResolve warms the resolution cache for every symbol-backed entry in
// the frozen table. Misses are recorded, not fatal: a build lacking one
// rarely used export keeps every other capability alive.
func (s *Shim) preResolve() (resolved, missing int) {
	for c, b := range s.layout.Table {
		if !b.IsSymbol() {
			continue
		}
		if _, err := s.resolver.Resolve(*b.Symbol); err != nil {
			missing++
			s.log.Debug("export unavailable",
				zap.String("capability", string(c)),
				zap.String("symbol", b.Symbol.Name),
			)
			continue
		}
		resolved++
	}
	return resolved, missing
}

// Variant returns the detected runtime build. It is Unknown until Ready.
func (s *Shim) Variant() variant.Variant {
	if !s.ready.Load() {
		return variant.Unknown
	}
	return s.build
}

// Ready reports whether attachment completed.
func (s *Shim) Ready() bool {
	return s.ready.Load()
}

// Available reports whether cap can be invoked against the active build,
// without invoking it. Field-backed capabilities are always available;
// symbol-backed ones require a resolvable export.
func (s *Shim) Available(cap variant.Capability) bool {
	if !s.ready.Load() {
		return false
	}
	b, ok := s.layout.Lookup(cap)
	if !ok {
		return false
	}
	if b.IsField() {
		return true
	}
	return s.resolver.Available(*b.Symbol)
}

// Capabilities returns every capability the active build backs, resolved
// or not. Intended for diagnostics.
func (s *Shim) Capabilities() []variant.Capability {
	if !s.ready.Load() {
		return nil
	}
	caps := make([]variant.Capability, 0, len(s.layout.Table))
	for c := range s.layout.Table {
		caps = append(caps, c)
	}
	return caps
}

// Backing returns how the active build implements cap, for diagnostics.
func (s *Shim) Backing(cap variant.Capability) (variant.Backing, bool) {
	if !s.ready.Load() {
		return variant.Backing{}, false
	}
	return s.layout.Lookup(cap)
}

// Process-wide default shim. The runtime instantiates once per process,
// so the default follows the same model: Init runs detection exactly
// once and later calls return the first outcome.
var (
	defaultOnce sync.Once
	defaultShim *Shim
	defaultErr  error
)

// Init attaches the process-wide default shim. Concurrent first callers
// race safely: one attachment runs, everyone observes its result.
func Init(lib monoshim.Library, mem monoshim.Memory, inv monoshim.Invoker, opts ...Option) (*Shim, error) {
	defaultOnce.Do(func() {
		defaultShim, defaultErr = Attach(lib, mem, inv, opts...)
	})
	return defaultShim, defaultErr
}

// Default returns the process-wide shim, or not_initialized before Init.
func Default() (*Shim, error) {
	if defaultShim == nil {
		return nil, errors.NotInitialized("default shim")
	}
	return defaultShim, defaultErr
}
