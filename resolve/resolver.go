package resolve

import (
	"sync"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// Proc is a resolved foreign procedure. Bound records which of the
// entry's names actually matched; it may be an alias.
type Proc struct {
	Bound string
	Addr  uintptr
}

type outcome struct {
	proc Proc
	err  error
}

// Resolver resolves symbol entries against one loaded binary.
//
// Entries are cached by canonical name after the first attempt, success
// or failure, and the cache is safe for concurrent readers. Entries never
// re-resolve: the export set of a loaded binary does not change.
type Resolver struct {
	lib   monoshim.Library
	mu    sync.RWMutex
	cache map[string]outcome
}

// New creates a resolver over lib.
func New(lib monoshim.Library) *Resolver {
	return &Resolver{
		lib:   lib,
		cache: make(map[string]outcome),
	}
}

// Resolve binds entry to an export address, trying the canonical name and
// then each alias in order. All names absent yields symbol_not_found.
func (r *Resolver) Resolve(entry variant.SymbolEntry) (Proc, error) {
	r.mu.RLock()
	out, ok := r.cache[entry.Name]
	r.mu.RUnlock()
	if ok {
		return out.proc, out.err
	}

	out = r.lookup(entry)

	r.mu.Lock()
	// first writer wins so concurrent resolvers agree on the outcome
	if prev, ok := r.cache[entry.Name]; ok {
		out = prev
	} else {
		r.cache[entry.Name] = out
	}
	r.mu.Unlock()

	return out.proc, out.err
}

func (r *Resolver) lookup(entry variant.SymbolEntry) outcome {
	var lastErr error
	for _, name := range entry.Names() {
		addr, err := r.lib.Lookup(name)
		if err == nil && addr != 0 {
			return outcome{proc: Proc{Bound: name, Addr: addr}}
		}
		lastErr = err
	}
	return outcome{err: errors.SymbolNotFound(entry.Name, lastErr)}
}

// Available reports whether entry resolves, caching the outcome exactly
// like Resolve without exposing the address.
func (r *Resolver) Available(entry variant.SymbolEntry) bool {
	_, err := r.Resolve(entry)
	return err == nil
}
