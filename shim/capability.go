package shim

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/hostbridge/monoshim/access"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/resolve"
	"github.com/hostbridge/monoshim/variant"
)

// backing is the entry point of every operation: enforce the state
// machine, then look the capability up in the frozen table.
func (s *Shim) backing(cap variant.Capability) (variant.Backing, error) {
	if !s.ready.Load() {
		return variant.Backing{}, errors.NotInitialized(string(cap))
	}
	b, ok := s.layout.Lookup(cap)
	if !ok {
		return variant.Backing{}, errors.Unsupported(string(cap))
	}
	return b, nil
}

// proc resolves the export backing cap. A missing symbol surfaces as
// unsupported for the capability, per call, never as a startup failure.
func (s *Shim) proc(cap variant.Capability) (resolve.Proc, error) {
	b, err := s.backing(cap)
	if err != nil {
		return resolve.Proc{}, err
	}
	if !b.IsSymbol() {
		return resolve.Proc{}, errors.InvalidInput(errors.PhaseCall,
			"capability "+string(cap)+" is field-backed")
	}
	p, err := s.resolver.Resolve(*b.Symbol)
	if err != nil {
		return resolve.Proc{}, errors.New(errors.PhaseCall, errors.KindUnsupported).
			Capability(string(cap)).
			Symbol(b.Symbol.Name).
			Cause(err).
			Detail("backing export absent in %s build", s.build).
			Build()
	}
	return p, nil
}

// call relays a symbol-backed capability to the foreign runtime.
func (s *Shim) call(cap variant.Capability, args ...uintptr) (uintptr, error) {
	p, err := s.proc(cap)
	if err != nil {
		return 0, err
	}
	return s.inv.Call(p.Addr, args...)
}

// queryBool serves a boolean predicate through whichever backing the
// active build declares: raw field extraction or a foreign call whose
// nonzero result means true.
func (s *Shim) queryBool(cap variant.Capability, base uintptr) (bool, error) {
	b, err := s.backing(cap)
	if err != nil {
		return false, err
	}
	if b.IsField() {
		return access.ReadBool(s.mem, base, *b.Field, s.layout.StructSize(b.Field.Struct))
	}
	if base == 0 {
		return false, errors.InvalidHandle("nil handle")
	}
	r, err := s.call(cap, base)
	if err != nil {
		return false, err
	}
	return r != 0, nil
}

// queryPtr serves a pointer-returning accessor through either backing.
func (s *Shim) queryPtr(cap variant.Capability, base uintptr) (uintptr, error) {
	b, err := s.backing(cap)
	if err != nil {
		return 0, err
	}
	if b.IsField() {
		return access.ReadPtr(s.mem, base, *b.Field, s.layout.StructSize(b.Field.Struct))
	}
	if base == 0 {
		return 0, errors.InvalidHandle("nil handle")
	}
	return s.call(cap, base)
}

// storePtr serves a pointer-storing mutator through either backing.
func (s *Shim) storePtr(cap variant.Capability, base, value uintptr) error {
	b, err := s.backing(cap)
	if err != nil {
		return err
	}
	if b.IsField() {
		return access.WriteRaw(s.mem, base, *b.Field, s.layout.StructSize(b.Field.Struct), uint64(value))
	}
	if base == 0 {
		return errors.InvalidHandle("nil handle")
	}
	_, err = s.call(cap, base, value)
	return err
}

// cstr returns s as a NUL-terminated byte buffer for foreign calls. The
// caller must keep the buffer alive across the call with
// runtime.KeepAlive.
func cstr(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func bufPtr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// readCString copies the NUL-terminated string at addr out of foreign
// memory. Reads are capped so a missing terminator cannot run away.
const maxCString = 4096

func (s *Shim) readCString(addr uintptr) (string, error) {
	if addr == 0 {
		return "", nil
	}
	buf := make([]byte, 0, 64)
	for i := uintptr(0); i < maxCString; i++ {
		c, err := s.mem.ReadU8(addr + i)
		if err != nil {
			return "", err
		}
		if c == 0 {
			return string(buf), nil
		}
		buf = append(buf, c)
	}
	return "", errors.InvalidInput(errors.PhaseField, "unterminated foreign string")
}

// callbackSet retains every foreign-callable pointer the shim creates.
// Installed callback slots live for the process lifetime, so records are
// never released.
type callbackSet struct {
	mu   sync.Mutex
	fns  []any
	ptrs []uintptr
}

// make converts fn into a foreign-callable pointer, retaining fn. A nil
// fn becomes the null callback pointer, for slots the runtime treats as
// optional.
func (c *callbackSet) make(s *Shim, fn any) (uintptr, error) {
	if fn == nil || isNilFunc(fn) {
		return 0, nil
	}
	ptr, err := s.inv.MakeCallback(fn)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.ptrs = append(c.ptrs, ptr)
	c.mu.Unlock()
	return ptr, nil
}

func isNilFunc(fn any) bool {
	v := reflect.ValueOf(fn)
	return v.Kind() == reflect.Func && v.IsNil()
}
