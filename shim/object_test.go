package shim

import (
	"testing"
	"unsafe"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
)

// goString reads the NUL-terminated buffer a fake export received. The
// buffer is a live Go allocation owned by the caller of the shim.
func goString(addr uintptr) string {
	var out []byte
	for i := uintptr(0); ; i++ {
		c := *(*byte)(unsafe.Pointer(addr + i))
		if c == 0 {
			return string(out)
		}
		out = append(out, c)
	}
}

// goBytes copies n bytes from a live Go allocation a fake export
// received.
func goBytes(addr uintptr, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = *(*byte)(unsafe.Pointer(addr + uintptr(i)))
	}
	return out
}

func TestNewObject(t *testing.T) {
	tr := newLegacyRuntime()
	addr := tr.lib.exports["mono_unity_object_new"]
	tr.inv.handlers[addr] = func(args []uintptr) uintptr { return 0x4242 }
	s := tr.attach(t)

	obj, err := s.NewObject(monoshim.Domain(0x10), monoshim.Class(0x20))
	if err != nil {
		t.Fatalf("NewObject() error = %v", err)
	}
	if obj != monoshim.Object(0x4242) {
		t.Errorf("NewObject() = %#x", uintptr(obj))
	}

	call := tr.inv.lastCall()
	if len(call.args) != 2 || call.args[0] != 0x10 || call.args[1] != 0x20 {
		t.Errorf("forwarded args = %#v", call.args)
	}

	if _, err := s.NewObject(0, monoshim.Class(0x20)); !errors.IsInvalidHandle(err) {
		t.Errorf("NewObject(nil domain) error = %v, want invalid_handle", err)
	}
}

func TestNewStringPassesCString(t *testing.T) {
	tr := newLegacyRuntime()
	var received string
	tr.export("mono_unity_string_new", func(args []uintptr) uintptr {
		received = goString(args[1])
		return 0x5151
	})
	s := tr.attach(t)

	str, err := s.NewString(monoshim.Domain(0x10), "hello mono")
	if err != nil {
		t.Fatalf("NewString() error = %v", err)
	}
	if str != monoshim.String(0x5151) {
		t.Errorf("NewString() = %#x", uintptr(str))
	}
	if received != "hello mono" {
		t.Errorf("foreign side received %q", received)
	}
}

func TestNewArrayValidation(t *testing.T) {
	tr := newLegacyRuntime()
	tr.export("mono_unity_array_new", func(args []uintptr) uintptr { return 0x6161 })
	s := tr.attach(t)

	if _, err := s.NewArray(monoshim.Domain(1), monoshim.Class(2), -1); err == nil {
		t.Error("negative length should fail")
	}
	if _, err := s.NewArray(0, monoshim.Class(2), 4); !errors.IsInvalidHandle(err) {
		t.Error("nil domain should fail")
	}

	arr, err := s.NewArray(monoshim.Domain(1), monoshim.Class(2), 4)
	if err != nil {
		t.Fatalf("NewArray() error = %v", err)
	}
	if arr != monoshim.Array(0x6161) {
		t.Errorf("NewArray() = %#x", uintptr(arr))
	}
	call := tr.inv.lastCall()
	if call.args[2] != 4 {
		t.Errorf("length arg = %d, want 4", call.args[2])
	}
}

func TestRuntimeInvokeSuccess(t *testing.T) {
	tr := newLegacyRuntime()
	tr.export("mono_unity_runtime_invoke", func(args []uintptr) uintptr {
		return 0x7272
	})
	s := tr.attach(t)

	params := []uintptr{0x1, 0x2}
	obj, err := s.RuntimeInvoke(monoshim.Method(0x30), monoshim.Object(0x40), params)
	if err != nil {
		t.Fatalf("RuntimeInvoke() error = %v", err)
	}
	if obj != monoshim.Object(0x7272) {
		t.Errorf("RuntimeInvoke() = %#x", uintptr(obj))
	}

	call := tr.inv.lastCall()
	if len(call.args) != 4 {
		t.Fatalf("args = %#v, want method/obj/params/exc", call.args)
	}
	if call.args[0] != 0x30 || call.args[1] != 0x40 {
		t.Errorf("receiver args = %#v", call.args[:2])
	}
	if call.args[3] == 0 {
		t.Error("exception out-parameter must be a real slot")
	}
}

func TestRuntimeInvokeManagedException(t *testing.T) {
	tr := newLegacyRuntime()
	tr.export("mono_unity_runtime_invoke", func(args []uintptr) uintptr {
		// The runtime stores the managed exception object into the
		// out-parameter and returns the nil object.
		*(*uintptr)(unsafe.Pointer(args[3])) = 0xbad0b7
		return 0
	})
	s := tr.attach(t)

	_, err := s.RuntimeInvoke(monoshim.Method(0x30), 0, nil)
	if err == nil {
		t.Fatal("RuntimeInvoke() should surface the managed exception")
	}
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindForeignCall {
		t.Fatalf("error = %v, want foreign_call", err)
	}
	if e.Exception != 0xbad0b7 {
		t.Errorf("Exception = %#x, want the handle relayed verbatim", e.Exception)
	}
}

func TestRuntimeInvokeNilMethod(t *testing.T) {
	s := newLegacyRuntime().attach(t)
	if _, err := s.RuntimeInvoke(0, 0, nil); !errors.IsInvalidHandle(err) {
		t.Errorf("RuntimeInvoke(nil method) error = %v, want invalid_handle", err)
	}
}

func TestObjectVTableChain(t *testing.T) {
	tr := newLegacyRuntime()
	tr.export("mono_object_get_vtable", func(args []uintptr) uintptr { return 0x8080 })
	tr.export("mono_vtable_class", func(args []uintptr) uintptr { return 0x9090 })
	tr.export("mono_vtable_domain", func(args []uintptr) uintptr { return 0xa0a0 })
	s := tr.attach(t)

	vt, err := s.ObjectVTable(monoshim.Object(0x1))
	if err != nil {
		t.Fatalf("ObjectVTable() error = %v", err)
	}
	klass, err := s.VTableClass(vt)
	if err != nil {
		t.Fatalf("VTableClass() error = %v", err)
	}
	domain, err := s.VTableDomain(vt)
	if err != nil {
		t.Fatalf("VTableDomain() error = %v", err)
	}
	if klass != monoshim.Class(0x9090) || domain != monoshim.Domain(0xa0a0) {
		t.Errorf("chain = class %#x, domain %#x", uintptr(klass), uintptr(domain))
	}
}
