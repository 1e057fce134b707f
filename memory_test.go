package monoshim

import (
	"testing"
	"unsafe"
)

func TestNativeMemoryRoundTrip(t *testing.T) {
	mem := NewNativeMemory()
	var buf [16]uint64
	base := uintptr(unsafe.Pointer(&buf[0]))

	if err := mem.WriteU64(base, 0x0102030405060708); err != nil {
		t.Fatalf("WriteU64() error = %v", err)
	}
	v64, err := mem.ReadU64(base)
	if err != nil {
		t.Fatalf("ReadU64() error = %v", err)
	}
	if v64 != 0x0102030405060708 {
		t.Errorf("ReadU64() = %#x", v64)
	}

	if err := mem.WriteU32(base+8, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32() error = %v", err)
	}
	v32, err := mem.ReadU32(base + 8)
	if err != nil {
		t.Fatalf("ReadU32() error = %v", err)
	}
	if v32 != 0xdeadbeef {
		t.Errorf("ReadU32() = %#x", v32)
	}

	if err := mem.WritePtr(base+16, base); err != nil {
		t.Fatalf("WritePtr() error = %v", err)
	}
	p, err := mem.ReadPtr(base + 16)
	if err != nil {
		t.Fatalf("ReadPtr() error = %v", err)
	}
	if p != base {
		t.Errorf("ReadPtr() = %#x, want %#x", p, base)
	}
}

func TestNativeMemoryNilAddress(t *testing.T) {
	mem := NewNativeMemory()
	if _, err := mem.ReadU8(0); err == nil {
		t.Error("ReadU8(0) should fail")
	}
	if err := mem.WriteU64(0, 1); err == nil {
		t.Error("WriteU64(0) should fail")
	}
}

func TestNativeMemoryAlignment(t *testing.T) {
	mem := NewNativeMemory()
	var buf [4]uint64
	base := uintptr(unsafe.Pointer(&buf[0]))

	if _, err := mem.ReadU32(base + 1); err == nil {
		t.Error("misaligned u32 read should fail")
	}
	if _, err := mem.ReadU64(base + 4); err == nil {
		t.Error("misaligned u64 read should fail")
	}
	if err := mem.WriteU16(base+1, 7); err == nil {
		t.Error("misaligned u16 write should fail")
	}
}

func TestHandleNilChecks(t *testing.T) {
	if !Class(0).IsNil() || Class(1).IsNil() {
		t.Error("Class nil check broken")
	}
	if !Method(0).IsNil() || Method(0x1000).IsNil() {
		t.Error("Method nil check broken")
	}
	if !LivenessState(0).IsNil() {
		t.Error("LivenessState nil check broken")
	}
}
