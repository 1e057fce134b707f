package access

import (
	"encoding/binary"
	"testing"

	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

const regionBase = uintptr(0x10000)

// fakeMemory backs a synthetic structure region starting at regionBase
// so extraction can be verified without a live runtime.
type fakeMemory struct {
	region []byte
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{region: make([]byte, size)}
}

func (m *fakeMemory) slice(addr uintptr, n int) ([]byte, error) {
	off := int(addr - regionBase)
	if addr < regionBase || off+n > len(m.region) {
		return nil, errors.InvalidHandle("address outside fake region")
	}
	return m.region[off : off+n], nil
}

func (m *fakeMemory) ReadU8(addr uintptr) (uint8, error) {
	b, err := m.slice(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *fakeMemory) ReadU16(addr uintptr) (uint16, error) {
	b, err := m.slice(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (m *fakeMemory) ReadU32(addr uintptr) (uint32, error) {
	b, err := m.slice(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *fakeMemory) ReadU64(addr uintptr) (uint64, error) {
	b, err := m.slice(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *fakeMemory) ReadPtr(addr uintptr) (uintptr, error) {
	v, err := m.ReadU64(addr)
	return uintptr(v), err
}

func (m *fakeMemory) WriteU8(addr uintptr, value uint8) error {
	b, err := m.slice(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (m *fakeMemory) WriteU16(addr uintptr, value uint16) error {
	b, err := m.slice(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (m *fakeMemory) WriteU32(addr uintptr, value uint32) error {
	b, err := m.slice(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (m *fakeMemory) WriteU64(addr uintptr, value uint64) error {
	b, err := m.slice(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

func (m *fakeMemory) WritePtr(addr uintptr, value uintptr) error {
	return m.WriteU64(addr, uint64(value))
}

func TestReadRawBitExtraction(t *testing.T) {
	mem := newFakeMemory(64)
	binary.LittleEndian.PutUint32(mem.region[0x18:], 1<<18)

	d := variant.FieldDescriptor{
		Struct: variant.StructClass, Offset: 0x18, Word: 4,
		Shift: 18, Width: 1,
	}
	v, err := ReadRaw(mem, regionBase, d, 64)
	if err != nil {
		t.Fatalf("ReadRaw() error = %v", err)
	}
	if v != 1 {
		t.Errorf("ReadRaw() = %d, want 1", v)
	}

	// Neighboring bits must not leak into the extraction.
	binary.LittleEndian.PutUint32(mem.region[0x18:], (1<<17)|(1<<19))
	v, err = ReadRaw(mem, regionBase, d, 64)
	if err != nil {
		t.Fatalf("ReadRaw() error = %v", err)
	}
	if v != 0 {
		t.Errorf("ReadRaw() = %d, want 0 with only neighbors set", v)
	}
}

func TestReadBoolBitMode(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{
		Struct: variant.StructClass, Offset: 0x18, Word: 4,
		Shift: 18, Width: 1,
	}

	got, err := ReadBool(mem, regionBase, d, 64)
	if err != nil {
		t.Fatalf("ReadBool() error = %v", err)
	}
	if got {
		t.Error("clear bit should read false")
	}

	binary.LittleEndian.PutUint32(mem.region[0x18:], 1<<18)
	got, err = ReadBool(mem, regionBase, d, 64)
	if err != nil {
		t.Fatalf("ReadBool() error = %v", err)
	}
	if !got {
		t.Error("set bit should read true")
	}
}

func TestReadBoolEqualsMode(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{
		Struct: variant.StructClass, Offset: 0x1e, Word: 1,
		Width: 3, Mode: variant.ModeEquals, Equals: 2,
	}

	tests := []struct {
		kind byte
		want bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, false},
		// High bits beyond the 3-bit slice must be masked off.
		{2 | 0x18, true},
		{3 | 0x18, false},
	}
	for _, tt := range tests {
		mem.region[0x1e] = tt.kind
		got, err := ReadBool(mem, regionBase, d, 64)
		if err != nil {
			t.Fatalf("ReadBool(kind=%#x) error = %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("ReadBool(kind=%#x) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestReadRawNilBase(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{Offset: 0, Word: 4}

	_, err := ReadRaw(mem, 0, d, 64)
	if !errors.IsInvalidHandle(err) {
		t.Errorf("ReadRaw(nil base) error = %v, want invalid_handle", err)
	}
}

func TestReadRawOutOfBounds(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{Offset: 288, Word: 8}

	// A descriptor valid for the legacy layout must be rejected against
	// the smaller bleeding-edge structure before any memory is touched.
	_, err := ReadRaw(mem, regionBase, d, 32)
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindOutOfBounds {
		t.Errorf("ReadRaw() error = %v, want out_of_bounds", err)
	}
}

func TestReadPtr(t *testing.T) {
	mem := newFakeMemory(64)
	binary.LittleEndian.PutUint64(mem.region[16:], 0xcafef00d)

	d := variant.FieldDescriptor{Offset: 16, Word: 8}
	p, err := ReadPtr(mem, regionBase, d, 64)
	if err != nil {
		t.Fatalf("ReadPtr() error = %v", err)
	}
	if p != 0xcafef00d {
		t.Errorf("ReadPtr() = %#x, want 0xcafef00d", p)
	}
}

func TestReadPtrRejectsPartialWord(t *testing.T) {
	mem := newFakeMemory(64)
	tests := []variant.FieldDescriptor{
		{Offset: 16, Word: 4},
		{Offset: 16, Word: 8, Shift: 1, Width: 63},
	}
	for _, d := range tests {
		if _, err := ReadPtr(mem, regionBase, d, 64); err == nil {
			t.Errorf("ReadPtr(%+v) should fail", d)
		}
	}
}

func TestWriteRawWholeWord(t *testing.T) {
	mem := newFakeMemory(320)
	d := variant.FieldDescriptor{Offset: 288, Word: 8}

	if err := WriteRaw(mem, regionBase, d, 320, 0xdead); err != nil {
		t.Fatalf("WriteRaw() error = %v", err)
	}
	got := binary.LittleEndian.Uint64(mem.region[288:])
	if got != 0xdead {
		t.Errorf("stored value = %#x, want 0xdead", got)
	}
}

func TestWriteRawRejectsPartialWord(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{Offset: 0x18, Word: 4, Shift: 18, Width: 1}

	err := WriteRaw(mem, regionBase, d, 64, 1)
	if err == nil {
		t.Fatal("WriteRaw() on a bit slice should fail")
	}
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindInvalidInput {
		t.Errorf("error = %v, want invalid_input", err)
	}
	// The word must be untouched.
	if got := binary.LittleEndian.Uint32(mem.region[0x18:]); got != 0 {
		t.Errorf("flags word = %#x after rejected write", got)
	}
}

func TestWriteRawNilBase(t *testing.T) {
	mem := newFakeMemory(64)
	d := variant.FieldDescriptor{Offset: 0, Word: 8}
	if err := WriteRaw(mem, 0, d, 64, 1); !errors.IsInvalidHandle(err) {
		t.Errorf("WriteRaw(nil base) error = %v, want invalid_handle", err)
	}
}

func TestWordSizes(t *testing.T) {
	mem := newFakeMemory(64)
	mem.region[0] = 0xab
	binary.LittleEndian.PutUint16(mem.region[2:], 0xbeef)
	binary.LittleEndian.PutUint32(mem.region[4:], 0xdeadbeef)
	binary.LittleEndian.PutUint64(mem.region[8:], 0x0102030405060708)

	tests := []struct {
		d    variant.FieldDescriptor
		want uint64
	}{
		{variant.FieldDescriptor{Offset: 0, Word: 1}, 0xab},
		{variant.FieldDescriptor{Offset: 2, Word: 2}, 0xbeef},
		{variant.FieldDescriptor{Offset: 4, Word: 4}, 0xdeadbeef},
		{variant.FieldDescriptor{Offset: 8, Word: 8}, 0x0102030405060708},
	}
	for _, tt := range tests {
		v, err := ReadRaw(mem, regionBase, tt.d, 64)
		if err != nil {
			t.Fatalf("ReadRaw(word=%d) error = %v", tt.d.Word, err)
		}
		if v != tt.want {
			t.Errorf("ReadRaw(word=%d) = %#x, want %#x", tt.d.Word, v, tt.want)
		}
	}
}
