package monoshim

import (
	"unsafe"

	"github.com/hostbridge/monoshim/errors"
)

// Memory reads and writes foreign process memory at absolute addresses.
//
// The production implementation is NativeMemory; tests substitute
// slice-backed fakes so field extraction can be verified against
// synthetic regions without touching live runtime structures.
type Memory interface {
	ReadU8(addr uintptr) (uint8, error)
	ReadU16(addr uintptr) (uint16, error)
	ReadU32(addr uintptr) (uint32, error)
	ReadU64(addr uintptr) (uint64, error)
	ReadPtr(addr uintptr) (uintptr, error)
	WriteU8(addr uintptr, value uint8) error
	WriteU16(addr uintptr, value uint16) error
	WriteU32(addr uintptr, value uint32) error
	WriteU64(addr uintptr, value uint64) error
	WritePtr(addr uintptr, value uintptr) error
}

// NativeMemory implements Memory with direct loads and stores. It performs
// nil and alignment checks but cannot validate that an address belongs to
// a live foreign object; that remains a caller obligation.
type NativeMemory struct{}

// NewNativeMemory returns a Memory backed by the current process address
// space.
func NewNativeMemory() NativeMemory {
	return NativeMemory{}
}

func checkAddr(addr uintptr, align uintptr) error {
	if addr == 0 {
		return errors.InvalidHandle("nil address")
	}
	if addr%align != 0 {
		return errors.Misaligned(uint64(addr), uint32(align))
	}
	return nil
}

func (NativeMemory) ReadU8(addr uintptr) (uint8, error) {
	if err := checkAddr(addr, 1); err != nil {
		return 0, err
	}
	return *(*uint8)(unsafe.Pointer(addr)), nil
}

func (NativeMemory) ReadU16(addr uintptr) (uint16, error) {
	if err := checkAddr(addr, 2); err != nil {
		return 0, err
	}
	return *(*uint16)(unsafe.Pointer(addr)), nil
}

func (NativeMemory) ReadU32(addr uintptr) (uint32, error) {
	if err := checkAddr(addr, 4); err != nil {
		return 0, err
	}
	return *(*uint32)(unsafe.Pointer(addr)), nil
}

func (NativeMemory) ReadU64(addr uintptr) (uint64, error) {
	if err := checkAddr(addr, 8); err != nil {
		return 0, err
	}
	return *(*uint64)(unsafe.Pointer(addr)), nil
}

func (NativeMemory) ReadPtr(addr uintptr) (uintptr, error) {
	if err := checkAddr(addr, unsafe.Alignof(uintptr(0))); err != nil {
		return 0, err
	}
	return *(*uintptr)(unsafe.Pointer(addr)), nil
}

func (NativeMemory) WriteU8(addr uintptr, value uint8) error {
	if err := checkAddr(addr, 1); err != nil {
		return err
	}
	*(*uint8)(unsafe.Pointer(addr)) = value
	return nil
}

func (NativeMemory) WriteU16(addr uintptr, value uint16) error {
	if err := checkAddr(addr, 2); err != nil {
		return err
	}
	*(*uint16)(unsafe.Pointer(addr)) = value
	return nil
}

func (NativeMemory) WriteU32(addr uintptr, value uint32) error {
	if err := checkAddr(addr, 4); err != nil {
		return err
	}
	*(*uint32)(unsafe.Pointer(addr)) = value
	return nil
}

func (NativeMemory) WriteU64(addr uintptr, value uint64) error {
	if err := checkAddr(addr, 8); err != nil {
		return err
	}
	*(*uint64)(unsafe.Pointer(addr)) = value
	return nil
}

func (NativeMemory) WritePtr(addr uintptr, value uintptr) error {
	if err := checkAddr(addr, unsafe.Alignof(uintptr(0))); err != nil {
		return err
	}
	*(*uintptr)(unsafe.Pointer(addr)) = value
	return nil
}
