package access

import (
	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
	"github.com/hostbridge/monoshim/variant"
)

// ReadRaw extracts the masked field value from the structure at base.
// structSize is the active build's minimum size for the owning structure;
// the read never touches memory outside [base, base+structSize).
func ReadRaw(mem monoshim.Memory, base uintptr, d variant.FieldDescriptor, structSize uint32) (uint64, error) {
	if base == 0 {
		return 0, errors.InvalidHandle("nil handle")
	}
	if err := d.Validate(structSize); err != nil {
		return 0, err
	}

	word, err := readWord(mem, base+uintptr(d.Offset), d.Word)
	if err != nil {
		return 0, err
	}
	return (word >> d.Shift) & d.Mask(), nil
}

// ReadBool interprets the field under the descriptor's mode: nonzero for
// bit-test descriptors, discriminant equality for equality-test ones.
func ReadBool(mem monoshim.Memory, base uintptr, d variant.FieldDescriptor, structSize uint32) (bool, error) {
	v, err := ReadRaw(mem, base, d, structSize)
	if err != nil {
		return false, err
	}
	if d.Mode == variant.ModeEquals {
		return v == d.Equals, nil
	}
	return v != 0, nil
}

// ReadPtr reads a pointer-wide field. The descriptor must cover a whole
// 8-byte word.
func ReadPtr(mem monoshim.Memory, base uintptr, d variant.FieldDescriptor, structSize uint32) (uintptr, error) {
	if d.Word != 8 || !d.WholeWord() {
		return 0, errors.InvalidInput(errors.PhaseField, "pointer read requires a whole 8-byte descriptor")
	}
	v, err := ReadRaw(mem, base, d, structSize)
	if err != nil {
		return 0, err
	}
	return uintptr(v), nil
}

// WriteRaw stores value into the field. Only whole-word descriptors are
// writable: a masked read-modify-write of a live foreign word cannot be
// made atomic from outside the runtime.
func WriteRaw(mem monoshim.Memory, base uintptr, d variant.FieldDescriptor, structSize uint32, value uint64) error {
	if base == 0 {
		return errors.InvalidHandle("nil handle")
	}
	if err := d.Validate(structSize); err != nil {
		return err
	}
	if !d.WholeWord() {
		return errors.InvalidInput(errors.PhaseField, "partial-word field is read-only")
	}
	return writeWord(mem, base+uintptr(d.Offset), d.Word, value)
}

func readWord(mem monoshim.Memory, addr uintptr, word uint8) (uint64, error) {
	switch word {
	case 1:
		v, err := mem.ReadU8(addr)
		return uint64(v), err
	case 2:
		v, err := mem.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := mem.ReadU32(addr)
		return uint64(v), err
	case 8:
		return mem.ReadU64(addr)
	default:
		return 0, errors.InvalidInput(errors.PhaseField, "unsupported word size")
	}
}

func writeWord(mem monoshim.Memory, addr uintptr, word uint8, value uint64) error {
	switch word {
	case 1:
		return mem.WriteU8(addr, uint8(value))
	case 2:
		return mem.WriteU16(addr, uint16(value))
	case 4:
		return mem.WriteU32(addr, uint32(value))
	case 8:
		return mem.WriteU64(addr, value)
	default:
		return errors.InvalidInput(errors.PhaseField, "unsupported word size")
	}
}
