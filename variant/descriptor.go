package variant

import (
	"fmt"

	"github.com/hostbridge/monoshim/errors"
)

// StructKind names the foreign structure a field descriptor reads from.
// Bounds checks use the per-variant minimum size of that structure.
type StructKind uint8

const (
	StructClass StructKind = iota
	StructMethod
	StructReflectionMethod
)

func (k StructKind) String() string {
	switch k {
	case StructClass:
		return "class"
	case StructMethod:
		return "method"
	case StructReflectionMethod:
		return "reflection-method"
	default:
		return fmt.Sprintf("struct(%d)", uint8(k))
	}
}

// Mode selects how an extracted field value is interpreted.
type Mode uint8

const (
	// ModeBits extracts (word >> Shift) & mask(Width); boolean use treats
	// any nonzero result as true. This covers flag words such as the
	// legacy build's "is generic definition" at bit 18.
	ModeBits Mode = iota

	// ModeEquals extracts the same masked value and compares it against
	// Equals. This covers discriminant fields such as the bleeding-edge
	// build's class kind, where kind == 2 means generic definition.
	ModeEquals
)

func (m Mode) String() string {
	if m == ModeEquals {
		return "equals"
	}
	return "bits"
}

// FieldDescriptor describes how to extract a logical value from a raw
// foreign memory region: which structure it belongs to, the byte offset
// of the word holding it, the word size read, and the bit slice within
// that word.
type FieldDescriptor struct {
	Struct StructKind
	Offset uint32 // byte offset from the handle base
	Word   uint8  // bytes read at Offset: 1, 2, 4, or 8
	Shift  uint8  // starting bit within the word
	Width  uint8  // bits extracted; 0 means the whole word
	Mode   Mode
	Equals uint64 // compared against the masked value in ModeEquals
}

// EffectiveWidth returns the extracted bit width, defaulting to the full
// word for descriptors declared with Width 0.
func (d FieldDescriptor) EffectiveWidth() uint8 {
	if d.Width == 0 {
		return d.Word * 8
	}
	return d.Width
}

// Mask returns the value mask for the extracted bit slice.
func (d FieldDescriptor) Mask() uint64 {
	w := d.EffectiveWidth()
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

// Validate checks internal consistency and that the descriptor stays
// inside a structure of structSize bytes. A descriptor that fails
// validation must never be used for a read: a wrong offset silently
// misreads foreign state.
func (d FieldDescriptor) Validate(structSize uint32) error {
	switch d.Word {
	case 1, 2, 4, 8:
	default:
		return errors.InvalidInput(errors.PhaseField,
			fmt.Sprintf("descriptor word size %d", d.Word))
	}
	if uint32(d.Shift)+uint32(d.EffectiveWidth()) > uint32(d.Word)*8 {
		return errors.InvalidInput(errors.PhaseField,
			fmt.Sprintf("bit slice [%d, %d) exceeds %d-byte word",
				d.Shift, uint32(d.Shift)+uint32(d.EffectiveWidth()), d.Word))
	}
	if d.Offset+uint32(d.Word) > structSize {
		return errors.OutOfBounds(d.Offset, uint32(d.Word), structSize)
	}
	return nil
}

// WholeWord reports whether the descriptor covers its word exactly.
// Only whole-word descriptors may be written: a masked read-modify-write
// of a live foreign flags word cannot be made atomic from outside the
// runtime.
func (d FieldDescriptor) WholeWord() bool {
	return d.Shift == 0 && d.EffectiveWidth() == d.Word*8
}
