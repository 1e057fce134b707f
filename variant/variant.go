package variant

import (
	"strings"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/errors"
)

// Variant identifies a supported Mono runtime build. The zero value is
// Unknown; a process selects a variant exactly once and never changes it.
type Variant int

const (
	Unknown Variant = iota

	// Legacy is the classic mono runtime shipped with older Unity
	// versions (mono.dll / libmono.so).
	Legacy

	// BleedingEdge is the MonoBleedingEdge runtime shipped with newer
	// Unity versions (mono-2.0-bdwgc).
	BleedingEdge
)

func (v Variant) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case BleedingEdge:
		return "bleeding-edge"
	default:
		return "unknown"
	}
}

// LibraryName returns the base name of the shared library for this build,
// without platform prefix or extension.
func (v Variant) LibraryName() string {
	switch v {
	case Legacy:
		return "mono"
	case BleedingEdge:
		return "mono-2.0-bdwgc"
	default:
		return ""
	}
}

// Known variants in detection priority order.
func Known() []Variant {
	return []Variant{BleedingEdge, Legacy}
}

// probe is one detection rule: a build matches when every required export
// is present and every excluded export is absent.
type probe struct {
	variant Variant
	require []string
	absent  []string
}

// Probes run in order; the first full match wins. BleedingEdge is probed
// first because its export set is a strict superset of the discriminating
// legacy exports.
var probes = []probe{
	{
		variant: BleedingEdge,
		require: []string{
			"mono_unity_class_get_generic_argument_count",
			"mono_type_is_generic_parameter",
			"mono_unity_object_new",
		},
	},
	{
		variant: Legacy,
		require: []string{
			"mono_unity_object_new",
			"mono_class_is_generic",
		},
		absent: []string{
			"mono_unity_class_get_generic_argument_count",
		},
	},
}

// Detect inspects the loaded binary and returns the matching build.
//
// Detection never guesses: if no probe set matches fully, the error is
// unknown_variant and the shim must not be used against the binary.
func Detect(lib monoshim.Library) (Variant, error) {
	if lib == nil {
		return Unknown, errors.InvalidInput(errors.PhaseDetect, "nil library")
	}

	for _, p := range probes {
		if matches(lib, p) {
			return p.variant, nil
		}
	}

	return Unknown, errors.UnknownVariant(
		"no known runtime build matched; probed " + probeSummary())
}

func matches(lib monoshim.Library, p probe) bool {
	for _, name := range p.require {
		if addr, err := lib.Lookup(name); err != nil || addr == 0 {
			return false
		}
	}
	for _, name := range p.absent {
		if addr, err := lib.Lookup(name); err == nil && addr != 0 {
			return false
		}
	}
	return true
}

func probeSummary() string {
	names := make([]string, 0, len(probes))
	for _, p := range probes {
		names = append(names, p.variant.String())
	}
	return strings.Join(names, ", ")
}
