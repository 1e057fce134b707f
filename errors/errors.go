package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the shim the error occurred
type Phase string

const (
	PhaseDetect  Phase = "detect"  // variant detection
	PhaseInit    Phase = "init"    // capability table construction
	PhaseResolve Phase = "resolve" // symbol resolution
	PhaseField   Phase = "field"   // raw field access
	PhaseCall    Phase = "call"    // foreign call dispatch
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownVariant Kind = "unknown_variant"  // no known runtime build matched
	KindNotInitialized Kind = "not_initialized"  // capability used before Ready
	KindUnsupported    Kind = "unsupported"      // capability absent in the active build
	KindSymbolNotFound Kind = "symbol_not_found" // export lookup failed on every name
	KindInvalidHandle  Kind = "invalid_handle"   // nil or misaligned handle
	KindOutOfBounds    Kind = "out_of_bounds"    // descriptor outside the known struct size
	KindForeignCall    Kind = "foreign_call"     // the runtime itself signaled an error
	KindInvalidInput   Kind = "invalid_input"
	KindOpenFailed     Kind = "open_failed"
)

// Error is the structured error type used throughout the shim
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	Capability string
	Symbol     string
	Detail     string

	// Exception holds the address of the managed exception object the
	// runtime produced, when there is one. It is relayed verbatim and
	// remains owned by the runtime.
	Exception uintptr
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Capability != "" {
		b.WriteString(" for ")
		b.WriteString(e.Capability)
	}
	if e.Symbol != "" {
		b.WriteString(" symbol ")
		b.WriteString(e.Symbol)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Exception != 0 {
		fmt.Fprintf(&b, " (managed exception at %#x)", e.Exception)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Capability sets the logical operation name
func (b *Builder) Capability(name string) *Builder {
	b.err.Capability = name
	return b
}

// Symbol sets the export name involved
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Exception sets the managed exception object address
func (b *Builder) Exception(addr uintptr) *Builder {
	b.err.Exception = addr
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownVariant creates the fatal detection failure error
func UnknownVariant(detail string) *Error {
	return &Error{
		Phase:  PhaseDetect,
		Kind:   KindUnknownVariant,
		Detail: detail,
	}
}

// NotInitialized creates an error for capability use before Ready
func NotInitialized(capability string) *Error {
	return &Error{
		Phase:      PhaseCall,
		Kind:       KindNotInitialized,
		Capability: capability,
		Detail:     "shim not initialized",
	}
}

// Unsupported creates an error for a capability the active build lacks
func Unsupported(capability string) *Error {
	return &Error{
		Phase:      PhaseCall,
		Kind:       KindUnsupported,
		Capability: capability,
		Detail:     "not available in the active runtime build",
	}
}

// SymbolNotFound creates an export lookup failure
func SymbolNotFound(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindSymbolNotFound,
		Symbol: name,
		Cause:  cause,
	}
}

// InvalidHandle creates an error for a nil or unusable handle
func InvalidHandle(detail string) *Error {
	return &Error{
		Phase:  PhaseField,
		Kind:   KindInvalidHandle,
		Detail: detail,
	}
}

// Misaligned creates an error for a handle that violates field alignment
func Misaligned(addr uint64, align uint32) *Error {
	return &Error{
		Phase:  PhaseField,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("address %#x not aligned to %d", addr, align),
	}
}

// OutOfBounds creates an error for a descriptor outside the known struct
func OutOfBounds(offset, width, structSize uint32) *Error {
	return &Error{
		Phase:  PhaseField,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("field [%d, %d) outside struct of %d bytes", offset, offset+width, structSize),
	}
}

// ForeignCall creates an error relaying a failure the runtime reported.
// exception may be 0 when the runtime signaled failure without producing
// a managed exception object.
func ForeignCall(capability string, exception uintptr) *Error {
	return &Error{
		Phase:      PhaseCall,
		Kind:       KindForeignCall,
		Capability: capability,
		Detail:     "runtime call failed",
		Exception:  exception,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Open creates a library loading error
func Open(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindOpenFailed,
		Detail: path,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Kind predicates used by callers probing for graceful degradation

func kindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsUnsupported reports whether err means the capability is absent in the
// active runtime build.
func IsUnsupported(err error) bool {
	return kindOf(err) == KindUnsupported
}

// IsNotInitialized reports whether err means the shim was not Ready.
func IsNotInitialized(err error) bool {
	return kindOf(err) == KindNotInitialized
}

// IsUnknownVariant reports whether err is the fatal detection failure.
func IsUnknownVariant(err error) bool {
	return kindOf(err) == KindUnknownVariant
}

// IsInvalidHandle reports whether err was caused by a nil, misaligned, or
// out-of-range handle.
func IsInvalidHandle(err error) bool {
	return kindOf(err) == KindInvalidHandle
}
