// Package hwsecerr defines the error kinds shared by every stage of the
// key-recovery pipeline (spec: BadInput, ShapeMismatch, InvalidSample,
// SelfTestFailed, Cancelled). All pipeline errors are fatal; none are
// retried, and no stage swallows one.
package hwsecerr

import "fmt"

// Kind classifies a pipeline error.
type Kind int

const (
	// BadInput covers invalid N, invalid target bit, or a malformed
	// input file.
	BadInput Kind = iota
	// ShapeMismatch covers disagreeing sample lengths between an
	// observation and a hypothesis.
	ShapeMismatch
	// InvalidSample covers zero variance in a correlation input.
	InvalidSample
	// SelfTestFailed covers a DES primitives self-check failure.
	SelfTestFailed
	// Cancelled covers a tripped cancellation hook.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "BadInput"
	case ShapeMismatch:
		return "ShapeMismatch"
	case InvalidSample:
		return "InvalidSample"
	case SelfTestFailed:
		return "SelfTestFailed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the single error type every package in this module returns
// for pipeline failures. Callers branch on Kind, never on message text.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds a *Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
