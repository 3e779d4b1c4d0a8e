// Package errors provides structured error handling for the relay toolkit.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinel errors wrapped by RelayError values. Match them with errors.Is.
var (
	// ErrInvalidScale is returned when a scale factor is zero, negative or not finite.
	ErrInvalidScale = stderrors.New("invalid scale factor")
	// ErrCycleAborted is reported when a forwarding chain exceeds its hop budget
	// or revisits a widget already on its path.
	ErrCycleAborted = stderrors.New("forwarding cycle aborted")
	// ErrAllocatorExhausted is the panic value cause when an id counter overflows.
	ErrAllocatorExhausted = stderrors.New("id allocator exhausted")
	// ErrHandlerNotFound is reported when removing a handler that is not registered.
	ErrHandlerNotFound = stderrors.New("handler not registered")
	// ErrUnknownWidget is returned for widget ids the tree does not know.
	ErrUnknownWidget = stderrors.New("unknown widget")
	// ErrQueueOverflow is reported when a queue flush exceeds its event limit.
	ErrQueueOverflow = stderrors.New("event queue overflow")
	// ErrInvalidConfig is returned when relay.yaml holds unusable values.
	ErrInvalidConfig = stderrors.New("invalid configuration")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidScale indicates a rejected coordinate scale factor.
	KindInvalidScale
	// KindCycle indicates a forwarding chain that hit the cycle guard.
	KindCycle
	// KindExhausted indicates an id counter ran out of values.
	KindExhausted
	// KindRegistry indicates a handler registry diagnostic.
	KindRegistry
	// KindTree indicates an invalid widget tree operation.
	KindTree
	// KindQueue indicates an event queue failure.
	KindQueue
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidScale:
		return "invalid-scale"
	case KindCycle:
		return "cycle"
	case KindExhausted:
		return "exhausted"
	case KindRegistry:
		return "registry"
	case KindTree:
		return "tree"
	case KindQueue:
		return "queue"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// RelayError represents a structured error in the relay toolkit.
type RelayError struct {
	// Op is the operation that failed (e.g., "dispatch.Dispatch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Widget is the widget id involved, or zero.
	Widget uint64
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RelayError) Error() string {
	if e.Widget != 0 {
		return fmt.Sprintf("%s [%s] widget=%d: %v", e.Op, e.Kind, e.Widget, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// New returns a RelayError for op wrapping err.
func New(op string, kind ErrorKind, err error) *RelayError {
	return &RelayError{Op: op, Kind: kind, Err: err}
}

// PanicError is a panic recovered from an event handler.
type PanicError struct {
	// Op is the operation that panicked (e.g., "dispatch.invoke").
	Op string
	// Value is the value passed to panic().
	Value any
	// Widget is the widget the handler ran on, or zero.
	Widget uint64
	// Handler is the id of the panicking handler, or zero.
	Handler uint64
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	var where string
	switch {
	case e.Widget != 0 && e.Handler != 0:
		where = fmt.Sprintf(" (widget=%d handler=%d)", e.Widget, e.Handler)
	case e.Widget != 0:
		where = fmt.Sprintf(" (widget=%d)", e.Widget)
	}
	if e.Op != "" {
		return fmt.Sprintf("panic in %s%s: %v", e.Op, where, e.Value)
	}
	return fmt.Sprintf("panic%s: %v", where, e.Value)
}

// ErrorHandler receives errors reported by the toolkit.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RelayError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
