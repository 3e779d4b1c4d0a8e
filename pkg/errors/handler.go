package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// handlerSlot boxes the active handler so it can live in an atomic pointer
// whatever its concrete type.
type handlerSlot struct {
	h ErrorHandler
}

var active atomic.Pointer[handlerSlot]

func init() {
	active.Store(&handlerSlot{h: &LogHandler{}})
}

// SetHandler replaces the handler that receives reports from every widget
// tree in the process. Nil restores a LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	active.Store(&handlerSlot{h: h})
}

// Handler returns the active handler.
func Handler() ErrorHandler {
	return active.Load().h
}

// Report stamps err and passes it to the active handler.
func Report(err *RelayError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic stamps err and passes it to the active handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// RecoverHandler reports a panic escaping the event handler with id handler
// while it ran on widget. It must be deferred directly:
//
//	defer errors.RecoverHandler("dispatch.invoke", uint64(w), uint64(id))
func RecoverHandler(op string, widget, handler uint64) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		Widget:     widget,
		Handler:    handler,
		StackTrace: panicStack(),
	})
}

// panicStack formats the goroutine's frames above RecoverHandler, leaving
// out the runtime's panic machinery.
func panicStack() string {
	var pcs [32]uintptr
	// Skip runtime.Callers, panicStack and RecoverHandler.
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return sb.String()
}
