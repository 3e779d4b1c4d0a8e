// Package ids allocates stable, typed identifiers for widgets, handlers and
// application data.
//
// Ids are monotonically increasing per kind and never reused. Zero is never
// issued and means "no id". An Allocator is normally owned by the widget tree
// root; Global returns a process-wide allocator for code that has no tree.
package ids

import (
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-drift/relay/pkg/errors"
)

// WidgetID identifies a widget within an allocator scope.
type WidgetID uint64

// String returns "widget#N".
func (id WidgetID) String() string {
	return "widget#" + strconv.FormatUint(uint64(id), 10)
}

// IsValid reports whether id was issued by an allocator.
func (id WidgetID) IsValid() bool {
	return id != 0
}

// HandlerID identifies one registered handler or adapter.
type HandlerID uint64

// String returns "handler#N".
func (id HandlerID) String() string {
	return "handler#" + strconv.FormatUint(uint64(id), 10)
}

// Kind names an id space for Allocate.
type Kind string

const (
	// KindWidget is the id space of WidgetID.
	KindWidget Kind = "widget"
	// KindHandler is the id space of HandlerID.
	KindHandler Kind = "handler"
)

// Counter issues strictly increasing ids of type T starting at 1.
// The zero value is ready to use and safe for concurrent use.
type Counter[T ~uint64] struct {
	last atomic.Uint64
}

// Next returns a fresh id. It panics with a *errors.RelayError wrapping
// errors.ErrAllocatorExhausted once every value has been issued.
func (c *Counter[T]) Next() T {
	for {
		last := c.last.Load()
		if last == math.MaxUint64 {
			panic(errors.New("ids.Counter.Next", errors.KindExhausted, errors.ErrAllocatorExhausted))
		}
		if c.last.CompareAndSwap(last, last+1) {
			return T(last + 1)
		}
	}
}

// Last returns the most recently issued id, or zero.
func (c *Counter[T]) Last() T {
	return T(c.last.Load())
}

// Allocator owns one counter per id kind.
type Allocator struct {
	widgets  Counter[WidgetID]
	handlers Counter[HandlerID]

	mu    sync.Mutex
	named map[Kind]*Counter[uint64]
}

// NewAllocator creates an allocator with every counter at zero.
func NewAllocator() *Allocator {
	return &Allocator{named: make(map[Kind]*Counter[uint64])}
}

var global = NewAllocator()

// Global returns the process-wide allocator.
func Global() *Allocator {
	return global
}

// Widget returns a fresh widget id.
func (a *Allocator) Widget() WidgetID {
	return a.widgets.Next()
}

// Handler returns a fresh handler id.
func (a *Allocator) Handler() HandlerID {
	return a.handlers.Next()
}

// Allocate returns a fresh id of the given kind. KindWidget and KindHandler
// share their counters with Widget and Handler.
func (a *Allocator) Allocate(kind Kind) uint64 {
	switch kind {
	case KindWidget:
		return uint64(a.Widget())
	case KindHandler:
		return uint64(a.Handler())
	}
	return a.counter(kind).Next()
}

func (a *Allocator) counter(kind Kind) *Counter[uint64] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.named == nil {
		a.named = make(map[Kind]*Counter[uint64])
	}
	c, ok := a.named[kind]
	if !ok {
		c = &Counter[uint64]{}
		a.named[kind] = c
	}
	return c
}
