package event

import "github.com/go-drift/relay/pkg/ids"

// TargetMode selects how a queued event is addressed.
type TargetMode uint8

const (
	// TargetWidget delivers to a single widget.
	TargetWidget TargetMode = iota
	// TargetSubTree delivers to a widget and every descendant, parents first.
	TargetSubTree
	// TargetRoot delivers to the root of the widget tree.
	TargetRoot
)

// Target addresses an event pushed onto a dispatch queue.
type Target struct {
	Mode   TargetMode
	Widget ids.WidgetID
}

// ToWidget addresses widget w.
func ToWidget(w ids.WidgetID) Target {
	return Target{Mode: TargetWidget, Widget: w}
}

// ToSubTree addresses w and all of its descendants.
func ToSubTree(w ids.WidgetID) Target {
	return Target{Mode: TargetSubTree, Widget: w}
}

// ToRoot addresses the tree root.
func ToRoot() Target {
	return Target{Mode: TargetRoot}
}

// Queue accepts events for a later top-level dispatch. Handlers use it when
// their work needs another dispatch; dispatching from inside a handler is
// never done synchronously.
type Queue interface {
	Enqueue(target Target, env Envelope)
}

// Context is passed to a handler for one delivery.
type Context struct {
	// Widget is the widget whose handler is running.
	Widget ids.WidgetID
	// Envelope is the event being delivered.
	Envelope Envelope
	// Queue schedules follow-up events. It may be nil outside a dispatcher.
	Queue Queue

	consumed bool
}

// Consume stops delivery to the remaining handlers of this widget.
func (c *Context) Consume() {
	c.consumed = true
}

// Consumed reports whether a handler consumed the event.
func (c *Context) Consumed() bool {
	return c.consumed
}

// Post queues env for target. It is a no-op without a queue.
func (c *Context) Post(target Target, env Envelope) {
	if c.Queue != nil {
		c.Queue.Enqueue(target, env)
	}
}

// Handler handles events delivered to a widget.
type Handler interface {
	HandleEvent(ctx *Context)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx *Context)

// HandleEvent calls f(ctx).
func (f HandlerFunc) HandleEvent(ctx *Context) {
	f(ctx)
}

// Typed returns a Handler that passes payloads of type T to fn and ignores
// anything else.
func Typed[T any](fn func(payload T, ctx *Context)) Handler {
	return HandlerFunc(func(ctx *Context) {
		if v, ok := PayloadAs[T](ctx.Envelope); ok {
			fn(v, ctx)
		}
	})
}

// On registers fn on widget w for key's kind.
func On[T any](reg *Registry, w ids.WidgetID, key Key[T], fn func(payload T, ctx *Context)) ids.HandlerID {
	return reg.Register(w, key.Kind(), Typed(fn))
}
