package dispatch

import (
	"fmt"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
)

const (
	// DefaultHopBudget is the forwarding limit used when Config.HopBudget is zero.
	DefaultHopBudget = 16
	// DefaultMaxFlush is the queue limit used when Config.MaxFlush is zero.
	DefaultMaxFlush = 1024
)

// Tree is the widget hierarchy the dispatcher consults for parent forwards,
// subtree targets and the root target.
type Tree interface {
	Root() ids.WidgetID
	Parent(w ids.WidgetID) (ids.WidgetID, bool)
	Walk(w ids.WidgetID, fn func(ids.WidgetID) bool)
}

// Config configures a Dispatcher.
type Config struct {
	// HopBudget bounds the adapter forwards of one dispatch call.
	HopBudget int
	// MaxFlush bounds the queued events processed by one Flush. Negative
	// means unbounded.
	MaxFlush int
	// RecoverPanics recovers handler panics and reports them instead of
	// letting them unwind through the dispatcher.
	RecoverPanics bool
	// Tree resolves parent forwards and subtree/root targets. Optional.
	Tree Tree
	// OnState observes every state transition of a dispatch call.
	OnState func(env event.Envelope, state State)
}

type queued struct {
	target event.Target
	env    event.Envelope
}

type hop struct {
	widget ids.WidgetID
	kind   event.Kind
}

// Dispatcher routes envelopes through a Registry. It is not safe for
// concurrent use; a host running several widget trees on different
// goroutines gives each its own Dispatcher.
type Dispatcher struct {
	reg    *event.Registry
	cfg    Config
	queue  []queued
	active bool
}

// New creates a dispatcher over reg.
func New(reg *event.Registry, cfg Config) *Dispatcher {
	if cfg.HopBudget <= 0 {
		cfg.HopBudget = DefaultHopBudget
	}
	if cfg.MaxFlush == 0 {
		cfg.MaxFlush = DefaultMaxFlush
	}
	return &Dispatcher{reg: reg, cfg: cfg}
}

// Registry returns the registry the dispatcher reads.
func (d *Dispatcher) Registry() *event.Registry {
	return d.reg
}

// HopBudget returns the configured forwarding limit.
func (d *Dispatcher) HopBudget() int {
	return d.cfg.HopBudget
}

// Dispatch delivers env to its resolved target and follows adapters.
//
// Calling Dispatch from inside a handler does not deliver re-entrantly: the
// envelope is queued and the call returns a Deferred outcome.
func (d *Dispatcher) Dispatch(env event.Envelope) Outcome {
	if d.active {
		d.Enqueue(event.ToWidget(env.Resolve()), env)
		d.transition(env, Deferred)
		return Outcome{State: Deferred}
	}
	d.active = true
	defer func() { d.active = false }()

	d.transition(env, Pending)
	var out Outcome
	d.deliver(env, d.cfg.HopBudget, nil, &out)
	out.finish()
	d.transition(env, out.State)

	if out.State == CycleAborted {
		var last ids.WidgetID
		if len(out.Path) > 0 {
			last = out.Path[len(out.Path)-1]
		}
		relayErr := &errors.RelayError{
			Op:     "dispatch.Dispatch",
			Kind:   errors.KindCycle,
			Widget: uint64(last),
			Err: fmt.Errorf("%w: kind %q from %v after %d hops",
				errors.ErrCycleAborted, env.Kind, env.Resolve(), out.Hops),
		}
		out.Err = relayErr
		errors.Report(relayErr)
	}
	return out
}

// deliver runs the entries of env's target. It returns false once the cycle
// guard has aborted the call.
func (d *Dispatcher) deliver(env event.Envelope, budget int, path []hop, out *Outcome) bool {
	d.transition(env, Resolving)
	target := env.Resolve()
	if target == 0 {
		return true
	}
	out.Path = append(out.Path, target)
	path = append(path, hop{widget: target, kind: env.Kind})

	ctx := &event.Context{Widget: target, Envelope: env, Queue: d}
	for _, e := range d.reg.Lookup(target, env.Kind) {
		// An earlier handler may have torn down the widget or removed e.
		if !d.reg.Registered(e.ID) {
			continue
		}
		if e.Adapter == nil {
			d.transition(env, Delivering)
			d.invoke(e, ctx)
			out.Invoked++
			if ctx.Consumed() {
				// Only this widget's remaining handlers are skipped.
				out.consumed = true
				break
			}
			continue
		}

		dest, ok := d.destination(target, e.Adapter)
		if !ok {
			continue
		}
		next, ok := e.Adapter.Apply(env, dest)
		if !ok {
			continue
		}
		d.transition(env, Forwarding)
		if budget <= 0 || onPath(path, hop{widget: dest, kind: next.Kind}) {
			out.aborted = true
			return false
		}
		out.Hops++
		if !d.deliver(next, budget-1, path, out) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) destination(from ids.WidgetID, a *event.Adapter) (ids.WidgetID, bool) {
	if a.To != 0 {
		return a.To, true
	}
	if d.cfg.Tree == nil {
		return 0, false
	}
	return d.cfg.Tree.Parent(from)
}

func (d *Dispatcher) invoke(e event.Entry, ctx *event.Context) {
	if d.cfg.RecoverPanics {
		defer errors.RecoverHandler("dispatch.invoke", uint64(ctx.Widget), uint64(e.ID))
	}
	e.Handler.HandleEvent(ctx)
}

func (d *Dispatcher) transition(env event.Envelope, s State) {
	if d.cfg.OnState != nil {
		d.cfg.OnState(env, s)
	}
}

func onPath(path []hop, h hop) bool {
	for _, p := range path {
		if p == h {
			return true
		}
	}
	return false
}
