// Package ui ties the identity, tree, registry and dispatch layers together
// into one toolkit instance.
//
// A UI owns its id allocator, so two UIs in one process (for example in
// parallel tests) never share widget ids or handler state.
package ui

import (
	"github.com/go-drift/relay/pkg/config"
	"github.com/go-drift/relay/pkg/dispatch"
	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/geometry"
	"github.com/go-drift/relay/pkg/ids"
	"github.com/go-drift/relay/pkg/props"
	"github.com/go-drift/relay/pkg/tree"
)

// Options configures a UI.
type Options struct {
	// RootName names the root widget. Defaults to "root".
	RootName string
	// Allocator issues ids. Nil creates a tree-scoped allocator.
	Allocator *ids.Allocator
	// Scale is the initial display scale. Zero means 1.
	Scale float64
	// HopBudget, MaxFlush and RecoverPanics configure the dispatcher.
	HopBudget     int
	MaxFlush      int
	RecoverPanics bool
	// Diagnostics reports removals of unknown handlers.
	Diagnostics bool
	// OnState observes dispatch state transitions.
	OnState func(env event.Envelope, state dispatch.State)
}

// UI is one widget tree with its dispatcher.
type UI struct {
	alloc      *ids.Allocator
	tree       *tree.Tree
	registry   *event.Registry
	dispatcher *dispatch.Dispatcher
	props      *props.Store
	scale      geometry.Scale
}

// New creates a UI. It fails only when opts.Scale is negative or not finite.
func New(opts Options) (*UI, error) {
	if opts.RootName == "" {
		opts.RootName = "root"
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	scale, err := geometry.NewScale(opts.Scale)
	if err != nil {
		return nil, err
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = ids.NewAllocator()
	}

	u := &UI{
		alloc: alloc,
		tree:  tree.New(alloc, opts.RootName),
		props: props.NewStore(),
		scale: scale,
	}
	u.registry = event.NewRegistry(alloc)
	u.registry.Diagnostics = opts.Diagnostics
	u.dispatcher = dispatch.New(u.registry, dispatch.Config{
		HopBudget:     opts.HopBudget,
		MaxFlush:      opts.MaxFlush,
		RecoverPanics: opts.RecoverPanics,
		Tree:          u.tree,
		OnState:       opts.OnState,
	})
	u.tree.OnRemove(func(w ids.WidgetID) {
		u.registry.UnregisterAll(w)
		u.props.Forget(w)
	})
	u.props.Install(u.registry, u.tree.Root())
	return u, nil
}

// FromConfig creates a UI from resolved configuration and sets up the
// global error handler's verbosity.
func FromConfig(r *config.Resolved) (*UI, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if lh, ok := errors.Handler().(*errors.LogHandler); ok {
		lh.Verbose = r.Verbose
	}
	return New(Options{
		RootName:      r.AppName,
		Scale:         r.Scale,
		HopBudget:     r.HopBudget,
		MaxFlush:      r.MaxFlush,
		RecoverPanics: r.RecoverPanics,
		Diagnostics:   r.Diagnostics,
	})
}

// Root returns the root widget.
func (u *UI) Root() ids.WidgetID { return u.tree.Root() }

// Tree returns the widget tree.
func (u *UI) Tree() *tree.Tree { return u.tree }

// Registry returns the handler registry.
func (u *UI) Registry() *event.Registry { return u.registry }

// Dispatcher returns the dispatcher.
func (u *UI) Dispatcher() *dispatch.Dispatcher { return u.dispatcher }

// Props returns the widget property store.
func (u *UI) Props() *props.Store { return u.props }

// Allocator returns the id allocator owned by this UI.
func (u *UI) Allocator() *ids.Allocator { return u.alloc }

// AddWidget creates a widget under parent. Every widget accepts property
// change events.
func (u *UI) AddWidget(parent ids.WidgetID, name string) (ids.WidgetID, error) {
	w, err := u.tree.Add(parent, name)
	if err != nil {
		return 0, err
	}
	u.props.Install(u.registry, w)
	return w, nil
}

// RemoveWidget tears down w and its descendants and drops their handlers.
func (u *UI) RemoveWidget(w ids.WidgetID) error {
	return u.tree.Remove(w)
}

// Handle registers h on w for kind.
func (u *UI) Handle(w ids.WidgetID, kind event.Kind, h event.Handler) ids.HandlerID {
	return u.registry.Register(w, kind, h)
}

// Adapt starts an adapter on widget from.
func (u *UI) Adapt(from ids.WidgetID) *dispatch.AdapterBuilder {
	return dispatch.Adapt(u.registry, from)
}

// Dispatch delivers env synchronously.
func (u *UI) Dispatch(env event.Envelope) dispatch.Outcome {
	return u.dispatcher.Dispatch(env)
}

// Enqueue schedules env for the next Flush.
func (u *UI) Enqueue(target event.Target, env event.Envelope) {
	u.dispatcher.Enqueue(target, env)
}

// Flush dispatches every queued event.
func (u *UI) Flush() []dispatch.Outcome {
	return u.dispatcher.Flush()
}

// SetProp queues a property change for w.
func (u *UI) SetProp(w ids.WidgetID, c props.Change) {
	u.dispatcher.Enqueue(event.ToWidget(w), props.ChangeKey.Envelope(w, c))
}

// Scale returns the display scale.
func (u *UI) Scale() geometry.Scale { return u.scale }

// SetScale changes the display scale.
func (u *UI) SetScale(f float64) error {
	s, err := geometry.NewScale(f)
	if err != nil {
		return err
	}
	u.scale = s
	return nil
}

// ToDevice converts a logical point to device pixels at the display scale.
func (u *UI) ToDevice(p geometry.Point[geometry.DIP]) geometry.Point[geometry.Device] {
	return u.scale.PointToDevice(p)
}

// ToDIP converts a device point to logical pixels at the display scale.
func (u *UI) ToDIP(p geometry.Point[geometry.Device]) geometry.Point[geometry.DIP] {
	return u.scale.PointToDIP(p)
}
