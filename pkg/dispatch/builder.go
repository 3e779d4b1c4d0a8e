package dispatch

import (
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
)

// AdapterBuilder installs an adapter on a source widget:
//
//	dispatch.Adapt(reg, button).
//	    On(Click.Kind()).
//	    Via(event.Forward(dialog, Click, Submit, toSubmit)).
//	    Install()
type AdapterBuilder struct {
	reg     *event.Registry
	from    ids.WidgetID
	kind    event.Kind
	adapter event.Adapter
}

// Adapt starts an adapter installed on widget from.
func Adapt(reg *event.Registry, from ids.WidgetID) *AdapterBuilder {
	return &AdapterBuilder{reg: reg, from: from}
}

// On sets the incoming kind the adapter reacts to.
func (b *AdapterBuilder) On(kind event.Kind) *AdapterBuilder {
	b.kind = kind
	return b
}

// To sets the destination widget.
func (b *AdapterBuilder) To(w ids.WidgetID) *AdapterBuilder {
	b.adapter.To = w
	return b
}

// ToParent forwards to the source widget's parent.
func (b *AdapterBuilder) ToParent() *AdapterBuilder {
	b.adapter.To = 0
	return b
}

// As sets the kind delivered at the destination.
func (b *AdapterBuilder) As(kind event.Kind) *AdapterBuilder {
	b.adapter.Kind = kind
	return b
}

// Transform sets the payload transform.
func (b *AdapterBuilder) Transform(fn event.TransformFunc) *AdapterBuilder {
	b.adapter.Transform = fn
	return b
}

// Via replaces destination, kind and transform with those of a.
func (b *AdapterBuilder) Via(a event.Adapter) *AdapterBuilder {
	b.adapter = a
	return b
}

// Install registers the adapter and returns its handler id. Installing the
// same adapter twice on one widget returns the first id.
func (b *AdapterBuilder) Install() ids.HandlerID {
	if b.kind == "" {
		panic("dispatch: adapter installed without an event kind")
	}
	id, _ := b.reg.RegisterAdapter(b.from, b.kind, b.adapter)
	return id
}
