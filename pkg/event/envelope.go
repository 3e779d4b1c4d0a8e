package event

import (
	"fmt"

	"github.com/go-drift/relay/pkg/ids"
)

// Kind discriminates event payloads.
type Kind string

// Key pairs a Kind with the payload type carried by events of that kind.
type Key[T any] struct {
	kind Kind
}

// NewKey returns the key for kind name with payload type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{kind: Kind(name)}
}

// Kind returns the key's discriminant.
func (k Key[T]) Kind() Kind {
	return k.kind
}

// Envelope returns an envelope of this kind carrying payload, sourced at
// widget source.
func (k Key[T]) Envelope(source ids.WidgetID, payload T) Envelope {
	return Envelope{Kind: k.kind, Payload: payload, Source: source}
}

// From extracts the payload of env if it has this key's kind and type.
func (k Key[T]) From(env Envelope) (T, bool) {
	if env.Kind != k.kind {
		var zero T
		return zero, false
	}
	return PayloadAs[T](env)
}

// Envelope is one event in flight. It is created at the injection point,
// consumed synchronously by the dispatcher and discarded afterwards.
type Envelope struct {
	// Kind selects the handlers that receive the event.
	Kind Kind
	// Payload is the event value.
	Payload any
	// Source is the widget that produced the event.
	Source ids.WidgetID
	// Target overrides Source as the delivery widget when non-zero.
	Target ids.WidgetID
}

// Resolve returns the widget the envelope is delivered to.
func (e Envelope) Resolve() ids.WidgetID {
	if e.Target != 0 {
		return e.Target
	}
	return e.Source
}

// Retarget returns a copy of e addressed to w.
func (e Envelope) Retarget(w ids.WidgetID) Envelope {
	e.Target = w
	return e
}

func (e Envelope) String() string {
	return fmt.Sprintf("%s(%v) %v->%v", e.Kind, e.Payload, e.Source, e.Resolve())
}

// PayloadAs returns env's payload as a T.
func PayloadAs[T any](env Envelope) (T, bool) {
	v, ok := env.Payload.(T)
	return v, ok
}
