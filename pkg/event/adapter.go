package event

import "github.com/go-drift/relay/pkg/ids"

// TransformFunc rewrites a forwarded payload. It returns false when the
// payload is not one it understands, which leaves the adapter inert for that
// event. A transform only sees the payload, so it cannot start a dispatch.
type TransformFunc func(payload any) (any, bool)

// Adapter forwards events to another widget instead of handling them.
type Adapter struct {
	// To is the destination widget. Zero forwards to the parent widget.
	To ids.WidgetID
	// Kind is the kind delivered at the destination. Empty keeps the
	// incoming kind.
	Kind Kind
	// Transform rewrites the payload in transit. Nil passes it unchanged.
	Transform TransformFunc
}

// Redirect returns an adapter that forwards unchanged events to w.
func Redirect(w ids.WidgetID) Adapter {
	return Adapter{To: w}
}

// ToParent returns an adapter that forwards unchanged events to the parent
// of the widget it is installed on.
func ToParent() Adapter {
	return Adapter{}
}

// Forward returns an adapter delivering events of key from as events of key
// to at widget w, converting payloads with fn.
func Forward[A, B any](w ids.WidgetID, from Key[A], to Key[B], fn func(A) B) Adapter {
	return Adapter{
		To:   w,
		Kind: to.Kind(),
		Transform: func(payload any) (any, bool) {
			v, ok := payload.(A)
			if !ok {
				return nil, false
			}
			return fn(v), true
		},
	}
}

// Apply builds the envelope delivered at dest. The second result is false
// when the transform rejects the payload.
func (a Adapter) Apply(env Envelope, dest ids.WidgetID) (Envelope, bool) {
	out := env.Retarget(dest)
	if a.Kind != "" {
		out.Kind = a.Kind
	}
	if a.Transform != nil {
		payload, ok := a.Transform(env.Payload)
		if !ok {
			return Envelope{}, false
		}
		out.Payload = payload
	}
	return out, true
}
