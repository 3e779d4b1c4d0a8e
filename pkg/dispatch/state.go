package dispatch

import "github.com/go-drift/relay/pkg/ids"

// State is a step of one dispatch call.
type State uint8

const (
	// Pending is the state of an envelope accepted for dispatch.
	Pending State = iota
	// Resolving looks up the target widget and its entries.
	Resolving
	// Delivering runs application handlers.
	Delivering
	// Forwarding follows an adapter to another widget.
	Forwarding
	// Consumed means a handler consumed the event. Terminal.
	Consumed
	// Handled means handlers ran but none consumed the event. Terminal.
	Handled
	// Unhandled means no handler matched. Terminal.
	Unhandled
	// CycleAborted means the forwarding chain hit the cycle guard. Terminal.
	CycleAborted
	// Deferred means the envelope arrived while another dispatch was running
	// and was queued for the next flush. Terminal.
	Deferred
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolving:
		return "resolving"
	case Delivering:
		return "delivering"
	case Forwarding:
		return "forwarding"
	case Consumed:
		return "consumed"
	case Handled:
		return "handled"
	case Unhandled:
		return "unhandled"
	case CycleAborted:
		return "cycle-aborted"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a dispatch call.
func (s State) Terminal() bool {
	return s >= Consumed
}

// Outcome reports how one dispatch call ended.
type Outcome struct {
	// State is the terminal state.
	State State
	// Hops is the number of adapter forwards taken.
	Hops int
	// Invoked is the number of application handlers that ran.
	Invoked int
	// Path lists the widgets the envelope was delivered to, in order.
	Path []ids.WidgetID
	// Err is set when State is CycleAborted.
	Err error

	consumed bool
	aborted  bool
}

func (o *Outcome) finish() {
	switch {
	case o.aborted:
		o.State = CycleAborted
	case o.consumed:
		o.State = Consumed
	case o.Invoked > 0:
		o.State = Handled
	default:
		o.State = Unhandled
	}
}
