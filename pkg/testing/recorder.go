package testing

import (
	"fmt"
	"sync"

	"github.com/go-drift/relay/pkg/event"
)

// Call is one recorded handler invocation.
type Call struct {
	Label    string
	Envelope event.Envelope
}

func (c Call) String() string {
	return fmt.Sprintf("%s:%s", c.Label, c.Envelope.Kind)
}

// Recorder records handler invocations in order.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handler returns a handler that records each delivery under label.
func (r *Recorder) Handler(label string) event.Handler {
	return event.HandlerFunc(func(ctx *event.Context) {
		r.record(label, ctx.Envelope)
	})
}

// Consuming returns a handler that records each delivery under label and
// consumes it.
func (r *Recorder) Consuming(label string) event.Handler {
	return event.HandlerFunc(func(ctx *event.Context) {
		r.record(label, ctx.Envelope)
		ctx.Consume()
	})
}

func (r *Recorder) record(label string, env event.Envelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Label: label, Envelope: env})
}

// Calls returns the recorded invocations in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Labels returns the labels of the recorded invocations in order.
func (r *Recorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	labels := make([]string, len(r.calls))
	for i, c := range r.calls {
		labels[i] = c.Label
	}
	return labels
}

// Count returns how many times label was invoked.
func (r *Recorder) Count(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Label == label {
			n++
		}
	}
	return n
}

// Reset discards all recorded invocations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
