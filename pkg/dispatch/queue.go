package dispatch

import (
	"fmt"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
)

// Enqueue schedules env for target on the next Flush. It implements
// event.Queue.
func (d *Dispatcher) Enqueue(target event.Target, env event.Envelope) {
	d.queue = append(d.queue, queued{target: target, env: env})
}

// Pending returns the number of queued events.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Flush dispatches queued events in FIFO order, including events queued by
// handlers during the flush. Each event becomes one top-level dispatch per
// addressed widget. Flush called from inside a handler does nothing.
func (d *Dispatcher) Flush() []Outcome {
	if d.active {
		return nil
	}
	var outcomes []Outcome
	processed := 0
	for len(d.queue) > 0 {
		if d.cfg.MaxFlush > 0 && processed >= d.cfg.MaxFlush {
			errors.Report(&errors.RelayError{
				Op:   "dispatch.Flush",
				Kind: errors.KindQueue,
				Err: fmt.Errorf("%w: %d events processed, %d still queued",
					errors.ErrQueueOverflow, processed, len(d.queue)),
			})
			break
		}
		q := d.queue[0]
		d.queue[0] = queued{}
		d.queue = d.queue[1:]
		processed++
		for _, w := range d.expand(q) {
			outcomes = append(outcomes, d.Dispatch(q.env.Retarget(w)))
		}
	}
	if len(d.queue) == 0 {
		d.queue = nil
	}
	return outcomes
}

func (d *Dispatcher) expand(q queued) []ids.WidgetID {
	switch q.target.Mode {
	case event.TargetRoot:
		if d.cfg.Tree == nil {
			return nil
		}
		return []ids.WidgetID{d.cfg.Tree.Root()}
	case event.TargetSubTree:
		w := q.target.Widget
		if d.cfg.Tree == nil {
			return []ids.WidgetID{w}
		}
		var out []ids.WidgetID
		d.cfg.Tree.Walk(w, func(id ids.WidgetID) bool {
			out = append(out, id)
			return true
		})
		return out
	default:
		w := q.target.Widget
		if w == 0 {
			w = q.env.Resolve()
		}
		return []ids.WidgetID{w}
	}
}
