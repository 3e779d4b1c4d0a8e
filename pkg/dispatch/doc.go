// Package dispatch delivers event envelopes to the handlers registered on
// widgets and follows adapter chains between widgets.
//
// One call to [Dispatcher.Dispatch] resolves the target widget, runs its
// application handlers in registration order and, for every adapter entry,
// re-injects a (possibly transformed) envelope at the adapter's destination.
// Forwarding recurses until nothing forwards further, a handler consumes the
// event, or the cycle guard trips. A tripped guard ends the call with
// [CycleAborted]; it is reported through pkg/errors and never panics.
//
// Dispatch is synchronous and single-threaded. Handlers that need another
// dispatch post to the queue through their [event.Context]; queued events
// run on the next [Dispatcher.Flush], after the current dispatch completes.
package dispatch
