package event

import (
	"sort"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/ids"
)

// Entry is one registration on a widget: either a Handler or an Adapter.
type Entry struct {
	ID      ids.HandlerID
	Kind    Kind
	Handler Handler
	Adapter *Adapter
}

// IsAdapter reports whether the entry forwards instead of handling.
func (e Entry) IsAdapter() bool {
	return e.Adapter != nil
}

type owner struct {
	widget ids.WidgetID
	kind   Kind
}

// Registry maps (widget, kind) to entries in registration order.
//
// A Registry belongs to one widget tree and is not safe for concurrent use.
type Registry struct {
	// Diagnostics reports removals of unknown handlers to the error handler.
	Diagnostics bool

	alloc   *ids.Allocator
	widgets map[ids.WidgetID]map[Kind][]Entry
	owners  map[ids.HandlerID]owner
}

// NewRegistry creates a registry issuing handler ids from alloc. A nil
// alloc gives the registry an allocator of its own.
func NewRegistry(alloc *ids.Allocator) *Registry {
	if alloc == nil {
		alloc = ids.NewAllocator()
	}
	return &Registry{
		alloc:   alloc,
		widgets: make(map[ids.WidgetID]map[Kind][]Entry),
		owners:  make(map[ids.HandlerID]owner),
	}
}

// Register adds h for events of kind delivered to w. Handlers registered
// for the same (w, kind) run in registration order.
func (r *Registry) Register(w ids.WidgetID, kind Kind, h Handler) ids.HandlerID {
	if h == nil {
		panic("event: nil handler")
	}
	return r.add(w, Entry{Kind: kind, Handler: h})
}

// RegisterAdapter installs a forwarding entry for events of kind on w.
// An adapter with the same destination and destination kind is installed
// only once per (w, kind); registering it again returns the existing id and
// false.
func (r *Registry) RegisterAdapter(w ids.WidgetID, kind Kind, a Adapter) (ids.HandlerID, bool) {
	for _, e := range r.widgets[w][kind] {
		if e.Adapter != nil && e.Adapter.To == a.To && e.Adapter.Kind == a.Kind {
			return e.ID, false
		}
	}
	return r.add(w, Entry{Kind: kind, Adapter: &a}), true
}

func (r *Registry) add(w ids.WidgetID, e Entry) ids.HandlerID {
	e.ID = r.alloc.Handler()
	kinds, ok := r.widgets[w]
	if !ok {
		kinds = make(map[Kind][]Entry)
		r.widgets[w] = kinds
	}
	kinds[e.Kind] = append(kinds[e.Kind], e)
	r.owners[e.ID] = owner{widget: w, kind: e.Kind}
	return e.ID
}

// Unregister removes the entry with the given id. Removing an unknown id is
// a no-op that returns false.
func (r *Registry) Unregister(id ids.HandlerID) bool {
	o, ok := r.owners[id]
	if !ok {
		if r.Diagnostics {
			errors.Report(&errors.RelayError{
				Op:   "event.Registry.Unregister",
				Kind: errors.KindRegistry,
				Err:  errors.ErrHandlerNotFound,
			})
		}
		return false
	}
	delete(r.owners, id)

	kinds := r.widgets[o.widget]
	entries := kinds[o.kind]
	for i, e := range entries {
		if e.ID == id {
			// Copy so snapshots handed out by Lookup stay intact.
			next := make([]Entry, 0, len(entries)-1)
			next = append(next, entries[:i]...)
			next = append(next, entries[i+1:]...)
			entries = next
			break
		}
	}
	if len(entries) == 0 {
		delete(kinds, o.kind)
	} else {
		kinds[o.kind] = entries
	}
	if len(kinds) == 0 {
		delete(r.widgets, o.widget)
	}
	return true
}

// UnregisterAll removes every entry of w and returns how many were removed.
// It is used at widget teardown and is safe to repeat.
func (r *Registry) UnregisterAll(w ids.WidgetID) int {
	kinds, ok := r.widgets[w]
	if !ok {
		return 0
	}
	n := 0
	for _, entries := range kinds {
		for _, e := range entries {
			delete(r.owners, e.ID)
			n++
		}
	}
	delete(r.widgets, w)
	return n
}

// Lookup returns the entries for (w, kind) in registration order. The slice
// must not be modified; later registrations and removals do not change it,
// so callers running entries check Registered before each one.
func (r *Registry) Lookup(w ids.WidgetID, kind Kind) []Entry {
	entries := r.widgets[w][kind]
	return entries[:len(entries):len(entries)]
}

// Registered reports whether id is still registered.
func (r *Registry) Registered(id ids.HandlerID) bool {
	_, ok := r.owners[id]
	return ok
}

// Has reports whether w has any entry for kind.
func (r *Registry) Has(w ids.WidgetID, kind Kind) bool {
	return len(r.widgets[w][kind]) > 0
}

// Count returns the number of entries registered on w.
func (r *Registry) Count(w ids.WidgetID) int {
	n := 0
	for _, entries := range r.widgets[w] {
		n += len(entries)
	}
	return n
}

// Kinds returns the kinds w has entries for, sorted.
func (r *Registry) Kinds(w ids.WidgetID) []Kind {
	kinds := make([]Kind, 0, len(r.widgets[w]))
	for k := range r.widgets[w] {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the number of widgets with at least one entry.
func (r *Registry) Len() int {
	return len(r.widgets)
}
