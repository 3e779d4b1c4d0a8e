// Package props tracks the interaction states of widgets (hovered, pressed,
// selected, ...) and changes them through events.
package props

import (
	"strings"

	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
)

// Property is one interaction state.
type Property uint8

const (
	MouseOver Property = iota
	Activated
	Selected
	Pressed
	Inactive
	Focused

	numProperties
)

func (p Property) String() string {
	switch p {
	case MouseOver:
		return "mouse-over"
	case Activated:
		return "activated"
	case Selected:
		return "selected"
	case Pressed:
		return "pressed"
	case Inactive:
		return "inactive"
	case Focused:
		return "focused"
	default:
		return "unknown"
	}
}

// Set is a set of properties.
type Set uint8

// Of returns the set holding props.
func Of(props ...Property) Set {
	var s Set
	for _, p := range props {
		s = s.Add(p)
	}
	return s
}

// Common states.
var (
	StateMouseOver        = Of(MouseOver)
	StatePressed          = Of(Pressed)
	StateActivated        = Of(Activated)
	StateActivatedPressed = Of(Activated, Pressed)
	StateSelected         = Of(Selected)
	StateInactive         = Of(Inactive)
	StateFocused          = Of(Focused)
)

// Add returns s with p.
func (s Set) Add(p Property) Set { return s | 1<<p }

// Remove returns s without p.
func (s Set) Remove(p Property) Set { return s &^ (1 << p) }

// Has reports whether p is in s.
func (s Set) Has(p Property) bool { return s&(1<<p) != 0 }

// Contains reports whether every property of other is in s.
func (s Set) Contains(other Set) bool { return s&other == other }

// Len returns the number of properties in s.
func (s Set) Len() int {
	n := 0
	for p := Property(0); p < numProperties; p++ {
		if s.Has(p) {
			n++
		}
	}
	return n
}

// String lists the properties in declaration order, e.g. "{activated,pressed}".
func (s Set) String() string {
	var parts []string
	for p := Property(0); p < numProperties; p++ {
		if s.Has(p) {
			parts = append(parts, p.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Op is the direction of a Change.
type Op uint8

const (
	Add Op = iota
	Remove
)

// Change adds or removes one property.
type Change struct {
	Op       Op
	Property Property
}

// ChangeKey is the event key for property changes.
var ChangeKey = event.NewKey[Change]("prop-change")

// AddProp returns a change adding p.
func AddProp(p Property) Change { return Change{Op: Add, Property: p} }

// RemoveProp returns a change removing p.
func RemoveProp(p Property) Change { return Change{Op: Remove, Property: p} }

// Apply returns s with c applied.
func (s Set) Apply(c Change) Set {
	if c.Op == Remove {
		return s.Remove(c.Property)
	}
	return s.Add(c.Property)
}

// Store holds the property set of every widget it is installed on.
type Store struct {
	sets map[ids.WidgetID]Set
	// OnChange, if set, is called after a widget's set changes.
	OnChange func(w ids.WidgetID, old, next Set)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sets: make(map[ids.WidgetID]Set)}
}

// Install registers a handler on w that applies Change events to w's set
// and consumes them.
func (s *Store) Install(reg *event.Registry, w ids.WidgetID) ids.HandlerID {
	if _, ok := s.sets[w]; !ok {
		s.sets[w] = 0
	}
	return event.On(reg, w, ChangeKey, func(c Change, ctx *event.Context) {
		s.apply(ctx.Widget, c)
		ctx.Consume()
	})
}

func (s *Store) apply(w ids.WidgetID, c Change) {
	old := s.sets[w]
	next := old.Apply(c)
	if next == old {
		return
	}
	s.sets[w] = next
	if s.OnChange != nil {
		s.OnChange(w, old, next)
	}
}

// Get returns the property set of w.
func (s *Store) Get(w ids.WidgetID) Set {
	return s.sets[w]
}

// Set replaces the property set of w without dispatching.
func (s *Store) Set(w ids.WidgetID, set Set) {
	s.sets[w] = set
}

// Forget drops w's state. Called at widget teardown.
func (s *Store) Forget(w ids.WidgetID) {
	delete(s.sets, w)
}
