// Package tree keeps the parent/child structure of widgets and issues their
// ids. It notifies listeners when widgets are torn down so handler
// registrations can be dropped with them.
package tree

import (
	"fmt"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/ids"
)

type node struct {
	name     string
	parent   ids.WidgetID
	children []ids.WidgetID
}

// Tree is a widget hierarchy with a single root. It is not safe for
// concurrent use.
type Tree struct {
	alloc     *ids.Allocator
	root      ids.WidgetID
	nodes     map[ids.WidgetID]*node
	listeners []func(ids.WidgetID)
}

// New creates a tree whose root widget is named rootName. Widget ids come
// from alloc; a nil alloc gives the tree an allocator of its own.
func New(alloc *ids.Allocator, rootName string) *Tree {
	if alloc == nil {
		alloc = ids.NewAllocator()
	}
	t := &Tree{
		alloc: alloc,
		nodes: make(map[ids.WidgetID]*node),
	}
	t.root = alloc.Widget()
	t.nodes[t.root] = &node{name: rootName}
	return t
}

// Root returns the root widget.
func (t *Tree) Root() ids.WidgetID {
	return t.root
}

// Allocator returns the allocator the tree issues ids from.
func (t *Tree) Allocator() *ids.Allocator {
	return t.alloc
}

// Add creates a widget under parent and returns its id.
func (t *Tree) Add(parent ids.WidgetID, name string) (ids.WidgetID, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, unknown("tree.Add", parent)
	}
	id := t.alloc.Widget()
	t.nodes[id] = &node{name: name, parent: parent}
	p.children = append(p.children, id)
	return id, nil
}

// Remove tears down w and its descendants, deepest first, notifying OnRemove
// listeners for each. The root cannot be removed.
func (t *Tree) Remove(w ids.WidgetID) error {
	n, ok := t.nodes[w]
	if !ok {
		return unknown("tree.Remove", w)
	}
	if w == t.root {
		return &errors.RelayError{
			Op:     "tree.Remove",
			Kind:   errors.KindTree,
			Widget: uint64(w),
			Err:    fmt.Errorf("cannot remove root widget"),
		}
	}
	if p, ok := t.nodes[n.parent]; ok {
		p.children = without(p.children, w)
	}
	t.teardown(w)
	return nil
}

func (t *Tree) teardown(w ids.WidgetID) {
	n := t.nodes[w]
	for _, c := range n.children {
		t.teardown(c)
	}
	delete(t.nodes, w)
	for _, fn := range t.listeners {
		fn(w)
	}
}

// OnRemove registers fn to be called with the id of every removed widget.
func (t *Tree) OnRemove(fn func(ids.WidgetID)) {
	t.listeners = append(t.listeners, fn)
}

// Contains reports whether w is in the tree.
func (t *Tree) Contains(w ids.WidgetID) bool {
	_, ok := t.nodes[w]
	return ok
}

// Parent returns the parent of w. The second result is false for the root
// and for unknown widgets.
func (t *Tree) Parent(w ids.WidgetID) (ids.WidgetID, bool) {
	n, ok := t.nodes[w]
	if !ok || w == t.root {
		return 0, false
	}
	return n.parent, true
}

// Children returns a copy of w's children in insertion order.
func (t *Tree) Children(w ids.WidgetID) []ids.WidgetID {
	n, ok := t.nodes[w]
	if !ok {
		return nil
	}
	return append([]ids.WidgetID(nil), n.children...)
}

// Name returns the name w was created with.
func (t *Tree) Name(w ids.WidgetID) string {
	if n, ok := t.nodes[w]; ok {
		return n.name
	}
	return ""
}

// Walk calls fn for w and its descendants in pre-order. Returning false from
// fn skips that widget's children.
func (t *Tree) Walk(w ids.WidgetID, fn func(ids.WidgetID) bool) {
	n, ok := t.nodes[w]
	if !ok {
		return
	}
	if !fn(w) {
		return
	}
	for _, c := range append([]ids.WidgetID(nil), n.children...) {
		t.Walk(c, fn)
	}
}

// Len returns the number of widgets, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func without(list []ids.WidgetID, w ids.WidgetID) []ids.WidgetID {
	out := list[:0]
	for _, id := range list {
		if id != w {
			out = append(out, id)
		}
	}
	return out
}

func unknown(op string, w ids.WidgetID) error {
	return &errors.RelayError{
		Op:     op,
		Kind:   errors.KindTree,
		Widget: uint64(w),
		Err:    errors.ErrUnknownWidget,
	}
}
