package tree

import (
	"testing"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/ids"
)

func build(t *testing.T) (*Tree, map[string]ids.WidgetID) {
	t.Helper()
	tr := New(ids.NewAllocator(), "root")
	w := map[string]ids.WidgetID{"root": tr.Root()}
	add := func(parent, name string) {
		id, err := tr.Add(w[parent], name)
		if err != nil {
			t.Fatalf("Add(%s, %s): %v", parent, name, err)
		}
		w[name] = id
	}
	add("root", "panel")
	add("panel", "button")
	add("panel", "label")
	add("root", "list")
	return tr, w
}

func TestTreeStructure(t *testing.T) {
	tr, w := build(t)
	if tr.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tr.Len())
	}
	if p, ok := tr.Parent(w["button"]); !ok || p != w["panel"] {
		t.Errorf("Parent(button) = %v, %v", p, ok)
	}
	if _, ok := tr.Parent(tr.Root()); ok {
		t.Error("root should have no parent")
	}
	if got := tr.Children(w["panel"]); len(got) != 2 || got[0] != w["button"] || got[1] != w["label"] {
		t.Errorf("Children(panel) = %v", got)
	}
	if tr.Name(w["label"]) != "label" {
		t.Errorf("Name = %q", tr.Name(w["label"]))
	}
}

func TestWalkPreOrder(t *testing.T) {
	tr, w := build(t)
	var names []string
	tr.Walk(tr.Root(), func(id ids.WidgetID) bool {
		names = append(names, tr.Name(id))
		return true
	})
	want := []string{"root", "panel", "button", "label", "list"}
	if len(names) != len(want) {
		t.Fatalf("Walk visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}

	var pruned []ids.WidgetID
	tr.Walk(tr.Root(), func(id ids.WidgetID) bool {
		pruned = append(pruned, id)
		return id != w["panel"]
	})
	if len(pruned) != 3 {
		t.Errorf("pruned walk visited %d widgets, want 3", len(pruned))
	}
}

func TestRemoveNotifiesDeepestFirst(t *testing.T) {
	tr, w := build(t)
	var removed []ids.WidgetID
	tr.OnRemove(func(id ids.WidgetID) { removed = append(removed, id) })

	if err := tr.Remove(w["panel"]); err != nil {
		t.Fatal(err)
	}
	if len(removed) != 3 || removed[2] != w["panel"] {
		t.Errorf("removed = %v, want children then panel", removed)
	}
	if tr.Contains(w["button"]) || tr.Contains(w["panel"]) {
		t.Error("removed widgets still present")
	}
	if got := tr.Children(tr.Root()); len(got) != 1 || got[0] != w["list"] {
		t.Errorf("root children = %v", got)
	}
}

func TestRemoveErrors(t *testing.T) {
	tr, _ := build(t)
	if err := tr.Remove(tr.Root()); err == nil {
		t.Error("removing root should fail")
	}
	if err := tr.Remove(999); !errors.Is(err, errors.ErrUnknownWidget) {
		t.Errorf("Remove(999) = %v, want ErrUnknownWidget", err)
	}
	if _, err := tr.Add(999, "x"); !errors.Is(err, errors.ErrUnknownWidget) {
		t.Errorf("Add under unknown parent = %v, want ErrUnknownWidget", err)
	}
}

func TestIDsNeverReused(t *testing.T) {
	tr, w := build(t)
	_ = tr.Remove(w["list"])
	id, err := tr.Add(tr.Root(), "list2")
	if err != nil {
		t.Fatal(err)
	}
	if id <= w["list"] {
		t.Errorf("new id %v not greater than removed %v", id, w["list"])
	}
}

func TestNilAllocatorIsPrivate(t *testing.T) {
	a := New(nil, "a")
	b := New(nil, "b")
	if a.Root() != 1 || b.Root() != 1 {
		t.Errorf("roots = %v and %v, want widget#1 for both", a.Root(), b.Root())
	}
	if a.Allocator() == b.Allocator() || a.Allocator() == ids.Global() {
		t.Error("trees without an allocator share one")
	}
}
