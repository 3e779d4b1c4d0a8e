package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/relay/pkg/ids"
	"github.com/go-drift/relay/pkg/tree"
)

// Finder locates widgets in a tree.
type Finder interface {
	// Evaluate returns all matching widgets under root, root included
	// (depth-first pre-order).
	Evaluate(t *tree.Tree, root ids.WidgetID) []ids.WidgetID
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	widgets []ids.WidgetID
	finder  Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() ids.WidgetID {
	if len(r.widgets) == 0 {
		panic(fmt.Sprintf("Finder found no widgets: %s", r.description()))
	}
	return r.widgets[0]
}

// FirstOrZero returns the first match, or zero if none.
func (r FinderResult) FirstOrZero() ids.WidgetID {
	if len(r.widgets) == 0 {
		return 0
	}
	return r.widgets[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) ids.WidgetID {
	if index < 0 || index >= len(r.widgets) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.widgets), r.description()))
	}
	return r.widgets[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []ids.WidgetID {
	return r.widgets
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.widgets)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.widgets) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates finder over the whole tree.
func (t *UITester) Find(finder Finder) FinderResult {
	return FinderResult{
		widgets: finder.Evaluate(t.ui.Tree(), t.ui.Root()),
		finder:  finder,
	}
}

// nameFinder matches widgets by exact name.
type nameFinder struct {
	name string
}

func (f *nameFinder) Evaluate(t *tree.Tree, root ids.WidgetID) []ids.WidgetID {
	return collectMatches(t, root, func(w ids.WidgetID) bool {
		return t.Name(w) == f.name
	})
}

func (f *nameFinder) Description() string {
	return fmt.Sprintf("ByName(%q)", f.name)
}

// ByName returns a finder that matches widgets named name.
func ByName(name string) Finder {
	return &nameFinder{name: name}
}

// namePrefixFinder matches widgets whose name starts with prefix.
type namePrefixFinder struct {
	prefix string
}

func (f *namePrefixFinder) Evaluate(t *tree.Tree, root ids.WidgetID) []ids.WidgetID {
	return collectMatches(t, root, func(w ids.WidgetID) bool {
		return strings.HasPrefix(t.Name(w), f.prefix)
	})
}

func (f *namePrefixFinder) Description() string {
	return fmt.Sprintf("ByNamePrefix(%q)", f.prefix)
}

// ByNamePrefix returns a finder that matches widgets whose name starts with
// prefix.
func ByNamePrefix(prefix string) Finder {
	return &namePrefixFinder{prefix: prefix}
}

// predicateFinder matches widgets satisfying a predicate.
type predicateFinder struct {
	fn func(*tree.Tree, ids.WidgetID) bool
}

func (f *predicateFinder) Evaluate(t *tree.Tree, root ids.WidgetID) []ids.WidgetID {
	return collectMatches(t, root, func(w ids.WidgetID) bool {
		return f.fn(t, w)
	})
}

func (f *predicateFinder) Description() string {
	return "ByPredicate(...)"
}

// ByPredicate returns a finder that matches widgets satisfying fn.
func ByPredicate(fn func(t *tree.Tree, w ids.WidgetID) bool) Finder {
	return &predicateFinder{fn: fn}
}

// descendantFinder finds widgets matching 'matching' that are descendants
// of widgets matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(t *tree.Tree, root ids.WidgetID) []ids.WidgetID {
	var results []ids.WidgetID
	seen := make(map[ids.WidgetID]bool)
	for _, ancestor := range f.of.Evaluate(t, root) {
		for _, child := range t.Children(ancestor) {
			for _, match := range f.matching.Evaluate(t, child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches widgets satisfying 'matching'
// that are descendants of widgets matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// widgets that satisfy the predicate.
func collectMatches(t *tree.Tree, root ids.WidgetID, predicate func(ids.WidgetID) bool) []ids.WidgetID {
	var results []ids.WidgetID
	t.Walk(root, func(w ids.WidgetID) bool {
		if predicate(w) {
			results = append(results, w)
		}
		return true
	})
	return results
}
