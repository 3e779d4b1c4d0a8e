package ids

import (
	"math"
	"sync"
	"testing"

	"github.com/go-drift/relay/pkg/errors"
)

func TestCounterStrictlyIncreasing(t *testing.T) {
	var c Counter[WidgetID]
	const n = 1000
	seen := make(map[WidgetID]bool, n)
	var prev WidgetID
	for i := 0; i < n; i++ {
		id := c.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
		prev = id
	}
	if c.Last() != prev {
		t.Errorf("Last() = %d, want %d", c.Last(), prev)
	}
}

func TestCounterStartsAtOne(t *testing.T) {
	var c Counter[HandlerID]
	if got := c.Next(); got != 1 {
		t.Errorf("first id = %d, want 1", got)
	}
}

func TestCounterExhausted(t *testing.T) {
	var c Counter[WidgetID]
	c.last.Store(math.MaxUint64 - 1)
	if got := c.Next(); got != math.MaxUint64 {
		t.Fatalf("Next() = %d, want MaxUint64", got)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on exhaustion")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrAllocatorExhausted) {
			t.Errorf("panic value = %v, want ErrAllocatorExhausted", r)
		}
	}()
	c.Next()
}

func TestAllocatorKindsIndependent(t *testing.T) {
	a := NewAllocator()
	w1 := a.Widget()
	h1 := a.Handler()
	r1 := a.Allocate("resource")
	r2 := a.Allocate("resource")
	w2 := a.Widget()

	if w1 != 1 || w2 != 2 {
		t.Errorf("widget ids = %d, %d, want 1, 2", w1, w2)
	}
	if h1 != 1 {
		t.Errorf("handler id = %d, want 1", h1)
	}
	if r1 != 1 || r2 != 2 {
		t.Errorf("resource ids = %d, %d, want 1, 2", r1, r2)
	}
	if got := a.Allocate(KindWidget); got != 3 {
		t.Errorf("Allocate(KindWidget) = %d, want 3", got)
	}
}

func TestAllocatorScopesDoNotCollide(t *testing.T) {
	a, b := NewAllocator(), NewAllocator()
	a.Widget()
	a.Widget()
	if got := b.Widget(); got != 1 {
		t.Errorf("fresh allocator issued %d, want 1", got)
	}
}

func TestZeroAllocatorUsable(t *testing.T) {
	var a Allocator
	if got := a.Allocate("texture"); got != 1 {
		t.Errorf("Allocate on zero Allocator = %d, want 1", got)
	}
}

func TestGlobalConcurrent(t *testing.T) {
	const workers, each = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[WidgetID]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]WidgetID, 0, each)
			for i := 0; i < each; i++ {
				local = append(local, Global().Widget())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("id %d issued twice", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*each {
		t.Errorf("got %d distinct ids, want %d", len(seen), workers*each)
	}
}

func TestIDString(t *testing.T) {
	if got := WidgetID(4).String(); got != "widget#4" {
		t.Errorf("WidgetID.String() = %q", got)
	}
	if got := HandlerID(9).String(); got != "handler#9" {
		t.Errorf("HandlerID.String() = %q", got)
	}
	if WidgetID(0).IsValid() {
		t.Error("zero WidgetID should not be valid")
	}
}
