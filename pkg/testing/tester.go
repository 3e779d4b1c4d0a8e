package testing

import (
	"sync"
	"testing"

	"github.com/go-drift/relay/pkg/dispatch"
	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
	"github.com/go-drift/relay/pkg/ui"
)

// DefaultScale is the default device pixel ratio.
const DefaultScale = 1.0

// UITester drives a ui.UI in tests and captures reported errors.
type UITester struct {
	ui       *ui.UI
	capture  *captureHandler
	previous errors.ErrorHandler
	pointers map[int64]*pointerState
	cleaned  bool
}

// NewUITester creates a tester with opts. Call Cleanup() when done, or use
// NewUITesterWithT() instead.
func NewUITester(opts ui.Options) (*UITester, error) {
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	u, err := ui.New(opts)
	if err != nil {
		return nil, err
	}
	t := &UITester{
		ui:       u,
		capture:  &captureHandler{},
		previous: errors.Handler(),
		pointers: make(map[int64]*pointerState),
	}
	errors.SetHandler(t.capture)
	return t, nil
}

// NewUITesterWithT creates a tester with default options that cleans up via
// t.Cleanup(). Panics from handlers are recovered and recorded.
// This is the recommended constructor for tests.
func NewUITesterWithT(t *testing.T) *UITester {
	t.Helper()
	return NewUITesterWithOptions(t, ui.Options{RecoverPanics: true})
}

// NewUITesterWithOptions is NewUITesterWithT with explicit options.
func NewUITesterWithOptions(t *testing.T, opts ui.Options) *UITester {
	t.Helper()
	tester, err := NewUITester(opts)
	if err != nil {
		t.Fatalf("NewUITester: %v", err)
	}
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the error handler that was active before the tester was
// created. Must be called if not using NewUITesterWithT.
func (t *UITester) Cleanup() {
	if t.cleaned {
		return
	}
	t.cleaned = true
	errors.SetHandler(t.previous)
}

// UI returns the UI under test.
func (t *UITester) UI() *ui.UI { return t.ui }

// Root returns the root widget.
func (t *UITester) Root() ids.WidgetID { return t.ui.Root() }

// MustAdd adds a widget under parent and panics if parent is unknown.
func (t *UITester) MustAdd(parent ids.WidgetID, name string) ids.WidgetID {
	w, err := t.ui.AddWidget(parent, name)
	if err != nil {
		panic(err)
	}
	return w
}

// Dispatch delivers env and then flushes anything it queued. The returned
// outcome is that of env itself.
func (t *UITester) Dispatch(env event.Envelope) dispatch.Outcome {
	out := t.ui.Dispatch(env)
	t.Pump()
	return out
}

// Pump flushes the event queue until it is empty or the flush limit is hit.
func (t *UITester) Pump() []dispatch.Outcome {
	return t.ui.Flush()
}

// Errors returns the errors reported since the tester was created.
func (t *UITester) Errors() []*errors.RelayError {
	return t.capture.errors()
}

// Panics returns the recovered panics reported since the tester was created.
func (t *UITester) Panics() []*errors.PanicError {
	return t.capture.panics()
}

// HasError reports whether a reported error matches target.
func (t *UITester) HasError(target error) bool {
	for _, err := range t.capture.errors() {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type captureHandler struct {
	mu   sync.Mutex
	errs []*errors.RelayError
	pans []*errors.PanicError
}

func (h *captureHandler) HandleError(err *errors.RelayError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pans = append(h.pans, err)
}

func (h *captureHandler) errors() []*errors.RelayError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.RelayError(nil), h.errs...)
}

func (h *captureHandler) panics() []*errors.PanicError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.PanicError(nil), h.pans...)
}
