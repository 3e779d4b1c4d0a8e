package dispatch

import (
	"testing"

	"github.com/go-drift/relay/pkg/errors"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/ids"
	"github.com/go-drift/relay/pkg/tree"
)

type Click struct{ X, Y float64 }

type Submit struct{}

var (
	ClickKey  = event.NewKey[Click]("click")
	SubmitKey = event.NewKey[Submit]("submit")
)

// captureErrors installs an error handler for the duration of the test.
func captureErrors(t *testing.T) *[]*errors.RelayError {
	t.Helper()
	var errs []*errors.RelayError
	old := errors.Handler()
	errors.SetHandler(&captureHandler{onError: func(err *errors.RelayError) { errs = append(errs, err) }})
	t.Cleanup(func() { errors.SetHandler(old) })
	return &errs
}

func TestDispatchNoHandlerIsNoOp(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})
	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	if out.State != Unhandled {
		t.Errorf("State = %v, want %v", out.State, Unhandled)
	}
	if out.Invoked != 0 || out.Hops != 0 {
		t.Errorf("Invoked = %d, Hops = %d, want 0, 0", out.Invoked, out.Hops)
	}
}

func TestRegisterUnregisterLeavesNoOp(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})
	called := false
	id := event.On(reg, 1, ClickKey, func(Click, *event.Context) { called = true })
	reg.Unregister(id)

	if out := d.Dispatch(ClickKey.Envelope(1, Click{})); out.State != Unhandled {
		t.Errorf("State = %v, want %v", out.State, Unhandled)
	}
	if called {
		t.Error("unregistered handler was invoked")
	}
}

func TestHandlerOrderAndConsume(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})

	var log []string
	reg.Register(1, "click", event.HandlerFunc(func(ctx *event.Context) { log = append(log, "h1") }))
	reg.Register(1, "click", event.HandlerFunc(func(ctx *event.Context) { log = append(log, "h2") }))

	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	if out.State != Handled {
		t.Errorf("State = %v, want %v", out.State, Handled)
	}
	if len(log) != 2 || log[0] != "h1" || log[1] != "h2" {
		t.Fatalf("log = %v, want [h1 h2]", log)
	}

	log = nil
	reg2 := event.NewRegistry(ids.NewAllocator())
	d2 := New(reg2, Config{})
	reg2.Register(1, "click", event.HandlerFunc(func(ctx *event.Context) {
		log = append(log, "h1")
		ctx.Consume()
	}))
	reg2.Register(1, "click", event.HandlerFunc(func(ctx *event.Context) { log = append(log, "h2") }))

	out = d2.Dispatch(ClickKey.Envelope(1, Click{}))
	if out.State != Consumed {
		t.Errorf("State = %v, want %v", out.State, Consumed)
	}
	if len(log) != 1 || log[0] != "h1" {
		t.Errorf("log = %v, want [h1]", log)
	}
}

func TestButtonClickForwardsToDialogSubmit(t *testing.T) {
	alloc := ids.NewAllocator()
	button, dialog := alloc.Widget(), alloc.Widget()
	if button != 1 || dialog != 2 {
		t.Fatalf("ids = %v, %v, want 1, 2", button, dialog)
	}
	reg := event.NewRegistry(alloc)
	d := New(reg, Config{})

	clicks, submits := 0, 0
	event.On(reg, dialog, ClickKey, func(Click, *event.Context) { clicks++ })
	event.On(reg, dialog, SubmitKey, func(_ Submit, ctx *event.Context) {
		submits++
		ctx.Consume()
	})
	Adapt(reg, button).
		On(ClickKey.Kind()).
		Via(event.Forward(dialog, ClickKey, SubmitKey, func(Click) Submit { return Submit{} })).
		Install()

	env := ClickKey.Envelope(0, Click{X: 10, Y: 20})
	env.Target = button
	out := d.Dispatch(env)

	if out.State != Consumed {
		t.Errorf("State = %v, want %v", out.State, Consumed)
	}
	if submits != 1 {
		t.Errorf("Submit handler invoked %d times, want 1", submits)
	}
	if clicks != 0 {
		t.Errorf("Click handler invoked %d times, want 0", clicks)
	}
	if out.Hops != 1 {
		t.Errorf("Hops = %d, want 1", out.Hops)
	}
	if len(out.Path) != 2 || out.Path[0] != button || out.Path[1] != dialog {
		t.Errorf("Path = %v, want [%v %v]", out.Path, button, dialog)
	}
}

func TestCycleAbortedByHopBudget(t *testing.T) {
	errs := captureErrors(t)
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{HopBudget: 2})

	const a, b, c = ids.WidgetID(1), ids.WidgetID(2), ids.WidgetID(3)
	Adapt(reg, a).On("click").To(b).Install()
	Adapt(reg, b).On("click").To(c).Install()
	Adapt(reg, c).On("click").To(a).Install()

	out := d.Dispatch(ClickKey.Envelope(a, Click{}))
	if out.State != CycleAborted {
		t.Fatalf("State = %v, want %v", out.State, CycleAborted)
	}
	if out.Hops != 2 {
		t.Errorf("Hops = %d, want 2", out.Hops)
	}
	if !errors.Is(out.Err, errors.ErrCycleAborted) {
		t.Errorf("Err = %v, want ErrCycleAborted", out.Err)
	}
	if len(*errs) != 1 || (*errs)[0].Kind != errors.KindCycle {
		t.Errorf("reported errors = %v, want one cycle error", *errs)
	}
}

func TestCycleAbortedByPathGuard(t *testing.T) {
	captureErrors(t)
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{HopBudget: 100})

	Adapt(reg, 1).On("click").To(2).Install()
	Adapt(reg, 2).On("click").To(3).Install()
	Adapt(reg, 3).On("click").To(1).Install()

	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	if out.State != CycleAborted {
		t.Fatalf("State = %v, want %v", out.State, CycleAborted)
	}
	if out.Hops != 2 {
		t.Errorf("Hops = %d, want 2 (abort before re-entering widget 1)", out.Hops)
	}
}

func TestForwardToSameWidgetDifferentKind(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})
	submitted := false
	event.On(reg, 1, SubmitKey, func(Submit, *event.Context) { submitted = true })
	Adapt(reg, 1).On(ClickKey.Kind()).To(1).As(SubmitKey.Kind()).
		Transform(func(any) (any, bool) { return Submit{}, true }).
		Install()

	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	if out.State != Handled || !submitted {
		t.Errorf("State = %v, submitted = %v, want handled and true", out.State, submitted)
	}
}

func TestConsumeDoesNotStopOtherChains(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})

	var log []string
	Adapt(reg, 1).On("click").To(2).Install()
	Adapt(reg, 1).On("click").To(3).Install()
	reg.Register(1, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "w1") }))
	reg.Register(2, "click", event.HandlerFunc(func(ctx *event.Context) {
		log = append(log, "w2")
		ctx.Consume()
	}))
	reg.Register(3, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "w3") }))

	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	want := []string{"w2", "w3", "w1"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
	if out.State != Consumed || out.Hops != 2 || out.Invoked != 3 {
		t.Errorf("Outcome = %+v", out)
	}
}

func TestForwardToParent(t *testing.T) {
	tr := tree.New(ids.NewAllocator(), "root")
	panel, _ := tr.Add(tr.Root(), "panel")
	button, _ := tr.Add(panel, "button")

	reg := event.NewRegistry(tr.Allocator())
	d := New(reg, Config{Tree: tr})
	Adapt(reg, button).On("scroll").ToParent().Install()

	var got ids.WidgetID
	reg.Register(panel, "scroll", event.HandlerFunc(func(ctx *event.Context) { got = ctx.Widget }))

	out := d.Dispatch(event.Envelope{Kind: "scroll", Source: button})
	if got != panel || out.Hops != 1 {
		t.Errorf("parent handler saw %v, hops %d", got, out.Hops)
	}

	// Without a tree, parent adapters are inert.
	d2 := New(reg, Config{})
	if out := d2.Dispatch(event.Envelope{Kind: "scroll", Source: button}); out.State != Unhandled {
		t.Errorf("State without tree = %v, want %v", out.State, Unhandled)
	}
}

func TestTransformRejectsPayload(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})
	Adapt(reg, 1).On("click").Via(event.Forward(2, ClickKey, SubmitKey, func(Click) Submit { return Submit{} })).Install()
	reg.Register(2, "submit", event.HandlerFunc(func(*event.Context) { t.Error("submit handler should not run") }))

	out := d.Dispatch(event.Envelope{Kind: "click", Payload: "raw", Source: 1})
	if out.State != Unhandled || out.Hops != 0 {
		t.Errorf("Outcome = %+v, want unhandled with no hops", out)
	}
}

func TestStateTransitions(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	var states []State
	d := New(reg, Config{OnState: func(_ event.Envelope, s State) { states = append(states, s) }})
	Adapt(reg, 1).On("click").To(2).Install()
	reg.Register(2, "click", event.HandlerFunc(func(ctx *event.Context) { ctx.Consume() }))

	d.Dispatch(ClickKey.Envelope(1, Click{}))
	want := []State{Pending, Resolving, Forwarding, Resolving, Delivering, Consumed}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states[%d] = %v, want %v", i, states[i], want[i])
		}
	}
}

func TestReentrantDispatchDeferred(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})

	var inner Outcome
	var log []string
	reg.Register(1, "click", event.HandlerFunc(func(ctx *event.Context) {
		log = append(log, "click")
		inner = d.Dispatch(SubmitKey.Envelope(2, Submit{}))
		log = append(log, "after")
	}))
	reg.Register(2, "submit", event.HandlerFunc(func(*event.Context) { log = append(log, "submit") }))

	d.Dispatch(ClickKey.Envelope(1, Click{}))
	if inner.State != Deferred {
		t.Errorf("inner State = %v, want %v", inner.State, Deferred)
	}
	if d.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", d.Pending())
	}
	outs := d.Flush()
	if len(outs) != 1 || outs[0].State != Handled {
		t.Errorf("Flush outcomes = %+v", outs)
	}
	want := []string{"click", "after", "submit"}
	for i := range want {
		if i >= len(log) || log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestRecoverPanics(t *testing.T) {
	var panics []*errors.PanicError
	old := errors.Handler()
	errors.SetHandler(&captureHandler{onPanic: func(p *errors.PanicError) { panics = append(panics, p) }})
	defer errors.SetHandler(old)

	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{RecoverPanics: true})
	ran := false
	bad := reg.Register(1, "click", event.HandlerFunc(func(*event.Context) { panic("boom") }))
	reg.Register(1, "click", event.HandlerFunc(func(*event.Context) { ran = true }))

	d.Dispatch(ClickKey.Envelope(1, Click{}))
	if len(panics) != 1 || panics[0].Op != "dispatch.invoke" {
		t.Fatalf("panics = %v", panics)
	}
	if panics[0].Widget != 1 || panics[0].Handler != uint64(bad) {
		t.Errorf("Widget, Handler = %d, %d, want 1, %d", panics[0].Widget, panics[0].Handler, bad)
	}
	if !ran {
		t.Error("handler after the panicking one did not run")
	}
}

func TestTeardownStopsRemainingHandlers(t *testing.T) {
	alloc := ids.NewAllocator()
	tr := tree.New(alloc, "root")
	reg := event.NewRegistry(alloc)
	tr.OnRemove(func(w ids.WidgetID) { reg.UnregisterAll(w) })
	d := New(reg, Config{Tree: tr})

	w, _ := tr.Add(tr.Root(), "dialog")
	other, _ := tr.Add(tr.Root(), "other")
	var log []string
	reg.Register(w, "click", event.HandlerFunc(func(*event.Context) {
		log = append(log, "close")
		if err := tr.Remove(w); err != nil {
			t.Error(err)
		}
	}))
	reg.Register(w, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "after-close") }))
	reg.RegisterAdapter(w, "click", event.Redirect(other))
	reg.Register(other, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "other") }))

	out := d.Dispatch(ClickKey.Envelope(w, Click{}))
	if len(log) != 1 || log[0] != "close" {
		t.Errorf("log = %v, want [close]", log)
	}
	if out.State != Handled || out.Hops != 0 {
		t.Errorf("outcome = %v after %d hops, want %v after 0", out.State, out.Hops, Handled)
	}
}

func TestUnregisterLaterSiblingDuringDispatch(t *testing.T) {
	reg := event.NewRegistry(ids.NewAllocator())
	d := New(reg, Config{})
	var log []string
	var second ids.HandlerID
	reg.Register(1, "click", event.HandlerFunc(func(*event.Context) {
		log = append(log, "first")
		reg.Unregister(second)
	}))
	second = reg.Register(1, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "second") }))
	reg.Register(1, "click", event.HandlerFunc(func(*event.Context) { log = append(log, "third") }))

	out := d.Dispatch(ClickKey.Envelope(1, Click{}))
	if len(log) != 2 || log[0] != "first" || log[1] != "third" {
		t.Errorf("log = %v, want [first third]", log)
	}
	if out.Invoked != 2 {
		t.Errorf("Invoked = %d, want 2", out.Invoked)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Pending, "pending"},
		{Resolving, "resolving"},
		{Delivering, "delivering"},
		{Forwarding, "forwarding"},
		{Consumed, "consumed"},
		{Handled, "handled"},
		{Unhandled, "unhandled"},
		{CycleAborted, "cycle-aborted"},
		{Deferred, "deferred"},
		{State(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
	if Forwarding.Terminal() || !CycleAborted.Terminal() {
		t.Error("Terminal() misclassifies states")
	}
}

func TestInstallWithoutKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Adapt(event.NewRegistry(ids.NewAllocator()), 1).To(2).Install()
}

type captureHandler struct {
	onError func(*errors.RelayError)
	onPanic func(*errors.PanicError)
}

func (h *captureHandler) HandleError(err *errors.RelayError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
