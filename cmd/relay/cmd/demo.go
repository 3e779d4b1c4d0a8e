package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/relay/pkg/config"
	"github.com/go-drift/relay/pkg/dispatch"
	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/geometry"
	"github.com/go-drift/relay/pkg/input"
	"github.com/go-drift/relay/pkg/props"
	"github.com/go-drift/relay/pkg/ui"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run a dispatch demo",
		Long: `Build a small widget tree and dispatch events through it.

The default demo taps a button whose adapter forwards the tap to its dialog
as a submit event. With --cycle, two widgets forward to each other until the
cycle guard aborts the dispatch.

Flags:
  --scale N        Display scale used for pointer coordinates (default 1)
  --hop-budget N   Forwarding limit per dispatch (default 16)
  --trace          Print every dispatch state transition
  --cycle          Run the forwarding loop demo`,
		Usage: "relay demo [--scale N] [--hop-budget N] [--trace] [--cycle]",
		Run:   runDemo,
	})
}

type demoOptions struct {
	scale     float64
	hopBudget int
	trace     bool
	cycle     bool
}

var submitKey = event.NewKey[string]("submit")

func parseDemoArgs(args []string) (demoOptions, error) {
	opts := demoOptions{scale: 1}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--trace":
			opts.trace = true
		case "--cycle":
			opts.cycle = true
		case "--scale", "--hop-budget":
			if !hasValue {
				if i+1 >= len(args) {
					return opts, fmt.Errorf("%s requires a value", name)
				}
				value = args[i+1]
				i++
			}
			if name == "--scale" {
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return opts, fmt.Errorf("invalid --scale %q: %w", value, err)
				}
				opts.scale = f
			} else {
				n, err := strconv.Atoi(value)
				if err != nil {
					return opts, fmt.Errorf("invalid --hop-budget %q: %w", value, err)
				}
				opts.hopBudget = n
			}
		default:
			return opts, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return opts, nil
}

func runDemo(args []string) error {
	opts, err := parseDemoArgs(args)
	if err != nil {
		return err
	}

	r := config.Default()
	r.AppName = "demo"
	r.Scale = opts.scale
	if opts.hopBudget != 0 {
		r.HopBudget = opts.hopBudget
	}
	if err := r.Validate(); err != nil {
		return err
	}

	uiOpts := ui.Options{
		RootName:      r.AppName,
		Scale:         r.Scale,
		HopBudget:     r.HopBudget,
		MaxFlush:      r.MaxFlush,
		RecoverPanics: r.RecoverPanics,
	}
	if opts.trace {
		uiOpts.OnState = func(env event.Envelope, s dispatch.State) {
			fmt.Fprintf(stdout, "  %-14s %v\n", s, env)
		}
	}
	u, err := ui.New(uiOpts)
	if err != nil {
		return err
	}

	if opts.cycle {
		return demoCycle(u)
	}
	return demoSubmit(u)
}

func demoSubmit(u *ui.UI) error {
	dialog, err := u.AddWidget(u.Root(), "dialog")
	if err != nil {
		return err
	}
	button, err := u.AddWidget(dialog, "ok-button")
	if err != nil {
		return err
	}

	event.On(u.Registry(), dialog, submitKey, func(form string, ctx *event.Context) {
		fmt.Fprintf(stdout, "dialog: submit %q\n", form)
		ctx.Post(event.ToWidget(dialog), props.ChangeKey.Envelope(dialog, props.AddProp(props.Inactive)))
		ctx.Consume()
	})
	clicks, err := input.ClickAdapter(button, u.Scale().Factor())
	if err != nil {
		return err
	}
	u.Adapt(button).On(input.PointerKey.Kind()).Via(clicks).Install()
	u.Adapt(button).On(input.ClickKey.Kind()).
		Via(event.Forward(dialog, input.ClickKey, submitKey, func(input.Click) string { return "login" })).
		Install()

	pos := u.ToDevice(geometry.Pt[geometry.DIP](12, 8))
	for _, phase := range []input.PointerPhase{input.PointerPhaseDown, input.PointerPhaseUp} {
		out := u.Dispatch(input.PointerKey.Envelope(button, input.Pointer{PointerID: 1, Phase: phase, Position: pos}))
		printOutcome(u, "pointer "+phase.String(), out)
	}
	for _, out := range u.Flush() {
		printOutcome(u, "queued", out)
	}
	fmt.Fprintf(stdout, "dialog props: %v\n", u.Props().Get(dialog))
	return nil
}

func demoCycle(u *ui.UI) error {
	ping, err := u.AddWidget(u.Root(), "ping")
	if err != nil {
		return err
	}
	pong, err := u.AddWidget(u.Root(), "pong")
	if err != nil {
		return err
	}
	u.Adapt(ping).On(submitKey.Kind()).To(pong).Install()
	u.Adapt(pong).On(submitKey.Kind()).To(ping).Install()

	out := u.Dispatch(submitKey.Envelope(ping, "loop"))
	printOutcome(u, "loop", out)
	return nil
}

func printOutcome(u *ui.UI, label string, out dispatch.Outcome) {
	names := make([]string, len(out.Path))
	for i, w := range out.Path {
		names[i] = u.Tree().Name(w)
	}
	fmt.Fprintf(stdout, "%s: %s after %d hops, %d handlers [%s]\n",
		label, out.State, out.Hops, out.Invoked, strings.Join(names, " -> "))
}
