// Package testing provides a harness for exercising widget trees and event
// dispatch without a platform layer.
//
// # Quick Start
//
//	func TestSubmit(t *testing.T) {
//	    tester := relaytest.NewUITesterWithT(t)
//	    dialog := tester.MustAdd(tester.Root(), "dialog")
//	    button := tester.MustAdd(dialog, "button")
//
//	    rec := relaytest.NewRecorder()
//	    tester.UI().Handle(dialog, input.ClickKey.Kind(), rec.Handler("dialog"))
//	    clicks, _ := input.ClickAdapter(dialog, tester.UI().Scale().Factor())
//	    tester.UI().Adapt(button).On(input.PointerKey.Kind()).Via(clicks).Install()
//
//	    tester.TapAt(button, geometry.Pt[geometry.DIP](10, 10))
//	    if got := rec.Calls(); len(got) != 1 {
//	        t.Errorf("calls = %v, want one click", got)
//	    }
//	}
//
// # Errors
//
// A tester installs its own error handler for its lifetime, so reports from
// the dispatcher (cycle aborts, queue overflows, recovered panics) can be
// asserted with Errors and Panics instead of being logged.
package testing
