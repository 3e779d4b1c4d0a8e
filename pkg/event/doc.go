// Package event defines the routed unit of dispatch and the per-widget
// handler registry.
//
// An [Envelope] carries a payload tagged with a [Kind] plus routing metadata.
// Handlers are registered per (widget, kind) and run in registration order.
// A [Key] pairs a kind with its static payload type so handlers can be
// written against concrete types:
//
//	var Click = event.NewKey[ClickEvent]("click")
//
//	event.On(reg, button, Click, func(c ClickEvent, ctx *event.Context) {
//	    fmt.Println("clicked at", c.X, c.Y)
//	    ctx.Consume()
//	})
//
// An [Adapter] is a registry entry that forwards instead of handling: the
// dispatcher re-targets the envelope at another widget, optionally rewriting
// its kind and payload on the way.
package event
