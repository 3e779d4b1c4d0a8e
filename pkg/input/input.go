// Package input defines the raw and semantic input events produced by the
// platform layer and the adapters that turn one into the other.
package input

import (
	"math"

	"github.com/go-drift/relay/pkg/event"
	"github.com/go-drift/relay/pkg/geometry"
	"github.com/go-drift/relay/pkg/ids"
)

// PointerPhase represents the phase of a pointer event.
type PointerPhase uint8

const (
	PointerPhaseDown PointerPhase = iota
	PointerPhaseMove
	PointerPhaseUp
	PointerPhaseCancel
)

func (p PointerPhase) String() string {
	switch p {
	case PointerPhaseDown:
		return "down"
	case PointerPhaseMove:
		return "move"
	case PointerPhaseUp:
		return "up"
	case PointerPhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Pointer is a raw pointer sample in device pixels, as delivered by the
// platform.
type Pointer struct {
	PointerID int64
	Phase     PointerPhase
	Position  geometry.Point[geometry.Device]
}

// Click is a completed tap in logical pixels.
type Click struct {
	Position geometry.Point[geometry.DIP]
}

// Scroll is a wheel or trackpad scroll in lines.
type Scroll struct {
	Delta geometry.Vector[geometry.DIP]
}

// Event keys.
var (
	PointerKey = event.NewKey[Pointer]("pointer")
	ClickKey   = event.NewKey[Click]("click")
	ScrollKey  = event.NewKey[Scroll]("scroll")
)

// ClickAdapter forwards pointer-up samples as Click events to widget to,
// converting device pixels with the scale factor. Other phases are not
// forwarded. A factor NewScale rejects is an error.
func ClickAdapter(to ids.WidgetID, factor float64) (event.Adapter, error) {
	s, err := geometry.NewScale(factor)
	if err != nil {
		return event.Adapter{}, err
	}
	return event.Adapter{
		To:   to,
		Kind: ClickKey.Kind(),
		Transform: func(payload any) (any, bool) {
			p, ok := payload.(Pointer)
			if !ok || p.Phase != PointerPhaseUp {
				return nil, false
			}
			return Click{Position: s.PointToDIP(p.Position)}, true
		},
	}, nil
}

// ScrollLine is the logical distance scrolled per line.
const ScrollLine = 13.0

// ScrollState is the scroll offset of a content box inside a viewport. The
// offset is never positive and never scrolls the content past its far edge.
type ScrollState struct {
	Offset   geometry.Vector[geometry.DIP]
	Content  geometry.Size[geometry.DIP]
	Viewport geometry.Size[geometry.DIP]
	// Horizontal and Vertical enable scrolling on each axis.
	Horizontal bool
	Vertical   bool
}

// Apply scrolls by delta lines and returns the new offset.
func (s *ScrollState) Apply(delta geometry.Vector[geometry.DIP]) geometry.Vector[geometry.DIP] {
	if s.Horizontal {
		s.Offset.X = clampOffset(s.Offset.X+delta.X*ScrollLine, s.Viewport.Width-s.Content.Width)
	}
	if s.Vertical {
		s.Offset.Y = clampOffset(s.Offset.Y+delta.Y*ScrollLine, s.Viewport.Height-s.Content.Height)
	}
	return s.Offset
}

func clampOffset(v, limit float64) float64 {
	return math.Min(0, math.Max(limit, v))
}

// InstallScroll registers a handler on w that applies Scroll events to
// state and consumes them.
func InstallScroll(reg *event.Registry, w ids.WidgetID, state *ScrollState) ids.HandlerID {
	return event.On(reg, w, ScrollKey, func(s Scroll, ctx *event.Context) {
		state.Apply(s.Delta)
		ctx.Consume()
	})
}
