package testing

import (
	"fmt"
	"sync/atomic"

	"github.com/go-drift/relay/pkg/dispatch"
	"github.com/go-drift/relay/pkg/geometry"
	"github.com/go-drift/relay/pkg/ids"
	"github.com/go-drift/relay/pkg/input"
)

// pointerState tracks the widget that captured a pointer on down.
type pointerState struct {
	widget   ids.WidgetID
	position geometry.Point[geometry.Device]
}

// nextPointerID is incremented for each new pointer to avoid collisions.
var nextPointerID atomic.Int64

func allocPointerID() int64 {
	return nextPointerID.Add(1)
}

// Tap simulates a tap on the first widget matched by finder.
func (t *UITester) Tap(finder Finder) ([]dispatch.Outcome, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return nil, fmt.Errorf("Tap: finder matched no widgets: %s", finder.Description())
	}
	return t.TapAt(result.First(), geometry.Point[geometry.DIP]{})
}

// TapAt simulates a tap on w at the given logical position. The pointer
// samples are sent in device pixels at the UI's scale.
func (t *UITester) TapAt(w ids.WidgetID, pos geometry.Point[geometry.DIP]) ([]dispatch.Outcome, error) {
	id := allocPointerID()
	device := t.ui.ToDevice(pos)
	down, err := t.SendPointerDown(w, device, id)
	if err != nil {
		return nil, err
	}
	up, err := t.SendPointerUp(device, id)
	if err != nil {
		return nil, err
	}
	return []dispatch.Outcome{down, up}, nil
}

// SendPointerDown sends a pointer-down sample to w and captures the pointer
// for it.
func (t *UITester) SendPointerDown(w ids.WidgetID, pos geometry.Point[geometry.Device], pointerID int64) (dispatch.Outcome, error) {
	if !t.ui.Tree().Contains(w) {
		return dispatch.Outcome{}, fmt.Errorf("SendPointerDown: unknown widget %v", w)
	}
	if t.pointers == nil {
		t.pointers = make(map[int64]*pointerState)
	}
	t.pointers[pointerID] = &pointerState{widget: w, position: pos}
	return t.sendPointer(w, input.Pointer{PointerID: pointerID, Phase: input.PointerPhaseDown, Position: pos}), nil
}

// SendPointerMove sends a pointer-move sample to the widget that captured
// pointerID.
func (t *UITester) SendPointerMove(pos geometry.Point[geometry.Device], pointerID int64) (dispatch.Outcome, error) {
	state := t.pointers[pointerID]
	if state == nil {
		return dispatch.Outcome{}, fmt.Errorf("SendPointerMove: pointer %d is not down", pointerID)
	}
	state.position = pos
	return t.sendPointer(state.widget, input.Pointer{PointerID: pointerID, Phase: input.PointerPhaseMove, Position: pos}), nil
}

// SendPointerUp sends a pointer-up sample and releases the pointer.
func (t *UITester) SendPointerUp(pos geometry.Point[geometry.Device], pointerID int64) (dispatch.Outcome, error) {
	state := t.pointers[pointerID]
	if state == nil {
		return dispatch.Outcome{}, fmt.Errorf("SendPointerUp: pointer %d is not down", pointerID)
	}
	delete(t.pointers, pointerID)
	return t.sendPointer(state.widget, input.Pointer{PointerID: pointerID, Phase: input.PointerPhaseUp, Position: pos}), nil
}

// SendPointerCancel cancels pointerID at its last position.
func (t *UITester) SendPointerCancel(pointerID int64) (dispatch.Outcome, error) {
	state := t.pointers[pointerID]
	if state == nil {
		return dispatch.Outcome{}, fmt.Errorf("SendPointerCancel: pointer %d is not down", pointerID)
	}
	delete(t.pointers, pointerID)
	return t.sendPointer(state.widget, input.Pointer{PointerID: pointerID, Phase: input.PointerPhaseCancel, Position: state.position}), nil
}

// Scroll sends a scroll of delta lines to the first widget matched by finder.
func (t *UITester) Scroll(finder Finder, delta geometry.Vector[geometry.DIP]) (dispatch.Outcome, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return dispatch.Outcome{}, fmt.Errorf("Scroll: finder matched no widgets: %s", finder.Description())
	}
	return t.Dispatch(input.ScrollKey.Envelope(result.First(), input.Scroll{Delta: delta})), nil
}

func (t *UITester) sendPointer(w ids.WidgetID, p input.Pointer) dispatch.Outcome {
	return t.Dispatch(input.PointerKey.Envelope(w, p))
}
