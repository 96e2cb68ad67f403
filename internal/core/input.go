package core

// Action represents a semantic terrain action, abstracted from physical input.
// The platform maps keys and mouse events to actions; the session consumes them.
type Action int

const (
	ActionNone          Action = iota
	ActionRaise                // Left mouse - deform up at pointer
	ActionLower                // Ctrl/Alt + left mouse, right mouse - deform down at pointer
	ActionIntensityUp          // "]"
	ActionIntensityDown        // "["
	ActionRadiusUp             // "+", "="
	ActionRadiusDown           // "-", "_"
	ActionExtendForward        // Up arrow
	ActionExtendBack           // Down arrow
	ActionExtendLeft           // Left arrow
	ActionExtendRight          // Right arrow
	ActionHighlight            // M
	ActionCyclePattern         // P
	ActionCycleMaterial        // F12
	ActionTogglePanelF1        // F1, "?" - controls help
	ActionTogglePanelF2        // F2 - statistics
	ActionTogglePanelF3        // F3 - brush parameters
	ActionTogglePanelF10       // F10 - chunk list
	ActionPanNorth             // W
	ActionPanSouth             // S
	ActionPanWest              // A
	ActionPanEast              // D
	ActionZoomIn               // Z
	ActionZoomOut              // X
	ActionRecenter             // C
	ActionSave                 // Ctrl+S - save snapshot
	ActionQuit                 // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:           "None",
	ActionRaise:          "Raise",
	ActionLower:          "Lower",
	ActionIntensityUp:    "IntensityUp",
	ActionIntensityDown:  "IntensityDown",
	ActionRadiusUp:       "RadiusUp",
	ActionRadiusDown:     "RadiusDown",
	ActionExtendForward:  "ExtendForward",
	ActionExtendBack:     "ExtendBack",
	ActionExtendLeft:     "ExtendLeft",
	ActionExtendRight:    "ExtendRight",
	ActionHighlight:      "Highlight",
	ActionCyclePattern:   "CyclePattern",
	ActionCycleMaterial:  "CycleMaterial",
	ActionTogglePanelF1:  "TogglePanelF1",
	ActionTogglePanelF2:  "TogglePanelF2",
	ActionTogglePanelF3:  "TogglePanelF3",
	ActionTogglePanelF10: "TogglePanelF10",
	ActionPanNorth:       "PanNorth",
	ActionPanSouth:       "PanSouth",
	ActionPanWest:        "PanWest",
	ActionPanEast:        "PanEast",
	ActionZoomIn:         "ZoomIn",
	ActionZoomOut:        "ZoomOut",
	ActionRecenter:       "Recenter",
	ActionSave:           "Save",
	ActionQuit:           "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// IsPointer reports whether the action targets a screen position.
func (a Action) IsPointer() bool {
	return a == ActionRaise || a == ActionLower
}

// Input is one queued input event. Pointer actions carry the screen cell
// they were issued at.
type Input struct {
	Action Action
	X, Y   int
}

// InputFrame is the ordered queue of inputs collected during one tick.
// The session drains it exactly once per Step.
type InputFrame struct {
	Events []Input
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set queues a non-pointer action.
func (f *InputFrame) Set(a Action) {
	f.Events = append(f.Events, Input{Action: a})
}

// SetAt queues a pointer action at a screen cell.
func (f *InputFrame) SetAt(a Action, x, y int) {
	f.Events = append(f.Events, Input{Action: a, X: x, Y: y})
}

// Has returns true if the given action was queued this frame.
func (f InputFrame) Has(a Action) bool {
	for _, ev := range f.Events {
		if ev.Action == a {
			return true
		}
	}
	return false
}

// Len returns the number of queued events.
func (f InputFrame) Len() int {
	return len(f.Events)
}

// Clear empties the queue for the next frame, keeping its capacity.
func (f *InputFrame) Clear() {
	f.Events = f.Events[:0]
}

// Clone creates an independent copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := InputFrame{Events: make([]Input, len(f.Events))}
	copy(clone.Events, f.Events)
	return clone
}
