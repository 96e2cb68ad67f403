package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// KeyMap defines the key bindings of the sculpting screen.
type KeyMap struct {
	IntensityUp   key.Binding
	IntensityDown key.Binding
	RadiusUp      key.Binding
	RadiusDown    key.Binding
	ExtendForward key.Binding
	ExtendBack    key.Binding
	ExtendLeft    key.Binding
	ExtendRight   key.Binding
	Highlight     key.Binding
	CyclePattern  key.Binding
	CycleMaterial key.Binding
	PanelHelp     key.Binding
	PanelStats    key.Binding
	PanelBrush    key.Binding
	PanelChunks   key.Binding
	PanNorth      key.Binding
	PanSouth      key.Binding
	PanWest       key.Binding
	PanEast       key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	Recenter      key.Binding
	Save          key.Binding
	Quit          key.Binding

	// Mouse bindings are documented only; they never match key messages.
	Raise key.Binding
	Lower key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Raise, k.Lower, k.PanelHelp, k.Save, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Raise, k.Lower, k.IntensityUp, k.IntensityDown, k.RadiusUp, k.RadiusDown},
		{k.ExtendForward, k.ExtendBack, k.ExtendLeft, k.ExtendRight, k.Highlight, k.CyclePattern},
		{k.CycleMaterial, k.PanelHelp, k.PanelStats, k.PanelBrush, k.PanelChunks},
		{k.PanNorth, k.PanWest, k.PanSouth, k.PanEast, k.ZoomIn, k.ZoomOut},
		{k.Recenter, k.Save, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		IntensityUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "intensity +")),
		IntensityDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "intensity -")),
		RadiusUp:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "radius +")),
		RadiusDown:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "radius -")),
		ExtendForward: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "extend north")),
		ExtendBack:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "extend south")),
		ExtendLeft:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "extend west")),
		ExtendRight:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "extend east")),
		Highlight:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "highlight")),
		CyclePattern:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next pattern")),
		CycleMaterial: key.NewBinding(key.WithKeys("f12"), key.WithHelp("F12", "next material")),
		PanelHelp:     key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("F1", "help")),
		PanelStats:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "statistics")),
		PanelBrush:    key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "brush")),
		PanelChunks:   key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "chunks")),
		PanNorth:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "pan north")),
		PanSouth:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pan south")),
		PanWest:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "pan west")),
		PanEast:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pan east")),
		ZoomIn:        key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom in")),
		ZoomOut:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "zoom out")),
		Recenter:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "recenter")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Raise: key.NewBinding(key.WithKeys(), key.WithHelp("click", "raise")),
		Lower: key.NewBinding(key.WithKeys(), key.WithHelp("ctrl/right click", "lower")),
	}
}

// KeyMapper translates Bubble Tea key and mouse messages to terrain actions.
// This centralizes bindings and makes them testable.
type KeyMapper struct {
	keys     KeyMap
	bindings []boundAction
}

type boundAction struct {
	binding *key.Binding
	action  core.Action
}

// NewKeyMapper creates a key mapper for the given bindings.
func NewKeyMapper(keys KeyMap) *KeyMapper {
	km := &KeyMapper{keys: keys}
	k := &km.keys
	km.bindings = []boundAction{
		{&k.IntensityUp, core.ActionIntensityUp},
		{&k.IntensityDown, core.ActionIntensityDown},
		{&k.RadiusUp, core.ActionRadiusUp},
		{&k.RadiusDown, core.ActionRadiusDown},
		{&k.ExtendForward, core.ActionExtendForward},
		{&k.ExtendBack, core.ActionExtendBack},
		{&k.ExtendLeft, core.ActionExtendLeft},
		{&k.ExtendRight, core.ActionExtendRight},
		{&k.Highlight, core.ActionHighlight},
		{&k.CyclePattern, core.ActionCyclePattern},
		{&k.CycleMaterial, core.ActionCycleMaterial},
		{&k.PanelHelp, core.ActionTogglePanelF1},
		{&k.PanelStats, core.ActionTogglePanelF2},
		{&k.PanelBrush, core.ActionTogglePanelF3},
		{&k.PanelChunks, core.ActionTogglePanelF10},
		{&k.PanNorth, core.ActionPanNorth},
		{&k.PanSouth, core.ActionPanSouth},
		{&k.PanWest, core.ActionPanWest},
		{&k.PanEast, core.ActionPanEast},
		{&k.ZoomIn, core.ActionZoomIn},
		{&k.ZoomOut, core.ActionZoomOut},
		{&k.Recenter, core.ActionRecenter},
		{&k.Save, core.ActionSave},
	}
	return km
}

// Keys returns the bindings, e.g. for the help view.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.bindings {
		if key.Matches(msg, *b.binding) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame queues the action for a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// MapMouse returns the deformation a mouse button press selects: left
// raises, left with ctrl or alt lowers, right lowers. Other buttons map to
// ActionNone.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) core.Action {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Ctrl || msg.Alt {
			return core.ActionLower
		}
		return core.ActionRaise
	case tea.MouseButtonRight:
		return core.ActionLower
	}
	return core.ActionNone
}
