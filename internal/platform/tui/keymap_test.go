package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapperMapKey(t *testing.T) {
	km := NewKeyMapper(DefaultKeyMap())

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"intensity up", runeKey("]"), core.ActionIntensityUp, false},
		{"intensity down", runeKey("["), core.ActionIntensityDown, false},
		{"radius up plus", runeKey("+"), core.ActionRadiusUp, false},
		{"radius up equals", runeKey("="), core.ActionRadiusUp, false},
		{"radius down", runeKey("-"), core.ActionRadiusDown, false},
		{"extend forward", tea.KeyMsg{Type: tea.KeyUp}, core.ActionExtendForward, false},
		{"extend back", tea.KeyMsg{Type: tea.KeyDown}, core.ActionExtendBack, false},
		{"extend left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionExtendLeft, false},
		{"extend right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionExtendRight, false},
		{"highlight", runeKey("m"), core.ActionHighlight, false},
		{"pattern", runeKey("p"), core.ActionCyclePattern, false},
		{"material", tea.KeyMsg{Type: tea.KeyF12}, core.ActionCycleMaterial, false},
		{"help panel", tea.KeyMsg{Type: tea.KeyF1}, core.ActionTogglePanelF1, false},
		{"stats panel", tea.KeyMsg{Type: tea.KeyF2}, core.ActionTogglePanelF2, false},
		{"brush panel", tea.KeyMsg{Type: tea.KeyF3}, core.ActionTogglePanelF3, false},
		{"chunk panel", tea.KeyMsg{Type: tea.KeyF10}, core.ActionTogglePanelF10, false},
		{"pan", runeKey("w"), core.ActionPanNorth, false},
		{"zoom", runeKey("z"), core.ActionZoomIn, false},
		{"recenter", runeKey("c"), core.ActionRecenter, false},
		{"save", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionSave, false},
		{"quit", runeKey("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey("y"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestKeyMapperMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper(DefaultKeyMap())
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey("p"), &frame) {
		t.Error("p should not quit")
	}
	if km.MapKeyToFrame(runeKey("y"), &frame) {
		t.Error("unbound key should not quit")
	}
	if !km.MapKeyToFrame(runeKey("q"), &frame) {
		t.Error("q should quit")
	}

	if frame.Len() != 1 || !frame.Has(core.ActionCyclePattern) {
		t.Errorf("frame = %+v, want only CyclePattern", frame.Events)
	}
}

func TestKeyMapperMapMouse(t *testing.T) {
	km := NewKeyMapper(DefaultKeyMap())

	tests := []struct {
		name string
		msg  tea.MouseMsg
		want core.Action
	}{
		{"left", tea.MouseMsg{Button: tea.MouseButtonLeft}, core.ActionRaise},
		{"ctrl left", tea.MouseMsg{Button: tea.MouseButtonLeft, Ctrl: true}, core.ActionLower},
		{"alt left", tea.MouseMsg{Button: tea.MouseButtonLeft, Alt: true}, core.ActionLower},
		{"right", tea.MouseMsg{Button: tea.MouseButtonRight}, core.ActionLower},
		{"middle", tea.MouseMsg{Button: tea.MouseButtonMiddle}, core.ActionNone},
		{"wheel", tea.MouseMsg{Button: tea.MouseButtonWheelUp}, core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.MapMouse(tt.msg); got != tt.want {
				t.Errorf("MapMouse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyMapHelp(t *testing.T) {
	keys := DefaultKeyMap()
	if len(keys.ShortHelp()) == 0 {
		t.Error("ShortHelp() is empty")
	}
	total := 0
	for _, group := range keys.FullHelp() {
		total += len(group)
	}
	// Every action binding plus the two mouse entries
	if total != 26 {
		t.Errorf("FullHelp() has %d bindings, want 26", total)
	}
}
