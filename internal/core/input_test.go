package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRadiusUp)
	f.SetAt(ActionRaise, 4, 7)
	f.Set(ActionCyclePattern)

	if f.Len() != 3 {
		t.Fatalf("expected 3 events, got %d", f.Len())
	}
	if f.Events[1] != (Input{Action: ActionRaise, X: 4, Y: 7}) {
		t.Errorf("pointer event = %+v", f.Events[1])
	}
	if !f.Has(ActionCyclePattern) || f.Has(ActionLower) {
		t.Error("Has() reported wrong membership")
	}
}

func TestInputFrameCloneIsIndependent(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionHighlight)

	clone := f.Clone()
	f.Clear()

	if f.Len() != 0 {
		t.Errorf("Clear() left %d events", f.Len())
	}
	if clone.Len() != 1 || !clone.Has(ActionHighlight) {
		t.Error("clone should survive Clear() of the original")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionRaise, "Raise"},
		{ActionTogglePanelF10, "TogglePanelF10"},
		{Action(999), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.action.String(); got != tc.expected {
			t.Errorf("Action(%d).String() = %q, expected %q", tc.action, got, tc.expected)
		}
	}
	if !ActionLower.IsPointer() || ActionSave.IsPointer() {
		t.Error("IsPointer() misclassified actions")
	}
}
