package session

// Panel identifies one toggleable HUD panel.
type Panel int

const (
	PanelHelp   Panel = iota // F1
	PanelStats               // F2
	PanelBrush               // F3
	PanelChunks              // F10
	panelCount
)

var panelNames = [panelCount]string{"Help", "Statistics", "Brush", "Chunks"}

func (p Panel) String() string {
	if p < 0 || p >= panelCount {
		return "Unknown"
	}
	return panelNames[p]
}

// Panels holds the visibility of every HUD panel.
type Panels struct {
	visible [panelCount]bool
}

// DefaultPanels shows statistics and brush parameters.
func DefaultPanels() Panels {
	var p Panels
	p.visible[PanelStats] = true
	p.visible[PanelBrush] = true
	return p
}

// Toggle flips the visibility of one panel.
func (p *Panels) Toggle(panel Panel) {
	if panel >= 0 && panel < panelCount {
		p.visible[panel] = !p.visible[panel]
	}
}

// Visible reports whether panel is shown.
func (p Panels) Visible(panel Panel) bool {
	if panel < 0 || panel >= panelCount {
		return false
	}
	return p.visible[panel]
}
