package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-terrain/internal/session"
)

// sidebarWidth is the outer width of the HUD column, borders included.
const sidebarWidth = 32

// maxChunkRows caps the chunk list panel.
const maxChunkRows = 12

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(sidebarWidth - 2)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	panelLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderHUD stacks the visible panels into one column.
// Returns an empty string if no panel is visible.
func renderHUD(s *session.Session, h help.Model, keys KeyMap) string {
	panels := s.Panels()
	var blocks []string

	if panels.Visible(session.PanelStats) {
		blocks = append(blocks, statsPanel(s.Stats()))
	}
	if panels.Visible(session.PanelBrush) {
		blocks = append(blocks, brushPanel(s))
	}
	if panels.Visible(session.PanelChunks) {
		blocks = append(blocks, chunksPanel(s))
	}
	if panels.Visible(session.PanelHelp) {
		blocks = append(blocks, helpPanel(h, keys))
	}

	if len(blocks) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// hudVisible reports whether any panel is shown.
func hudVisible(p session.Panels) bool {
	for _, pn := range []session.Panel{session.PanelHelp, session.PanelStats, session.PanelBrush, session.PanelChunks} {
		if p.Visible(pn) {
			return true
		}
	}
	return false
}

func panel(title string, lines ...string) string {
	body := panelTitleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return panelStyle.Render(body)
}

func field(label string, value any) string {
	return panelLabelStyle.Render(label+": ") + fmt.Sprint(value)
}

// statsPanel shows the overlay values as of the last one-second refresh.
func statsPanel(st session.Stats) string {
	return panel("Statistics",
		field("FPS", st.FPS)+"  "+field("Avg", st.AvgFPS),
		field("Mesh Count", st.Meshes),
		field("Total Vertices", st.Vertices),
		field("Total Triangles", st.Triangles),
		field("Neighborhood", st.Radius),
		field("Intensity", st.Intensity),
		field("Pattern", st.Pattern),
	)
}

func brushPanel(s *session.Session) string {
	return panel("Brush",
		field("Radius", s.Radius()),
		field("Intensity", s.Intensity()),
		field("Pattern", s.PatternName()),
		field("Material", s.Material().Name),
	)
}

func chunksPanel(s *session.Session) string {
	chunks := s.Registry().Chunks()
	lines := make([]string, 0, min(len(chunks), maxChunkRows)+1)
	for i, c := range chunks {
		if i == maxChunkRows {
			lines = append(lines, panelLabelStyle.Render(fmt.Sprintf("… %d more", len(chunks)-maxChunkRows)))
			break
		}
		line := fmt.Sprintf("%2d %s", c.ID, c.Position)
		if v := c.Version(); v > 0 {
			line += panelLabelStyle.Render(fmt.Sprintf(" v%d", v))
		}
		lines = append(lines, line)
	}
	return panel(fmt.Sprintf("Chunks (%d)", len(chunks)), lines...)
}

func helpPanel(h help.Model, keys KeyMap) string {
	h.ShowAll = false
	h.Width = sidebarWidth - 4
	var lines []string
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			if !b.Enabled() && len(b.Keys()) > 0 {
				continue
			}
			hb := b.Help()
			lines = append(lines, fmt.Sprintf("%-8s %s", hb.Key, panelLabelStyle.Render(hb.Desc)))
		}
	}
	lines = append(lines, "", h.View(keys))
	return panel("Controls", lines...)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
