package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-terrain/internal/storage"
)

// Browser layout constants
const (
	minWidthForHistory = 100 // Minimum width to show the session history sidebar
	historyWidth       = 30
	maxSnapshots       = 200
	maxHistorySessions = 8
)

// BrowserKeyMap defines the key bindings for the snapshot browser.
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sculpt"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel lists stored snapshots and lets the user pick one to sculpt.
type BrowserModel struct {
	store     *storage.Store
	snapshots []storage.SnapshotEntry
	sessions  []storage.SessionRecord
	stats     *storage.SessionStats
	table     table.Model
	help      help.Model
	keys      BrowserKeyMap
	width     int
	height    int
	selected  int64 // Snapshot chosen with enter, 0 if none
	status    string
	quitting  bool
	goingBack bool
}

// NewBrowserModel creates a snapshot browser.
func NewBrowserModel(store *storage.Store, width, height int) BrowserModel {
	h := help.New()
	h.ShowAll = false

	m := BrowserModel{
		store:  store,
		keys:   DefaultBrowserKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m BrowserModel) showHistory() bool {
	return m.width >= minWidthForHistory
}

// createTable creates a table sized for the current window.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 24},
		{Title: "Chunks", Width: 7},
		{Title: "Vertices", Width: 9},
		{Title: "Size", Width: 8},
		{Title: "Date", Width: 13},
	}

	tableWidth := m.width - 6
	if m.showHistory() {
		tableWidth -= historyWidth + 3
	}
	fixed := 0
	for i, c := range columns {
		if i != 1 {
			fixed += c.Width + 2
		}
	}
	if name := tableWidth - fixed - 2; name > 10 {
		columns[1].Width = min(name, 40)
	} else {
		columns[1].Width = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload fetches snapshots and session history from the store.
func (m *BrowserModel) reload() {
	m.snapshots, m.sessions, m.stats = nil, nil, nil
	if m.store != nil {
		if list, err := m.store.ListSnapshots(maxSnapshots); err == nil {
			m.snapshots = list
		} else {
			m.status = "Could not list snapshots: " + err.Error()
		}
		if recent, err := m.store.RecentSessions(maxHistorySessions); err == nil {
			m.sessions = recent
		}
		if st, err := m.store.GetSessionStats(); err == nil {
			m.stats = st
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current snapshots.
func (m *BrowserModel) updateTableRows() {
	rows := make([]table.Row, len(m.snapshots))
	for i, s := range m.snapshots {
		rows[i] = table.Row{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			strconv.Itoa(s.ChunkCount),
			strconv.Itoa(s.VertexCount),
			formatBytes(s.Size),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

func (m BrowserModel) current() (storage.SnapshotEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.snapshots) {
		return storage.SnapshotEntry{}, false
	}
	return m.snapshots[i], true
}

// Init initializes the browser.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Load):
			if entry, ok := m.current(); ok {
				m.selected = entry.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if entry, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteSnapshot(entry.ID); err != nil {
					m.status = "Delete failed: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Deleted snapshot #%d", entry.ID)
				}
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting || m.goingBack || m.selected != 0 {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("TERRAIN SNAPSHOTS", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := boxStyle.Render(m.renderTableContent())

	if m.showHistory() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderHistory(), "  ", tableRendered))
	} else {
		b.WriteString(centerText(tableRendered, m.width))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderHistory renders the session totals and recent sessions.
func (m BrowserModel) renderHistory() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(historyWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Sessions"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", historyWidth-4))
	sb.WriteString("\n")

	if m.stats != nil {
		sb.WriteString(field("Total", m.stats.Sessions) + "\n")
		sb.WriteString(field("Deformations", m.stats.Deformations) + "\n")
		sb.WriteString(field("Chunks added", m.stats.ChunksCreated) + "\n")
		sb.WriteString(field("Time", formatSeconds(m.stats.TotalSeconds)) + "\n")
	}
	if len(m.sessions) > 0 {
		sb.WriteString("\n")
	}
	for _, rec := range m.sessions {
		who := rec.User
		if who == "" {
			who = rec.Origin
		}
		line := fmt.Sprintf("%s %s %d×", rec.CreatedAt.Format("01/02"), who, rec.Deformations)
		if len(line) > historyWidth-4 {
			line = line[:historyWidth-5] + "."
		}
		sb.WriteString(line + "\n")
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

// renderTableContent renders the table or empty message.
func (m BrowserModel) renderTableContent() string {
	if len(m.snapshots) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No snapshots saved yet.\nPress ctrl+s while sculpting to save one!")
	}
	return m.table.View()
}

// Selected returns the snapshot chosen with enter, or 0.
func (m BrowserModel) Selected() int64 {
	return m.selected
}

// IsGoingBack returns true if user left the browser without choosing.
func (m BrowserModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BrowserModel) IsQuitting() bool {
	return m.quitting
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}

func formatSeconds(s int64) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	if s < 3600 {
		return fmt.Sprintf("%dm%02ds", s/60, s%60)
	}
	return fmt.Sprintf("%dh%02dm", s/3600, (s%3600)/60)
}

// RunBrowser runs the snapshot browser.
// Returns the chosen snapshot ID, or 0 if the user left without choosing.
func RunBrowser(store *storage.Store, width, height int) (int64, error) {
	model := NewBrowserModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(BrowserModel)
	if !ok {
		return 0, nil
	}
	return m.Selected(), nil
}
