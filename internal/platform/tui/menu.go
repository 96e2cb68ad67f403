package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-terrain/internal/config"
	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/storage"
)

// MenuChoice is an entry of the start menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceSculpt
	ChoiceBrowse
	ChoiceQuit
)

// MenuItem represents a selectable start menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuKeyMap defines the key bindings for the start menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Browse key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Browse, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Browse: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "snapshots")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	summary  string // Terrain settings line
	history  string // Stored snapshots and sessions line
	config   core.RuntimeConfig
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, terrainCfg config.TerrainConfig, cfg core.RuntimeConfig) MenuModel {
	items := []MenuItem{
		{Choice: ChoiceSculpt, Title: "Sculpt a new terrain"},
		{Choice: ChoiceBrowse, Title: "Open a snapshot"},
		{Choice: ChoiceQuit, Title: "Quit"},
	}

	m := MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		summary: fmt.Sprintf("chunk %g × %g · resolution %g · %d materials",
			terrainCfg.Dimension, terrainCfg.Dimension, terrainCfg.Resolution, len(terrainCfg.Materials)),
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}

	if store == nil {
		m.history = "no database: snapshots are disabled"
		m.items = []MenuItem{items[0], items[2]}
	} else if n, err := store.CountSnapshots(); err == nil {
		m.history = fmt.Sprintf("%d snapshot(s) saved", n)
		if st, err := store.GetSessionStats(); err == nil && st.Sessions > 0 {
			m.history += fmt.Sprintf(" · %d session(s), %d deformations", st.Sessions, st.Deformations)
		}
	}

	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.selected = ChoiceQuit
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Browse):
		for _, it := range m.items {
			if it.Choice == ChoiceBrowse {
				m.selected = ChoiceBrowse
				return m, tea.Quit
			}
		}

	case key.Matches(msg, m.keys.Select):
		m.selected = m.items[m.cursor].Choice
		if m.selected == ChoiceQuit {
			m.quitting = true
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	cursorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  T E R R A I N  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(statusStyle.Render(m.summary), m.width))
	b.WriteString("\n")
	if m.history != "" {
		b.WriteString(centerText(statusStyle.Render(m.history), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		line := "  " + item.Title + "  "
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(statusStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
