package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/config"
	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/session"
	"github.com/vovakirdan/tui-terrain/internal/storage"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

type appState int

const (
	stateMenu appState = iota
	stateBrowser
	stateSculpt
)

// AppModel manages the full flow: menu -> (browser ->) sculpt -> menu.
// It is the top-level model for SSH connections and the bare terrain command.
type AppModel struct {
	store       *storage.Store
	terrain     config.TerrainConfig
	config      core.RuntimeConfig
	opts        Options
	sessionOpts []session.Option

	state    appState
	menu     MenuModel
	browser  BrowserModel
	sculpt   Model
	notice   string
	quitting bool
}

// NewAppModel creates the top-level model. sessionOpts are applied to every
// session the flow starts.
func NewAppModel(store *storage.Store, terrainCfg config.TerrainConfig, cfg core.RuntimeConfig, opts Options, sessionOpts ...session.Option) AppModel {
	if opts.Origin == "" {
		opts.Origin = "local"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return AppModel{
		store:       store,
		terrain:     terrainCfg,
		config:      cfg,
		opts:        opts,
		sessionOpts: sessionOpts,
		menu:        NewMenuModel(store, terrainCfg, cfg),
	}
}

// Init initializes the flow.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen. Child models end with
// tea.Quit; the flow swallows it and switches screens instead.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case stateBrowser:
		return m.updateBrowser(msg)
	case stateSculpt:
		return m.updateSculpt(msg)
	}
	return m.updateMenu(msg)
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch m.menu.Selected() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case ChoiceSculpt:
		return m.startSculpt(nil)
	case ChoiceBrowse:
		m.browser = NewBrowserModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.state = stateBrowser
		return m, nil
	}
	return m, cmd
}

func (m AppModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.browser.Update(msg)
	if browser, ok := next.(BrowserModel); ok {
		m.browser = browser
	}

	switch {
	case m.browser.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.browser.IsGoingBack():
		return m.backToMenu("")

	case m.browser.Selected() != 0:
		id := m.browser.Selected()
		_, snap, err := m.store.LoadSnapshot(id)
		if err != nil {
			m.opts.Logger.Error("cannot load snapshot", "id", id, "error", err)
			return m.backToMenu(fmt.Sprintf("Snapshot #%d could not be loaded", id))
		}
		return m.startSculpt(&snap)
	}
	return m, cmd
}

func (m AppModel) updateSculpt(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.sculpt.Update(msg)
	if sculpt, ok := next.(Model); ok {
		m.sculpt = sculpt
	}

	if m.sculpt.IsQuitting() {
		return m.backToMenu("")
	}
	return m, cmd
}

// startSculpt creates a fresh session, optionally restored from snap.
func (m AppModel) startSculpt(snap *terrain.Snapshot) (tea.Model, tea.Cmd) {
	seed := m.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := append([]session.Option{
		session.WithSeed(seed),
		session.WithViewport(m.config.ScreenW, m.config.ScreenH),
	}, m.sessionOpts...)

	sess, err := session.New(m.terrain, opts...)
	if err == nil && snap != nil {
		err = sess.Restore(*snap)
	}
	if err != nil {
		m.opts.Logger.Error("cannot start session", "error", err)
		return m.backToMenu("Could not start a session: " + err.Error())
	}

	modelOpts := m.opts
	who := modelOpts.User
	if who == "" {
		who = modelOpts.Origin
	}
	modelOpts.SessionID = fmt.Sprintf("%s-%d", who, seed)

	m.sculpt = NewModel(sess, m.config, modelOpts)
	m.state = stateSculpt
	return m, m.sculpt.Init()
}

func (m AppModel) backToMenu(notice string) (tea.Model, tea.Cmd) {
	m.state = stateMenu
	m.notice = notice
	m.menu = NewMenuModel(m.store, m.terrain, m.config)
	return m, nil
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateBrowser:
		return m.browser.View()
	case stateSculpt:
		return m.sculpt.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		view += "\n" + centerText(statusStyle.Render(m.notice), m.config.ScreenW)
	}
	return view
}

// InSculpt reports whether a sculpting session is active.
func (m AppModel) InSculpt() bool {
	return m.state == stateSculpt
}

// IsQuitting returns true if user requested to quit entirely.
func (m AppModel) IsQuitting() bool {
	return m.quitting
}

// RunApp starts the menu-driven flow in the local terminal.
func RunApp(store *storage.Store, terrainCfg config.TerrainConfig, cfg core.RuntimeConfig, opts Options, sessionOpts ...session.Option) error {
	model := NewAppModel(store, terrainCfg, cfg, opts, sessionOpts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
