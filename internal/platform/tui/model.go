package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/session"
	"github.com/vovakirdan/tui-terrain/internal/storage"
)

// Options configures a sculpting Model.
type Options struct {
	Store     *storage.Store // Optional; saving is disabled without it
	Logger    *log.Logger
	Origin    string // "local" or "ssh"
	User      string
	SessionID string
}

// Model is the Bubble Tea model for a sculpting session.
type Model struct {
	session *session.Session
	screen  *core.Screen
	store   *storage.Store
	logger  *log.Logger
	config  core.RuntimeConfig
	opts    Options

	keyMapper *KeyMapper
	help      help.Model
	frame     core.InputFrame

	// Mouse button held since the last press; deforms once per tick.
	held         core.Action
	heldX, heldY int

	width, height int
	sized         bool
	started       time.Time
	lastTick      time.Time
	deformations  int
	created       int
	snapshotID    int64
	status        string
	quitting      bool
}

// NewModel creates a Bubble Tea model driving the given session.
func NewModel(s *session.Session, cfg core.RuntimeConfig, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Origin == "" {
		opts.Origin = "local"
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if opts.SessionID == "" {
		opts.SessionID = fmt.Sprintf("%s-%d", opts.Origin, time.Now().UnixNano())
	}

	m := Model{
		session:   s,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     opts.Store,
		logger:    opts.Logger,
		config:    cfg,
		opts:      opts,
		keyMapper: NewKeyMapper(DefaultKeyMap()),
		help:      help.New(),
		frame:     core.NewInputFrame(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		started:   time.Now(),
	}
	m.layout()
	s.Recenter()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey queues the mapped action for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.frame) {
		return m.quit()
	}
	return m, nil
}

// handleMouse tracks the held button. Presses deform immediately on the next
// tick; holding the button keeps deforming at the latest pointer position.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		action := m.keyMapper.MapMouse(msg)
		if action == core.ActionNone || !m.inViewport(msg.X, msg.Y) {
			return m, nil
		}
		m.held, m.heldX, m.heldY = action, msg.X, msg.Y

	case tea.MouseActionMotion:
		if m.held != core.ActionNone && m.inViewport(msg.X, msg.Y) {
			m.heldX, m.heldY = msg.X, msg.Y
		}

	case tea.MouseActionRelease:
		m.held = core.ActionNone
	}
	return m, nil
}

func (m Model) inViewport(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.screen.Width() && y < m.screen.Height()
}

// handleResize processes window resize events.
// The first size message fits the camera to the terrain.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	m.layout()
	if !m.sized {
		m.session.Recenter()
		m.sized = true
	}
	return m, nil
}

// layout sizes the terrain viewport around the HUD column and status line.
func (m *Model) layout() {
	w, h := m.width, m.height-1
	if hudVisible(m.session.Panels()) && w-sidebarWidth >= sidebarWidth {
		w -= sidebarWidth
	}
	w, h = max(w, 1), max(h, 1)
	if w != m.screen.Width() || h != m.screen.Height() {
		m.screen.Resize(w, h)
	}
	m.session.Resize(w, h)
}

// handleTick advances the session by one frame. A tick arriving less than
// half an interval after the previous one belongs to a stale tick chain and
// ends it.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	interval := time.Second / time.Duration(m.config.TickRate)
	if !m.lastTick.IsZero() && now.Sub(m.lastTick) < interval/2 {
		return m, nil
	}
	m.lastTick = now

	if m.held != core.ActionNone {
		m.frame.SetAt(m.held, m.heldX, m.heldY)
	}

	res := m.session.Step(m.frame, now)
	m.frame.Clear()
	m.deformations += res.Deformed
	m.created += res.Created

	if res.Created > 0 {
		m.status = fmt.Sprintf("%d chunk(s) added, %d total", res.Created, m.session.Registry().Len())
	}
	if res.Save {
		m.save(now)
	}
	if res.Quit {
		return m.quit()
	}

	m.layout()
	return m, tickCmd(m.config.TickRate)
}

// save stores a snapshot of the terrain. Failures only update the status line.
func (m *Model) save(now time.Time) {
	if m.store == nil {
		m.status = "Saving disabled: no database"
		return
	}

	owner := m.opts.User
	if owner == "" {
		owner = "terrain"
	}
	name := fmt.Sprintf("%s %s", owner, now.Format("2006-01-02 15:04:05"))

	id, err := m.store.SaveSnapshot(name, m.session.Snapshot())
	if err != nil {
		m.logger.Error("snapshot save failed", "error", err)
		m.status = "Save failed: " + err.Error()
		return
	}
	m.snapshotID = id
	m.status = fmt.Sprintf("Saved snapshot #%d", id)
	m.logger.Info("snapshot saved", "id", id, "name", name, "chunks", m.session.Registry().Len())
}

// quit records the session history row and stops the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.recordSession()
	return m, tea.Quit
}

func (m *Model) recordSession() {
	if m.store == nil {
		return
	}
	rec := storage.SessionRecord{
		SessionID:     m.opts.SessionID,
		Origin:        m.opts.Origin,
		User:          m.opts.User,
		Deformations:  m.deformations,
		ChunksCreated: m.created,
		FinalChunks:   m.session.Registry().Len(),
		Duration:      int(time.Since(m.started).Seconds()),
		SnapshotID:    m.snapshotID,
	}
	//nolint:errcheck // Best-effort save, the program exits regardless
	m.store.SaveSession(rec)
}

// View renders the terrain, the HUD column and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.session.Render(m.screen)
	view := RenderScreen(m.screen)

	if hud := renderHUD(m.session, m.help, m.keyMapper.Keys()); hud != "" && m.screen.Width() < m.width {
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, hud)
	}

	status := m.status
	if status == "" {
		status = fmt.Sprintf("%s · %d chunks · F1 help · q quit", m.session.Material().Name, m.session.Registry().Len())
	}
	return view + "\n" + statusStyle.Render(status)
}

// Deformations returns the number of chunk deformations applied so far.
func (m Model) Deformations() int {
	return m.deformations
}

// IsQuitting returns true if the user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for a local session.
func Run(s *session.Session, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(s, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
