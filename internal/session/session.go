// Package session drives a terrain sculpting session: it owns the chunk
// registry and brush parameters, consumes queued input once per tick, keeps
// the statistics overlay up to date and renders the terrain top-down.
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/config"
	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// Session is one interactive sculpting session. It is not safe for
// concurrent use; the UI loop owns it.
type Session struct {
	cfg    config.TerrainConfig
	logger *log.Logger
	rng    *rand.Rand

	registry  *terrain.Registry
	listeners []terrain.Listener

	patterns      []*terrain.Curve
	patternIndex  int
	materials     []config.Material
	materialIndex int
	radius        float64
	intensity     float64

	camera       Camera
	viewW, viewH int
	panels       Panels
	flash        highlight

	tracker statsTracker
	stats   Stats
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for terrain warnings and errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSeed seeds the random source used for highlight colors.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithListener subscribes l to chunk additions and surface changes,
// including the initial chunk.
func WithListener(l terrain.Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// WithViewport sets the initial screen size in cells.
func WithViewport(w, h int) Option {
	return func(s *Session) { s.viewW, s.viewH = w, h }
}

// WithStart sets the time the statistics clock starts at.
func WithStart(t time.Time) Option {
	return func(s *Session) { s.tracker = newStatsTracker(t) }
}

// New creates a session and spawns the first chunk at the origin.
func New(cfg config.TerrainConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		radius:    cfg.Brush.Radius,
		intensity: cfg.Brush.Intensity,
		panels:    DefaultPanels(),
		viewW:     80,
		viewH:     24,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.tracker.start.IsZero() {
		s.tracker = newStatsTracker(time.Now())
	}

	for _, p := range cfg.Patterns {
		curve, err := p.Curve()
		if err != nil {
			return nil, err
		}
		s.patterns = append(s.patterns, curve)
	}
	for _, m := range cfg.Materials {
		s.materials = append(s.materials, m.Resolve())
	}

	s.registry = s.newRegistry()
	s.registry.Add(s.spawn("Terrain", core.Vec3{}))
	s.Recenter()
	s.refreshStats(0, 0)
	return s, nil
}

func (s *Session) newRegistry() *terrain.Registry {
	r := terrain.NewRegistry(s.logger)
	for _, l := range s.listeners {
		r.Subscribe(l)
	}
	return r
}

// spawn builds a chunk with the session's grid settings.
func (s *Session) spawn(name string, pos core.Vec3) *terrain.Chunk {
	return terrain.NewChunk(name, pos, s.cfg.Dimension, s.cfg.Resolution, s.logger)
}

// Step consumes the queued inputs in order, then advances the highlight
// timer and the statistics overlay. It is called once per tick.
func (s *Session) Step(in core.InputFrame, now time.Time) core.StepResult {
	var res core.StepResult

	for _, ev := range in.Events {
		switch ev.Action {
		case core.ActionRaise:
			res.Deformed += s.DeformAt(ev.X, ev.Y, terrain.Raise)
		case core.ActionLower:
			res.Deformed += s.DeformAt(ev.X, ev.Y, terrain.Lower)

		case core.ActionIntensityUp:
			s.intensity += s.cfg.Brush.IntensityStep
		case core.ActionIntensityDown:
			s.intensity -= s.cfg.Brush.IntensityStep
		case core.ActionRadiusUp:
			s.radius += s.cfg.Brush.RadiusStep
		case core.ActionRadiusDown:
			s.radius -= s.cfg.Brush.RadiusStep

		case core.ActionExtendForward:
			res.Created += s.ExtendAll(core.Forward)
		case core.ActionExtendBack:
			res.Created += s.ExtendAll(core.Back)
		case core.ActionExtendLeft:
			res.Created += s.ExtendAll(core.Left)
		case core.ActionExtendRight:
			res.Created += s.ExtendAll(core.Right)

		case core.ActionHighlight:
			s.Highlight(now)
		case core.ActionCyclePattern:
			s.patternIndex = (s.patternIndex + 1) % len(s.patterns)
		case core.ActionCycleMaterial:
			s.materialIndex = (s.materialIndex + 1) % len(s.materials)

		case core.ActionTogglePanelF1:
			s.panels.Toggle(PanelHelp)
		case core.ActionTogglePanelF2:
			s.panels.Toggle(PanelStats)
		case core.ActionTogglePanelF3:
			s.panels.Toggle(PanelBrush)
		case core.ActionTogglePanelF10:
			s.panels.Toggle(PanelChunks)

		case core.ActionPanNorth:
			s.camera.Pan(0, 1, s.viewW, s.viewH)
		case core.ActionPanSouth:
			s.camera.Pan(0, -1, s.viewW, s.viewH)
		case core.ActionPanWest:
			s.camera.Pan(-1, 0, s.viewW, s.viewH)
		case core.ActionPanEast:
			s.camera.Pan(1, 0, s.viewW, s.viewH)
		case core.ActionZoomIn:
			s.camera.Zoom(true)
		case core.ActionZoomOut:
			s.camera.Zoom(false)
		case core.ActionRecenter:
			s.Recenter()

		case core.ActionSave:
			res.Save = true
		case core.ActionQuit:
			res.Quit = true
		}
	}

	s.flash.expire(now)
	if refresh, fps, avg := s.tracker.frame(now); refresh {
		s.refreshStats(fps, avg)
	}
	return res
}

// DeformAt casts a vertical ray through screen cell (x, y) and deforms the
// hit chunk and its neighbors. Returns the number of chunks changed.
func (s *Session) DeformAt(x, y int, sign terrain.Sign) int {
	hit, ok := s.Pick(x, y)
	if !ok {
		return 0
	}
	return s.registry.Deform(hit.Chunk, hit.Point, s.Brush(), sign, true)
}

// Pick returns the terrain point under screen cell (x, y).
func (s *Session) Pick(x, y int) (terrain.Hit, bool) {
	wx, wz := s.camera.ScreenToWorld(x, y, s.viewW, s.viewH)
	bounds, ok := s.Bounds()
	if !ok {
		return terrain.Hit{}, false
	}
	ray := core.Ray{
		Origin: core.V3(wx, bounds.Max.Y+1, wz),
		Dir:    core.Down,
	}
	return s.registry.Raycast(ray)
}

// ExtendAll tries to place a new chunk next to every existing chunk in
// direction dir. Chunks created during the pass are not extended themselves.
func (s *Session) ExtendAll(dir core.Vec3) int {
	created := 0
	for _, c := range s.registry.Chunks() {
		if _, ok := s.registry.Extend(c, dir, s.spawn); ok {
			created++
		}
	}
	if created > 0 {
		s.logger.Debug("terrain extended", "direction", dir.String(), "created", created, "chunks", s.registry.Len())
	}
	return created
}

// Highlight flashes every chunk with a random color for the configured time.
func (s *Session) Highlight(now time.Time) {
	d := time.Duration(s.cfg.HighlightSeconds * float64(time.Second))
	s.flash.flash(s.registry.Chunks(), s.rng, now, d)
}

// Highlighted returns the flash color of a chunk, if it is highlighted.
func (s *Session) Highlighted(id int) (core.Color, bool) {
	return s.flash.color(id)
}

// Recenter fits the camera to the whole terrain.
func (s *Session) Recenter() {
	if b, ok := s.Bounds(); ok {
		s.camera.Fit(b, s.viewW, s.viewH)
		return
	}
	d := s.cfg.Dimension / 2
	s.camera.Fit(core.AABB{Min: core.V3(-d, 0, -d), Max: core.V3(d, 0, d)}, s.viewW, s.viewH)
}

// Resize updates the viewport size used for picking and rendering.
func (s *Session) Resize(w, h int) {
	s.viewW, s.viewH = w, h
}

// Bounds returns the world box enclosing every chunk with a mesh.
func (s *Session) Bounds() (core.AABB, bool) {
	var out core.AABB
	found := false
	for _, c := range s.registry.Chunks() {
		b, ok := c.WorldBounds()
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out.Min = core.V3(min(out.Min.X, b.Min.X), min(out.Min.Y, b.Min.Y), min(out.Min.Z, b.Min.Z))
		out.Max = core.V3(max(out.Max.X, b.Max.X), max(out.Max.Y, b.Max.Y), max(out.Max.Z, b.Max.Z))
	}
	return out, found
}

// Brush returns the current deformation parameters.
func (s *Session) Brush() terrain.Brush {
	return terrain.Brush{
		Radius:    s.radius,
		Intensity: s.intensity,
		Pattern:   s.patterns[s.patternIndex],
	}
}

// Registry exposes the chunk registry.
func (s *Session) Registry() *terrain.Registry { return s.registry }

// Config returns the configuration the session was built with.
func (s *Session) Config() config.TerrainConfig { return s.cfg }

func (s *Session) Radius() float64    { return s.radius }
func (s *Session) Intensity() float64 { return s.intensity }
func (s *Session) PatternIndex() int  { return s.patternIndex }
func (s *Session) Camera() Camera     { return s.camera }
func (s *Session) Panels() Panels     { return s.panels }

// PatternName returns the display name of the active pattern slot.
func (s *Session) PatternName() string {
	if s.patternIndex < len(s.cfg.Patterns) && s.cfg.Patterns[s.patternIndex].Name != "" {
		return s.cfg.Patterns[s.patternIndex].Name
	}
	return "Unknown"
}

// Material returns the active render material.
func (s *Session) Material() config.Material {
	return s.materials[s.materialIndex]
}

// Stats returns the statistics overlay as of its last refresh.
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) refreshStats(fps, avg int) {
	meshes, vertices, triangles := s.registry.Totals()
	s.stats = Stats{
		FPS:       fps,
		AvgFPS:    avg,
		Meshes:    meshes,
		Vertices:  vertices,
		Triangles: triangles,
		Radius:    s.radius,
		Intensity: s.intensity,
		Pattern:   s.PatternName(),
		Material:  s.Material().Name,
	}
}

// Snapshot captures the current terrain.
func (s *Session) Snapshot() terrain.Snapshot {
	return s.registry.Capture(s.cfg.Dimension, s.cfg.Resolution)
}

// Restore replaces the terrain with the snapshot's chunks. The grid settings
// of the snapshot replace the configured ones. On error the session is left
// unchanged.
func (s *Session) Restore(snap terrain.Snapshot) error {
	r := terrain.NewRegistry(s.logger)
	if err := r.Rebuild(snap); err != nil {
		return fmt.Errorf("session: restore: %w", err)
	}
	for _, l := range s.listeners {
		r.Subscribe(l)
		for _, c := range r.Chunks() {
			l.ChunkAdded(c)
		}
	}

	s.registry = r
	s.cfg.Dimension = snap.Dimension
	s.cfg.Resolution = snap.Resolution
	s.flash = highlight{}
	s.Recenter()
	meshes, _, _ := r.Totals()
	s.logger.Info("terrain restored", "chunks", meshes)
	s.refreshStats(s.stats.FPS, s.stats.AvgFPS)
	return nil
}
