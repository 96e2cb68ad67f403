package session

import (
	"math"
	"time"
)

// Stats is the content of the statistics overlay.
// It refreshes once more than a second of frame time has accumulated.
type Stats struct {
	FPS       int // Frames counted in the last window
	AvgFPS    int // Frames since start divided by elapsed seconds, rounded
	Meshes    int
	Vertices  int
	Triangles int
	Radius    float64
	Intensity float64
	Pattern   string
	Material  string
}

// statsTracker counts frames and decides when the overlay refreshes.
type statsTracker struct {
	start     time.Time
	last      time.Time
	frames    int64 // Since start
	current   int   // Since last refresh
	cumulated time.Duration
}

func newStatsTracker(start time.Time) statsTracker {
	return statsTracker{start: start, last: start}
}

// frame records one frame at now. It reports whether the overlay should be
// refreshed and, if so, the FPS values to show.
func (t *statsTracker) frame(now time.Time) (refresh bool, fps, avg int) {
	t.frames++
	t.current++
	if now.After(t.last) {
		t.cumulated += now.Sub(t.last)
		t.last = now
	}

	if t.cumulated <= time.Second {
		return false, 0, 0
	}

	fps = t.current
	if elapsed := now.Sub(t.start).Seconds(); elapsed > 0 {
		avg = int(math.RoundToEven(float64(t.frames) / elapsed))
	}
	t.cumulated -= time.Second
	t.current = 0
	return true, fps, avg
}
