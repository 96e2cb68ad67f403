package session

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// highlight tints every chunk with a random color until it expires.
// Flashing again replaces the colors and restarts the timer.
type highlight struct {
	colors map[int]core.Color // Chunk ID -> flash color
	until  time.Time
}

func (h *highlight) flash(chunks []*terrain.Chunk, rng *rand.Rand, now time.Time, d time.Duration) {
	h.colors = make(map[int]core.Color, len(chunks))
	for _, c := range chunks {
		h.colors[c.ID] = core.FlashColors[rng.Intn(len(core.FlashColors))]
	}
	h.until = now.Add(d)
}

func (h *highlight) expire(now time.Time) {
	if h.colors != nil && !now.Before(h.until) {
		h.colors = nil
	}
}

func (h *highlight) active() bool {
	return h.colors != nil
}

func (h *highlight) color(id int) (core.Color, bool) {
	c, ok := h.colors[id]
	return c, ok
}
