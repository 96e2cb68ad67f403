package session

import (
	"github.com/vovakirdan/tui-terrain/internal/core"
)

// Render draws the terrain top-down into dst. Each cell samples the height
// of the chunk under its center; the active material picks glyph and color
// and highlighted chunks use their flash color. Cells over empty space stay
// blank.
func (s *Session) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	material := s.Material()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wx, wz := s.camera.ScreenToWorld(x, y, w, h)
			c := s.registry.ChunkAtXZ(wx, wz)
			if c == nil {
				continue
			}
			height, ok := c.HeightAt(wx, wz)
			if !ok {
				continue
			}

			band := material.Pick(height)
			color := band.Color
			if fc, ok := s.flash.color(c.ID); ok {
				color = fc
			}
			dst.SetCell(x, y, core.Cell{Rune: band.Glyph, Color: color})
		}
	}
}
