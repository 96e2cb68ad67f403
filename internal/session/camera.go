package session

import (
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2.0

const (
	zoomFactor = 1.25
	minScale   = 1e-3
	maxScale   = 1e4
)

// Camera is an orthographic top-down view of the XZ plane.
// Screen columns grow with world X, screen rows grow towards -Z
// so that "forward" is up on screen.
type Camera struct {
	CenterX float64
	CenterZ float64
	Scale   float64 // World units per screen column
}

// ScreenToWorld converts the center of cell (x, y) on a w×h viewport to
// world (x, z).
func (c Camera) ScreenToWorld(x, y, w, h int) (float64, float64) {
	wx := c.CenterX + (float64(x)+0.5-float64(w)/2)*c.Scale
	wz := c.CenterZ - (float64(y)+0.5-float64(h)/2)*c.Scale*cellAspect
	return wx, wz
}

// WorldToScreen converts world (x, z) to the cell containing it.
func (c Camera) WorldToScreen(wx, wz float64, w, h int) (int, int) {
	x := (wx-c.CenterX)/c.Scale + float64(w)/2
	y := -(wz-c.CenterZ)/(c.Scale*cellAspect) + float64(h)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

// Pan moves the view by a fraction of its visible extent.
func (c *Camera) Pan(dx, dz float64, w, h int) {
	c.CenterX += dx * float64(max(w, 1)) * c.Scale / 8
	c.CenterZ += dz * float64(max(h, 1)) * c.Scale * cellAspect / 8
}

// Zoom scales the view; in zooms in, otherwise out.
func (c *Camera) Zoom(in bool) {
	if in {
		c.Scale /= zoomFactor
	} else {
		c.Scale *= zoomFactor
	}
	c.Scale = core.ClampF(c.Scale, minScale, maxScale)
}

// Fit centers the view on bounds and picks a scale showing all of it with a
// small margin.
func (c *Camera) Fit(bounds core.AABB, w, h int) {
	w, h = max(w, 1), max(h, 1)
	center := bounds.Center()
	c.CenterX, c.CenterZ = center.X, center.Z

	spanX := bounds.Max.X - bounds.Min.X
	spanZ := bounds.Max.Z - bounds.Min.Z
	scale := math.Max(spanX/float64(w), spanZ/(float64(h)*cellAspect)) * 1.1
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	c.Scale = core.ClampF(scale, minScale, maxScale)
}
