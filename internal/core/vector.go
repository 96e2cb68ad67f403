// Package core provides fundamental types and utilities for the terrain sculptor.
// It contains no external dependencies (especially no Bubble Tea) so the
// terrain model stays pure and testable.
package core

import (
	"fmt"
	"math"
)

// Vec3 is a point or direction in world space.
// Y is up; the terrain grid lies in the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

// Cardinal directions on the terrain plane.
var (
	Left    = Vec3{X: -1}
	Right   = Vec3{X: 1}
	Forward = Vec3{Z: 1}
	Back    = Vec3{Z: -1}
	Up      = Vec3{Y: 1}
	Down    = Vec3{Y: -1}
)

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length.
// The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Distance returns the distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// String formats the vector the way chunk names display it: "(1, 0, 0)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ApproxEqual reports whether a and b differ by no more than tol,
// relative to the larger magnitude (with a floor of 1).
func ApproxEqual(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// AABB is an axis-aligned bounding box in world or local space.
type AABB struct {
	Min, Max Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Translate returns the box moved by offset.
func (b AABB) Translate(offset Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// ClosestPoint returns the point inside the box nearest to p.
func (b AABB) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: ClampF(p.X, b.Min.X, b.Max.X),
		Y: ClampF(p.Y, b.Min.Y, b.Max.Y),
		Z: ClampF(p.Z, b.Min.Z, b.Max.Z),
	}
}

// IntersectsSphere reports whether a sphere touches or overlaps the box.
func (b AABB) IntersectsSphere(center Vec3, radius float64) bool {
	if radius < 0 {
		return false
	}
	return Distance(b.ClosestPoint(center), center) <= radius
}

// ContainsXZ reports whether the point lies within the box footprint
// on the terrain plane, ignoring height.
func (b AABB) ContainsXZ(x, z float64) bool {
	return x >= b.Min.X && x <= b.Max.X && z >= b.Min.Z && z <= b.Max.Z
}

// IntersectsRay reports whether the ray enters the box at some t >= 0.
// Uses the slab method; axis-parallel rays outside a slab never hit.
func (b AABB) IntersectsRay(r Ray) bool {
	tMin, tMax := 0.0, math.Inf(1)
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// Ray is a half-line starting at Origin heading along Dir.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}
