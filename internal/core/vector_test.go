package core

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -1, 0.5)

	if got := a.Add(b); got != V3(5, 1, 3.5) {
		t.Errorf("Add() = %v, expected (5, 1, 3.5)", got)
	}
	if got := a.Sub(b); got != V3(-3, 3, 2.5) {
		t.Errorf("Sub() = %v, expected (-3, 3, 2.5)", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale() = %v, expected (2, 4, 6)", got)
	}
	if got := a.Dot(b); got != 3.5 {
		t.Errorf("Dot() = %v, expected 3.5", got)
	}
	if got := Right.Cross(Up); got != Forward {
		t.Errorf("Right x Up = %v, expected %v", got, Forward)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(3, 0, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalize() length = %v, expected 1", n.Length())
	}

	zero := Vec3{}
	if zero.Normalize() != zero {
		t.Error("Normalize() of zero vector should stay zero")
	}
}

func TestVec3String(t *testing.T) {
	if got := Forward.String(); got != "(0, 0, 1)" {
		t.Errorf("String() = %q, expected %q", got, "(0, 0, 1)")
	}
}

func TestApproxEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		tol      float64
		expected bool
	}{
		{"identical", 10, 10, 1e-4, true},
		{"within relative tolerance", 10, 10.0005, 1e-4, true},
		{"outside relative tolerance", 10, 10.01, 1e-4, false},
		{"small values use absolute floor", 0, 0.00005, 1e-4, true},
		{"diagonal is not side length", 10, 10 * math.Sqrt2, 1e-4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ApproxEqual(tc.a, tc.b, tc.tol); got != tc.expected {
				t.Errorf("ApproxEqual(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestAABBIntersectsSphere(t *testing.T) {
	box := AABB{Min: V3(-5, 0, -5), Max: V3(5, 0, 5)}

	tests := []struct {
		name     string
		center   Vec3
		radius   float64
		expected bool
	}{
		{"center inside", V3(0, 0, 0), 1, true},
		{"adjacent tile center", V3(10, 0, 0), 2.5, false},
		{"touching edge", V3(7, 0, 0), 2, true},
		{"negative radius", V3(0, 0, 0), -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, expected %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestAABBTranslate(t *testing.T) {
	box := AABB{Min: V3(-1, 0, -1), Max: V3(1, 2, 1)}
	moved := box.Translate(V3(10, 0, 0))

	if moved.Min != V3(9, 0, -1) || moved.Max != V3(11, 2, 1) {
		t.Errorf("Translate() = %+v", moved)
	}
	if moved.Center() != V3(10, 1, 0) {
		t.Errorf("Center() = %v, expected (10, 1, 0)", moved.Center())
	}
	if !moved.ContainsXZ(10.5, 0.5) || moved.ContainsXZ(0, 0) {
		t.Error("ContainsXZ() footprint check failed")
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: V3(1, 10, 1), Dir: Down}
	if got := r.At(4); got != V3(1, 6, 1) {
		t.Errorf("At(4) = %v, expected (1, 6, 1)", got)
	}
}

func TestAABBIntersectsRay(t *testing.T) {
	flat := AABB{Min: V3(-5, 0, -5), Max: V3(5, 0, 5)}

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"straight down onto flat box", Ray{Origin: V3(1, 100, 1), Dir: Down}, true},
		{"straight down beside box", Ray{Origin: V3(6, 100, 1), Dir: Down}, false},
		{"pointing away", Ray{Origin: V3(1, 100, 1), Dir: Up}, false},
		{"diagonal hit", Ray{Origin: V3(-10, 10, 0), Dir: V3(1, -1, 0).Normalize()}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := flat.IntersectsRay(tc.ray); got != tc.expected {
				t.Errorf("IntersectsRay() = %v, expected %v", got, tc.expected)
			}
		})
	}
}
