// Package geom holds the bounding volume and matrix helpers shared by the
// transform pipeline and the report builder.
package geom

import (
	"github.com/flywave/go-meshpipe/scene"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// Range3 is an axis aligned box. The zero value is NOT empty; use Invalid.
type Range3 struct {
	dvec3.Box
}

// Invalid returns the empty range. Extending or joining it yields the other
// operand unchanged.
func Invalid() Range3 {
	return Range3{Box: dvec3.MinBox}
}

func NewRange3(min, max dvec3.T) Range3 {
	return Range3{Box: dvec3.Box{Min: min, Max: max}}
}

func (r Range3) IsValid() bool {
	return r.Min[0] <= r.Max[0] && r.Min[1] <= r.Max[1] && r.Min[2] <= r.Max[2]
}

// Extend grows r to contain p.
func (r *Range3) Extend(p vec3.T) {
	dp := dvec3.T{float64(p[0]), float64(p[1]), float64(p[2])}
	r.Box.Extend(&dp)
}

// Size returns max-min, or the zero vector for an invalid range.
func (r Range3) Size() dvec3.T {
	if !r.IsValid() {
		return dvec3.Zero
	}
	return dvec3.Sub(&r.Max, &r.Min)
}

// Center returns (max+min)/2, or the zero vector for an invalid range.
func (r Range3) Center() dvec3.T {
	if !r.IsValid() {
		return dvec3.Zero
	}
	c := dvec3.Add(&r.Max, &r.Min)
	c.Scale(0.5)
	return c
}

// Union returns the smallest range containing a and b.
func Union(a, b Range3) Range3 {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	out := a
	out.Join(&b.Box)
	return out
}

// BoundingBox folds every vertex position of m.
func BoundingBox(m *scene.Mesh) Range3 {
	r := Invalid()
	for _, p := range m.Positions {
		r.Extend(p)
	}
	return r
}

// SceneBounds is the union of every mesh bounding box.
func SceneBounds(s *scene.Scene) Range3 {
	r := Invalid()
	for _, m := range s.Meshes {
		r = Union(r, BoundingBox(m))
	}
	return r
}
