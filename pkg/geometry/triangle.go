package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Triangle represents a single triangle, optionally with per-vertex shading normals
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3 // Vertex normals, zero when the triangle is flat shaded
	Surface    *material.Surface
	normal     core.Vec3 // Geometric normal, counter-clockwise winding
	bbox       AABB
}

// NewTriangle creates a new flat shaded triangle
func NewTriangle(v0, v1, v2 core.Vec3, surface *material.Surface) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Surface: surface}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	// Pad so axis-aligned triangles keep a non-empty box
	t.bbox = NewAABBFromPoints(v0, v1, v2).Expand(1e-9)
	return t
}

// NewSmoothTriangle creates a triangle that interpolates vertex normals for shading
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, surface *material.Surface) *Triangle {
	t := NewTriangle(v0, v1, v2, surface)
	t.N0, t.N1, t.N2 = n0.Normalize(), n1.Normalize(), n2.Normalize()
	return t
}

// Hit uses the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.Intersection, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < 1e-12 {
		return nil, false // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}

	dist := f * edge2.Dot(q)
	if dist < tMin || dist > tMax {
		return nil, false
	}

	shading := t.normal
	if !t.N0.IsZero() {
		w := 1 - u - v
		shading = t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
		if shading.IsZero() {
			shading = t.normal
		}
	}

	return &material.Intersection{
		Position:       ray.At(dist),
		GeometryNormal: t.normal,
		ShadingNormal:  shading,
		Wo:             ray.Direction.Negate().Normalize(),
		T:              dist,
		Surface:        t.Surface,
	}, true
}

// BoundingBox returns the axis-aligned bounding box of the triangle
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}

// Normal returns the geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
