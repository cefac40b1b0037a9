package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Node is a radiance-response object in a per-hit material tree.
// Leaf nodes model a single lobe; composite nodes combine children.
type Node interface {
	// Evaluate returns the response for light arriving from wi and leaving toward wo
	Evaluate(wi, wo, n core.Vec3) core.Vec3

	// Sample draws an incoming direction for the outgoing direction wo.
	// A PDF of zero marks a degenerate sample that must end the path.
	Sample(wo, n core.Vec3, sampler core.Sampler) WiSample
}

// WiSample is one sampled incoming direction with its density and response
type WiSample struct {
	Wi  core.Vec3 // Sampled incoming direction (unit length)
	PDF float64   // Probability density of Wi, 0 for an invalid sample
	F   core.Vec3 // Response evaluated at Wi
}

// degenerate zeroes the density of samples that are too unlikely to divide by
func (s WiSample) degenerate() WiSample {
	if s.PDF < core.Epsilon {
		s.PDF = 0
	}
	return s
}

// Surface describes the material parameters of a scene object.
// It is owned by the scene and only read while rendering.
type Surface struct {
	Name         string
	Color        core.Vec3
	Shininess    float64
	Metalness    float64
	Fresnel      float64 // Reflectance at normal incidence (R0)
	IOR          float64
	Transparency float64
	Emission     core.Vec3
}

// NewSurface creates an opaque, non-emissive surface of the given color
func NewSurface(color core.Vec3) *Surface {
	return &Surface{
		Color:     color,
		Shininess: 25,
		Fresnel:   0.04,
		IOR:       1.5,
	}
}

// Intersection contains the attributes of a ray-surface hit.
// Normals point out of the surface and are never flipped toward the ray.
type Intersection struct {
	Position       core.Vec3 // Hit point
	GeometryNormal core.Vec3 // True surface normal
	ShadingNormal  core.Vec3 // Interpolated normal used for shading
	Wo             core.Vec3 // Direction back toward the previous path vertex
	T              float64   // Distance along the ray
	Surface        *Surface  // Material description of the hit object
}

// SameHemisphere reports whether a and b lie on the same side of the plane with normal n
func SameHemisphere(a, b, n core.Vec3) bool {
	return a.Dot(n)*b.Dot(n) > 0
}
