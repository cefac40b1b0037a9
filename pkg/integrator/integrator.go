package integrator

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Scene is the intersection oracle and light set the integrator renders against.
// Implementations must be safe for concurrent reads.
type Scene interface {
	// Intersect returns the closest hit along the ray
	Intersect(ray core.Ray) (*material.Intersection, bool)

	// Occluded reports whether anything blocks the ray before maxDistance
	Occluded(ray core.Ray, maxDistance float64) bool

	PointLight() *lights.PointLight
	DiscLights() []*lights.DiscLight
	Environment() *lights.Environment
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Li estimates the radiance arriving along a primary ray known to hit the scene
	Li(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3
}
