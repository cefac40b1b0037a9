package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Diffuse represents a perfectly diffuse (Lambertian) reflector
type Diffuse struct {
	Color core.Vec3 // Hemispherical reflectance
}

// NewDiffuse creates a new diffuse node
func NewDiffuse(color core.Vec3) *Diffuse {
	return &Diffuse{Color: color}
}

// Evaluate returns color/π when wi and wo are both above the surface
func (d *Diffuse) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	if wi.Dot(n) <= 0 {
		return core.Vec3{}
	}
	if !SameHemisphere(wi, wo, n) {
		return core.Vec3{}
	}
	return d.Color.Multiply(1.0 / math.Pi)
}

// Sample draws a cosine-weighted direction around the normal
func (d *Diffuse) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	wi := core.SampleCosineHemisphere(n, sampler.Get2D())

	r := WiSample{Wi: wi}
	if cosTheta := wi.Dot(n); cosTheta > 0 {
		r.PDF = cosTheta / math.Pi
	}
	r.F = d.Evaluate(wi, wo, n)
	return r.degenerate()
}
