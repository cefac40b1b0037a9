package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// DielectricBSDF blends a reflective lobe and a transmissive/base lobe by the Fresnel term
type DielectricBSDF struct {
	Reflective   Node
	Transmissive Node
	R0           float64 // Reflectance at normal incidence
}

// NewDielectricBSDF creates a new dielectric node
func NewDielectricBSDF(reflective, transmissive Node, r0 float64) *DielectricBSDF {
	return &DielectricBSDF{
		Reflective:   reflective,
		Transmissive: transmissive,
		R0:           r0,
	}
}

// Evaluate returns F·reflective + (1-F)·transmissive
func (d *DielectricBSDF) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	f := fresnel(d.R0, wi, wo)
	brdf := d.Reflective.Evaluate(wi, wo, n)
	btdf := d.Transmissive.Evaluate(wi, wo, n)
	return brdf.Multiply(f).Add(btdf.Multiply(1 - f))
}

// Sample picks either child with probability 0.5 and weights its response by the Fresnel term
func (d *DielectricBSDF) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	if sampler.Get1D() < 0.5 {
		r := d.Reflective.Sample(wo, n, sampler)
		r.PDF *= 0.5
		r.F = r.F.Multiply(fresnel(d.R0, r.Wi, wo))
		return r
	}

	r := d.Transmissive.Sample(wo, n, sampler)
	r.PDF *= 0.5
	r.F = r.F.Multiply(1 - fresnel(d.R0, r.Wi, wo))
	return r
}
