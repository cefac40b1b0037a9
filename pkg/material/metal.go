package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// MetalBSDF is a tinted reflector whose strength follows the Fresnel term
type MetalBSDF struct {
	Reflective Node
	Color      core.Vec3 // Metal tint
	R0         float64   // Reflectance at normal incidence
}

// NewMetalBSDF creates a new metal node
func NewMetalBSDF(reflective Node, color core.Vec3, r0 float64) *MetalBSDF {
	return &MetalBSDF{
		Reflective: reflective,
		Color:      color,
		R0:         r0,
	}
}

// Evaluate returns F·reflective·color
func (m *MetalBSDF) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	f := fresnel(m.R0, wi, wo)
	return m.Reflective.Evaluate(wi, wo, n).Multiply(f).MultiplyVec(m.Color)
}

// Sample reuses the reflective child's sample and tints its response
func (m *MetalBSDF) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	r := m.Reflective.Sample(wo, n, sampler)
	r.F = r.F.Multiply(fresnel(m.R0, r.Wi, wo)).MultiplyVec(m.Color)
	return r
}
