package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// GlassBTDF models a perfectly smooth refractive interface
type GlassBTDF struct {
	IOR float64 // Index of refraction of the medium behind the normal
}

// NewGlassBTDF creates a new glass node
func NewGlassBTDF(ior float64) *GlassBTDF {
	return &GlassBTDF{IOR: ior}
}

// Evaluate returns the interface reflectance when wi and wo are on opposite sides.
// Refraction itself is a delta distribution and has no measure here.
func (g *GlassBTDF) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	entering := wo.Dot(n) > 0
	etaI, etaT, normal := 1.0, g.IOR, n
	if !entering {
		etaI, etaT, normal = g.IOR, 1.0, n.Negate()
	}

	cosThetaI := math.Abs(normal.Dot(wo))
	r0 := (etaI - etaT) / (etaI + etaT)
	reflectance := Schlick(r0*r0, cosThetaI)

	if !SameHemisphere(wi, wo, n) {
		return core.Splat(reflectance)
	}
	return core.Vec3{}
}

// Sample refracts wo through the interface, or mirrors it on total internal reflection
func (g *GlassBTDF) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	normal, eta := n, 1.0/g.IOR
	if wo.Dot(n) <= 0 {
		normal, eta = n.Negate(), g.IOR
	}

	var wi core.Vec3
	w := wo.Dot(normal) * eta
	k := 1.0 + (w-eta)*(w+eta)
	if k < 0 {
		// Total internal reflection
		wi = wo.Negate().Reflect(n)
	} else {
		wi = wo.Multiply(-eta).Add(normal.Multiply(w - math.Sqrt(k))).Normalize()
	}

	r := WiSample{
		Wi:  wi,
		PDF: math.Abs(wi.Dot(n)),
		F:   core.Splat(1.0),
	}
	return r.degenerate()
}
