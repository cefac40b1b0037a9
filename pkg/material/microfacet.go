package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// MicrofacetBRDF is a Cook-Torrance style glossy lobe with a Blinn-Phong distribution
type MicrofacetBRDF struct {
	Shininess float64 // Exponent of the half-vector distribution
}

// NewMicrofacetBRDF creates a new microfacet node
func NewMicrofacetBRDF(shininess float64) *MicrofacetBRDF {
	return &MicrofacetBRDF{Shininess: math.Max(0, shininess)}
}

// Evaluate computes D·G / (4·cosθo·cosθi), identical for all color channels
func (m *MicrofacetBRDF) Evaluate(wi, wo, n core.Vec3) core.Vec3 {
	if wi.Dot(n) <= 0 || wo.Dot(n) <= 0 {
		return core.Vec3{}
	}

	wh := wi.Add(wo).Normalize()

	// Floors keep the ratios finite at grazing angles
	woDotWh := math.Max(wo.Dot(wh), 0.001)
	nDotWh := math.Max(n.Dot(wh), 0.001)
	nDotWi := math.Max(n.Dot(wi), 0.001)
	nDotWo := math.Max(n.Dot(wo), 0.001)

	s := m.Shininess
	d := (s + 2.0) / (2.0 * math.Pi) * math.Pow(nDotWh, s)
	g := math.Min(1.0, math.Min(2.0*nDotWh*nDotWo/woDotWh, 2.0*nDotWh*nDotWi/woDotWh))

	denominator := 4.0 * math.Max(0.001, math.Min(1.0, nDotWo*nDotWi))
	return core.Splat(d * g / denominator)
}

// Sample draws a half vector from the distribution and reflects wo about it
func (m *MicrofacetBRDF) Sample(wo, n core.Vec3, sampler core.Sampler) WiSample {
	u := sampler.Get2D()
	s := m.Shininess

	phi := 2.0 * math.Pi * u.X
	cosTheta := math.Pow(u.Y, 1.0/(s+1.0))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	wh := core.FromLocal(core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta), n).Normalize()

	r := WiSample{
		Wi: wh.Multiply(2.0 * wh.Dot(wo)).Subtract(wo).Normalize(),
	}

	woDotWh := math.Abs(wo.Dot(wh))
	if woDotWh > 0 {
		pwh := (s + 1.0) * math.Pow(math.Abs(n.Dot(wh)), s) / (2.0 * math.Pi)
		r.PDF = pwh / (4.0 * woDotWh)
	}
	r.F = m.Evaluate(r.Wi, wo, n)
	return r.degenerate()
}
