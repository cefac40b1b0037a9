package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Schlick evaluates Schlick's approximation F = R0 + (1-R0)(1-cosθ)^5
func Schlick(r0, cosTheta float64) float64 {
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}

// fresnel evaluates Schlick's term at the half vector between wi and wo
func fresnel(r0 float64, wi, wo core.Vec3) float64 {
	wh := wi.Add(wo).Normalize()
	return Schlick(r0, math.Max(0.001, wh.Dot(wi)))
}
