package material

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/stretchr/testify/assert"
)

const energySamples = 200000

// sampledReflectance estimates ∫ f·cosθ dω with the node's own sampling routine.
// Degenerate samples contribute nothing, as they do when a path terminates.
func sampledReflectance(node Node, wo, n core.Vec3, seed uint64) core.Vec3 {
	sampler := core.NewSeededSampler(seed)
	sum := core.Vec3{}
	for i := 0; i < energySamples; i++ {
		s := node.Sample(wo, n, sampler)
		if s.PDF <= 0 {
			continue
		}
		sum = sum.Add(s.F.Multiply(math.Abs(s.Wi.Dot(n)) / s.PDF))
	}
	return sum.Multiply(1.0 / energySamples)
}

// uniformReflectance estimates ∫ Evaluate·cosθ dω over the upper hemisphere with uniform directions
func uniformReflectance(node Node, wo, n core.Vec3, seed uint64) core.Vec3 {
	sampler := core.NewSeededSampler(seed)
	sum := core.Vec3{}
	for i := 0; i < energySamples; i++ {
		wi := core.SampleUniformHemisphere(n, sampler.Get2D())
		sum = sum.Add(node.Evaluate(wi, wo, n).Multiply(wi.Dot(n) * 2.0 * math.Pi))
	}
	return sum.Multiply(1.0 / energySamples)
}

// outgoing returns a unit direction at the given angle (degrees) from +Y in the XY plane
func outgoing(degrees float64) core.Vec3 {
	rad := degrees * math.Pi / 180
	return core.NewVec3(math.Sin(rad), math.Cos(rad), 0)
}

func assertRelative(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected, actual, tolerance*math.Max(math.Abs(expected), 1e-3), msgAndArgs...)
}

func TestEnergy_Diffuse(t *testing.T) {
	color := core.NewVec3(0.5, 0.7, 0.9)
	n := core.NewVec3(0, 1, 0)

	for _, angle := range []float64{0, 30, 60, 85} {
		got := sampledReflectance(NewDiffuse(color), outgoing(angle), n, 1)
		// Every valid sample weighs exactly color, so the estimate is nearly exact
		assert.InDelta(t, color.X, got.X, 1e-3, "angle %v", angle)
		assert.InDelta(t, color.Y, got.Y, 1e-3, "angle %v", angle)
		assert.InDelta(t, color.Z, got.Z, 1e-3, "angle %v", angle)
	}
}

func TestEnergy_Glass(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	glass := NewGlassBTDF(1.5)

	// Lossless: all light is either refracted or totally reflected
	for _, angle := range []float64{0, 20, 45, 70} {
		got := sampledReflectance(glass, outgoing(angle), n, 2)
		assert.InDelta(t, 1.0, got.X, 1e-9, "outside, angle %v", angle)

		inside := outgoing(angle)
		inside.Y = -inside.Y
		got = sampledReflectance(glass, inside, n, 3)
		assert.InDelta(t, 1.0, got.X, 1e-9, "inside, angle %v", angle)
	}
}

func TestEnergy_AgainstUniformEstimate(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	microfacet := NewMicrofacetBRDF(20)
	diffuse := NewDiffuse(core.NewVec3(0.6, 0.4, 0.2))

	tests := []struct {
		name string
		node Node
	}{
		{"microfacet", microfacet},
		{"dielectric", NewDielectricBSDF(microfacet, diffuse, 0.04)},
		{"metal", NewMetalBSDF(microfacet, core.NewVec3(0.95, 0.64, 0.54), 0.9)},
		{"blend", NewLinearBlend(0.3, microfacet, diffuse)},
		{"metal tree", NewMetalTree(&Surface{
			Color: core.NewVec3(0.8, 0.8, 0.8), Shininess: 20, Metalness: 0.5, Fresnel: 0.5,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := outgoing(30)
			sampled := sampledReflectance(tt.node, wo, n, 11)
			uniform := uniformReflectance(tt.node, wo, n, 12)

			assert.Greater(t, sampled.X, 0.0)
			assertRelative(t, uniform.X, sampled.X, 0.03, "red channel")
			assertRelative(t, uniform.Z, sampled.Z, 0.03, "blue channel")
		})
	}
}
