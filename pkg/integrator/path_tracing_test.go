package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereScene(surface *material.Surface) *scene.Scene {
	s := scene.New("test")
	s.AddShape(geometry.NewSphere(core.Vec3{}, 1, surface))
	s.Preprocess()
	return s
}

// downAtApex hits the unit sphere at (0, 1, 0) head-on
var downAtApex = core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0))

func TestPathTracer_PointLightApex(t *testing.T) {
	const albedo, intensity = 0.5, 20.0
	s := sphereScene(material.NewSurface(core.Splat(albedo)))
	s.Point = lights.NewPointLight(core.NewVec3(0, 5, 0), core.Splat(1), intensity)

	pt := NewPathTracer(1)
	sampler := core.NewSeededSampler(1)

	// f = ρ/π, E = I/d², cosθ = 1, no environment
	expected := albedo / math.Pi * intensity / 16
	for i := 0; i < 10; i++ {
		got := pt.Li(downAtApex, s, sampler)
		assert.InDelta(t, expected, got.X, expected*1e-3)
		assert.Equal(t, got.X, got.Y)
		assert.Equal(t, got.X, got.Z)
	}
}

func TestPathTracer_PointLightFalloffFromHitPosition(t *testing.T) {
	const albedo, intensity, gap = 0.5, 1.0, 0.01
	s := sphereScene(material.NewSurface(core.Splat(albedo)))
	s.Point = lights.NewPointLight(core.NewVec3(0, 1+gap, 0), core.Splat(1), intensity)

	// Close to the surface the shadow-ray offset would visibly change d²
	expected := albedo / math.Pi * intensity / (gap * gap)
	got := NewPathTracer(1).Li(downAtApex, s, core.NewSeededSampler(9))
	assert.InDelta(t, expected, got.X, expected*1e-9)
}

func TestPathTracer_ShadowedPointLight(t *testing.T) {
	s := scene.New("shadow")
	s.AddShape(
		geometry.NewSphere(core.Vec3{}, 1, material.NewSurface(core.Splat(0.5))),
		geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, material.NewSurface(core.Splat(0.5))),
	)
	s.Preprocess()
	s.Point = lights.NewPointLight(core.NewVec3(0, 5, 0), core.Splat(1), 20)

	// Looking at the apex from the side, the small sphere blocks the light
	ray := core.NewRay(core.NewVec3(3, 1.2, 0), core.NewVec3(-3, -0.2, 0).Normalize())
	got := NewPathTracer(1).Li(ray, s, core.NewSeededSampler(2))
	assert.Equal(t, core.Vec3{}, got)
}

func TestPathTracer_EmissionOnly(t *testing.T) {
	surface := material.NewSurface(core.Vec3{})
	surface.Emission = core.NewVec3(2, 3, 4)
	s := sphereScene(surface)
	s.Env = lights.NewUniformEnvironment(core.Splat(100))

	// Black surfaces end the path after the emission is collected
	got := NewPathTracer(5).Li(downAtApex, s, core.NewSeededSampler(3))
	assert.Equal(t, core.NewVec3(2, 3, 4), got)
}

func TestPathTracer_DiffuseUnderUniformEnvironment(t *testing.T) {
	color := core.NewVec3(0.2, 0.4, 0.8)
	env := core.NewVec3(1, 0.5, 0.25)
	s := sphereScene(material.NewSurface(color))
	s.Env = lights.NewUniformEnvironment(env)
	sampler := core.NewSeededSampler(4)

	// A convex diffuse object reflects exactly ρ·c along every path
	pt := NewPathTracer(3)
	for i := 0; i < 100; i++ {
		got := pt.Li(downAtApex, s, sampler)
		if got.IsZero() {
			continue // rare degenerate sample
		}
		assert.InDelta(t, color.X*env.X, got.X, 1e-9)
		assert.InDelta(t, color.Y*env.Y, got.Y, 1e-9)
		assert.InDelta(t, color.Z*env.Z, got.Z, 1e-9)
	}

	// No bounces gathers nothing
	assert.Equal(t, core.Vec3{}, NewPathTracer(0).Li(downAtApex, s, sampler))
}

func TestPathTracer_GlassSphereIsLossless(t *testing.T) {
	surface := material.NewSurface(core.Splat(1))
	surface.Transparency = 1
	s := sphereScene(surface)
	s.Env = lights.NewUniformEnvironment(core.Splat(0.7))
	pt := NewPathTracer(8)
	sampler := core.NewSeededSampler(5)

	for _, x := range []float64{0, 0.3, -0.6, 0.8} {
		ray := core.NewRay(core.NewVec3(x, 0.1, 5), core.NewVec3(0, 0, -1))
		got := pt.Li(ray, s, sampler)
		assert.InDelta(t, 0.7, got.X, 1e-9, "offset %v", x)
	}
}

func TestPathTracer_DiscLight(t *testing.T) {
	s := sphereScene(material.NewSurface(core.Splat(1)))
	// Small disc facing down far above the apex acts like a point light
	disc := lights.NewDiscLight(core.NewVec3(0, 101, 0), core.NewVec3(0, -1, 0), 0.1, core.Splat(1), 1e4)
	s.AddDiscLight(disc)

	got := NewPathTracer(1).Li(downAtApex, s, core.NewSeededSampler(6))
	expected := 1 / math.Pi * 1e4 * disc.Area() / (100 * 100)
	assert.InDelta(t, expected, got.X, expected*1e-3)
}

func TestPathTracer_PrimaryMiss(t *testing.T) {
	s := sphereScene(material.NewSurface(core.Splat(1)))
	s.Env = lights.NewUniformEnvironment(core.Splat(1))

	got := NewPathTracer(4).Li(core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, 1, 0)), s, core.NewSeededSampler(7))
	assert.Equal(t, core.Vec3{}, got)
}

func TestPathTracer_MetalTree(t *testing.T) {
	surface := material.NewSurface(core.Splat(0.9))
	surface.Metalness = 1
	surface.Fresnel = 1
	s := sphereScene(surface)
	s.Env = lights.NewUniformEnvironment(core.Splat(1))

	pt := &PathTracer{MaxBounces: 2, BuildMaterial: material.NewMetalTree}
	sampler := core.NewSeededSampler(8)

	sum := 0.0
	const n = 2000
	for i := 0; i < n; i++ {
		got := pt.Li(downAtApex, s, sampler)
		require.GreaterOrEqual(t, got.X, 0.0)
		sum += got.X
	}
	// A tinted reflector never reflects more than it receives
	assert.Greater(t, sum/n, 0.0)
	assert.Less(t, sum/n, 1.0)
}
