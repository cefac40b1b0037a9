package lights

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointLight_Sample(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 0.5, 0.25), 32)

	ls := light.Sample(core.NewVec3(0, 1, 0), core.Vec2{})
	assert.Equal(t, core.NewVec3(0, 1, 0), ls.Direction)
	assert.InDelta(t, 4.0, ls.Distance, 1e-12)
	assert.InDelta(t, 2.0, ls.Radiance.X, 1e-12)
	assert.InDelta(t, 1.0, ls.Radiance.Y, 1e-12)
	assert.InDelta(t, 0.5, ls.Radiance.Z, 1e-12)

	// Coincident point has no direction
	assert.Equal(t, core.Vec3{}, light.Sample(light.Position, core.Vec2{}).Radiance)
}

func TestDiscLight_SamplesLieOnDisc(t *testing.T) {
	light := NewDiscLight(core.NewVec3(1, 4, -2), core.NewVec3(0, -1, 0), 0.5, core.Splat(1), 10)
	sampler := core.NewSeededSampler(3)

	for i := 0; i < 1000; i++ {
		p := light.SampleUniform(sampler.Get2D())
		offset := p.Subtract(light.Center)
		assert.InDelta(t, 0.0, offset.Dot(light.Normal), 1e-12)
		assert.LessOrEqual(t, offset.Length(), light.Radius+1e-12)
	}
}

func TestDiscLight_Sample(t *testing.T) {
	light := NewDiscLight(core.NewVec3(0, 4, 0), core.NewVec3(0, -1, 0), 0.5, core.Splat(1), 10)
	sampler := core.NewSeededSampler(4)

	// A receiver far below sees approximately a point light of power intensity·area
	receiver := core.NewVec3(0, -96, 0)
	sum := 0.0
	const n = 1000
	for i := 0; i < n; i++ {
		ls := light.Sample(receiver, sampler.Get2D())
		require.Greater(t, ls.Direction.Y, 0.0)
		sum += ls.Radiance.X
	}
	expected := 10 * light.Area() / (100 * 100)
	assert.InDelta(t, expected, sum/n, expected*1e-3)

	// Nothing is emitted from the back side
	ls := light.Sample(core.NewVec3(0, 10, 0), sampler.Get2D())
	assert.Equal(t, core.Vec3{}, ls.Radiance)
}

func TestDirectionToUV(t *testing.T) {
	tests := []struct {
		name string
		dir  core.Vec3
		want core.Vec2
	}{
		{"+X", core.NewVec3(1, 0, 0), core.NewVec2(0, 0.5)},
		{"+Z", core.NewVec3(0, 0, 1), core.NewVec2(0.25, 0.5)},
		{"-X", core.NewVec3(-1, 0, 0), core.NewVec2(0.5, 0.5)},
		{"-Z", core.NewVec3(0, 0, -1), core.NewVec2(0.75, 0.5)},
		{"down", core.NewVec3(0, -1, 0), core.NewVec2(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionToUV(tt.dir)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}

	// The upward pole clamps just below 1
	up := DirectionToUV(core.NewVec3(0, 1, 0))
	assert.Less(t, up.Y, 1.0)
	assert.InDelta(t, 1.0, up.Y, 1e-12)
}

func TestDirectionToUV_Range(t *testing.T) {
	sampler := core.NewSeededSampler(9)
	for i := 0; i < 10000; i++ {
		u := sampler.Get2D()
		z := 1 - 2*u.X
		r := math.Sqrt(math.Max(0, 1-z*z))
		phi := 2 * math.Pi * u.Y
		dir := core.NewVec3(r*math.Cos(phi), z, r*math.Sin(phi))

		uv := DirectionToUV(dir)
		assert.GreaterOrEqual(t, uv.X, 0.0)
		assert.Less(t, uv.X, 1.0)
		assert.GreaterOrEqual(t, uv.Y, 0.0)
		assert.Less(t, uv.Y, 1.0)
	}

	// Slightly out-of-range components are clamped instead of producing NaN
	uv := DirectionToUV(core.NewVec3(0, 1+1e-9, 0))
	assert.False(t, math.IsNaN(uv.Y))
}

func TestEnvironment_Lookup(t *testing.T) {
	// 4x2 image: top row bright, bottom row dark
	pixels := make([]core.Vec3, 8)
	for col := 0; col < 4; col++ {
		pixels[col] = core.NewVec3(float64(col+1), 0, 0)
		pixels[4+col] = core.NewVec3(0, float64(col+1), 0)
	}
	env, err := NewEnvironment(4, 2, pixels, 2)
	require.NoError(t, err)

	up := env.Lookup(core.NewVec3(0.1, 1, 0).Normalize())
	assert.Equal(t, core.NewVec3(2, 0, 0), up)

	down := env.Lookup(core.NewVec3(0, -1, 0.1).Normalize())
	assert.Equal(t, core.NewVec3(0, 4, 0), down, "+Z is the second column")

	sampler := core.NewSeededSampler(10)
	for i := 0; i < 1000; i++ {
		dir := core.SampleUniformHemisphere(core.NewVec3(0, 1, 0), sampler.Get2D())
		if sampler.Get1D() < 0.5 {
			dir = dir.Negate()
		}
		c := env.Lookup(dir)
		assert.LessOrEqual(t, c.X, 8.0)
		assert.LessOrEqual(t, c.Y, 8.0)
		assert.GreaterOrEqual(t, c.X+c.Y, 2.0)
	}
}

func TestEnvironment_NilAndUniform(t *testing.T) {
	var env *Environment
	assert.Equal(t, core.Vec3{}, env.Lookup(core.NewVec3(0, 1, 0)))

	uniform := NewUniformEnvironment(core.NewVec3(0.2, 0.3, 0.4))
	assert.Equal(t, core.NewVec3(0.2, 0.3, 0.4), uniform.Lookup(core.NewVec3(0, 0, -1)))

	_, err := NewEnvironment(2, 2, make([]core.Vec3, 3), 1)
	assert.Error(t, err)
}
