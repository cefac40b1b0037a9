package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphere_Hit(t *testing.T) {
	surface := material.NewSurface(core.Splat(0.5))
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, surface)

	tests := []struct {
		name       string
		ray        core.Ray
		wantHit    bool
		wantT      float64
		wantNormal core.Vec3
	}{
		{"from outside", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), true, 4, core.NewVec3(0, 0, 1)},
		{"from inside keeps outward normal", core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), true, 1, core.NewVec3(0, 1, 0)},
		{"miss", core.NewRay(core.NewVec3(0, 2, 5), core.NewVec3(0, 0, -1)), false, 0, core.Vec3{}},
		{"behind", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), false, 0, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Hit(tt.ray, core.Epsilon, math.Inf(1))
			require.Equal(t, tt.wantHit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantT, hit.T, 1e-12)
			assert.Equal(t, tt.wantNormal, hit.GeometryNormal)
			assert.Equal(t, hit.GeometryNormal, hit.ShadingNormal)
			assert.Equal(t, tt.ray.Direction.Negate(), hit.Wo)
			assert.Same(t, surface, hit.Surface)
		})
	}
}

func TestTriangle_Hit(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	assert.Equal(t, core.NewVec3(0, 0, 1), tri.Normal())

	hit, ok := tri.Hit(core.NewRay(core.NewVec3(0.25, 0.25, 2), core.NewVec3(0, 0, -1)), 0, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 2.0, hit.T, 1e-12)
	assert.Equal(t, core.NewVec3(0, 0, 1), hit.GeometryNormal)

	// Hits from behind report the same outward normal
	hit, ok = tri.Hit(core.NewRay(core.NewVec3(0.25, 0.25, -2), core.NewVec3(0, 0, 1)), 0, math.Inf(1))
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 0, 1), hit.GeometryNormal)

	_, ok = tri.Hit(core.NewRay(core.NewVec3(0.75, 0.75, 2), core.NewVec3(0, 0, -1)), 0, math.Inf(1))
	assert.False(t, ok, "outside the hypotenuse")

	_, ok = tri.Hit(core.NewRay(core.NewVec3(0.25, 0.25, 2), core.NewVec3(1, 0, 0)), 0, math.Inf(1))
	assert.False(t, ok, "parallel")
}

func TestTriangle_SmoothNormals(t *testing.T) {
	n0 := core.NewVec3(-1, 0, 1)
	n1 := core.NewVec3(1, 0, 1)
	tri := NewSmoothTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		n0, n1, core.NewVec3(0, 0, 1), nil)

	// Equal weights on n0 and n1 cancel their tilt
	hit, ok := tri.Hit(core.NewRay(core.NewVec3(0.4, 0.2, 1), core.NewVec3(0, 0, -1)), 0, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 0.0, hit.ShadingNormal.X, 1e-9)
	assert.InDelta(t, 1.0, hit.ShadingNormal.Z, 1e-9)
	assert.Equal(t, core.NewVec3(0, 0, 1), hit.GeometryNormal)
}

func TestTriangleMesh(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0),
		core.NewVec3(1, 1, 0), core.NewVec3(-1, 1, 0),
	}
	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 0, 2, 3}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, mesh.TriangleCount())

	for _, p := range []core.Vec3{core.NewVec3(0.5, -0.5, 3), core.NewVec3(-0.5, 0.5, 3)} {
		hit, ok := mesh.Hit(core.NewRay(p, core.NewVec3(0, 0, -1)), 0, math.Inf(1))
		require.True(t, ok)
		assert.InDelta(t, 3.0, hit.T, 1e-12)
	}

	_, err = NewTriangleMesh(vertices, []int{0, 1}, nil, nil)
	assert.Error(t, err)
	_, err = NewTriangleMesh(vertices, []int{0, 1, 7}, nil, nil)
	assert.Error(t, err)
	_, err = NewTriangleMesh(vertices, []int{0, 1, 2}, vertices[:2], nil)
	assert.Error(t, err)
}
