package integrator

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// fallbackSurface shades geometry created without a surface
var fallbackSurface = material.NewSurface(core.Splat(0.5))

// PathTracer implements unidirectional path tracing with next event estimation.
// Paths end after MaxBounces vertices without Russian roulette.
type PathTracer struct {
	MaxBounces    int
	BuildMaterial material.TreeBuilder // Defaults to material.NewGlassTree
}

// NewPathTracer creates a path tracer with the default material topology
func NewPathTracer(maxBounces int) *PathTracer {
	return &PathTracer{
		MaxBounces:    maxBounces,
		BuildMaterial: material.NewGlassTree,
	}
}

// Li computes the radiance along a primary ray.
// A primary ray that misses everything returns black; the caller handles the background.
func (pt *PathTracer) Li(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3 {
	hit, isHit := scene.Intersect(ray)
	if !isHit {
		return core.Vec3{}
	}

	build := pt.BuildMaterial
	if build == nil {
		build = material.NewGlassTree
	}

	L := core.Vec3{}
	throughput := core.Splat(1)

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		surface := hit.Surface
		if surface == nil {
			surface = fallbackSurface
		}
		n := hit.ShadingNormal
		node := build(surface)

		L = L.Add(pt.directLighting(scene, hit, node, throughput, sampler))
		L = L.Add(throughput.MultiplyVec(surface.Emission))

		s := node.Sample(hit.Wo, n, sampler)
		if s.PDF < core.Epsilon {
			return L
		}

		throughput = throughput.MultiplyVec(s.F.Multiply(math.Abs(s.Wi.Dot(n)) / s.PDF))
		if throughput.IsZero() {
			return L
		}

		// Leave the surface on the side the sampled direction points to
		offset := hit.GeometryNormal.Multiply(core.Epsilon)
		if s.Wi.Dot(hit.GeometryNormal) < 0 {
			offset = offset.Negate()
		}
		next := core.NewRay(hit.Position.Add(offset), s.Wi)

		hit, isHit = scene.Intersect(next)
		if !isHit {
			return L.Add(throughput.MultiplyVec(scene.Environment().Lookup(s.Wi)))
		}
	}

	return L
}

// directLighting estimates the light arriving straight from the point light and every disc light
func (pt *PathTracer) directLighting(scene Scene, hit *material.Intersection, node material.Node, throughput core.Vec3, sampler core.Sampler) core.Vec3 {
	n := hit.ShadingNormal
	origin := hit.Position.Add(n.Multiply(core.Epsilon))
	L := core.Vec3{}

	if point := scene.PointLight(); point != nil {
		L = L.Add(pt.lightContribution(scene, hit, node, origin, point, core.Vec2{}))
	}
	for _, disc := range scene.DiscLights() {
		L = L.Add(pt.lightContribution(scene, hit, node, origin, disc, sampler.Get2D()))
	}

	return throughput.MultiplyVec(L)
}

func (pt *PathTracer) lightContribution(scene Scene, hit *material.Intersection, node material.Node, origin core.Vec3, light lights.Light, u core.Vec2) core.Vec3 {
	ls := light.Sample(hit.Position, u)
	if ls.Radiance.IsZero() {
		return core.Vec3{}
	}

	cosine := ls.Direction.Dot(hit.ShadingNormal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	// Falloff is measured from the hit, the shadow ray starts at the offset origin
	toLight := ls.Point.Subtract(origin)
	if scene.Occluded(core.NewRay(origin, toLight.Normalize()), toLight.Length()) {
		return core.Vec3{}
	}

	f := node.Evaluate(ls.Direction, hit.Wo, hit.ShadingNormal)
	return f.MultiplyVec(ls.Radiance).Multiply(cosine)
}
