package renderer

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// passJob holds everything one pass needs. Workers only read it, apart from
// the disjoint tile regions of buffer they fill in.
type passJob struct {
	scene      integrator.Scene
	integrator integrator.Integrator
	rays       geometry.RayGenerator
	width      int
	height     int
	seed       uint64
	pass       int
	buffer     []core.Vec3
}

// renderTile traces one path per pixel inside the tile bounds
func (job *passJob) renderTile(tile Tile) {
	env := job.scene.Environment()
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			idx := y*job.width + x
			sampler := core.NewPixelSampler(job.seed, job.pass, idx)

			jitter := sampler.Get2D()
			s := (float64(x) + jitter.X) / float64(job.width)
			t := (float64(y) + jitter.Y) / float64(job.height)
			ray := job.rays.Ray(s, t)

			if _, hit := job.scene.Intersect(ray); hit {
				job.buffer[idx] = job.integrator.Li(ray, job.scene, sampler)
			} else {
				job.buffer[idx] = env.Lookup(ray.Direction)
			}
		}
	}
}
