package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// minHitDistance rejects hits at the ray origin itself
const minHitDistance = 1e-9

// Scene contains all the elements needed for rendering
type Scene struct {
	Name        string
	Camera      geometry.CameraConfig
	Shapes      []geometry.Shape     // Objects in the scene
	Point       *lights.PointLight   // Optional point light
	Discs       []*lights.DiscLight  // Area lights used for direct lighting
	Env         *lights.Environment  // Optional environment, black when nil
	TreeBuilder material.TreeBuilder // Optional per-hit material topology
	bvh         *geometry.BVH
}

// New creates an empty scene with the default camera
func New(name string) *Scene {
	return &Scene{
		Name:   name,
		Camera: geometry.DefaultCameraConfig(),
	}
}

// AddShape adds geometry to the scene. Call Preprocess before rendering.
func (s *Scene) AddShape(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddDiscLight adds a circular area light
func (s *Scene) AddDiscLight(light *lights.DiscLight) {
	s.Discs = append(s.Discs, light)
}

// Preprocess builds the acceleration structure
func (s *Scene) Preprocess() {
	s.bvh = geometry.NewBVH(s.Shapes)
}

// Intersect returns the closest hit along the ray
func (s *Scene) Intersect(ray core.Ray) (*material.Intersection, bool) {
	if s.bvh == nil {
		return nil, false
	}
	return s.bvh.Hit(ray, minHitDistance, math.Inf(1))
}

// Occluded reports whether anything blocks the ray before maxDistance
func (s *Scene) Occluded(ray core.Ray, maxDistance float64) bool {
	if s.bvh == nil {
		return false
	}
	return s.bvh.HitAny(ray, minHitDistance, maxDistance)
}

// PointLight returns the point light, or nil
func (s *Scene) PointLight() *lights.PointLight {
	return s.Point
}

// DiscLights returns the area lights
func (s *Scene) DiscLights() []*lights.DiscLight {
	return s.Discs
}

// Environment returns the environment map, or nil
func (s *Scene) Environment() *lights.Environment {
	return s.Env
}

// PrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		switch obj := shape.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		default:
			count++
		}
	}
	return count
}

// NewGroundQuad creates a horizontal square of two triangles facing +Y
func NewGroundQuad(center core.Vec3, size float64, surface *material.Surface) geometry.Shape {
	h := size / 2
	vertices := []core.Vec3{
		core.NewVec3(center.X-h, center.Y, center.Z-h),
		core.NewVec3(center.X+h, center.Y, center.Z-h),
		core.NewVec3(center.X+h, center.Y, center.Z+h),
		core.NewVec3(center.X-h, center.Y, center.Z+h),
	}
	// Counter-clockwise seen from above
	mesh, _ := geometry.NewTriangleMesh(vertices, []int{0, 2, 1, 0, 3, 2}, nil, surface)
	return mesh
}

// MaterialTree returns the scene's material topology, nil for the default
func (s *Scene) MaterialTree() material.TreeBuilder {
	return s.TreeBuilder
}
