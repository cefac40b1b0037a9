package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// CameraConfig describes a pinhole camera.
// View and Projection produce OpenGL style matrices.
type CameraConfig struct {
	Position    core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	VFov        float64 // Vertical field of view in degrees
	AspectRatio float64
}

// DefaultCameraConfig looks at the origin from +Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:    core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 1,
	}
}

const (
	nearPlane = 0.01
	farPlane  = 1000
)

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// View returns the world-to-camera matrix
func (c CameraConfig) View() mgl64.Mat4 {
	return mgl64.LookAtV(toMgl(c.Position), toMgl(c.LookAt), toMgl(c.Up))
}

// Projection returns the perspective projection matrix
func (c CameraConfig) Projection() mgl64.Mat4 {
	aspect := c.AspectRatio
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(c.VFov), aspect, nearPlane, farPlane)
}

// RayGenerator turns normalized screen positions into world-space primary rays
type RayGenerator struct {
	inverse mgl64.Mat4 // inverse(P·V)
	origin  core.Vec3
}

// NewRayGenerator inverts the camera matrices once per pass
func NewRayGenerator(view, projection mgl64.Mat4) RayGenerator {
	eye := view.Inv().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	return RayGenerator{
		inverse: projection.Mul4(view).Inv(),
		origin:  core.NewVec3(eye.X()/eye.W(), eye.Y()/eye.W(), eye.Z()/eye.W()),
	}
}

// Origin returns the camera position in world space
func (g RayGenerator) Origin() core.Vec3 {
	return g.origin
}

// Ray returns the ray through screen position (s, t) in [0,1]², t = 0 at the bottom
func (g RayGenerator) Ray(s, t float64) core.Ray {
	p := g.inverse.Mul4x1(mgl64.Vec4{2*s - 1, 2*t - 1, 1, 1})
	target := core.NewVec3(p.X()/p.W(), p.Y()/p.W(), p.Z()/p.W())
	return core.NewRay(g.origin, target.Subtract(g.origin).Normalize())
}
