package lights

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// DiscLight represents a one-sided circular area light emitting along its normal
type DiscLight struct {
	Center    core.Vec3
	Normal    core.Vec3
	Radius    float64
	Color     core.Vec3
	Intensity float64
	right     core.Vec3 // Orthonormal in-plane basis
	up        core.Vec3
}

// NewDiscLight creates a new circular disc light
func NewDiscLight(center, normal core.Vec3, radius float64, color core.Vec3, intensity float64) *DiscLight {
	n := normal.Normalize()
	right, up := core.TangentFrame(n)
	return &DiscLight{
		Center:    center,
		Normal:    n,
		Radius:    radius,
		Color:     color,
		Intensity: intensity,
		right:     right,
		up:        up,
	}
}

// Area returns the emitting surface area
func (dl *DiscLight) Area() float64 {
	return math.Pi * dl.Radius * dl.Radius
}

// SampleUniform samples a uniform point on the disc
func (dl *DiscLight) SampleUniform(sample core.Vec2) core.Vec3 {
	p := core.SamplePointInUnitDisk(sample)
	return dl.Center.
		Add(dl.right.Multiply(p.X * dl.Radius)).
		Add(dl.up.Multiply(p.Y * dl.Radius))
}

// Sample draws a uniform area sample and converts it to a solid angle estimate.
// Points behind the emitting side contribute nothing.
func (dl *DiscLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	samplePoint := dl.SampleUniform(sample)

	toLight := samplePoint.Subtract(point)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared == 0 {
		return LightSample{Point: samplePoint}
	}

	distance := math.Sqrt(distanceSquared)
	direction := toLight.Multiply(1.0 / distance)
	ls := LightSample{
		Point:     samplePoint,
		Direction: direction,
		Distance:  distance,
	}

	cosLight := dl.Normal.Dot(direction.Negate())
	if cosLight <= 0 {
		return ls
	}

	// Area pdf 1/A becomes d²/(A·cosθ) in solid angle
	ls.Radiance = dl.Color.Multiply(dl.Intensity * cosLight * dl.Area() / distanceSquared)
	return ls
}
