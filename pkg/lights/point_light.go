package lights

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// PointLight is an isotropic point emitter with inverse-square falloff
type PointLight struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3, intensity float64) *PointLight {
	return &PointLight{
		Position:  position,
		Color:     color,
		Intensity: intensity,
	}
}

// Sample returns the single light position with its attenuated intensity.
// The random sample is unused, a point light has no extent.
func (pl *PointLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	toLight := pl.Position.Subtract(point)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared == 0 {
		return LightSample{Point: pl.Position}
	}

	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Normalize(),
		Distance:  toLight.Length(),
		Radiance:  pl.Color.Multiply(pl.Intensity / distanceSquared),
	}
}
