package lights

import "github.com/df07/go-progressive-pathtracer/pkg/core"

// Light is a finite light that can be sampled for direct lighting
type Light interface {
	// Sample picks a point on the light as seen from point.
	// Direction points FROM the shading point TO the light.
	Sample(point core.Vec3, sample core.Vec2) LightSample
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Direction core.Vec3 // Unit direction from the shading point to the light
	Distance  float64   // Distance to the light point, bounds the shadow ray
	Radiance  core.Vec3 // Incident contribution before the response and receiver cosine
}
