package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// NewBuiltinScene creates one of the scenes listed by BuiltinScenes
func NewBuiltinScene(id string) (*Scene, error) {
	switch id {
	case "diffuse-sphere":
		return NewDiffuseSphereScene(), nil
	case "glass-spheres":
		return NewGlassSpheresScene(), nil
	case "sphere-grid":
		return NewSphereGridScene(), nil
	default:
		return nil, fmt.Errorf("unknown built-in scene %q", id)
	}
}

// NewDiffuseSphereScene is a gray diffuse sphere lit by a single point light
func NewDiffuseSphereScene() *Scene {
	s := New("Diffuse Sphere")
	s.Camera = geometry.CameraConfig{
		Position:    core.NewVec3(0, 1, 6),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        35,
		AspectRatio: 16.0 / 9.0,
	}

	s.AddShape(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewSurface(core.Splat(0.7))),
		NewGroundQuad(core.NewVec3(0, -1, 0), 40, material.NewSurface(core.Splat(0.5))),
	)
	s.Point = lights.NewPointLight(core.NewVec3(3, 5, 3), core.Splat(1), 60)
	s.Env = lights.NewUniformEnvironment(core.NewVec3(0.05, 0.06, 0.08))

	s.Preprocess()
	return s
}

// NewGlassSpheresScene shows refraction: glass spheres of varying transparency under an area light
func NewGlassSpheresScene() *Scene {
	s := New("Glass Spheres")
	s.Camera = geometry.CameraConfig{
		Position:    core.NewVec3(0, 1.5, 7),
		LookAt:      core.NewVec3(0, 0.2, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}

	for i, transparency := range []float64{0, 0.5, 1} {
		surface := material.NewSurface(core.NewVec3(0.9, 0.4, 0.3))
		surface.Transparency = transparency
		s.AddShape(geometry.NewSphere(core.NewVec3(float64(i-1)*2.2, 0, 0), 1, surface))
	}
	s.AddShape(NewGroundQuad(core.NewVec3(0, -1, 0), 40, material.NewSurface(core.Splat(0.6))))

	s.AddDiscLight(lights.NewDiscLight(core.NewVec3(0, 6, 2), core.NewVec3(0, -1, -0.3), 1.5, core.NewVec3(1, 0.95, 0.9), 40))
	s.Env = lights.NewUniformEnvironment(core.NewVec3(0.4, 0.5, 0.7))

	s.Preprocess()
	return s
}

// NewSphereGridScene creates a grid of metallic spheres with OKLCH colors under the metal material topology
func NewSphereGridScene() *Scene {
	s := New("Sphere Grid")
	s.Camera = geometry.CameraConfig{
		Position:    core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.TreeBuilder = material.NewMetalTree

	s.AddShape(NewGroundQuad(core.NewVec3(4.5, 0, 4.5), 60, material.NewSurface(core.Splat(0.5))))

	const gridSize = 10
	const targetArea = 9.0
	spacing := targetArea / float64(gridSize-1)
	radius := spacing * 0.35

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i) * spacing
			z := float64(j) * spacing

			// Hue varies across X, chroma across Z
			hue := float64(i) / float64(gridSize-1) * 360.0
			chroma := 0.05 + float64(j)/float64(gridSize-1)*0.2

			surface := material.NewSurface(oklchToRGB(0.65, chroma, hue))
			surface.Metalness = float64(j) / float64(gridSize-1)
			surface.Shininess = 10 + 10*float64(i)
			surface.Fresnel = 0.5
			s.AddShape(geometry.NewSphere(core.NewVec3(x, radius, z), radius, surface))
		}
	}

	s.Point = lights.NewPointLight(core.NewVec3(20, 25, 20), core.NewVec3(1, 0.96, 0.9), 900)
	s.Env = lights.NewUniformEnvironment(core.NewVec3(0.5, 0.7, 1.0))

	s.Preprocess()
	return s
}

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}
