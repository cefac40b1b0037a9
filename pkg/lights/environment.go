package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// oneMinusEpsilon is the largest float64 below 1
var oneMinusEpsilon = math.Nextafter(1, 0)

// Environment is an equirectangular radiance map surrounding the scene.
// Row 0 of Pixels is the top of the image (the +Y pole).
type Environment struct {
	Width      int
	Height     int
	Pixels     []core.Vec3 // Linear radiance, row-major
	Multiplier float64
}

// NewEnvironment creates an environment from a row-major pixel buffer
func NewEnvironment(width, height int, pixels []core.Vec3, multiplier float64) (*Environment, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid environment size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("environment has %d pixels, expected %d", len(pixels), width*height)
	}
	return &Environment{
		Width:      width,
		Height:     height,
		Pixels:     pixels,
		Multiplier: multiplier,
	}, nil
}

// NewUniformEnvironment creates an environment that returns color in every direction
func NewUniformEnvironment(color core.Vec3) *Environment {
	return &Environment{
		Width:      1,
		Height:     1,
		Pixels:     []core.Vec3{color},
		Multiplier: 1,
	}
}

// DirectionToUV maps a direction to equirectangular texture coordinates in [0,1)².
// v = 1 is straight up.
func DirectionToUV(dir core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, dir.Y)))
	phi := math.Atan2(dir.Z, dir.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	u := phi / (2 * math.Pi)
	v := 1 - theta/math.Pi
	return core.NewVec2(clampUnit(u), clampUnit(v))
}

func clampUnit(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	return math.Min(x, oneMinusEpsilon)
}

// Lookup returns the radiance arriving from direction dir.
// A nil environment is black.
func (e *Environment) Lookup(dir core.Vec3) core.Vec3 {
	if e == nil {
		return core.Vec3{}
	}

	uv := DirectionToUV(dir)
	col := int(uv.X * float64(e.Width))
	row := int((1 - uv.Y) * float64(e.Height))
	col = min(max(col, 0), e.Width-1)
	row = min(max(row, 0), e.Height-1)

	return e.Pixels[row*e.Width+col].Multiply(e.Multiplier)
}
