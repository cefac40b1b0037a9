package renderer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestToRGBA_FlipsAndClamps(t *testing.T) {
	img := NewImage(2, 2)
	img.Samples = 1
	img.Pixels[0] = core.NewVec3(1, 1, 1)  // bottom left
	img.Pixels[1] = core.NewVec3(5, -1, 0) // bottom right
	img.Pixels[2] = core.NewVec3(0, 0, 0)  // top left
	img.Pixels[3] = core.NewVec3(0.25, 0.25, 0.25)

	out := ToRGBA(img, 2)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, out.RGBAAt(1, 0))
}

func TestUpscale(t *testing.T) {
	img := NewImage(2, 1)
	img.Samples = 1
	img.Pixels[0] = core.Splat(1)
	small := ToRGBA(img, 1)

	big := Upscale(small, 8, 4)
	assert.Equal(t, 8, big.Bounds().Dx())
	assert.Equal(t, 4, big.Bounds().Dy())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, big.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, big.RGBAAt(7, 3))

	assert.Same(t, small, Upscale(small, 2, 1))
}

func TestNewTileGrid(t *testing.T) {
	tiles := NewTileGrid(10, 7, 4)
	assert.Len(t, tiles, 6)

	covered := 0
	for i, tile := range tiles {
		assert.Equal(t, i, tile.ID)
		covered += tile.Bounds.Dx() * tile.Bounds.Dy()
	}
	assert.Equal(t, 70, covered)
}

func TestSettings(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.Greater(t, s.Workers(), 0)

	s.Subsampling = 3
	w, h := s.RenderSize(100, 2)
	assert.Equal(t, 33, w)
	assert.Equal(t, 1, h)

	s.NumWorkers = 3
	assert.Equal(t, 3, s.Workers())

	for _, mutate := range []func(*Settings){
		func(s *Settings) { s.MaxBounces = -1 },
		func(s *Settings) { s.MaxPathsPerPixel = -2 },
		func(s *Settings) { s.Subsampling = 0 },
		func(s *Settings) { s.NumWorkers = -1 },
		func(s *Settings) { s.TileSize = 0 },
		func(s *Settings) { s.Gamma = 0 },
	} {
		bad := DefaultSettings()
		mutate(&bad)
		assert.Error(t, bad.Validate())
	}
}
