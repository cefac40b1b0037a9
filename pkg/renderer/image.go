package renderer

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Image is the progressive accumulator: a per-pixel running mean of radiance.
// Row 0 is the bottom of the picture.
type Image struct {
	Width   int
	Height  int
	Pixels  []core.Vec3 // Row-major running means
	Samples int         // Completed passes blended into Pixels
}

// NewImage creates an image with no samples
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the accumulated radiance at (x, y)
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Clone returns a copy. An image without samples copies as black.
func (img *Image) Clone() *Image {
	c := NewImage(img.Width, img.Height)
	c.Samples = img.Samples
	if img.Samples > 0 {
		copy(c.Pixels, img.Pixels)
	}
	return c
}

// blend folds one pass into the running mean: pixel·n/(n+1) + c/(n+1).
// The first pass after a reset overwrites stale values.
func (img *Image) blend(pass []core.Vec3) {
	n := float64(img.Samples)
	keep := n / (n + 1)
	add := 1 / (n + 1)
	for i, c := range pass {
		img.Pixels[i] = img.Pixels[i].Multiply(keep).Add(c.Multiply(add))
	}
	img.Samples++
}

// ToRGBA converts the image to 8-bit sRGB-ish output with the given gamma.
// The image is flipped so row 0 of the result is the top.
func ToRGBA(img *Image, gamma float64) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y).GammaCorrect(gamma).Clamp(0, 1)
			out.SetRGBA(x, img.Height-1-y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return out
}

// Upscale resizes a subsampled render to the display resolution
func Upscale(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return transform.Resize(img, width, height, transform.NearestNeighbor)
}
