package loaders

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WEBP decoder

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
)

// displayGamma converts 8-bit images back to linear radiance
const displayGamma = 2.2

// ImageData contains loaded image data as Vec3 color array.
// Row 0 is the top of the image.
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
	Linear bool // Pixels hold linear radiance rather than display-encoded values
}

// LoadImage loads a PNG, JPEG, BMP, TIFF, WEBP or Radiance HDR image
func LoadImage(filename string) (*ImageData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}

	if isRadiance(data, filename) {
		img, err := DecodeHDR(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
		}
		return img, nil
	}

	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("%s is not a supported image (detected %q)", filename, kind.Extension)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return fromImage(img), nil
}

func isRadiance(data []byte, filename string) bool {
	if bytes.HasPrefix(data, []byte("#?RADIANCE")) || bytes.HasPrefix(data, []byte("#?RGBE")) {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".hdr")
}

func fromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// LoadEnvironment loads an equirectangular environment map.
// Display-encoded images are converted to linear radiance first.
func LoadEnvironment(filename string, multiplier float64) (*lights.Environment, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}

	pixels := img.Pixels
	if !img.Linear {
		pixels = make([]core.Vec3, len(img.Pixels))
		for i, p := range img.Pixels {
			pixels[i] = core.NewVec3(
				math.Pow(p.X, displayGamma),
				math.Pow(p.Y, displayGamma),
				math.Pow(p.Z, displayGamma),
			)
		}
	}

	env, err := lights.NewEnvironment(img.Width, img.Height, pixels, multiplier)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", filename, err)
	}
	return env, nil
}
