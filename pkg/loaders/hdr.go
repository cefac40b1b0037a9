package loaders

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// maxHDRDimension bounds each axis of a Radiance image before pixels are allocated
const maxHDRDimension = 1 << 14

// DecodeHDR reads a Radiance RGBE image into linear radiance.
// Flat and run-length encoded scanlines are supported.
func DecodeHDR(r io.Reader) (*ImageData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading radiance data: %w", err)
	}

	config, err := rgbe.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading radiance header: %w", err)
	}
	if config.Width <= 0 || config.Height <= 0 ||
		config.Width > maxHDRDimension || config.Height > maxHDRDimension {
		return nil, fmt.Errorf("unsupported size %dx%d", config.Width, config.Height)
	}

	decoded, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding radiance pixels: %w", err)
	}
	img, ok := decoded.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("radiance decoder returned %T", decoded)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			red, green, blue, _ := img.HDRAt(x+bounds.Min.X, y+bounds.Min.Y).HDRRGBA()
			pixels[y*width+x] = core.NewVec3(red, green, blue)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
		Linear: true,
	}, nil
}
