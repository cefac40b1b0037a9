package loaders

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func hdrHeader(width, height int) []byte {
	return []byte(fmt.Sprintf("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\nEXPOSURE=1.0\n\n-Y %d +X %d\n", height, width))
}

func TestDecodeHDR_Flat(t *testing.T) {
	data := hdrHeader(2, 1)
	// Exponent 129 scales mantissas by 1/128
	data = append(data, 128, 64, 32, 129)
	data = append(data, 0, 0, 0, 0)

	img, err := DecodeHDR(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.True(t, img.Linear)
	assertColor(t, core.NewVec3(1, 0.5, 0.25), img.Pixels[0], 1e-2)
	assert.Equal(t, core.Vec3{}, img.Pixels[1])
}

func TestDecodeHDR_RunLength(t *testing.T) {
	const width = 8
	data := hdrHeader(width, 2)
	for row := 0; row < 2; row++ {
		data = append(data, 2, 2, 0, width)
		// Red is stored as literals, the other channels as runs
		data = append(data, width)
		for x := 0; x < width; x++ {
			data = append(data, byte(16*x))
		}
		data = append(data, 128+width, 64)
		data = append(data, 128+width, 32)
		data = append(data, 128+width, 129)
	}

	img, err := DecodeHDR(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, img.Pixels, 2*width)

	for y := 0; y < 2; y++ {
		for x := 0; x < width; x++ {
			expected := core.NewVec3(float64(16*x)/128, 0.5, 0.25)
			assertColor(t, expected, img.Pixels[y*width+x], 1e-2, "pixel %d,%d", x, y)
		}
	}
}

func TestDecodeHDR_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"missing magic", []byte("P6\n2 2\n")},
		{"flipped layout", []byte("#?RADIANCE\n\n+Y 1 +X 1\n")},
		{"truncated pixels", append(hdrHeader(2, 1), 1, 2, 3)},
		{"run past end", append(hdrHeader(8, 1), 2, 2, 0, 8, 128+9, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHDR(bytes.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeHDR_RejectsOversizedHeader(t *testing.T) {
	// No pixel data follows, the header alone must be refused
	_, err := DecodeHDR(bytes.NewReader(hdrHeader(100000, 100000)))
	assert.ErrorContains(t, err, "unsupported size 100000x100000")

	_, err = DecodeHDR(bytes.NewReader(hdrHeader(maxHDRDimension+1, 1)))
	assert.ErrorContains(t, err, "unsupported size")
}

func TestLoadImage_RadianceFile(t *testing.T) {
	data := append(hdrHeader(1, 1), 128, 128, 128, 132)
	path := filepath.Join(t.TempDir(), "sky.hdr")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	env, err := LoadEnvironment(path, 1)
	require.NoError(t, err)

	// HDR data is already linear
	assertColor(t, core.Splat(8), env.Lookup(core.NewVec3(1, 0, 0)), 5e-2)
}
