package renderer

import (
	"fmt"
	"runtime"
)

// Settings controls the progressive renderer
type Settings struct {
	MaxBounces       int     `toml:"max_bounces"`         // Path vertices per sample
	MaxPathsPerPixel int     `toml:"max_paths_per_pixel"` // Sample cap, 0 = unbounded
	Subsampling      int     `toml:"subsampling"`         // Display pixels per render pixel along each axis
	NumWorkers       int     `toml:"num_workers"`         // Parallel workers, 0 = CPU count
	TileSize         int     `toml:"tile_size"`           // Edge length of a work tile in pixels
	Seed             uint64  `toml:"seed"`                // Base seed of the per-pixel random streams
	Gamma            float64 `toml:"gamma"`               // Output gamma
}

// DefaultSettings returns sensible default values
func DefaultSettings() Settings {
	return Settings{
		MaxBounces:       8,
		MaxPathsPerPixel: 0,
		Subsampling:      1,
		NumWorkers:       0,
		TileSize:         64,
		Seed:             0,
		Gamma:            2.2,
	}
}

// Validate reports the first invalid field
func (s Settings) Validate() error {
	switch {
	case s.MaxBounces < 0:
		return fmt.Errorf("max_bounces must not be negative, got %d", s.MaxBounces)
	case s.MaxPathsPerPixel < 0:
		return fmt.Errorf("max_paths_per_pixel must not be negative, got %d", s.MaxPathsPerPixel)
	case s.Subsampling < 1:
		return fmt.Errorf("subsampling must be at least 1, got %d", s.Subsampling)
	case s.NumWorkers < 0:
		return fmt.Errorf("num_workers must not be negative, got %d", s.NumWorkers)
	case s.TileSize < 1:
		return fmt.Errorf("tile_size must be at least 1, got %d", s.TileSize)
	case s.Gamma <= 0:
		return fmt.Errorf("gamma must be positive, got %g", s.Gamma)
	}
	return nil
}

// Workers resolves NumWorkers to an actual worker count
func (s Settings) Workers() int {
	if s.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return s.NumWorkers
}

// RenderSize returns the render resolution for a display size
func (s Settings) RenderSize(displayWidth, displayHeight int) (int, int) {
	sub := max(s.Subsampling, 1)
	return max(displayWidth/sub, 1), max(displayHeight/sub, 1)
}
