package renderer

import (
	"context"
	"image"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA // Display resolution, top row first
	Stats      RenderStats
	IsLast     bool
}

// Snapshot converts the accumulated image to display resolution
func (s *Session) Snapshot() *image.RGBA {
	img := s.Image()
	settings := s.Settings()
	w, h := s.DisplaySize()
	return Upscale(ToRGBA(img, settings.Gamma), w, h)
}

// RenderProgressive renders with channel-based communication (idiomatic Go)
// Passes run until maxPasses (0 = no limit), the sample cap, or cancellation of ctx.
// Both channels are closed when rendering stops; ctx.Err() is sent on cancellation.
func (s *Session) RenderProgressive(ctx context.Context, camera geometry.CameraConfig, maxPasses int) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		view, projection := camera.View(), camera.Projection()
		s.logger.Printf("Starting progressive rendering (%d workers)...\n", s.pool.NumWorkers())

		for pass := 1; maxPasses == 0 || pass <= maxPasses; pass++ {
			select {
			case <-ctx.Done():
				s.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			if !s.TracePaths(view, projection) {
				if s.Closed() {
					errChan <- ErrSessionClosed
					return
				}
				if s.Converged() {
					s.logger.Printf("Reached maximum paths per pixel (%d), stopping.\n", s.Settings().MaxPathsPerPixel)
					return
				}
				continue
			}

			stats := s.Stats()
			s.logger.Printf("Pass %d completed in %v (%.0f paths/s)\n", stats.Pass, stats.PassDuration, stats.PathsPerSecond())

			result := PassResult{
				PassNumber: stats.Pass,
				Image:      s.Snapshot(),
				Stats:      stats,
				IsLast:     pass == maxPasses || s.Converged(),
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if result.IsLast {
				return
			}
		}
	}()

	return passChan, errChan
}
