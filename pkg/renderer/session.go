package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// ErrSessionClosed is reported by RenderProgressive when the session is closed mid-render
var ErrSessionClosed = errors.New("session closed")

// materialTreeProvider is implemented by scenes that choose their own material topology
type materialTreeProvider interface {
	MaterialTree() material.TreeBuilder
}

// Session owns the accumulation state of one progressive render.
// All methods are safe for concurrent use; TracePaths calls are serialized.
type Session struct {
	mu         sync.Mutex // guards everything below
	scene      integrator.Scene
	integrator *integrator.PathTracer
	settings   Settings
	displayW   int
	displayH   int
	image      *Image
	generation uint64
	stats      RenderStats

	passMu sync.Mutex // serializes passes and guards closed
	pool   *WorkerPool
	closed bool
	logger core.Logger
}

// NewSession creates a session rendering scene at the given display size
func NewSession(scene integrator.Scene, settings Settings, width, height int, logger core.Logger) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	s := &Session{
		scene:    scene,
		settings: settings,
		pool:     NewWorkerPool(settings.Workers()),
		logger:   logger,
	}
	s.integrator = s.newIntegrator()
	s.resizeLocked(width, height)
	s.pool.Start()
	return s, nil
}

func (s *Session) newIntegrator() *integrator.PathTracer {
	pt := integrator.NewPathTracer(s.settings.MaxBounces)
	if p, ok := s.scene.(materialTreeProvider); ok && p.MaterialTree() != nil {
		pt.BuildMaterial = p.MaterialTree()
	}
	return pt
}

// Resize sets the display size; the render size is derived from Subsampling.
// Accumulated samples are discarded.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeLocked(width, height)
}

func (s *Session) resizeLocked(width, height int) {
	s.displayW, s.displayH = max(width, 1), max(height, 1)
	w, h := s.settings.RenderSize(s.displayW, s.displayH)
	s.image = NewImage(w, h)
	s.generation++
}

// Restart zeroes the sample count and invalidates any pass in flight
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked()
}

func (s *Session) restartLocked() {
	s.image.Samples = 0
	s.generation++
}

// SetScene switches the rendered scene and restarts accumulation
func (s *Session) SetScene(scene integrator.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = scene
	s.integrator = s.newIntegrator()
	s.restartLocked()
}

// UpdateSettings applies new settings and restarts accumulation.
// The worker count is fixed for the lifetime of the session.
func (s *Session) UpdateSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.integrator = s.newIntegrator()
	s.resizeLocked(s.displayW, s.displayH)
	return nil
}

// Settings returns the current settings
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// DisplaySize returns the size passed to Resize
func (s *Session) DisplaySize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayW, s.displayH
}

// Converged reports whether the sample cap has been reached
func (s *Session) Converged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convergedLocked()
}

func (s *Session) convergedLocked() bool {
	return s.settings.MaxPathsPerPixel != 0 && s.image.Samples >= s.settings.MaxPathsPerPixel
}

// TracePaths renders exactly one pass through the given camera matrices and blends it
// into the image. It returns false without rendering once the sample cap is reached,
// and false when a Restart, Resize or scene change during the pass discarded it.
// After Close it always returns false.
func (s *Session) TracePaths(view, projection mgl64.Mat4) bool {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	if s.closed {
		return false
	}

	s.mu.Lock()
	if s.convergedLocked() {
		s.mu.Unlock()
		return false
	}
	generation := s.generation
	job := &passJob{
		scene:      s.scene,
		integrator: s.integrator,
		rays:       geometry.NewRayGenerator(view, projection),
		width:      s.image.Width,
		height:     s.image.Height,
		seed:       s.settings.Seed,
		pass:       s.image.Samples,
		buffer:     make([]core.Vec3, s.image.Width*s.image.Height),
	}
	tileSize := s.settings.TileSize
	s.mu.Unlock()

	start := time.Now()
	if !s.pool.runPass(job, NewTileGrid(job.width, job.height, tileSize)) {
		s.logger.Printf("Pass %d interrupted, worker pool stopped\n", job.pass+1)
		return false
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.logger.Printf("Discarded pass %d after restart\n", job.pass+1)
		return false
	}

	s.image.blend(job.buffer)
	s.stats = RenderStats{
		Pass:         s.image.Samples,
		Width:        job.width,
		Height:       job.height,
		PassDuration: elapsed,
		Workers:      s.pool.NumWorkers(),
	}
	return true
}

// Image returns a snapshot of the accumulated image
func (s *Session) Image() *Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image.Clone()
}

// SampleCount returns the number of passes blended since the last restart
func (s *Session) SampleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image.Samples
}

// Stats returns statistics of the last completed pass
func (s *Session) Stats() RenderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	return s.closed
}

// Close stops the worker pool after any running pass.
// Later TracePaths calls render nothing.
func (s *Session) Close() {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	s.closed = true
	s.pool.Stop()
}
