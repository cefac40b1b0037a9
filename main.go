package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

type options struct {
	scene       string
	settings    string
	passes      int
	size        string
	out         string
	watch       bool
	maxBounces  int
	subsampling int
	workers     int
}

func main() {
	cmd, _ := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() (*cobra.Command, *options) {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "pathtracer",
		Short: "Progressive path tracer",
		Long: "Renders a built-in scene or a YAML scene file progressively and saves the result as PNG.\n" +
			"Built-in scenes: " + builtinIDs(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd, opts, renderer.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.scene, "scene", "s", "diffuse-sphere", "built-in scene id or path to a YAML scene file")
	flags.StringVar(&opts.settings, "settings", "", "TOML settings file")
	flags.IntVarP(&opts.passes, "passes", "p", 64, "number of passes to accumulate, 0 renders until interrupted")
	flags.StringVar(&opts.size, "size", "640x360", "output size as WIDTHxHEIGHT")
	flags.StringVarP(&opts.out, "out", "o", "", "output PNG path (default output/<scene>/render_<timestamp>.png)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-render when the scene file changes")
	flags.IntVar(&opts.maxBounces, "max-bounces", 0, "override max_bounces")
	flags.IntVar(&opts.subsampling, "subsampling", 0, "override subsampling")
	flags.IntVar(&opts.workers, "workers", 0, "override num_workers")
	return cmd, opts
}

func builtinIDs() string {
	var ids []string
	for _, info := range scene.BuiltinScenes() {
		ids = append(ids, info.ID)
	}
	return strings.Join(ids, ", ")
}

// createScene resolves a built-in scene id or loads a YAML scene file
func createScene(ctx context.Context, name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return loaders.LoadScene(ctx, name)
	}
	return scene.NewBuiltinScene(name)
}

// loadSettings reads the settings file, if any, and applies flag overrides
func loadSettings(cmd *cobra.Command, opts *options) (renderer.Settings, error) {
	settings := renderer.DefaultSettings()
	if opts.settings != "" {
		var err error
		if settings, err = loaders.LoadSettings(opts.settings); err != nil {
			return settings, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-bounces") {
		settings.MaxBounces = opts.maxBounces
	}
	if flags.Changed("subsampling") {
		settings.Subsampling = opts.subsampling
	}
	if flags.Changed("workers") {
		settings.NumWorkers = opts.workers
	}
	return settings, settings.Validate()
}

func parseSize(size string) (int, int, error) {
	var width, height int
	if _, err := fmt.Sscanf(size, "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", size)
	}
	return width, height, nil
}

func outputPath(opts *options) string {
	if opts.out != "" {
		return opts.out
	}
	name := strings.TrimSuffix(filepath.Base(opts.scene), filepath.Ext(opts.scene))
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, logger core.Logger) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	width, height, err := parseSize(opts.size)
	if err != nil {
		return err
	}
	s, err := createScene(ctx, opts.scene)
	if err != nil {
		return err
	}
	logger.Printf("Loaded scene %q with %d primitives\n", s.Name, s.PrimitiveCount())

	session, err := renderer.NewSession(s, settings, width, height, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	var reloads <-chan *scene.Scene
	if opts.watch {
		if reloads, err = watchScene(ctx, opts.scene, logger); err != nil {
			return err
		}
	}

	out := outputPath(opts)
	camera := s.Camera
	camera.AspectRatio = float64(width) / float64(height)
	start := time.Now()

	for {
		if opts.passes > 0 && session.SampleCount() >= opts.passes || session.Converged() {
			logger.Printf("Rendered %d passes in %v\n", session.SampleCount(), time.Since(start))
			if err := savePNG(session, out); err != nil {
				return err
			}
			logger.Printf("Render saved as %s\n", out)
			if reloads == nil {
				return nil
			}

			select {
			case <-ctx.Done():
				return nil
			case next := <-reloads:
				camera = reloadScene(session, next, width, height)
				start = time.Now()
			}
			continue
		}

		select {
		case <-ctx.Done():
			logger.Printf("Interrupted after %d passes\n", session.SampleCount())
			return savePNG(session, out)
		case next := <-reloads:
			camera = reloadScene(session, next, width, height)
			start = time.Now()
			continue
		default:
		}

		if session.TracePaths(camera.View(), camera.Projection()) {
			stats := session.Stats()
			logger.Printf("Pass %d completed in %v (%.0f paths/s)\n", stats.Pass, stats.PassDuration, stats.PathsPerSecond())
		}
	}
}

func reloadScene(session *renderer.Session, next *scene.Scene, width, height int) geometry.CameraConfig {
	session.SetScene(next)
	camera := next.Camera
	camera.AspectRatio = float64(width) / float64(height)
	return camera
}

func savePNG(session *renderer.Session, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, session.Snapshot()); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	return nil
}

// watchScene reloads the scene file whenever it is written.
// Files that fail to load are reported and skipped.
func watchScene(ctx context.Context, path string, logger core.Logger) (<-chan *scene.Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("--watch needs a scene file, got %q", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	target := filepath.Clean(path)
	reloads := make(chan *scene.Scene)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
					continue
				}
				next, err := loaders.LoadScene(ctx, path)
				if err != nil {
					logger.Printf("Reload failed: %v\n", err)
					continue
				}
				logger.Printf("Reloaded scene %q\n", next.Name)
				select {
				case reloads <- next:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("Watcher error: %v\n", err)
			}
		}
	}()
	return reloads, nil
}
