package loaders

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// SceneFile is the YAML description of a scene.
// Relative asset paths resolve against the directory of the scene file.
type SceneFile struct {
	Name        string           `yaml:"name"`
	Materials   string           `yaml:"materials"` // "glass" (default) or "metal"
	Camera      *CameraSpec      `yaml:"camera"`
	Environment *EnvironmentSpec `yaml:"environment"`
	PointLight  *PointLightSpec  `yaml:"point_light"`
	DiscLights  []DiscLightSpec  `yaml:"disc_lights"`
	Surfaces    []SurfaceSpec    `yaml:"surfaces"`
	Spheres     []SphereSpec     `yaml:"spheres"`
	Meshes      []MeshSpec       `yaml:"meshes"`
	Ground      *GroundSpec      `yaml:"ground"`
}

// Vec is a YAML [x, y, z] triple
type Vec [3]float64

func (v Vec) vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraSpec overrides fields of the default camera; omitted fields keep their defaults
type CameraSpec struct {
	Position    *Vec    `yaml:"position"`
	LookAt      *Vec    `yaml:"look_at"`
	Up          *Vec    `yaml:"up"`
	VFov        float64 `yaml:"vfov"`
	AspectRatio float64 `yaml:"aspect_ratio"`
}

// EnvironmentSpec is an equirectangular image or a uniform colour.
// Multiplier defaults to 1 when omitted.
type EnvironmentSpec struct {
	File       string   `yaml:"file"`
	Multiplier *float64 `yaml:"multiplier"`
	Color      *Vec     `yaml:"color"` // Uniform environment when no file is given
}

// PointLightSpec describes the scene point light
type PointLightSpec struct {
	Position  Vec     `yaml:"position"`
	Color     Vec     `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// DiscLightSpec describes a one-sided disc emitter facing along Normal
type DiscLightSpec struct {
	Center    Vec     `yaml:"center"`
	Normal    Vec     `yaml:"normal"`
	Radius    float64 `yaml:"radius"`
	Color     Vec     `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// SurfaceSpec is a named material. Omitted fields keep the defaults of material.NewSurface.
type SurfaceSpec struct {
	Name         string  `yaml:"name"`
	Color        Vec     `yaml:"color"`
	Shininess    float64 `yaml:"shininess"`
	Metalness    float64 `yaml:"metalness"`
	Fresnel      float64 `yaml:"fresnel"`
	IOR          float64 `yaml:"ior"`
	Transparency float64 `yaml:"transparency"`
	Emission     Vec     `yaml:"emission"`
}

// UnmarshalYAML fills unset fields with surface defaults
func (s *SurfaceSpec) UnmarshalYAML(value *yaml.Node) error {
	defaults := material.NewSurface(core.Splat(1))
	type plain SurfaceSpec
	spec := plain{
		Color:     Vec{1, 1, 1},
		Shininess: defaults.Shininess,
		Fresnel:   defaults.Fresnel,
		IOR:       defaults.IOR,
	}
	if err := value.Decode(&spec); err != nil {
		return err
	}
	*s = SurfaceSpec(spec)
	return nil
}

func (s SurfaceSpec) surface() *material.Surface {
	surface := material.NewSurface(s.Color.vec3())
	surface.Name = s.Name
	surface.Shininess = s.Shininess
	surface.Metalness = s.Metalness
	surface.Fresnel = s.Fresnel
	surface.IOR = s.IOR
	surface.Transparency = s.Transparency
	surface.Emission = s.Emission.vec3()
	return surface
}

// SphereSpec places a sphere with a named surface
type SphereSpec struct {
	Center  Vec     `yaml:"center"`
	Radius  float64 `yaml:"radius"`
	Surface string  `yaml:"surface"`
}

// MeshSpec loads a glTF mesh, scaled then translated
type MeshSpec struct {
	File      string  `yaml:"file"` // glTF or GLB
	Surface   string  `yaml:"surface"`
	Translate Vec     `yaml:"translate"`
	Scale     float64 `yaml:"scale"`
}

// GroundSpec is a square ground quad; Size defaults to 40
type GroundSpec struct {
	Center  Vec     `yaml:"center"`
	Size    float64 `yaml:"size"`
	Surface string  `yaml:"surface"`
}

// ParseSceneFile decodes a YAML scene description, rejecting unknown keys
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var file SceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &file, nil
}

// LoadScene reads a YAML scene file and builds a preprocessed scene.
// The environment map and meshes load concurrently.
func LoadScene(ctx context.Context, path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	file, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := file.Build(ctx, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build turns the description into a scene, resolving asset paths against baseDir
func (f *SceneFile) Build(ctx context.Context, baseDir string) (*scene.Scene, error) {
	name := f.Name
	if name == "" {
		name = "Untitled"
	}
	s := scene.New(name)

	switch f.Materials {
	case "", "glass":
	case "metal":
		s.TreeBuilder = material.NewMetalTree
	default:
		return nil, fmt.Errorf("unknown material topology %q", f.Materials)
	}

	if f.Camera != nil {
		s.Camera = f.Camera.config()
	}

	surfaces := make(map[string]*material.Surface, len(f.Surfaces))
	for _, spec := range f.Surfaces {
		if spec.Name == "" {
			return nil, fmt.Errorf("surface without a name")
		}
		if _, ok := surfaces[spec.Name]; ok {
			return nil, fmt.Errorf("duplicate surface %q", spec.Name)
		}
		surfaces[spec.Name] = spec.surface()
	}
	lookup := func(name string) (*material.Surface, error) {
		if name == "" {
			return material.NewSurface(core.Splat(0.7)), nil
		}
		surface, ok := surfaces[name]
		if !ok {
			return nil, fmt.Errorf("unknown surface %q", name)
		}
		return surface, nil
	}

	for i, spec := range f.Spheres {
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive", i)
		}
		surface, err := lookup(spec.Surface)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddShape(geometry.NewSphere(spec.Center.vec3(), spec.Radius, surface))
	}

	if f.Ground != nil {
		surface, err := lookup(f.Ground.Surface)
		if err != nil {
			return nil, fmt.Errorf("ground: %w", err)
		}
		size := f.Ground.Size
		if size <= 0 {
			size = 40
		}
		s.AddShape(scene.NewGroundQuad(f.Ground.Center.vec3(), size, surface))
	}

	if f.PointLight != nil {
		pl := f.PointLight
		s.Point = lights.NewPointLight(pl.Position.vec3(), pl.Color.vec3(), pl.Intensity)
	}
	for i, spec := range f.DiscLights {
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("disc light %d: radius must be positive", i)
		}
		s.AddDiscLight(lights.NewDiscLight(spec.Center.vec3(), spec.Normal.vec3(), spec.Radius, spec.Color.vec3(), spec.Intensity))
	}

	meshSurfaces := make([]*material.Surface, len(f.Meshes))
	for i, spec := range f.Meshes {
		surface, err := lookup(spec.Surface)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		meshSurfaces[i] = surface
	}

	// Assets load in parallel, each result lands in its own slot
	meshes := make([]*geometry.TriangleMesh, len(f.Meshes))
	g, ctx := errgroup.WithContext(ctx)
	if env := f.Environment; env != nil {
		g.Go(func() error {
			environment, err := env.load(ctx, baseDir)
			if err != nil {
				return err
			}
			s.Env = environment
			return nil
		})
	}
	for i, spec := range f.Meshes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			transform := MeshTransform{Scale: spec.Scale, Translate: spec.Translate.vec3()}
			mesh, err := LoadGLTF(resolve(baseDir, spec.File), transform, meshSurfaces[i])
			if err != nil {
				return fmt.Errorf("mesh %d: %w", i, err)
			}
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, mesh := range meshes {
		s.AddShape(mesh)
	}

	s.Preprocess()
	return s, nil
}

func (c *CameraSpec) config() geometry.CameraConfig {
	config := geometry.DefaultCameraConfig()
	if c.Position != nil {
		config.Position = c.Position.vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.vec3()
	}
	if c.VFov > 0 {
		config.VFov = c.VFov
	}
	if c.AspectRatio > 0 {
		config.AspectRatio = c.AspectRatio
	}
	return config
}

func (e *EnvironmentSpec) load(ctx context.Context, baseDir string) (*lights.Environment, error) {
	multiplier := 1.0
	if e.Multiplier != nil {
		if *e.Multiplier < 0 {
			return nil, fmt.Errorf("environment multiplier must not be negative")
		}
		multiplier = *e.Multiplier
	}
	if e.File == "" {
		if e.Color == nil {
			return nil, fmt.Errorf("environment needs a file or a color")
		}
		env := lights.NewUniformEnvironment(e.Color.vec3())
		env.Multiplier = multiplier
		return env, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadEnvironment(resolve(baseDir, e.File), multiplier)
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
