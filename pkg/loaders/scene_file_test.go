package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

const testSceneYAML = `# Scene: Test Room
# Description: Spheres, a mesh and an HDR sky
name: Test Room
materials: metal
camera:
  position: [0, 1, 5]
  look_at: [0, 0, 0]
  vfov: 30
environment:
  file: sky.hdr
  multiplier: 2
point_light:
  position: [0, 5, 0]
  color: [1, 1, 1]
  intensity: 50
disc_lights:
  - center: [0, 4, 0]
    normal: [0, -1, 0]
    radius: 0.5
    color: [1, 0.9, 0.8]
    intensity: 10
surfaces:
  - name: red
    color: [0.9, 0.1, 0.1]
    metalness: 1
  - name: glass
    transparency: 1
    ior: 1.33
spheres:
  - center: [0, 0, 0]
    radius: 1
    surface: red
  - center: [2, 0, 0]
    radius: 0.5
    surface: glass
meshes:
  - file: quad.glb
    translate: [0, 0, -4]
ground:
  center: [0, -1, 0]
  size: 10
`

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.yaml"), []byte(testSceneYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sky.hdr"), append(hdrHeader(1, 1), 128, 128, 128, 129), 0o644))
	writeQuadGLB(t, filepath.Join(dir, "quad.glb"), false)

	s, err := LoadScene(context.Background(), filepath.Join(dir, "room.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Test Room", s.Name)
	assert.NotNil(t, s.MaterialTree())
	assert.Equal(t, core.NewVec3(0, 1, 5), s.Camera.Position)
	assert.Equal(t, 30.0, s.Camera.VFov)
	assert.Equal(t, core.NewVec3(0, 1, 0), s.Camera.Up, "unset camera fields keep defaults")

	require.NotNil(t, s.PointLight())
	assert.Equal(t, 50.0, s.PointLight().Intensity)
	require.Len(t, s.DiscLights(), 1)

	// Two spheres, two mesh triangles, two ground triangles
	assert.Equal(t, 6, s.PrimitiveCount())

	env := s.Environment()
	require.NotNil(t, env)
	assertColor(t, core.Splat(2), env.Lookup(core.NewVec3(0, 1, 0)), 1e-12)

	hit, ok := s.Intersect(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)))
	require.True(t, ok)
	assert.Equal(t, "red", hit.Surface.Name)
	assert.Equal(t, 1.0, hit.Surface.Metalness)
	assert.Equal(t, 25.0, hit.Surface.Shininess, "unset surface fields keep defaults")

	hit, ok = s.Intersect(core.NewRay(core.NewVec3(2, 0, 5), core.NewVec3(0, 0, -1)))
	require.True(t, ok)
	assert.Equal(t, 1.33, hit.Surface.IOR)
	assert.Equal(t, core.NewVec3(1, 1, 1), hit.Surface.Color)
}

func TestParseSceneFile_UnknownKey(t *testing.T) {
	_, err := ParseSceneFile([]byte("name: x\nsphers: []\n"))
	assert.Error(t, err)
}

func TestSceneFileBuild_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown surface":  "spheres:\n  - center: [0, 0, 0]\n    radius: 1\n    surface: missing\n",
		"bad radius":       "spheres:\n  - center: [0, 0, 0]\n    radius: 0\n",
		"duplicate name":   "surfaces:\n  - name: a\n  - name: a\n",
		"bad topology":     "materials: plastic\n",
		"empty env":        "environment:\n  multiplier: 2\n",
		"missing mesh":     "meshes:\n  - file: nowhere.glb\n",
		"missing env file": "environment:\n  file: nowhere.hdr\n",
		"negative env":     "environment:\n  color: [1, 1, 1]\n  multiplier: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			file, err := ParseSceneFile([]byte(content))
			require.NoError(t, err)

			_, err = file.Build(context.Background(), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestSceneFileBuild_UniformEnvironment(t *testing.T) {
	file, err := ParseSceneFile([]byte("environment:\n  color: [0.1, 0.2, 0.3]\n"))
	require.NoError(t, err)

	s, err := file.Build(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", s.Name)
	assert.Nil(t, s.MaterialTree())
	assertColor(t, core.NewVec3(0.1, 0.2, 0.3), s.Environment().Lookup(core.NewVec3(1, 0, 0)), 1e-12)
}

func TestSceneFileBuild_EnvironmentMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected float64
	}{
		{"omitted", "environment:\n  color: [0.5, 0.5, 0.5]\n", 0.5},
		{"explicit zero", "environment:\n  color: [0.5, 0.5, 0.5]\n  multiplier: 0\n", 0},
		{"scaled", "environment:\n  color: [0.5, 0.5, 0.5]\n  multiplier: 3\n", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseSceneFile([]byte(tt.yaml))
			require.NoError(t, err)

			s, err := file.Build(context.Background(), "")
			require.NoError(t, err)
			assertColor(t, core.Splat(tt.expected), s.Environment().Lookup(core.NewVec3(0, 1, 0)), 1e-12)
		})
	}
}
