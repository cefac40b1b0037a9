package loaders

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// MeshTransform scales then translates loaded vertices
type MeshTransform struct {
	Scale     float64
	Translate core.Vec3
}

func (t MeshTransform) apply(v core.Vec3) core.Vec3 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return v.Multiply(scale).Add(t.Translate)
}

// LoadGLTF loads every triangle primitive of a glTF or GLB file as one mesh.
// Node hierarchies are ignored; vertices are used in mesh space.
func LoadGLTF(path string, transform MeshTransform, surface *material.Surface) (*geometry.TriangleMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var vertices []core.Vec3
	var normals []core.Vec3
	var faces []int
	withNormals := true

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			var primNormals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				primNormals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read normals: %w", m.Name, err)
				}
			}
			if len(primNormals) != len(positions) {
				withNormals = false
			}

			base := len(vertices)
			for i, p := range positions {
				vertices = append(vertices, transform.apply(vec3(p)))
				if i < len(primNormals) {
					normals = append(normals, vec3(primNormals[i]).Normalize())
				} else {
					normals = append(normals, core.Vec3{})
				}
			}

			if prim.Indices == nil {
				for i := range positions {
					faces = append(faces, base+i)
				}
				continue
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
			}
			for _, idx := range indices {
				faces = append(faces, base+int(idx))
			}
		}
	}

	if len(faces) == 0 {
		return nil, fmt.Errorf("%s contains no triangle primitives", path)
	}
	if !withNormals {
		normals = nil
	}

	mesh, err := geometry.NewTriangleMesh(vertices, faces, normals, surface)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

func vec3(v [3]float32) core.Vec3 {
	return core.NewVec3(float64(v[0]), float64(v[1]), float64(v[2]))
}
