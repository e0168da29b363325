package meshpipe

import (
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go-stl"
	"github.com/flywave/go3d/vec3"
)

// StlImporter reads ASCII and binary STL files into a single mesh.
type StlImporter struct{}

func (cv *StlImporter) Import(path string) (*scene.Scene, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return cv.FromSolid(solid), nil
}

// FromSolid converts an already loaded solid. Every triangle gets three
// vertices carrying the facet normal; a missing normal is recomputed from the
// winding.
func (cv *StlImporter) FromSolid(solid *stl.Solid) *scene.Scene {
	m := &scene.Mesh{Name: solid.Name}
	for _, tri := range solid.Triangles {
		n := tri.Normal
		if n == vec3.Zero {
			n = calculateNormal(tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
		}
		base := uint32(len(m.Positions))
		for _, v := range tri.Vertices {
			m.Positions = append(m.Positions, v)
			m.Normals = append(m.Normals, n)
		}
		m.Faces = append(m.Faces, scene.Face{Indices: []uint32{base, base + 1, base + 2}})
	}

	mtl := scene.DefaultMaterial()
	mtl.BaseColor = [4]float32{200.0 / 255, 200.0 / 255, 200.0 / 255, 1}
	return &scene.Scene{
		Meshes:    []*scene.Mesh{m},
		Materials: []*scene.Material{mtl},
	}
}
