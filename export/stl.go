package export

import (
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go-stl"
	"github.com/flywave/go3d/vec3"
)

func WriteStlASCII(s *scene.Scene, path string) error {
	solid := toSolid(s)
	solid.IsAscii = true
	return solid.WriteFile(path)
}

func WriteStlBinary(s *scene.Scene, path string) error {
	solid := toSolid(s)
	solid.IsAscii = false
	return solid.WriteFile(path)
}

// toSolid flattens every triangle of s into one solid. Points and lines
// have no STL representation and are dropped.
func toSolid(s *scene.Scene) *stl.Solid {
	solid := &stl.Solid{Name: "meshpipe"}
	if len(s.Meshes) == 1 && s.Meshes[0].Name != "" {
		solid.Name = s.Meshes[0].Name
	}
	for _, m := range s.Meshes {
		for _, f := range m.Faces {
			if len(f.Indices) != 3 {
				continue
			}
			tri := stl.Triangle{Vertices: [3]vec3.T{
				m.Positions[f.Indices[0]],
				m.Positions[f.Indices[1]],
				m.Positions[f.Indices[2]],
			}}
			tri.Normal = faceNormal(&tri.Vertices)
			solid.Triangles = append(solid.Triangles, tri)
		}
	}
	return solid
}

func faceNormal(v *[3]vec3.T) vec3.T {
	a := vec3.Sub(&v[1], &v[0])
	b := vec3.Sub(&v[2], &v[0])
	n := vec3.Cross(&a, &b)
	if n.Length() == 0 {
		return vec3.Zero
	}
	return *n.Normalize()
}
