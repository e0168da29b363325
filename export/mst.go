package export

import (
	"os"

	"github.com/flywave/go-meshpipe/scene"

	mst "github.com/flywave/go-mst"
	"go.uber.org/multierr"
)

// WriteMst stores s in the flywave mesh store format.
func WriteMst(s *scene.Scene, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	mst.MeshMarshal(f, ToMst(s))
	return nil
}

// ToMst converts s into one mst node per mesh. Only triangles and the first
// UV channel are carried over.
func ToMst(s *scene.Scene) *mst.Mesh {
	mesh := mst.NewMesh()

	mats := s.Materials
	if len(mats) == 0 {
		mats = []*scene.Material{scene.DefaultMaterial()}
	}
	for _, m := range mats {
		mtl := &mst.PbrMaterial{}
		mtl.Color[0] = byte(m.BaseColor[0] * 255)
		mtl.Color[1] = byte(m.BaseColor[1] * 255)
		mtl.Color[2] = byte(m.BaseColor[2] * 255)
		mtl.Transparency = 1 - m.BaseColor[3]
		mtl.Metallic = m.Metallic
		mtl.Roughness = m.Roughness
		mesh.Materials = append(mesh.Materials, mtl)
	}

	for _, m := range s.Meshes {
		nd := &mst.MeshNode{}
		nd.Vertices = append(nd.Vertices, m.Positions...)
		if m.HasNormals() {
			nd.Normals = append(nd.Normals, m.Normals...)
		}
		if m.HasTexCoords(0) {
			nd.TexCoords = append(nd.TexCoords, m.TexCoords[0]...)
		}

		batch := m.MaterialIndex
		if batch < 0 || batch >= len(mats) {
			batch = 0
		}
		tg := &mst.MeshTriangle{Batchid: int32(batch)}
		for _, f := range m.Faces {
			if len(f.Indices) != 3 {
				continue
			}
			tg.Faces = append(tg.Faces, &mst.Face{
				Vertex: [3]uint32{f.Indices[0], f.Indices[1], f.Indices[2]},
			})
		}
		nd.FaceGroup = append(nd.FaceGroup, tg)
		mesh.Nodes = append(mesh.Nodes, nd)
	}
	return mesh
}
