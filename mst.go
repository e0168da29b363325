package meshpipe

import (
	"fmt"

	"github.com/flywave/go-meshpipe/scene"

	mst "github.com/flywave/go-mst"
	"github.com/flywave/go3d/vec2"
)

// mstToScene converts a mesh store into a scene. Each face group of each
// node becomes one mesh holding only the vertices it references.
func mstToScene(mh *mst.Mesh) *scene.Scene {
	s := &scene.Scene{}
	for _, m := range mh.Materials {
		s.Materials = append(s.Materials, mstMaterial(m))
	}
	if len(s.Materials) == 0 {
		s.Materials = append(s.Materials, scene.DefaultMaterial())
	}

	for ni, nd := range mh.Nodes {
		hasNormals := len(nd.Normals) == len(nd.Vertices)
		hasUVs := len(nd.TexCoords) == len(nd.Vertices)
		for gi, fg := range nd.FaceGroup {
			m := &scene.Mesh{Name: fmt.Sprintf("node_%d_%d", ni, gi)}
			if int(fg.Batchid) >= 0 && int(fg.Batchid) < len(s.Materials) {
				m.MaterialIndex = int(fg.Batchid)
			}
			if hasUVs {
				m.TexCoords = [][]vec2.T{nil}
			}
			remap := make(map[uint32]uint32)
			for _, f := range fg.Faces {
				fc := scene.Face{Indices: make([]uint32, 0, 3)}
				for _, src := range f.Vertex {
					if int(src) >= len(nd.Vertices) {
						continue
					}
					dst, ok := remap[src]
					if !ok {
						dst = uint32(len(m.Positions))
						remap[src] = dst
						m.Positions = append(m.Positions, nd.Vertices[src])
						if hasNormals {
							m.Normals = append(m.Normals, nd.Normals[src])
						}
						if hasUVs {
							m.TexCoords[0] = append(m.TexCoords[0], nd.TexCoords[src])
						}
					}
					fc.Indices = append(fc.Indices, dst)
				}
				if len(fc.Indices) > 0 {
					m.Faces = append(m.Faces, fc)
				}
			}
			ensureNormals(m)
			s.Meshes = append(s.Meshes, m)
		}
	}
	return s
}

func mstMaterial(m mst.MeshMaterial) *scene.Material {
	mtl := &scene.Material{BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1}
	setColor := func(cl [3]byte, transparency float32) {
		mtl.BaseColor = [4]float32{float32(cl[0]) / 255, float32(cl[1]) / 255, float32(cl[2]) / 255, 1 - transparency}
	}
	switch mt := m.(type) {
	case *mst.PbrMaterial:
		setColor(mt.Color, mt.Transparency)
		mtl.Metallic = mt.Metallic
		mtl.Roughness = mt.Roughness
	case *mst.PhongMaterial:
		setColor(mt.Color, mt.Transparency)
	case *mst.BaseMaterial:
		setColor(mt.Color, mt.Transparency)
	}
	return mtl
}
