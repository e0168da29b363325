package meshpipe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flywave/go-meshpipe/scene"

	tds "github.com/flywave/go-3ds"
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec4 "github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// ThreeDsImporter reads 3D Studio files. Vertices are moved into world space
// with each mesh's local matrix.
type ThreeDsImporter struct {
	baseDir string
	mtlMap  map[int32]int
}

func (cv *ThreeDsImporter) Import(path string) (*scene.Scene, error) {
	// tds.OpenFile reports no errors of its own.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f := tds.OpenFile(path)
	mhs := f.GetMeshs()
	mtls := f.GetMaterials()

	cv.baseDir = filepath.Dir(path)
	cv.mtlMap = make(map[int32]int)

	s := &scene.Scene{}
	for i := range mhs {
		cv.convert3dsMesh(s, &mhs[i], mtls)
	}
	return s, nil
}

func (cv *ThreeDsImporter) convert3dsMesh(s *scene.Scene, m *tds.Mesh, mtls []tds.Material) {
	mat := dmat.Ident
	for i, row := range m.Matrix {
		mat[i] = dvec4.T{float64(row[0]), float64(row[1]), float64(row[2]), float64(row[3])}
	}
	src := &sourceMesh{name: m.Name, matrix: &mat}
	for _, v := range m.Vertices {
		src.positions = append(src.positions, vec3.T{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	for _, v := range m.Texcos {
		src.uvs = append(src.uvs, vec2.T{v[0], v[1]})
	}
	for _, f := range m.Faces {
		src.faces = append(src.faces, []int{int(f.Index[0]), int(f.Index[1]), int(f.Index[2])})
		src.batches = append(src.batches, int(f.Material))
	}

	s.Meshes = append(s.Meshes, src.split(func(batch int) int {
		return cv.convert3dsMtl(s, mtls, int32(batch))
	})...)
}

func (cv *ThreeDsImporter) convert3dsMtl(s *scene.Scene, mtls []tds.Material, id int32) int {
	if idx, ok := cv.mtlMap[id]; ok {
		return idx
	}
	idx := len(s.Materials)
	cv.mtlMap[id] = idx

	if id < 0 || int(id) >= len(mtls) {
		s.Materials = append(s.Materials, scene.DefaultMaterial())
		return idx
	}
	m := &mtls[id]
	mtl := &scene.Material{
		Name: fmt.Sprintf("material_%d", id),
		BaseColor: [4]float32{
			float32(m.Diffuse[0]), float32(m.Diffuse[1]), float32(m.Diffuse[2]),
			1 - float32(m.Transparency),
		},
		Roughness: 1,
	}
	if texPath := cstring(m.Texture1Map.Name[:]); texPath != "" {
		mtl.DiffuseTexture = filepath.ToSlash(filepath.Join(cv.baseDir, texPath))
	}
	s.Materials = append(s.Materials, mtl)
	return idx
}

func cstring(b []byte) string {
	for i := range b {
		if b[i] == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
