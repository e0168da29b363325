package meshpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/pkg/errors"

	fbx "github.com/flywave/ofbx"
)

// FbxImporter reads FBX files. Every mesh is baked into world space with its
// global matrix and split into one scene mesh per material.
type FbxImporter struct {
	baseDir string
	mtlMap  map[*fbx.Material]int
}

func (cv *FbxImporter) Import(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fs, err := fbx.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse fbx %s", path)
	}
	cv.baseDir = filepath.Dir(path)
	cv.mtlMap = make(map[*fbx.Material]int)

	s := &scene.Scene{}
	for _, mh := range fs.Meshes {
		cv.convertMesh(s, mh)
	}
	return s, nil
}

func (cv *FbxImporter) convertMesh(s *scene.Scene, mh *fbx.Mesh) {
	g := mh.Geometry
	if g == nil {
		return
	}
	name := mh.Name()
	if name == "" {
		name = fmt.Sprintf("mesh_%d", mh.ID())
	}
	src := &sourceMesh{
		name:      name,
		matrix:    arryToMat(fbx.GetGlobalMatrix(mh).ToArray()),
		faces:     g.Faces,
		batches:   g.Materials,
		perCorner: true,
	}
	for _, v := range g.Vertices {
		src.positions = append(src.positions, vec3.T{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	for _, v := range g.Normals {
		src.normals = append(src.normals, vec3.T{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	if len(g.UVs) > 0 {
		for _, v := range g.UVs[0] {
			src.uvs = append(src.uvs, vec2.T{float32(v[0]), float32(v[1])})
		}
	}
	if len(src.batches) != len(src.faces) {
		src.batches = nil
	}

	s.Meshes = append(s.Meshes, src.split(func(batch int) int {
		var mt *fbx.Material
		if batch >= 0 && batch < len(mh.Materials) {
			mt = mh.Materials[batch]
		}
		return cv.convertMaterial(s, mt)
	})...)
}

func (cv *FbxImporter) convertMaterial(s *scene.Scene, mt *fbx.Material) int {
	if idx, ok := cv.mtlMap[mt]; ok {
		return idx
	}
	idx := len(s.Materials)
	mtl := &scene.Material{BaseColor: [4]float32{1, 1, 1, 1}, Metallic: 0, Roughness: 1}
	if mt != nil {
		mtl.Name = mt.Name()
		cl := mt.DiffuseColor
		mtl.BaseColor = [4]float32{float32(cl.R), float32(cl.G), float32(cl.B), 1}
		if mt.Textures[0] != nil {
			str := strings.ReplaceAll(mt.Textures[0].GetRelativeFileName().String(), "\\", "/")
			_, fileName := filepath.Split(str)
			mtl.DiffuseTexture = filepath.ToSlash(filepath.Join(cv.baseDir, fileName))
		}
	} else {
		mtl.Name = scene.DefaultMaterial().Name
	}
	s.Materials = append(s.Materials, mtl)
	cv.mtlMap[mt] = idx
	return idx
}
