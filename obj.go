package meshpipe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/scene"

	gobj "github.com/flywave/go-obj"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ObjImporter reads Wavefront OBJ files. Faces are grouped into one mesh per
// material; every face corner becomes its own vertex.
type ObjImporter struct {
	currentPath string
}

func (obj *ObjImporter) Import(path string) (*scene.Scene, error) {
	obj.currentPath = path
	reader := &gobj.ObjReader{}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := reader.Read(file); err != nil {
		return nil, errors.Wrapf(err, "parse obj %s", path)
	}

	s := &scene.Scene{}
	groups := make(map[string]*scene.Mesh)
	var order []string

	for _, face := range reader.F {
		if len(face.Corners) == 0 {
			continue
		}
		name := face.Material
		if name == "" {
			name = "default"
		}
		m, ok := groups[name]
		if !ok {
			m = &scene.Mesh{Name: name, MaterialIndex: len(order)}
			groups[name] = m
			order = append(order, name)
		}
		obj.addFace(m, face, reader)
	}

	for _, name := range order {
		m := groups[name]
		if len(m.TexCoords) > 0 && len(m.TexCoords[0]) != len(m.Positions) {
			m.TexCoords = nil
		}
		s.Meshes = append(s.Meshes, m)
	}
	s.Materials = obj.createMaterials(reader, order)
	return s, nil
}

// addFace appends one polygon. Corners without a normal get the face normal;
// UVs are only kept when every corner of the mesh has them.
func (obj *ObjImporter) addFace(m *scene.Mesh, face gobj.Face, reader *gobj.ObjReader) {
	corners := make([]gobj.FaceCorner, 0, len(face.Corners))
	for _, corner := range face.Corners {
		if corner.VertexIndex >= 0 && corner.VertexIndex < len(reader.V) {
			corners = append(corners, corner)
		}
	}
	if len(corners) == 0 {
		return
	}

	faceNormal := vec3.T{0, 1, 0}
	if len(corners) >= 3 {
		faceNormal = calculateNormal(
			reader.V[corners[0].VertexIndex],
			reader.V[corners[1].VertexIndex],
			reader.V[corners[2].VertexIndex])
	}

	f := scene.Face{Indices: make([]uint32, 0, len(corners))}
	for _, corner := range corners {
		f.Indices = append(f.Indices, uint32(len(m.Positions)))
		m.Positions = append(m.Positions, reader.V[corner.VertexIndex])

		if corner.TexCoordIndex >= 0 && corner.TexCoordIndex < len(reader.VT) {
			if len(m.TexCoords) == 0 {
				m.TexCoords = [][]vec2.T{nil}
			}
			m.TexCoords[0] = append(m.TexCoords[0], reader.VT[corner.TexCoordIndex])
		}
		if corner.NormalIndex >= 0 && corner.NormalIndex < len(reader.VN) {
			m.Normals = append(m.Normals, reader.VN[corner.NormalIndex])
		} else {
			m.Normals = append(m.Normals, faceNormal)
		}
	}
	m.Faces = append(m.Faces, f)
}

func (obj *ObjImporter) createMaterials(reader *gobj.ObjReader, names []string) []*scene.Material {
	var objMaterials map[string]*gobj.Material
	if reader.MTL != "" {
		mtlPath := reader.MTL
		if !filepath.IsAbs(mtlPath) {
			mtlPath = filepath.Join(filepath.Dir(obj.currentPath), reader.MTL)
		}
		loaded, err := gobj.ReadMaterials(mtlPath)
		if err != nil {
			logger.Warn("failed to read material library", zap.String("path", mtlPath), zap.Error(err))
		} else {
			objMaterials = loaded
		}
	}

	materials := make([]*scene.Material, 0, len(names))
	for _, name := range names {
		objMat := objMaterials[name]
		if objMat == nil {
			def := scene.DefaultMaterial()
			def.Name = name
			materials = append(materials, def)
			continue
		}
		materials = append(materials, obj.convertMaterial(name, objMat))
	}
	return materials
}

func (obj *ObjImporter) convertMaterial(name string, objMat *gobj.Material) *scene.Material {
	mtl := &scene.Material{
		Name:      name,
		BaseColor: [4]float32{1, 1, 1, 1},
		Metallic:  objMat.Metallic,
		Roughness: objMat.Roughness,
	}
	if len(objMat.Diffuse) >= 3 {
		copy(mtl.BaseColor[:3], objMat.Diffuse[:3])
	}
	if op := float32(objMat.Opacity); op > 0 && op < 1 {
		mtl.BaseColor[3] = op
	}
	if mtl.Roughness == 0 && mtl.Metallic == 0 {
		mtl.Roughness = 1
	}
	if objMat.DiffuseTexture != "" {
		tex := strings.ReplaceAll(objMat.DiffuseTexture, "\\", "/")
		if !filepath.IsAbs(tex) {
			tex = filepath.Join(filepath.Dir(obj.currentPath), tex)
		}
		mtl.DiffuseTexture = filepath.ToSlash(tex)
	}
	return mtl
}

// calculateNormal returns the unit normal of a triangle, or +Y when it is
// degenerate.
func calculateNormal(v0, v1, v2 vec3.T) vec3.T {
	e1 := vec3.Sub(&v1, &v0)
	e2 := vec3.Sub(&v2, &v0)
	normal := vec3.Cross(&e1, &e2)

	length := normal.Length()
	if length > 0 {
		return vec3.T{normal[0] / length, normal[1] / length, normal[2] / length}
	}
	return vec3.T{0, 1, 0}
}
