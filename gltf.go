package meshpipe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/scene"

	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/pkg/errors"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GltfImporter reads .gltf and .glb files. Every node that references a mesh
// contributes one scene mesh per primitive, baked with the node's world
// matrix.
type GltfImporter struct {
	baseDir    string
	doc        *gltf.Document
	parentMap  map[uint32]uint32
	nodeMatrix map[uint32]*dmat.T
}

func (g *GltfImporter) Import(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", path)
	}
	g.baseDir = filepath.Dir(path)
	return g.FromDocument(doc)
}

// FromDocument converts an already decoded document.
func (g *GltfImporter) FromDocument(doc *gltf.Document) (*scene.Scene, error) {
	g.doc = doc
	g.parentMap = make(map[uint32]uint32)
	g.nodeMatrix = make(map[uint32]*dmat.T)
	for i, nd := range doc.Nodes {
		for _, cn := range nd.Children {
			g.parentMap[cn] = uint32(i)
		}
	}

	s := &scene.Scene{}
	for _, mt := range doc.Materials {
		s.Materials = append(s.Materials, g.transMaterial(mt))
	}

	for i, nd := range doc.Nodes {
		if nd.Mesh == nil || int(*nd.Mesh) >= len(doc.Meshes) {
			continue
		}
		mat := g.toMat(uint32(i))
		if err := g.transMesh(s, doc.Meshes[*nd.Mesh], mat); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (g *GltfImporter) transMesh(s *scene.Scene, mh *gltf.Mesh, mat *dmat.T) error {
	normalMat, nerr := geom.NormalMatrix(mat)

	for pi, ps := range mh.Primitives {
		idx, ok := ps.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		m := &scene.Mesh{Name: mh.Name}
		if len(mh.Primitives) > 1 {
			m.Name = fmt.Sprintf("%s_%d", mh.Name, pi)
		}

		pos, err := modeler.ReadPosition(g.doc, g.doc.Accessors[idx], nil)
		if err != nil {
			return errors.Wrapf(err, "mesh %q: read positions", mh.Name)
		}
		for _, p := range pos {
			dv := dvec3.T{float64(p[0]), float64(p[1]), float64(p[2])}
			dv = mat.MulVec3(&dv)
			m.Positions = append(m.Positions, vec3.T{float32(dv[0]), float32(dv[1]), float32(dv[2])})
		}

		if idx, ok := ps.Attributes[gltf.NORMAL]; ok && nerr == nil {
			nrm, err := modeler.ReadNormal(g.doc, g.doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			if len(nrm) == len(pos) {
				for _, n := range nrm {
					dn := normalMat.MulVec3(dvec3.T{float64(n[0]), float64(n[1]), float64(n[2])})
					if l := dn.Length(); l > 0 {
						dn.Scale(1 / l)
					}
					m.Normals = append(m.Normals, vec3.T{float32(dn[0]), float32(dn[1]), float32(dn[2])})
				}
			}
		}

		for ch := 0; ; ch++ {
			idx, ok := ps.Attributes[fmt.Sprintf("TEXCOORD_%d", ch)]
			if !ok {
				break
			}
			uvs, err := modeler.ReadTextureCoord(g.doc, g.doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			if len(uvs) != len(pos) {
				break
			}
			channel := make([]vec2.T, len(uvs))
			for i, uv := range uvs {
				channel[i] = vec2.T{uv[0], uv[1]}
			}
			m.TexCoords = append(m.TexCoords, channel)
		}

		var indices []uint32
		if ps.Indices != nil {
			indices, err = modeler.ReadIndices(g.doc, g.doc.Accessors[*ps.Indices], nil)
			if err != nil {
				return err
			}
		} else {
			indices = make([]uint32, len(pos))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		m.Faces = primitiveFaces(ps.Mode, indices)
		ensureNormals(m)

		if ps.Material != nil && int(*ps.Material) < len(s.Materials) {
			m.MaterialIndex = int(*ps.Material)
		} else {
			m.MaterialIndex = g.defaultMaterial(s)
		}
		s.Meshes = append(s.Meshes, m)
	}
	return nil
}

// primitiveFaces turns an index list into faces for the given draw mode.
func primitiveFaces(mode gltf.PrimitiveMode, idx []uint32) []scene.Face {
	var faces []scene.Face
	add := func(is ...uint32) {
		faces = append(faces, scene.Face{Indices: is})
	}
	switch mode {
	case gltf.PrimitivePoints:
		for _, i := range idx {
			add(i)
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			add(idx[i], idx[i+1])
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			add(idx[i], idx[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			add(idx[len(idx)-1], idx[0])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				add(idx[i], idx[i+1], idx[i+2])
			} else {
				add(idx[i+1], idx[i], idx[i+2])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			add(idx[0], idx[i], idx[i+1])
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			add(idx[i], idx[i+1], idx[i+2])
		}
	}
	return faces
}

func (g *GltfImporter) defaultMaterial(s *scene.Scene) int {
	for i, m := range s.Materials {
		if m.Name == scene.DefaultMaterial().Name {
			return i
		}
	}
	s.Materials = append(s.Materials, scene.DefaultMaterial())
	return len(s.Materials) - 1
}

func (g *GltfImporter) transMaterial(mt *gltf.Material) *scene.Material {
	mtl := &scene.Material{Name: mt.Name, BaseColor: [4]float32{1, 1, 1, 1}, Metallic: 1, Roughness: 1}
	pbr := mt.PBRMetallicRoughness
	if pbr == nil {
		return mtl
	}
	if pbr.BaseColorFactor != nil {
		mtl.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.MetallicFactor != nil {
		mtl.Metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		mtl.Roughness = *pbr.RoughnessFactor
	}
	if pbr.BaseColorTexture != nil {
		mtl.DiffuseTexture = g.textureURI(pbr.BaseColorTexture.Index)
	}
	return mtl
}

// textureURI returns the path of an externally referenced image, or "" for
// embedded images.
func (g *GltfImporter) textureURI(texIdx uint32) string {
	if int(texIdx) >= len(g.doc.Textures) || g.doc.Textures[texIdx].Source == nil {
		return ""
	}
	src := *g.doc.Textures[texIdx].Source
	if int(src) >= len(g.doc.Images) {
		return ""
	}
	img := g.doc.Images[src]
	if img.BufferView != nil || img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		return ""
	}
	return filepath.ToSlash(filepath.Join(g.baseDir, img.URI))
}

// toMat returns the world matrix of node idx, composing parent matrices.
func (g *GltfImporter) toMat(idx uint32) *dmat.T {
	if m, ok := g.nodeMatrix[idx]; ok {
		return m
	}
	mat := dmat.Ident
	if pid, ok := g.parentMap[idx]; ok && pid != idx {
		mat = *g.toMat(pid)
	}

	local := localMatrix(g.doc.Nodes[idx])
	world := dmat.Ident
	world.AssignMul(&mat, local)
	g.nodeMatrix[idx] = &world
	return &world
}

func localMatrix(nd *gltf.Node) *dmat.T {
	var zero [16]float32
	ident := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if nd.Matrix != zero && nd.Matrix != ident {
		var a [16]float64
		for i, v := range nd.Matrix {
			a[i] = float64(v)
		}
		m := geom.FromColumnMajor(a)
		return &m
	}

	scl := nd.Scale
	if scl == [3]float32{} {
		scl = [3]float32{1, 1, 1}
	}
	rots := nd.Rotation
	if rots == [4]float32{} {
		rots = [4]float32{0, 0, 0, 1}
	}
	trans := nd.Translation

	sc := dvec3.T{float64(scl[0]), float64(scl[1]), float64(scl[2])}
	tra := dvec3.T{float64(trans[0]), float64(trans[1]), float64(trans[2])}
	rot := quaternion.T{float64(rots[0]), float64(rots[1]), float64(rots[2]), float64(rots[3])}
	return dmat.Compose(&tra, &rot, &sc)
}
