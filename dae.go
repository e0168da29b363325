package meshpipe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/scene"

	dae "github.com/flywave/go-collada"
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/pkg/errors"
)

// DaeImporter reads COLLADA documents. Every geometry instanced by a visual
// scene node is baked into world space; each primitive group becomes its own
// mesh.
type DaeImporter struct {
	baseDir   string
	imageMap  map[string]string
	mtlMap    map[string]*dae.Material
	effectMap map[string]*dae.Effect
	mtlIndex  map[string]int
}

func (cv *DaeImporter) Import(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	collada, err := dae.LoadDocumentFromReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "parse collada %s", path)
	}
	cv.baseDir = filepath.Dir(path)

	cv.imageMap = make(map[string]string)
	for _, libimg := range collada.LibraryImages {
		for _, img := range libimg.Image {
			uri := strings.ReplaceAll(img.InitFrom.Ref.Ref, "\\", "/")
			_, fn := filepath.Split(uri)
			cv.imageMap[string(img.HasId.Id)] = filepath.ToSlash(filepath.Join(cv.baseDir, fn))
		}
	}

	cv.mtlMap = make(map[string]*dae.Material)
	for _, m := range collada.LibraryMaterials {
		for _, mt := range m.Material {
			cv.mtlMap[string(mt.Id)] = mt
		}
	}

	cv.effectMap = make(map[string]*dae.Effect)
	for _, ef := range collada.LibraryEffects {
		for _, e := range ef.Effect {
			cv.effectMap[string(e.Id)] = e
		}
	}
	cv.mtlIndex = make(map[string]int)

	daeGeoMap := make(map[string]*dae.Geometry)
	for _, g := range collada.LibraryGeometries {
		for _, geo := range g.Geometry {
			daeGeoMap[string(geo.Id)] = geo
		}
	}

	s := &scene.Scene{}
	for _, sce := range collada.LibraryVisualScenes {
		for _, vs := range sce.VisualScene {
			for _, nd := range vs.Node {
				mats := getNodeTransform(nd)
				for i, g := range nd.InstanceGeometry {
					geo, ok := daeGeoMap[g.Url.GetId()]
					if !ok {
						continue
					}
					ident := dmat.Ident
					mat := &ident
					if i < len(mats) {
						mat = mats[i]
					} else if len(mats) > 0 {
						mat = mats[len(mats)-1]
					}
					cv.convertMesh(s, geo, mat)
				}
			}
		}
	}
	return s, nil
}

// vertexSource resolves the POSITION and NORMAL arrays behind a mesh's
// <vertices> element.
type vertexSource struct {
	positions []float64
	posStride int
	normals   []float64
	nrmStride int
}

func (cv *DaeImporter) convertMesh(s *scene.Scene, geo *dae.Geometry, mat *dmat.T) {
	mh := geo.Mesh
	srcMap := make(map[string]*dae.Source)
	for _, src := range mh.Source {
		srcMap[string(src.Id)] = src
	}

	vsrc := &vertexSource{}
	for _, in := range mh.Vertices.Input {
		src, ok := srcMap[in.Source.GetId()]
		if !ok {
			continue
		}
		switch in.Semantic {
		case "POSITION":
			vsrc.positions, vsrc.posStride = floats(src), src.TechniqueCommon.Accessor.Stride
		case "NORMAL":
			vsrc.normals, vsrc.nrmStride = floats(src), src.TechniqueCommon.Accessor.Stride
		}
	}
	if vsrc.positions == nil {
		return
	}

	name := string(geo.Id)
	for _, p := range mh.Polylist {
		counts := ints(p.VCount.ToSlice())
		m := cv.parseInputs(p.Input, ints(p.P.ToSlice()), counts, srcMap, vsrc, mat)
		m.Name = name
		m.MaterialIndex = cv.convertMtl(s, p.Material)
		s.Meshes = append(s.Meshes, m)
	}

	var tgs []dae.Trig
	for _, t := range mh.Triangles {
		tgs = append(tgs, t)
	}
	for _, t := range mh.Trifans {
		tgs = append(tgs, t)
	}
	for _, t := range mh.Tristrips {
		tgs = append(tgs, t)
	}
	for _, t := range tgs {
		counts := make([]int, int(t.GetCount()))
		for i := range counts {
			counts[i] = 3
		}
		m := cv.parseInputs(t.GetSharedInput(), ints(t.GetP().ToSlice()), counts, srcMap, vsrc, mat)
		m.Name = name
		m.MaterialIndex = cv.convertMtl(s, t.GetMaterial())
		s.Meshes = append(s.Meshes, m)
	}
}

// parseInputs expands an interleaved index list into one vertex per polygon
// corner. counts holds the corner count of every polygon.
func (cv *DaeImporter) parseInputs(inputs []*dae.InputShared, idxs []int, counts []int, srcMap map[string]*dae.Source, vsrc *vertexSource, mat *dmat.T) *scene.Mesh {
	m := &scene.Mesh{}
	stride := 0
	vtxOffset := -1
	nrmOffset, uvOffset := -1, -1
	var nrmSrc, uvSrc *dae.Source
	for _, in := range inputs {
		off := int(in.Offset)
		if off+1 > stride {
			stride = off + 1
		}
		switch in.Semantic {
		case "VERTEX":
			vtxOffset = off
		case "NORMAL":
			if src, ok := srcMap[in.Source.GetId()]; ok {
				nrmOffset, nrmSrc = off, src
			}
		case "TEXCOORD":
			if src, ok := srcMap[in.Source.GetId()]; ok && uvSrc == nil {
				uvOffset, uvSrc = off, src
			}
		}
	}
	if vtxOffset < 0 || stride == 0 {
		return m
	}

	var nrmData, uvData []float64
	if nrmSrc != nil {
		nrmData = floats(nrmSrc)
	}
	if uvSrc != nil {
		uvData = floats(uvSrc)
	}
	normalMat, nerr := geom.NormalMatrix(mat)
	hasNormals := (nrmData != nil || vsrc.normals != nil) && nerr == nil
	if uvData != nil {
		m.TexCoords = [][]vec2.T{nil}
	}

	j := 0
	for _, count := range counts {
		f := scene.Face{Indices: make([]uint32, 0, count)}
		for k := 0; k < count; k++ {
			if j+stride > len(idxs) {
				break
			}
			corner := idxs[j : j+stride]
			j += stride

			vi := corner[vtxOffset]
			pos, ok := vec3At(vsrc.positions, vsrc.posStride, vi)
			if !ok {
				continue
			}
			wp := mat.MulVec3(&pos)
			f.Indices = append(f.Indices, uint32(len(m.Positions)))
			m.Positions = append(m.Positions, vec3.T{float32(wp[0]), float32(wp[1]), float32(wp[2])})

			if hasNormals {
				var n dvec3.T
				if nrmData != nil {
					n, _ = vec3At(nrmData, nrmSrc.TechniqueCommon.Accessor.Stride, corner[nrmOffset])
				} else {
					n, _ = vec3At(vsrc.normals, vsrc.nrmStride, vi)
				}
				n = normalMat.MulVec3(n)
				if l := n.Length(); l > 0 {
					n.Scale(1 / l)
				}
				m.Normals = append(m.Normals, vec3.T{float32(n[0]), float32(n[1]), float32(n[2])})
			}
			if uvData != nil {
				st := uvSrc.TechniqueCommon.Accessor.Stride
				if st < 2 {
					st = 2
				}
				var uv vec2.T
				if pos := corner[uvOffset] * st; pos+1 < len(uvData) {
					uv = vec2.T{float32(uvData[pos]), float32(uvData[pos+1])}
				}
				m.TexCoords[0] = append(m.TexCoords[0], uv)
			}
		}
		if len(f.Indices) > 0 {
			m.Faces = append(m.Faces, f)
		}
	}
	ensureNormals(m)
	return m
}

func (cv *DaeImporter) convertMtl(s *scene.Scene, mtlId string) int {
	if idx, ok := cv.mtlIndex[mtlId]; ok {
		return idx
	}
	idx := len(s.Materials)
	cv.mtlIndex[mtlId] = idx

	mtl := &scene.Material{Name: mtlId, BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1}
	s.Materials = append(s.Materials, mtl)

	cmtl, ok := cv.mtlMap[mtlId]
	if !ok {
		return idx
	}
	effect, ok := cv.effectMap[string(cmtl.InstanceEffect.Url.GetId())]
	if !ok {
		return idx
	}
	common := effect.ProfileCommon
	for _, param := range common.Newparam {
		if param.Semantic.Value == "DIFFUSECOLOR" && param.Float3 != nil {
			copyColor(mtl, param.Float3.ToSlice())
		} else if param.Sampler2D != nil {
			if tex, ok := cv.imageMap[param.Sampler2D.Source.Texture]; ok {
				mtl.DiffuseTexture = tex
			}
		}
	}
	if common.TechniqueFx != nil && common.TechniqueFx.Phone != nil {
		phg := common.TechniqueFx.Phone
		if phg.Diffuse != nil && phg.Diffuse.Texture != nil {
			if tex, ok := cv.imageMap[phg.Diffuse.Texture.Texture]; ok {
				mtl.DiffuseTexture = tex
			}
		} else if phg.Diffuse != nil && phg.Diffuse.Color != nil {
			copyColor(mtl, phg.Diffuse.Color.Float3.ToSlice())
		}
		if phg.Transparency != nil && phg.Transparency.Float != nil {
			if a := float32(phg.Transparency.Float.Value); a > 0 && a <= 1 {
				mtl.BaseColor[3] = a
			}
		}
	}
	return idx
}

func copyColor(mtl *scene.Material, sc []string) {
	for i := 0; i < 3 && i < len(sc); i++ {
		v, _ := strconv.ParseFloat(strings.TrimSpace(sc[i]), 32)
		mtl.BaseColor[i] = float32(v)
	}
}

func vec3At(data []float64, stride, i int) (dvec3.T, bool) {
	if stride < 3 {
		stride = 3
	}
	pos := i * stride
	if i < 0 || pos+2 >= len(data) {
		return dvec3.T{}, false
	}
	return dvec3.T{data[pos], data[pos+1], data[pos+2]}, true
}

func floats(src *dae.Source) []float64 {
	vs := src.FloatArray.ToSlice()
	out := make([]float64, len(vs))
	for i, str := range vs {
		out[i], _ = strconv.ParseFloat(strings.TrimSpace(str), 64)
	}
	return out
}

func ints(vs []string) []int {
	out := make([]int, len(vs))
	for i, str := range vs {
		v, _ := strconv.ParseInt(strings.TrimSpace(str), 10, 32)
		out[i] = int(v)
	}
	return out
}

// getNodeTransform returns one matrix per <matrix> element, or one per
// <translate> element built from the node's rotate and scale.
func getNodeTransform(nd *dae.Node) []*dmat.T {
	var mats []*dmat.T
	if len(nd.Matrix) > 0 {
		var ay [16]float64
		for _, m := range nd.Matrix {
			vs := m.ToSlice()
			for i, str := range vs {
				if i > 15 {
					break
				}
				ay[i], _ = strconv.ParseFloat(strings.TrimSpace(str), 64)
			}
			mat := arryToMat(ay)
			mat = mat.Transpose()
			mats = append(mats, mat)
		}
		return mats
	}

	mt := dmat.Ident
	for _, t := range nd.Rotate {
		vs := t.ToSlice()
		v := &dvec4.T{}
		for i, str := range vs {
			if i > 3 {
				break
			}
			v[i], _ = strconv.ParseFloat(strings.TrimSpace(str), 64)
		}
		switch t.Sid {
		case "rotationX":
			mt.AssignXRotation(v[3])
		case "rotationY":
			mt.AssignYRotation(v[3])
		case "rotationZ":
			mt.AssignZRotation(v[3])
		}
	}
	scale := &dvec3.T{1, 1, 1}
	if len(nd.Scale) > 0 {
		vs := nd.Scale[0].ToSlice()
		for i, str := range vs {
			if i > 2 {
				break
			}
			scale[i], _ = strconv.ParseFloat(strings.TrimSpace(str), 64)
		}
	}
	mt.ScaleVec3(scale)
	for _, t := range nd.Translate {
		m := mt
		vs := t.ToSlice()
		v := &dvec3.T{}
		for i, str := range vs {
			if i > 2 {
				break
			}
			v[i], _ = strconv.ParseFloat(strings.TrimSpace(str), 64)
		}
		m.Translate(v)
		mats = append(mats, &m)
	}
	if len(mats) == 0 {
		mats = append(mats, &mt)
	}
	return mats
}

func arryToMat(mat [16]float64) *dmat.T {
	m := &dmat.T{}
	m[0] = dvec4.T{mat[0], mat[1], mat[2], mat[3]}
	m[1] = dvec4.T{mat[4], mat[5], mat[6], mat[7]}
	m[2] = dvec4.T{mat[8], mat[9], mat[10], mat[11]}
	m[3] = dvec4.T{mat[12], mat[13], mat[14], mat[15]}
	return m
}
