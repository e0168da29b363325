package meshpipe

import (
	"fmt"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/scene"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// sourceMesh is a polygon mesh as a reader hands it over: local space
// attributes, faces indexing them and one material batch per face.
type sourceMesh struct {
	name      string
	matrix    *dmat.T
	positions []vec3.T
	normals   []vec3.T
	uvs       []vec2.T
	faces     [][]int
	batches   []int
	// perCorner gives every face corner its own vertex instead of sharing
	// vertices between faces of the same batch.
	perCorner bool
}

// split bakes src into world space and returns one mesh per material batch,
// in order of first use. material maps a batch id to a scene material
// index. Meshes get computed normals when src has none.
func (src *sourceMesh) split(material func(batch int) int) []*scene.Mesh {
	mat := dmat.Ident
	if src.matrix != nil {
		mat = *src.matrix
	}
	positions := make([]vec3.T, len(src.positions))
	for i, p := range src.positions {
		dp := mat.MulVec3(&dvec3.T{float64(p[0]), float64(p[1]), float64(p[2])})
		positions[i] = vec3.T{float32(dp[0]), float32(dp[1]), float32(dp[2])}
	}

	var normals []vec3.T
	if len(src.normals) > 0 && len(src.normals) == len(src.positions) {
		if nm, err := geom.NormalMatrix(&mat); err == nil {
			normals = make([]vec3.T, len(src.normals))
			for i, n := range src.normals {
				dn := nm.MulVec3(dvec3.T{float64(n[0]), float64(n[1]), float64(n[2])})
				if l := dn.Length(); l > 0 {
					dn.Scale(1 / l)
				}
				normals[i] = vec3.T{float32(dn[0]), float32(dn[1]), float32(dn[2])}
			}
		}
	}
	uvs := src.uvs
	if len(uvs) != len(src.positions) {
		uvs = nil
	}

	parts := make(map[int]*scene.Mesh)
	remap := make(map[int]map[int]uint32)
	var order []int
	for i, face := range src.faces {
		batch := 0
		if i < len(src.batches) {
			batch = src.batches[i]
		}
		part, ok := parts[batch]
		if !ok {
			name := src.name
			if len(order) > 0 {
				name = fmt.Sprintf("%s_%d", src.name, batch)
			}
			part = &scene.Mesh{Name: name, MaterialIndex: material(batch)}
			if uvs != nil {
				part.TexCoords = [][]vec2.T{nil}
			}
			parts[batch] = part
			remap[batch] = make(map[int]uint32)
			order = append(order, batch)
		}

		local := remap[batch]
		fc := scene.Face{Indices: make([]uint32, 0, len(face))}
		for _, vi := range face {
			if vi < 0 || vi >= len(positions) {
				continue
			}
			dst, ok := local[vi]
			if !ok || src.perCorner {
				dst = uint32(len(part.Positions))
				local[vi] = dst
				part.Positions = append(part.Positions, positions[vi])
				if normals != nil {
					part.Normals = append(part.Normals, normals[vi])
				}
				if uvs != nil {
					part.TexCoords[0] = append(part.TexCoords[0], uvs[vi])
				}
			}
			fc.Indices = append(fc.Indices, dst)
		}
		if len(fc.Indices) > 0 {
			part.Faces = append(part.Faces, fc)
		}
	}

	meshes := make([]*scene.Mesh, 0, len(order))
	for _, batch := range order {
		part := parts[batch]
		ensureNormals(part)
		meshes = append(meshes, part)
	}
	return meshes
}

// ensureNormals computes normals for a mesh with polygons but no normals.
// Point and line meshes are left alone.
func ensureNormals(m *scene.Mesh) {
	if m.HasNormals() {
		return
	}
	for _, f := range m.Faces {
		if len(f.Indices) >= 3 {
			computeNormals(m)
			return
		}
	}
}

// computeNormals replaces the normals of m with area weighted vertex
// normals. Vertices not used by any polygon get +Y.
func computeNormals(m *scene.Mesh) {
	acc := make([]vec3.T, len(m.Positions))
	for _, f := range m.Faces {
		if len(f.Indices) < 3 {
			continue
		}
		i0 := f.Indices[0]
		for k := 1; k+1 < len(f.Indices); k++ {
			i1, i2 := f.Indices[k], f.Indices[k+1]
			e1 := vec3.Sub(&m.Positions[i1], &m.Positions[i0])
			e2 := vec3.Sub(&m.Positions[i2], &m.Positions[i0])
			n := vec3.Cross(&e1, &e2)
			acc[i0].Add(&n)
			acc[i1].Add(&n)
			acc[i2].Add(&n)
		}
	}
	m.Normals = make([]vec3.T, len(acc))
	for i, n := range acc {
		if l := n.Length(); l > 0 {
			m.Normals[i] = vec3.T{n[0] / l, n[1] / l, n[2] / l}
		} else {
			m.Normals[i] = vec3.T{0, 1, 0}
		}
	}
}
