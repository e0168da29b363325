package postprocess

import (
	"encoding/binary"
	"math"

	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// JoinIdenticalVertices merges vertices whose every attribute is bit-equal
// and rewrites faces and bone weights to the surviving indices. It returns
// the number of vertices removed.
func JoinIdenticalVertices(m *scene.Mesh) int {
	n := len(m.Positions)
	if n == 0 {
		return 0
	}

	remap := make([]uint32, n)
	keep := make([]int, 0, n)
	seen := make(map[string]uint32, n)
	buf := make([]byte, 0, 64)

	for i := 0; i < n; i++ {
		buf = vertexKey(buf[:0], m, i)
		if idx, ok := seen[string(buf)]; ok {
			remap[i] = idx
			continue
		}
		idx := uint32(len(keep))
		seen[string(buf)] = idx
		remap[i] = idx
		keep = append(keep, i)
	}
	if len(keep) == n {
		return 0
	}

	m.Positions = pickVec3(m.Positions, keep)
	m.Normals = pickVec3(m.Normals, keep)
	m.Tangents = pickVec3(m.Tangents, keep)
	m.Bitangents = pickVec3(m.Bitangents, keep)
	for c, ch := range m.TexCoords {
		if len(ch) == 0 {
			continue
		}
		out := make([]vec2.T, len(keep))
		for i, k := range keep {
			out[i] = ch[k]
		}
		m.TexCoords[c] = out
	}
	for c, ch := range m.Colors {
		if len(ch) == 0 {
			continue
		}
		out := make([]vec4.T, len(keep))
		for i, k := range keep {
			out[i] = ch[k]
		}
		m.Colors[c] = out
	}
	for fi := range m.Faces {
		for j, idx := range m.Faces[fi].Indices {
			m.Faces[fi].Indices[j] = remap[idx]
		}
	}
	for bi := range m.Bones {
		weights := m.Bones[bi].Weights[:0]
		done := make(map[uint32]bool, len(m.Bones[bi].Weights))
		for _, w := range m.Bones[bi].Weights {
			v := remap[w.Vertex]
			if done[v] {
				continue
			}
			done[v] = true
			weights = append(weights, scene.VertexWeight{Vertex: v, Weight: w.Weight})
		}
		m.Bones[bi].Weights = weights
	}
	return n - len(keep)
}

func vertexKey(buf []byte, m *scene.Mesh, i int) []byte {
	put := func(f float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	put3 := func(v []vec3.T) {
		if len(v) > 0 {
			put(v[i][0])
			put(v[i][1])
			put(v[i][2])
		}
	}
	put3(m.Positions)
	put3(m.Normals)
	put3(m.Tangents)
	put3(m.Bitangents)
	for _, ch := range m.TexCoords {
		if len(ch) > 0 {
			put(ch[i][0])
			put(ch[i][1])
		}
	}
	for _, ch := range m.Colors {
		if len(ch) > 0 {
			put(ch[i][0])
			put(ch[i][1])
			put(ch[i][2])
			put(ch[i][3])
		}
	}
	// vertices influenced by different bones must not merge
	for bi, b := range m.Bones {
		for _, w := range b.Weights {
			if int(w.Vertex) == i {
				buf = binary.LittleEndian.AppendUint32(buf, uint32(bi))
				put(w.Weight)
			}
		}
	}
	return buf
}

func pickVec3(v []vec3.T, keep []int) []vec3.T {
	if len(v) == 0 {
		return v
	}
	out := make([]vec3.T, len(keep))
	for i, k := range keep {
		out[i] = v[k]
	}
	return out
}
