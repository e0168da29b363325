package gltfx

import (
	"math"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// snap rounds v onto a grid of 2^bits-1 steps spanning [lo, hi].
func snap(v, lo, hi float32, bits int) float32 {
	if hi <= lo {
		return lo
	}
	steps := float64(uint64(1)<<uint(bits) - 1)
	t := float64(v-lo) / float64(hi-lo)
	t = math.Round(math.Min(math.Max(t, 0), 1)*steps) / steps
	return lo + float32(t*float64(hi-lo))
}

// quantizeMesh snaps every attribute of m to its configured precision.
// Positions use the mesh bounds, normals and tangents the unit cube, UVs
// their own range and colors [0,1].
func quantizeMesh(m *scene.Mesh, c Compression) {
	if b := geom.BoundingBox(m); b.IsValid() {
		for i, p := range m.Positions {
			for k := 0; k < 3; k++ {
				p[k] = snap(p[k], float32(b.Min[k]), float32(b.Max[k]), c.PositionBits)
			}
			m.Positions[i] = p
		}
	}
	unit := func(vs []vec3.T) {
		for i, v := range vs {
			for k := 0; k < 3; k++ {
				v[k] = snap(v[k], -1, 1, c.NormalBits)
			}
			vs[i] = v
		}
	}
	unit(m.Normals)
	unit(m.Tangents)
	unit(m.Bitangents)

	for _, ch := range m.TexCoords {
		quantizeUV(ch, c.TexCoordBits)
	}
	for _, ch := range m.Colors {
		quantizeColor(ch, c.GenericBits)
	}
}

func quantizeUV(ch []vec2.T, bits int) {
	if len(ch) == 0 {
		return
	}
	lo, hi := ch[0], ch[0]
	for _, uv := range ch[1:] {
		for k := 0; k < 2; k++ {
			lo[k] = float32(math.Min(float64(lo[k]), float64(uv[k])))
			hi[k] = float32(math.Max(float64(hi[k]), float64(uv[k])))
		}
	}
	for i, uv := range ch {
		for k := 0; k < 2; k++ {
			uv[k] = snap(uv[k], lo[k], hi[k], bits)
		}
		ch[i] = uv
	}
}

func quantizeColor(ch []vec4.T, bits int) {
	for i, c := range ch {
		for k := 0; k < 4; k++ {
			c[k] = snap(c[k], 0, 1, bits)
		}
		ch[i] = c
	}
}

// compress quantizes a clone of s and welds coincident vertices when the
// level asks for it. The input scene is not touched.
func compress(s *scene.Scene, c Compression) *scene.Scene {
	out := s.Clone()
	for _, m := range out.Meshes {
		quantizeMesh(m, c)
		if c.Level > 0 {
			postprocess.JoinIdenticalVertices(m)
		}
	}
	return out
}

func compressionExtras(c Compression) map[string]interface{} {
	return map[string]interface{}{
		"quantization": map[string]interface{}{
			"positionBits": c.PositionBits,
			"texcoordBits": c.TexCoordBits,
			"normalBits":   c.NormalBits,
			"genericBits":  c.GenericBits,
			"level":        c.Level,
		},
	}
}
