// Package process implements the scene transforms applied between import and
// export. Every operation rewrites vertex attributes in place and leaves face
// and vertex counts untouched.
package process

import (
	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/scene"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// Swizzle remaps the axes of every position, normal, tangent and bitangent,
// and of light and camera vectors.
func Swizzle(s *scene.Scene, spec string) error {
	sw, err := geom.ParseSwizzle(spec)
	if err != nil {
		return pipeerr.Config("%v", err)
	}
	apply := func(vs []vec3.T) {
		for i := range vs {
			vs[i] = sw.Apply(vs[i])
		}
	}
	for _, m := range s.Meshes {
		apply(m.Positions)
		apply(m.Normals)
		apply(m.Tangents)
		apply(m.Bitangents)
	}
	for _, l := range s.Lights {
		l.Position = sw.Apply(l.Position)
		l.Direction = sw.Apply(l.Direction)
	}
	for _, c := range s.Cameras {
		c.Position = sw.Apply(c.Position)
		c.Up = sw.Apply(c.Up)
		c.LookAt = sw.Apply(c.LookAt)
	}
	return nil
}

// Scale multiplies every position by factor.
func Scale(s *scene.Scene, factor float64) error {
	if !(factor > 0) {
		return pipeerr.Config("scale factor must be positive, got %g", factor)
	}
	eachPoint(s, func(p dvec3.T) dvec3.T {
		p.Scale(factor)
		return p
	})
	return nil
}

// Translate adds offset to every position.
func Translate(s *scene.Scene, offset dvec3.T) {
	eachPoint(s, func(p dvec3.T) dvec3.T {
		return dvec3.Add(&p, &offset)
	})
}

// Align moves the scene so that, on each axis with a mode other than None,
// the bounding box minimum, center or maximum lands on zero. Bounds are
// computed from the current geometry.
func Align(s *scene.Scene, x, y, z config.Align) {
	bounds := geom.SceneBounds(s)
	if !bounds.IsValid() {
		return
	}
	center := bounds.Center()
	var offset dvec3.T
	for axis, mode := range [3]config.Align{x, y, z} {
		switch mode {
		case config.AlignMin:
			offset[axis] = -bounds.Min[axis]
		case config.AlignCenter:
			offset[axis] = -center[axis]
		case config.AlignMax:
			offset[axis] = -bounds.Max[axis]
		}
	}
	Translate(s, offset)
}

// Transform applies an affine matrix to positions, its inverse transpose to
// normals and its linear part to tangents and bitangents. Directions are
// renormalized afterwards.
func Transform(s *scene.Scene, m *dmat.T) error {
	normalMat, err := geom.NormalMatrix(m)
	if err != nil {
		return pipeerr.Config("transform matrix: %v", err)
	}
	linear := geom.Linear(m)

	eachPoint(s, func(p dvec3.T) dvec3.T {
		return m.MulVec3(&p)
	})
	dir := func(mat geom.Mat3, vs []vec3.T) {
		for i, v := range vs {
			vs[i] = toF(normalize(mat.MulVec3(toD(v))))
		}
	}
	for _, mesh := range s.Meshes {
		dir(normalMat, mesh.Normals)
		dir(linear, mesh.Tangents)
		dir(linear, mesh.Bitangents)
	}
	for _, l := range s.Lights {
		l.Direction = toF(normalize(linear.MulVec3(toD(l.Direction))))
	}
	for _, c := range s.Cameras {
		c.Up = toF(normalize(linear.MulVec3(toD(c.Up))))
	}
	return nil
}

// FlipUVs mirrors texture coordinates of every UV channel: u becomes 1-u
// and/or v becomes 1-v.
func FlipUVs(s *scene.Scene, flipU, flipV bool) {
	if !flipU && !flipV {
		return
	}
	for _, m := range s.Meshes {
		for _, ch := range m.TexCoords {
			for i := range ch {
				if flipU {
					ch[i][0] = 1 - ch[i][0]
				}
				if flipV {
					ch[i][1] = 1 - ch[i][1]
				}
			}
		}
	}
}

// eachPoint rewrites every position and every light/camera location.
func eachPoint(s *scene.Scene, fn func(dvec3.T) dvec3.T) {
	for _, m := range s.Meshes {
		for i, p := range m.Positions {
			m.Positions[i] = toF(fn(toD(p)))
		}
	}
	for _, l := range s.Lights {
		l.Position = toF(fn(toD(l.Position)))
	}
	for _, c := range s.Cameras {
		c.Position = toF(fn(toD(c.Position)))
		c.LookAt = toF(fn(toD(c.LookAt)))
	}
}

func toD(v vec3.T) dvec3.T {
	return dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])}
}

func toF(v dvec3.T) vec3.T {
	return vec3.T{float32(v[0]), float32(v[1]), float32(v[2])}
}

func normalize(v dvec3.T) dvec3.T {
	l := v.Length()
	if l == 0 {
		return v
	}
	return dvec3.T{v[0] / l, v[1] / l, v[2] / l}
}
