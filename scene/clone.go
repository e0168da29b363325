package scene

import (
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Clone returns a deep copy. Exporters that need to rewrite geometry (vertex
// joining, quantization) work on a clone so the caller's scene is untouched.
func (s *Scene) Clone() *Scene {
	out := &Scene{
		Meshes:     make([]*Mesh, len(s.Meshes)),
		Materials:  make([]*Material, len(s.Materials)),
		Textures:   make([]*Texture, len(s.Textures)),
		Lights:     make([]*Light, len(s.Lights)),
		Cameras:    make([]*Camera, len(s.Cameras)),
		Animations: make([]*Animation, len(s.Animations)),
	}
	for i, m := range s.Meshes {
		out.Meshes[i] = m.Clone()
	}
	for i, m := range s.Materials {
		c := *m
		out.Materials[i] = &c
	}
	for i, t := range s.Textures {
		c := *t
		c.Data = append([]byte(nil), t.Data...)
		out.Textures[i] = &c
	}
	for i, l := range s.Lights {
		c := *l
		out.Lights[i] = &c
	}
	for i, c := range s.Cameras {
		cc := *c
		out.Cameras[i] = &cc
	}
	for i, a := range s.Animations {
		c := *a
		out.Animations[i] = &c
	}
	return out
}

func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:          m.Name,
		Positions:     cloneVec3(m.Positions),
		Normals:       cloneVec3(m.Normals),
		Tangents:      cloneVec3(m.Tangents),
		Bitangents:    cloneVec3(m.Bitangents),
		MaterialIndex: m.MaterialIndex,
	}
	if m.TexCoords != nil {
		out.TexCoords = make([][]vec2.T, len(m.TexCoords))
		for i, ch := range m.TexCoords {
			out.TexCoords[i] = append([]vec2.T(nil), ch...)
		}
	}
	if m.Colors != nil {
		out.Colors = make([][]vec4.T, len(m.Colors))
		for i, ch := range m.Colors {
			out.Colors[i] = append([]vec4.T(nil), ch...)
		}
	}
	if m.Bones != nil {
		out.Bones = make([]Bone, len(m.Bones))
		for i, b := range m.Bones {
			out.Bones[i] = Bone{Name: b.Name, Weights: append([]VertexWeight(nil), b.Weights...)}
		}
	}
	out.Faces = make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		out.Faces[i] = Face{Indices: append([]uint32(nil), f.Indices...)}
	}
	return out
}

func cloneVec3(v []vec3.T) []vec3.T {
	if v == nil {
		return nil
	}
	return append([]vec3.T(nil), v...)
}
