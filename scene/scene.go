// Package scene holds the in-memory scene graph a pipeline run works on.
//
// A Scene is owned by exactly one pipeline run. Transform steps mutate it in
// place, the report builder only reads it.
package scene

import (
	"fmt"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

type Scene struct {
	Meshes     []*Mesh
	Materials  []*Material
	Textures   []*Texture
	Lights     []*Light
	Cameras    []*Camera
	Animations []*Animation
}

// Face is an index tuple into the owning mesh's vertex arrays. After
// triangulation every polygon face has three indices; points and lines keep
// one or two.
type Face struct {
	Indices []uint32
}

type VertexWeight struct {
	Vertex uint32
	Weight float32
}

type Bone struct {
	Name    string
	Weights []VertexWeight
}

// Mesh stores per-vertex attributes as parallel arrays. Optional arrays are
// either empty or exactly len(Positions) long.
type Mesh struct {
	Name       string
	Positions  []vec3.T
	Normals    []vec3.T
	Tangents   []vec3.T
	Bitangents []vec3.T
	TexCoords  [][]vec2.T
	Colors     [][]vec4.T
	Bones      []Bone
	Faces      []Face

	MaterialIndex int
}

type Material struct {
	Name           string
	BaseColor      [4]float32
	Metallic       float32
	Roughness      float32
	DiffuseTexture string
}

type Texture struct {
	Name     string
	MimeType string
	Data     []byte
}

type Light struct {
	Name      string
	Position  vec3.T
	Direction vec3.T
}

type Camera struct {
	Name     string
	Position vec3.T
	Up       vec3.T
	LookAt   vec3.T
}

type Animation struct {
	Name     string
	Duration float64
}

// DefaultMaterial is the material left behind when materials are stripped.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "DefaultMaterial",
		BaseColor: [4]float32{0.6, 0.6, 0.6, 1},
		Roughness: 1,
	}
}

func (m *Mesh) NumVertices() int { return len(m.Positions) }
func (m *Mesh) NumFaces() int    { return len(m.Faces) }

func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

func (m *Mesh) HasTangentsAndBitangents() bool {
	return len(m.Tangents) > 0 && len(m.Bitangents) > 0
}

func (m *Mesh) HasBones() bool { return len(m.Bones) > 0 }

func (m *Mesh) HasTexCoords(channel int) bool {
	return channel < len(m.TexCoords) && len(m.TexCoords[channel]) > 0
}

func (m *Mesh) HasVertexColors(channel int) bool {
	return channel < len(m.Colors) && len(m.Colors[channel]) > 0
}

// NumUVChannels counts the leading non-empty UV channels.
func (m *Mesh) NumUVChannels() int {
	n := 0
	for n < len(m.TexCoords) && len(m.TexCoords[n]) > 0 {
		n++
	}
	return n
}

// NumColorChannels counts the leading non-empty color channels.
func (m *Mesh) NumColorChannels() int {
	n := 0
	for n < len(m.Colors) && len(m.Colors[n]) > 0 {
		n++
	}
	return n
}

// Validate checks attribute array lengths and face indices.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return fmt.Errorf("mesh %q: %s has %d entries, expected %d", m.Name, name, l, n)
		}
		return nil
	}
	if err := check("normals", len(m.Normals)); err != nil {
		return err
	}
	if err := check("tangents", len(m.Tangents)); err != nil {
		return err
	}
	if err := check("bitangents", len(m.Bitangents)); err != nil {
		return err
	}
	for i, ch := range m.TexCoords {
		if err := check(fmt.Sprintf("texcoord channel %d", i), len(ch)); err != nil {
			return err
		}
	}
	for i, ch := range m.Colors {
		if err := check(fmt.Sprintf("color channel %d", i), len(ch)); err != nil {
			return err
		}
	}
	for fi, f := range m.Faces {
		for _, idx := range f.Indices {
			if int(idx) >= n {
				return fmt.Errorf("mesh %q: face %d references vertex %d of %d", m.Name, fi, idx, n)
			}
		}
	}
	return nil
}

// Validate runs Mesh.Validate over every mesh.
func (s *Scene) Validate() error {
	for _, m := range s.Meshes {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) NumVertices() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Positions)
	}
	return n
}

func (s *Scene) NumFaces() int {
	n := 0
	for _, m := range s.Meshes {
		n += len(m.Faces)
	}
	return n
}
