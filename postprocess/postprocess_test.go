package postprocess

import (
	"testing"

	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangulate(t *testing.T) {
	m := &scene.Mesh{
		Positions: make([]vec3.T, 6),
		Faces: []scene.Face{
			{Indices: []uint32{0, 1, 2, 3, 4}},
			{Indices: []uint32{0, 5}},
			{Indices: []uint32{1, 2, 3}},
		},
	}
	Triangulate(m)
	require.Len(t, m.Faces, 5)
	assert.Equal(t, []uint32{0, 1, 2}, m.Faces[0].Indices)
	assert.Equal(t, []uint32{0, 2, 3}, m.Faces[1].Indices)
	assert.Equal(t, []uint32{0, 3, 4}, m.Faces[2].Indices)
	assert.Equal(t, []uint32{0, 5}, m.Faces[3].Indices)
	assert.Equal(t, []uint32{1, 2, 3}, m.Faces[4].Indices)
}

func TestJoinIdenticalVertices(t *testing.T) {
	// two triangles sharing an edge, stored unindexed
	m := &scene.Mesh{
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		TexCoords: [][]vec2.T{{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}},
		Faces:     []scene.Face{{Indices: []uint32{0, 1, 2}}, {Indices: []uint32{3, 4, 5}}},
	}
	removed := JoinIdenticalVertices(m)
	assert.Equal(t, 2, removed)
	assert.Len(t, m.Positions, 4)
	assert.Len(t, m.TexCoords[0], 4)
	assert.Equal(t, []uint32{0, 1, 2}, m.Faces[0].Indices)
	assert.Equal(t, []uint32{0, 2, 3}, m.Faces[1].Indices)
	require.NoError(t, m.Validate())
}

func TestJoinKeepsDistinctAttributes(t *testing.T) {
	m := &scene.Mesh{
		Positions: []vec3.T{{0, 0, 0}, {0, 0, 0}},
		Normals:   []vec3.T{{0, 0, 1}, {0, 1, 0}},
		Faces:     []scene.Face{{Indices: []uint32{0, 1}}},
	}
	assert.Equal(t, 0, JoinIdenticalVertices(m))
	assert.Len(t, m.Positions, 2)
}

func TestRemoveComponents(t *testing.T) {
	s := &scene.Scene{
		Meshes: []*scene.Mesh{{
			Positions:     []vec3.T{{0, 0, 0}},
			Normals:       []vec3.T{{0, 0, 1}},
			Tangents:      []vec3.T{{1, 0, 0}},
			Bitangents:    []vec3.T{{0, 1, 0}},
			TexCoords:     [][]vec2.T{{{0, 0}}},
			Colors:        [][]vec4.T{{{1, 1, 1, 1}}},
			Bones:         []scene.Bone{{Name: "root", Weights: []scene.VertexWeight{{Vertex: 0, Weight: 1}}}},
			MaterialIndex: 3,
		}},
		Materials:  []*scene.Material{{Name: "a"}, {Name: "b"}},
		Lights:     []*scene.Light{{Name: "l"}},
		Cameras:    []*scene.Camera{{Name: "c"}},
		Animations: []*scene.Animation{{Name: "walk"}},
		Textures:   []*scene.Texture{{Name: "t"}},
	}

	Apply(s, DefaultStrip, ImportSteps)
	m := s.Meshes[0]
	assert.Len(t, s.Materials, 1)
	assert.Equal(t, 0, m.MaterialIndex)
	assert.Empty(t, s.Lights)
	assert.Empty(t, s.Cameras)
	assert.Empty(t, s.Animations)
	assert.Empty(t, s.Textures)
	assert.Empty(t, m.Colors)
	assert.Empty(t, m.Bones)
	assert.True(t, m.HasNormals())
	assert.True(t, m.HasTexCoords(0))

	RemoveComponents(s, ComponentNormals|ComponentTangentsAndBitangents|ComponentTexCoords)
	assert.False(t, m.HasNormals())
	assert.False(t, m.HasTangentsAndBitangents())
	assert.False(t, m.HasTexCoords(0))
}
