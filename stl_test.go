package meshpipe

import (
	"path/filepath"
	"testing"

	"github.com/flywave/go-meshpipe/postprocess"

	"github.com/flywave/go-stl"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSquare() *stl.Solid {
	return &stl.Solid{
		Name: "TestSquare",
		Triangles: []stl.Triangle{
			{
				Normal:   vec3.T{0, 0, 1},
				Vertices: [3]vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			},
			{
				Normal:   vec3.T{0, 0, 1},
				Vertices: [3]vec3.T{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			},
		},
	}
}

func TestStlImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.stl")
	require.NoError(t, testSquare().WriteFile(path))

	s, err := (&StlImporter{}).Import(path)
	require.NoError(t, err)
	require.Len(t, s.Meshes, 1)

	m := s.Meshes[0]
	assert.Len(t, m.Positions, 6)
	assert.Len(t, m.Faces, 2)
	require.Len(t, m.Normals, 6)
	for _, n := range m.Normals {
		assert.Equal(t, vec3.T{0, 0, 1}, n)
	}

	require.Len(t, s.Materials, 1)
	assert.InDelta(t, 200.0/255, s.Materials[0].BaseColor[0], 1e-6)
}

func TestStlFromSolidRecomputesNormal(t *testing.T) {
	solid := &stl.Solid{Triangles: []stl.Triangle{
		{Vertices: [3]vec3.T{{1, 2, 3}, {2, 2, 3}, {1, 3, 3}}},
	}}
	s := (&StlImporter{}).FromSolid(solid)
	m := s.Meshes[0]
	assert.Equal(t, []vec3.T{{1, 2, 3}, {2, 2, 3}, {1, 3, 3}}, m.Positions)
	assert.Equal(t, vec3.T{0, 0, 1}, m.Normals[0])
}

func TestStlReadFileJoinsVertices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.stl")
	require.NoError(t, testSquare().WriteFile(path))

	s, err := ReadFile(path, postprocess.DefaultStrip, postprocess.ImportSteps)
	require.NoError(t, err)
	require.Len(t, s.Meshes, 1)
	assert.Len(t, s.Meshes[0].Positions, 4)
	assert.Len(t, s.Meshes[0].Faces, 2)

	// materials are stripped down to the default one
	require.Len(t, s.Materials, 1)
	assert.Equal(t, "DefaultMaterial", s.Materials[0].Name)
}
