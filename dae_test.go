package meshpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const daeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_geometries>
    <geometry id="tri-mesh" name="tri">
      <mesh>
        <source id="tri-positions">
          <float_array id="tri-positions-array" count="9">0 0 0 1 0 0 0 1 0</float_array>
          <technique_common>
            <accessor source="#tri-positions-array" count="3" stride="3">
              <param name="X" type="float"/>
              <param name="Y" type="float"/>
              <param name="Z" type="float"/>
            </accessor>
          </technique_common>
        </source>
        <source id="tri-normals">
          <float_array id="tri-normals-array" count="9">0 0 2 0 0 2 0 0 2</float_array>
          <technique_common>
            <accessor source="#tri-normals-array" count="3" stride="3">
              <param name="X" type="float"/>
              <param name="Y" type="float"/>
              <param name="Z" type="float"/>
            </accessor>
          </technique_common>
        </source>
        <vertices id="tri-vertices">
          <input semantic="POSITION" source="#tri-positions"/>%s
        </vertices>
        <triangles material="red" count="1">
          <input semantic="VERTEX" source="#tri-vertices" offset="0"/>
          <p>0 1 2</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
  <library_visual_scenes>
    <visual_scene id="Scene" name="Scene">
      <node id="tri-node" name="tri">
        <matrix sid="transform">1 0 0 10 0 1 0 0 0 0 1 0 0 0 0 1</matrix>
        <instance_geometry url="#tri-mesh"/>
      </node>
    </visual_scene>
  </library_visual_scenes>
  <scene>
    <instance_visual_scene url="#Scene"/>
  </scene>
</COLLADA>
`

const daeNormalInput = `
          <input semantic="NORMAL" source="#tri-normals"/>`

func writeDae(t *testing.T, normals bool) string {
	t.Helper()
	extra := ""
	if normals {
		extra = daeNormalInput
	}
	path := filepath.Join(t.TempDir(), "tri.dae")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(daeTemplate, extra)), 0o644))
	return path
}

func TestDaeImport(t *testing.T) {
	s, err := (&DaeImporter{}).Import(writeDae(t, true))
	require.NoError(t, err)
	require.Len(t, s.Meshes, 1)

	m := s.Meshes[0]
	assert.Equal(t, "tri-mesh", m.Name)
	assert.Equal(t, []vec3.T{{10, 0, 0}, {11, 0, 0}, {10, 1, 0}}, m.Positions)
	require.Len(t, m.Faces, 1)
	assert.Equal(t, []uint32{0, 1, 2}, m.Faces[0].Indices)

	require.True(t, m.HasNormals())
	for _, n := range m.Normals {
		assert.Equal(t, vec3.T{0, 0, 1}, n)
	}

	require.Len(t, s.Materials, 1)
	assert.Equal(t, "red", s.Materials[0].Name)
	assert.Equal(t, 0, m.MaterialIndex)
}

func TestDaeImportComputesNormals(t *testing.T) {
	s, err := (&DaeImporter{}).Import(writeDae(t, false))
	require.NoError(t, err)
	require.Len(t, s.Meshes, 1)

	m := s.Meshes[0]
	require.True(t, m.HasNormals())
	assert.Equal(t, vec3.T{0, 0, 1}, m.Normals[1])
}

func TestDaeImportMissingFile(t *testing.T) {
	_, err := (&DaeImporter{}).Import(filepath.Join(t.TempDir(), "none.dae"))
	assert.Error(t, err)
}
