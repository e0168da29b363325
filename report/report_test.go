package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoMeshScene() *scene.Scene {
	return &scene.Scene{
		Meshes: []*scene.Mesh{
			{
				Name:      "cube",
				Positions: []vec3.T{{0, 0, 0}, {1, 2, 3}, {1, 0, 0}},
				Normals:   []vec3.T{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
				TexCoords: [][]vec2.T{{{0, 0}, {1, 1}, {1, 0}}},
				Faces:     []scene.Face{{Indices: []uint32{0, 1, 2}}},
			},
			{
				Name:      "spike",
				Positions: []vec3.T{{-1, -1, -1}, {5, 0, 0}},
				Faces:     []scene.Face{{Indices: []uint32{0, 1}}},
			},
		},
		Materials: []*scene.Material{scene.DefaultMaterial()},
	}
}

func TestBuild(t *testing.T) {
	r := Build(twoMeshScene(), `C:\models\cube.obj`)
	assert.Equal(t, "report", r.Type)
	assert.Equal(t, "C:/models/cube.obj", r.FilePath)
	require.Len(t, r.Meshes, 2)

	m := r.Meshes[0].Statistics
	assert.Equal(t, 3, m.NumVertices)
	assert.Equal(t, 1, m.NumFaces)
	assert.True(t, m.HasNormals)
	assert.True(t, m.HasTexCoords)
	assert.Equal(t, 1, m.NumTexCoordChannels)
	assert.False(t, m.HasVertexColors)

	s := r.Scene.Statistics
	assert.Equal(t, 5, s.NumVertices)
	assert.Equal(t, 2, s.NumFaces)
	assert.Equal(t, 2, s.NumMeshes)
	assert.Equal(t, 1, s.NumMaterials)

	g := r.Scene.Geometry
	require.NotNil(t, g.BoundingBox)
	assert.Equal(t, [3]float64{-1, -1, -1}, g.BoundingBox.Min)
	assert.Equal(t, [3]float64{5, 2, 3}, g.BoundingBox.Max)
	assert.Equal(t, [3]float64{6, 3, 4}, *g.Size)
	assert.Equal(t, [3]float64{2, 0.5, 1}, *g.Center)
}

func TestBuildEmpty(t *testing.T) {
	s := &scene.Scene{Meshes: []*scene.Mesh{{Name: "empty"}}}
	r := Build(s, "empty.obj")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	geometry := doc["scene"].(map[string]interface{})["geometry"].(map[string]interface{})
	assert.Nil(t, geometry["boundingBox"])
	assert.Nil(t, geometry["size"])
	assert.Nil(t, geometry["center"])

	meshes := doc["meshes"].([]interface{})
	require.Len(t, meshes, 1)
	mg := meshes[0].(map[string]interface{})["geometry"].(map[string]interface{})
	assert.Nil(t, mg["boundingBox"])
}

func TestBuildNoMeshes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Build(&scene.Scene{}, "x.obj")))
	assert.Contains(t, buf.String(), `"meshes": []`)
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Status(nil)))
	assert.JSONEq(t, `{"type":"status","status":"ok"}`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, Status(errors.New("failed to read input file: a.obj, reason: boom"))))
	assert.JSONEq(t, `{"type":"status","status":"error","error":"failed to read input file: a.obj, reason: boom"}`, buf.String())
}

func TestFormatList(t *testing.T) {
	var buf bytes.Buffer
	doc := FormatList([]FormatEntry{{ID: "obj", Extension: "obj", Description: "Wavefront OBJ format"}})
	require.NoError(t, Write(&buf, doc))
	assert.JSONEq(t, `{"type":"list","status":"ok","list":[{"id":"obj","extension":"obj","description":"Wavefront OBJ format"}]}`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatList(nil)))
	assert.JSONEq(t, `{"type":"list","status":"ok","list":[]}`, buf.String())
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, twoMeshScene(), "cube.obj"))
	out := buf.String()
	assert.Contains(t, out, "File: cube.obj")
	assert.Contains(t, out, "  Meshes:     2")
	assert.Contains(t, out, "  Mesh #0 - cube")
	assert.Contains(t, out, "    Vertices:     3")
	assert.Contains(t, out, "    UV Channels:  1")
}
