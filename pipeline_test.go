package meshpipe

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/export"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/report"
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ring returns a triangle fan mesh with n distinct vertices on a circle.
func ring(name string, n int, cx float32) *scene.Mesh {
	m := &scene.Mesh{Name: name}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		m.Positions = append(m.Positions, vec3.T{cx + float32(math.Cos(a)), float32(math.Sin(a)), 0})
	}
	for i := 1; i+1 < n; i++ {
		m.Faces = append(m.Faces, scene.Face{Indices: []uint32{0, uint32(i), uint32(i + 1)}})
	}
	return m
}

func writeTwoMeshInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.glb")
	s := &scene.Scene{
		Meshes:    []*scene.Mesh{ring("a", 10, 0), ring("b", 5, 5)},
		Materials: []*scene.Material{scene.DefaultMaterial()},
	}
	require.NoError(t, export.NewRegistry().Export(s, "glb2", path, export.Flags{}))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	input := writeTwoMeshInput(t)

	cfg := config.Default()
	cfg.Input = input
	cfg.Format = "obj"
	cfg.Scale = 2
	cfg.AlignX = config.AlignCenter
	cfg.Report = true

	var out bytes.Buffer
	status := Run(cfg, &out)
	require.Equal(t, "ok", status.Status, status.Error)

	var rep report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, "report", rep.Type)
	assert.Equal(t, 15, rep.Scene.Statistics.NumVertices)
	assert.Equal(t, 2, rep.Scene.Statistics.NumMeshes)
	require.NotNil(t, rep.Scene.Geometry.Center)
	assert.InDelta(t, 0, rep.Scene.Geometry.Center[0], 1e-4)
	require.NotNil(t, rep.Scene.Geometry.Size)
	assert.InDelta(t, 14, rep.Scene.Geometry.Size[0], 1e-3)

	info, err := os.Stat(filepath.Join(filepath.Dir(input), "input.obj"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRunInvalidFormat(t *testing.T) {
	input := writeTwoMeshInput(t)

	cfg := config.Default()
	cfg.Input = input
	cfg.Format = "nope"

	status := Run(cfg, &bytes.Buffer{})
	assert.Equal(t, "error", status.Status)
	assert.Equal(t, "invalid output format id: nope", status.Error)

	entries, err := os.ReadDir(filepath.Dir(input))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Input = "model.obj"
	cfg.Scale = -1

	status := Run(cfg, &bytes.Buffer{})
	assert.Equal(t, "error", status.Status)
	assert.NotEmpty(t, status.Error)
}

func TestSceneNotLoaded(t *testing.T) {
	s := NewScene(config.Default())
	assert.Error(t, s.Process())
	assert.Error(t, s.Save())
	assert.Error(t, s.Report(&bytes.Buffer{}))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSceneGltfx(t *testing.T) {
	input := writeTwoMeshInput(t)

	cfg := config.Default()
	cfg.Input = input
	cfg.Format = config.FormatGlbx
	cfg.Output = filepath.Join(filepath.Dir(input), "out.glb")

	s := NewScene(cfg)
	defer s.Close()
	require.NoError(t, s.Load())
	// the input carries no normals, the importer computes them
	for _, m := range s.Graph().Meshes {
		require.True(t, m.HasNormals(), m.Name)
		assert.InDelta(t, 1, m.Normals[0][2], 1e-6)
	}
	require.NoError(t, s.Process())
	require.NoError(t, s.Save())

	var dump bytes.Buffer
	require.NoError(t, s.Dump(&dump))
	assert.Contains(t, dump.String(), "Meshes:")

	back, err := ReadFile(cfg.Output, postprocess.DefaultStrip, postprocess.ImportSteps)
	require.NoError(t, err)
	assert.Len(t, back.Meshes, 2)
	assert.Equal(t, 15, back.NumVertices())
}

func TestSceneGltfxRejectsBadQuantization(t *testing.T) {
	input := writeTwoMeshInput(t)

	cfg := config.Default()
	cfg.Input = input
	cfg.Format = config.FormatGlbx
	cfg.Output = filepath.Join(filepath.Dir(input), "out.glb")
	cfg.UseCompression = true
	cfg.PositionQuantizationBits = 0

	s := NewScene(cfg)
	defer s.Close()
	require.NoError(t, s.Load())
	require.NoError(t, s.Process())

	err := s.Save()
	require.Error(t, err)
	assert.True(t, pipeerr.IsConfig(err))
	assert.NoFileExists(t, cfg.Output)
}

func TestStripMask(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, postprocess.DefaultStrip, StripMask(cfg))

	cfg.StripNormals = true
	cfg.StripTexCoords = true
	mask := StripMask(cfg)
	assert.NotZero(t, mask&postprocess.ComponentNormals)
	assert.NotZero(t, mask&postprocess.ComponentTangentsAndBitangents)
	assert.NotZero(t, mask&postprocess.ComponentTexCoords)
}
