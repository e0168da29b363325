package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/scene"

	"github.com/flywave/go-stl"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadScene() *scene.Scene {
	return &scene.Scene{
		Meshes: []*scene.Mesh{{
			Name:      "quad",
			Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Normals:   []vec3.T{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			TexCoords: [][]vec2.T{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
			Faces:     []scene.Face{{Indices: []uint32{0, 1, 2, 3}}},
		}},
		Materials: []*scene.Material{scene.DefaultMaterial()},
	}
}

func TestRegistryOrder(t *testing.T) {
	var ids []string
	for _, f := range NewRegistry().Formats() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"obj", "stl", "stlb", "gltf2", "glb2", "mst"}, ids)
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register(FormatDesc{"obj", "obj", "custom"}, func(*scene.Scene, string) error {
		called = true
		return nil
	})
	assert.Len(t, r.Formats(), 6)
	require.NoError(t, r.Export(quadScene(), "obj", filepath.Join(t.TempDir(), "x.obj"), Flags{}))
	assert.True(t, called)
}

func TestExportObj(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	s := quadScene()
	require.NoError(t, NewRegistry().Export(s, "obj", path, Flags{}))

	// the quad is triangulated on a copy only
	assert.Len(t, s.Meshes[0].Faces, 1)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "mtllib quad.mtl")
	assert.Contains(t, out, "o quad")
	assert.Equal(t, 4, strings.Count(out, "\nv "))
	assert.Contains(t, out, "f 1/1/1 2/2/2 3/3/3")
	assert.Contains(t, out, "f 1/1/1 3/3/3 4/4/4")

	mtl, err := os.ReadFile(filepath.Join(filepath.Dir(path), "quad.mtl"))
	require.NoError(t, err)
	assert.Contains(t, string(mtl), "newmtl DefaultMaterial")
}

func TestExportObjJoin(t *testing.T) {
	s := &scene.Scene{Meshes: []*scene.Mesh{{
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}, {0, 1, 0}, {-1, 0, 0}},
		Faces:     []scene.Face{{Indices: []uint32{0, 1, 2}}, {Indices: []uint32{3, 4, 5}}},
	}}}
	path := filepath.Join(t.TempDir(), "joined.obj")
	require.NoError(t, NewRegistry().Export(s, "obj", path, Flags{JoinIdenticalVertices: true}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(raw), "\nv "))
	assert.Contains(t, string(raw), "f 1 3 4")
}

func TestExportStl(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []string{"stl", "stlb"} {
		path := filepath.Join(dir, id+".stl")
		require.NoError(t, NewRegistry().Export(quadScene(), id, path, Flags{}))
		solid, err := stl.ReadFile(path)
		require.NoError(t, err)
		require.Len(t, solid.Triangles, 2)
		assert.Equal(t, vec3.T{0, 0, 1}, solid.Triangles[0].Normal)
	}
}

func TestExportGltf2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, NewRegistry().Export(quadScene(), "glb2", path, Flags{}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(raw[:4]))
}

func TestExportMst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.mst")
	require.NoError(t, NewRegistry().Export(quadScene(), "mst", path, Flags{}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	m := ToMst(quadScene())
	require.Len(t, m.Nodes, 1)
	assert.Len(t, m.Nodes[0].Vertices, 4)
	assert.Len(t, m.Materials, 1)
}

func TestExportUnknownID(t *testing.T) {
	err := NewRegistry().Export(quadScene(), "fbx", filepath.Join(t.TempDir(), "x.fbx"), Flags{})
	assert.True(t, pipeerr.IsConfig(err))
}

func TestExportWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "quad.obj")
	err := NewRegistry().Export(quadScene(), "obj", path, Flags{})
	require.Error(t, err)
	assert.True(t, pipeerr.IsExport(err))
	assert.True(t, strings.HasPrefix(err.Error(), "failed to write output file: "+path+", reason: "))
}

func TestResolveSpecialized(t *testing.T) {
	reg := NewRegistry()
	// a registry entry named like the specialized format never wins
	reg.Register(FormatDesc{"gltfx", "gltf", "shadow"}, func(*scene.Scene, string) error { return nil })

	cfg := config.Default()
	cfg.Input = "models/house.fbx"
	cfg.Format = config.FormatGltfx
	target, err := Resolve(cfg, reg)
	require.NoError(t, err)
	gt, ok := target.(*GltfxTarget)
	require.True(t, ok)
	assert.Equal(t, "models/house.gltf", gt.Path())
	assert.False(t, gt.Options.WriteBinary)

	cfg.Format = config.FormatGlbx
	cfg.UseCompression = true
	target, err = Resolve(cfg, reg)
	require.NoError(t, err)
	gt = target.(*GltfxTarget)
	assert.Equal(t, "models/house.glb", gt.Path())
	assert.True(t, gt.Options.WriteBinary)
	assert.True(t, gt.Options.UseCompression)
	assert.Equal(t, 14, gt.Options.Compression.PositionBits)

	cfg.Output = "out/explicit.bin"
	target, err = Resolve(cfg, reg)
	require.NoError(t, err)
	assert.Equal(t, "out/explicit.bin", target.Path())
}

func TestResolveGeneric(t *testing.T) {
	cfg := config.Default()
	cfg.Input = "models/house.fbx"
	cfg.Format = "stlb"
	cfg.JoinVertices = true

	target, err := Resolve(cfg, NewRegistry())
	require.NoError(t, err)
	gt, ok := target.(*GenericTarget)
	require.True(t, ok)
	assert.Equal(t, "models/house.stl", gt.Path())
	assert.True(t, gt.Flags.JoinIdenticalVertices)

	cfg.Output = "out/result.bin"
	target, err = Resolve(cfg, NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "out/result.stl", target.Path())
}

func TestResolveRefusesToOverwriteInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input = "models/house.gltf"
	cfg.Format = config.FormatGltfx
	_, err := Resolve(cfg, NewRegistry())
	require.Error(t, err)
	assert.True(t, pipeerr.IsConfig(err))
	assert.Contains(t, err.Error(), "would overwrite the input file")

	cfg.Output = "./models/house.gltf"
	_, err = Resolve(cfg, NewRegistry())
	assert.True(t, pipeerr.IsConfig(err))

	cfg.Output = "models/house.glb"
	_, err = Resolve(cfg, NewRegistry())
	assert.NoError(t, err)

	cfg = config.Default()
	cfg.Input = "models/house.obj"
	cfg.Format = "obj"
	_, err = Resolve(cfg, NewRegistry())
	assert.True(t, pipeerr.IsConfig(err))
}

func TestResolveInvalidID(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input = filepath.Join(dir, "house.obj")
	cfg.Format = "nope"

	target, err := Resolve(cfg, NewRegistry())
	assert.Nil(t, target)
	require.Error(t, err)
	assert.True(t, pipeerr.IsConfig(err))
	assert.Equal(t, "invalid output format id: nope", err.Error())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
