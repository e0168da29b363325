package export

import (
	"path/filepath"
	"strings"

	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/gltfx"
	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/scene"

	"go.uber.org/zap"
)

// Target is the resolved destination of one run: either *GltfxTarget or
// *GenericTarget.
type Target interface {
	Path() string
	Execute(s *scene.Scene) error
}

// GltfxTarget routes the scene to the specialized glTF exporter.
type GltfxTarget struct {
	Options *gltfx.Options
	Output  string
}

func (t *GltfxTarget) Path() string { return t.Output }

func (t *GltfxTarget) Execute(s *scene.Scene) error {
	return gltfx.NewExporter(t.Options).Export(s, t.Output)
}

// GenericTarget routes the scene through the format registry.
type GenericTarget struct {
	Registry *Registry
	Format   FormatDesc
	Flags    Flags
	Output   string
}

func (t *GenericTarget) Path() string { return t.Output }

func (t *GenericTarget) Execute(s *scene.Scene) error {
	logger.Debug("export format", zap.String("id", t.Format.ID), zap.String("description", t.Format.Description))
	return t.Registry.Export(s, t.Format.ID, t.Output, t.Flags)
}

// Resolve picks the exporter for cfg. The gltfx and glbx ids are checked
// before the registry, so they always select the specialized exporter.
// Nothing is written here.
func Resolve(cfg *config.Config, reg *Registry) (Target, error) {
	if cfg.IsSpecializedFormat() {
		binary := cfg.Format == config.FormatGlbx
		out := cfg.Output
		if out == "" {
			ext := ".gltf"
			if binary {
				ext = ".glb"
			}
			out = replaceExt(cfg.Input, ext)
		}
		if err := checkOverwrite(cfg.Input, out); err != nil {
			return nil, err
		}
		return &GltfxTarget{Options: OptionsFromConfig(cfg), Output: out}, nil
	}

	desc, ok := reg.Lookup(cfg.Format)
	if !ok {
		return nil, pipeerr.Config("invalid output format id: %s", cfg.Format)
	}
	base := cfg.Output
	if base == "" {
		base = cfg.Input
	}
	out := replaceExt(base, "."+desc.Extension)
	if err := checkOverwrite(cfg.Input, out); err != nil {
		return nil, err
	}
	return &GenericTarget{
		Registry: reg,
		Format:   desc,
		Flags:    Flags{JoinIdenticalVertices: cfg.JoinVertices},
		Output:   out,
	}, nil
}

// checkOverwrite refuses an output path that names the input file.
func checkOverwrite(input, output string) error {
	if input != "" && filepath.Clean(input) == filepath.Clean(output) {
		return pipeerr.Config("output file %s would overwrite the input file", output)
	}
	return nil
}

// OptionsFromConfig maps the run configuration onto exporter options.
func OptionsFromConfig(cfg *config.Config) *gltfx.Options {
	return &gltfx.Options{
		Verbose:         cfg.Verbose,
		MetallicFactor:  cfg.MetallicFactor,
		RoughnessFactor: cfg.RoughnessFactor,
		Maps: gltfx.Maps{
			Diffuse:           cfg.DiffuseMap,
			Occlusion:         cfg.OcclusionMap,
			Emissive:          cfg.EmissiveMap,
			MetallicRoughness: cfg.MetallicRoughnessMap,
			Zone:              cfg.ZoneMap,
			Normal:            cfg.NormalMap,
		},
		EmbedMaps:          cfg.EmbedMaps,
		MapFormat:          cfg.MapFormat,
		UseCompression:     cfg.UseCompression,
		ObjectSpaceNormals: cfg.ObjectSpaceNormals,
		StripNormals:       cfg.StripNormals,
		StripTexCoords:     cfg.StripTexCoords,
		WriteBinary:        cfg.Format == config.FormatGlbx,
		Compression: gltfx.Compression{
			PositionBits: cfg.PositionQuantizationBits,
			TexCoordBits: cfg.TexCoordsQuantizationBits,
			NormalBits:   cfg.NormalsQuantizationBits,
			GenericBits:  cfg.GenericQuantizationBits,
			Level:        cfg.CompressionLevel,
		},
	}
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
