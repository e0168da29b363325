package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flywave/go-meshpipe/config"

	"github.com/spf13/pflag"
)

// bindFlags registers every configuration key on fs with c as the target.
// The same binding is used for the command line and for replaying changed
// flags over a config file.
func bindFlags(fs *pflag.FlagSet, c *config.Config) {
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output file path")
	fs.StringVarP(&c.Format, "format", "f", c.Format, "output format id (see 'meshpipe list', plus gltfx and glbx)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log every pipeline step")
	fs.BoolVar(&c.Report, "report", c.Report, "print the scene report document before exporting")
	fs.BoolVar(&c.JoinVertices, "join-vertices", c.JoinVertices, "join identical vertices before a generic export")
	fs.BoolVar(&c.StripNormals, "strip-normals", c.StripNormals, "remove normals and tangents on import")
	fs.BoolVar(&c.StripTexCoords, "strip-texcoords", c.StripTexCoords, "remove texture coordinates on import")

	fs.StringVar(&c.Swizzle, "swizzle", c.Swizzle, "axis permutation, e.g. X-ZY")
	fs.Float64Var(&c.Scale, "scale", c.Scale, "uniform scale factor")
	fs.Var(&alignValue{&c.AlignX}, "align-x", "align X axis: none, min, center, max")
	fs.Var(&alignValue{&c.AlignY}, "align-y", "align Y axis: none, min, center, max")
	fs.Var(&alignValue{&c.AlignZ}, "align-z", "align Z axis: none, min, center, max")
	fs.Var(&floatsValue{c.Translate[:]}, "translate", "translation x,y,z")
	fs.Var(&floatsValue{c.Matrix[:]}, "matrix", "column-major 4x4 transform, 16 comma separated values")
	fs.BoolVar(&c.FlipUV, "flip-uv", c.FlipUV, "flip the V texture coordinate")

	fs.Float32Var(&c.MetallicFactor, "metallic-factor", c.MetallicFactor, "glTF metallic factor")
	fs.Float32Var(&c.RoughnessFactor, "roughness-factor", c.RoughnessFactor, "glTF roughness factor")
	fs.StringVar(&c.DiffuseMap, "diffuse-map", c.DiffuseMap, "diffuse map image")
	fs.StringVar(&c.OcclusionMap, "occlusion-map", c.OcclusionMap, "occlusion map image")
	fs.StringVar(&c.EmissiveMap, "emissive-map", c.EmissiveMap, "emissive map image")
	fs.StringVar(&c.MetallicRoughnessMap, "metallic-roughness-map", c.MetallicRoughnessMap, "metallic/roughness map image")
	fs.StringVar(&c.ZoneMap, "zone-map", c.ZoneMap, "zone map image")
	fs.StringVar(&c.NormalMap, "normal-map", c.NormalMap, "normal map image")
	fs.BoolVar(&c.EmbedMaps, "embed-maps", c.EmbedMaps, "embed map images in the glTF buffer")
	fs.StringVar(&c.MapFormat, "map-format", c.MapFormat, "embedded map format: png or webp")
	fs.BoolVar(&c.UseCompression, "use-compression", c.UseCompression, "quantize vertex attributes")
	fs.BoolVar(&c.ObjectSpaceNormals, "object-space-normals", c.ObjectSpaceNormals, "normal map is in object space")

	fs.IntVar(&c.PositionQuantizationBits, "position-bits", c.PositionQuantizationBits, "position quantization bits")
	fs.IntVar(&c.TexCoordsQuantizationBits, "texcoords-bits", c.TexCoordsQuantizationBits, "texture coordinate quantization bits")
	fs.IntVar(&c.NormalsQuantizationBits, "normals-bits", c.NormalsQuantizationBits, "normal quantization bits")
	fs.IntVar(&c.GenericQuantizationBits, "generic-bits", c.GenericQuantizationBits, "generic attribute quantization bits")
	fs.IntVar(&c.CompressionLevel, "compression-level", c.CompressionLevel, "compression level 0-10")

	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Logging.File, "log-file", c.Logging.File, "rotating log file")
}

type alignValue struct{ dst *config.Align }

func (a *alignValue) String() string {
	if a.dst == nil {
		return config.AlignNone.String()
	}
	return a.dst.String()
}

func (a *alignValue) Set(s string) error {
	v, err := config.ParseAlign(s)
	if err != nil {
		return err
	}
	*a.dst = v
	return nil
}

func (a *alignValue) Type() string { return "align" }

// floatsValue parses a fixed number of comma separated floats.
type floatsValue struct{ dst []float64 }

func (f *floatsValue) String() string {
	parts := make([]string, len(f.dst))
	for i, v := range f.dst {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (f *floatsValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != len(f.dst) {
		return fmt.Errorf("expected %d comma separated values, got %d", len(f.dst), len(parts))
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	copy(f.dst, vals)
	return nil
}

func (f *floatsValue) Type() string { return "floats" }
