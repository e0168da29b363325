// Package config holds the pipeline configuration resolved before a run.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Align selects the reference point moved to the origin on one axis.
type Align int

const (
	AlignNone Align = iota
	AlignMin
	AlignCenter
	AlignMax
)

var alignNames = [...]string{"none", "min", "center", "max"}

func (a Align) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return fmt.Sprintf("Align(%d)", int(a))
	}
	return alignNames[a]
}

// ParseAlign accepts none/min/center/max and the start/end aliases.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AlignNone, nil
	case "min", "start":
		return AlignMin, nil
	case "center":
		return AlignCenter, nil
	case "max", "end":
		return AlignMax, nil
	}
	return AlignNone, fmt.Errorf("invalid align mode %q", s)
}

func (a Align) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Align) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAlign(value.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Specialized format ids handled by the glTF exporter rather than the
// generic registry.
const (
	FormatGltfx = "gltfx"
	FormatGlbx  = "glbx"
)

// Config holds everything one pipeline run needs. It is read-only once the
// run has started.
type Config struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`
	Report  bool   `yaml:"report"`

	JoinVertices   bool `yaml:"join_vertices"`
	StripNormals   bool `yaml:"strip_normals"`
	StripTexCoords bool `yaml:"strip_texcoords"`

	Swizzle   string      `yaml:"swizzle"`
	Scale     float64     `yaml:"scale"`
	AlignX    Align       `yaml:"align_x"`
	AlignY    Align       `yaml:"align_y"`
	AlignZ    Align       `yaml:"align_z"`
	Translate [3]float64  `yaml:"translate,flow"`
	Matrix    [16]float64 `yaml:"matrix,flow"` // column-major
	FlipUV    bool        `yaml:"flip_uv"`

	MetallicFactor       float32 `yaml:"metallic_factor"`
	RoughnessFactor      float32 `yaml:"roughness_factor"`
	DiffuseMap           string  `yaml:"diffuse_map"`
	OcclusionMap         string  `yaml:"occlusion_map"`
	EmissiveMap          string  `yaml:"emissive_map"`
	MetallicRoughnessMap string  `yaml:"metallic_roughness_map"`
	ZoneMap              string  `yaml:"zone_map"`
	NormalMap            string  `yaml:"normal_map"`
	EmbedMaps            bool    `yaml:"embed_maps"`
	MapFormat            string  `yaml:"map_format"`
	UseCompression       bool    `yaml:"use_compression"`
	ObjectSpaceNormals   bool    `yaml:"object_space_normals"`

	PositionQuantizationBits  int `yaml:"position_quantization_bits"`
	TexCoordsQuantizationBits int `yaml:"texcoords_quantization_bits"`
	NormalsQuantizationBits   int `yaml:"normals_quantization_bits"`
	GenericQuantizationBits   int `yaml:"generic_quantization_bits"`
	CompressionLevel          int `yaml:"compression_level"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config whose transform settings are all no-ops.
func Default() *Config {
	return &Config{
		Format: FormatGltfx,
		Scale:  1,
		Matrix: [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},

		MetallicFactor:  0.1,
		RoughnessFactor: 0.8,

		PositionQuantizationBits:  14,
		TexCoordsQuantizationBits: 12,
		NormalsQuantizationBits:   10,
		GenericQuantizationBits:   8,
		CompressionLevel:          7,

		Logging: LoggingConfig{Level: "info"},
	}
}

// IsSpecializedFormat reports whether the format id selects the glTF
// exporter.
func (c *Config) IsSpecializedFormat() bool {
	return c.Format == FormatGltfx || c.Format == FormatGlbx
}

// HasAlign reports whether any axis has an alignment mode.
func (c *Config) HasAlign() bool {
	return c.AlignX != AlignNone || c.AlignY != AlignNone || c.AlignZ != AlignNone
}

// MapFiles returns the six optional map paths keyed by slot name.
func (c *Config) MapFiles() map[string]string {
	return map[string]string{
		"diffuse":           c.DiffuseMap,
		"occlusion":         c.OcclusionMap,
		"emissive":          c.EmissiveMap,
		"metallicRoughness": c.MetallicRoughnessMap,
		"zone":              c.ZoneMap,
		"normal":            c.NormalMap,
	}
}
