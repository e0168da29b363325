package gltfx

import "fmt"

const (
	MinQuantizationBits = 1
	MaxQuantizationBits = 30
	MaxCompressionLevel = 10
)

// Compression holds attribute quantization settings. Bit counts apply per
// component; Level 0 only snaps values, higher levels also weld vertices
// that become identical after snapping.
type Compression struct {
	PositionBits int
	TexCoordBits int
	NormalBits   int
	GenericBits  int
	Level        int
}

func DefaultCompression() Compression {
	return Compression{
		PositionBits: 14,
		TexCoordBits: 12,
		NormalBits:   10,
		GenericBits:  8,
		Level:        7,
	}
}

// Validate reports the first bit count or level outside its range.
func (c Compression) Validate() error {
	bits := []struct {
		name string
		v    int
	}{
		{"position", c.PositionBits},
		{"texcoords", c.TexCoordBits},
		{"normals", c.NormalBits},
		{"generic", c.GenericBits},
	}
	for _, b := range bits {
		if b.v < MinQuantizationBits || b.v > MaxQuantizationBits {
			return fmt.Errorf("%s quantization bits must be in [%d, %d], got %d",
				b.name, MinQuantizationBits, MaxQuantizationBits, b.v)
		}
	}
	if c.Level < 0 || c.Level > MaxCompressionLevel {
		return fmt.Errorf("compression level must be in [0, %d], got %d", MaxCompressionLevel, c.Level)
	}
	return nil
}

// Map slots attached to every exported material.
type Maps struct {
	Diffuse           string
	Occlusion         string
	Emissive          string
	MetallicRoughness string
	Zone              string
	Normal            string
}

func (m Maps) Any() bool {
	return m.Diffuse != "" || m.Occlusion != "" || m.Emissive != "" ||
		m.MetallicRoughness != "" || m.Zone != "" || m.Normal != ""
}

const (
	MapFormatKeep = ""
	MapFormatPNG  = "png"
	MapFormatWebP = "webp"
)

type Options struct {
	Verbose bool

	MetallicFactor  float32
	RoughnessFactor float32

	Maps      Maps
	EmbedMaps bool
	// MapFormat selects the encoding of embedded maps: keep the source
	// encoding where glTF allows it, or re-encode as png or webp.
	MapFormat string

	UseCompression     bool
	ObjectSpaceNormals bool
	StripNormals       bool
	StripTexCoords     bool
	WriteBinary        bool

	Compression Compression
}

// PlainOptions is what the generic gltf2/glb2 formats use: no maps, no
// quantization, material factors taken from the scene.
func PlainOptions(binary bool) *Options {
	return &Options{
		MetallicFactor:  -1,
		RoughnessFactor: -1,
		WriteBinary:     binary,
		Compression:     DefaultCompression(),
	}
}
