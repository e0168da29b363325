package config

import (
	"fmt"

	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/pipeerr"
	"go.uber.org/multierr"
)

const (
	minQuantizationBits = 1
	maxQuantizationBits = 30
	maxCompressionLevel = 10
)

// Validate reports every invalid setting at once as a single ConfigError.
// Output format ids are checked later against the exporter registry.
func (c *Config) Validate() error {
	var errs error

	if c.Input == "" {
		errs = multierr.Append(errs, fmt.Errorf("no input file given"))
	}
	if c.Format == "" {
		errs = multierr.Append(errs, fmt.Errorf("no output format given"))
	}
	if c.Swizzle != "" {
		if _, err := geom.ParseSwizzle(c.Swizzle); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if !(c.Scale > 0) {
		errs = multierr.Append(errs, fmt.Errorf("scale factor must be positive, got %g", c.Scale))
	}
	m := geom.FromColumnMajor(c.Matrix)
	if !geom.IsIdentity(&m) {
		if _, err := geom.NormalMatrix(&m); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("transform matrix: %w", err))
		}
	}
	for _, a := range []Align{c.AlignX, c.AlignY, c.AlignZ} {
		if a < AlignNone || a > AlignMax {
			errs = multierr.Append(errs, fmt.Errorf("invalid align mode %d", int(a)))
		}
	}
	switch c.MapFormat {
	case "", "png", "webp":
	default:
		errs = multierr.Append(errs, fmt.Errorf("invalid map format %q", c.MapFormat))
	}
	if c.IsSpecializedFormat() && c.UseCompression {
		bits := map[string]int{
			"position":  c.PositionQuantizationBits,
			"texcoords": c.TexCoordsQuantizationBits,
			"normals":   c.NormalsQuantizationBits,
			"generic":   c.GenericQuantizationBits,
		}
		for _, name := range []string{"position", "texcoords", "normals", "generic"} {
			if b := bits[name]; b < minQuantizationBits || b > maxQuantizationBits {
				errs = multierr.Append(errs, fmt.Errorf("%s quantization bits must be in [%d, %d], got %d",
					name, minQuantizationBits, maxQuantizationBits, b))
			}
		}
		if c.CompressionLevel < 0 || c.CompressionLevel > maxCompressionLevel {
			errs = multierr.Append(errs, fmt.Errorf("compression level must be in [0, %d], got %d",
				maxCompressionLevel, c.CompressionLevel))
		}
	}

	if errs == nil {
		return nil
	}
	return &pipeerr.Error{Kind: pipeerr.KindConfig, Msg: "invalid configuration", Err: errs}
}
