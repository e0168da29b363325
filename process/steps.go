package process

import (
	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/geom"
	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/scene"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"go.uber.org/zap"
)

// Step is one entry of the transform pipeline. Enabled decides from the
// configuration whether the step is a no-op and can be skipped. Fields, when
// set, describes the step's parameters in the log.
type Step struct {
	Name    string
	Enabled func(cfg *config.Config) bool
	Apply   func(s *scene.Scene, cfg *config.Config) error
	Fields  func(cfg *config.Config) []zap.Field
}

// Steps is the fixed transform order. Later steps see the geometry produced
// by earlier ones.
var Steps = []Step{
	{
		Name:    "swizzle",
		Enabled: func(cfg *config.Config) bool { return cfg.Swizzle != "" },
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			return Swizzle(s, cfg.Swizzle)
		},
		Fields: func(cfg *config.Config) []zap.Field {
			return []zap.Field{zap.String("swizzle", cfg.Swizzle)}
		},
	},
	{
		Name:    "scale",
		Enabled: func(cfg *config.Config) bool { return cfg.Scale != 1 },
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			return Scale(s, cfg.Scale)
		},
		Fields: func(cfg *config.Config) []zap.Field {
			return []zap.Field{zap.Float64("scale", cfg.Scale)}
		},
	},
	{
		Name:    "align",
		Enabled: func(cfg *config.Config) bool { return cfg.HasAlign() },
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			Align(s, cfg.AlignX, cfg.AlignY, cfg.AlignZ)
			return nil
		},
		Fields: func(cfg *config.Config) []zap.Field {
			return []zap.Field{
				zap.Stringer("x", cfg.AlignX),
				zap.Stringer("y", cfg.AlignY),
				zap.Stringer("z", cfg.AlignZ),
			}
		},
	},
	{
		Name:    "translate",
		Enabled: func(cfg *config.Config) bool { return cfg.Translate != [3]float64{} },
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			Translate(s, dvec3.T(cfg.Translate))
			return nil
		},
		Fields: func(cfg *config.Config) []zap.Field {
			return []zap.Field{zap.Float64s("offset", cfg.Translate[:])}
		},
	},
	{
		Name: "transform",
		Enabled: func(cfg *config.Config) bool {
			m := geom.FromColumnMajor(cfg.Matrix)
			return !geom.IsIdentity(&m)
		},
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			m := geom.FromColumnMajor(cfg.Matrix)
			return Transform(s, &m)
		},
		Fields: func(cfg *config.Config) []zap.Field {
			return []zap.Field{zap.Float64s("matrix", cfg.Matrix[:])}
		},
	},
	{
		Name:    "flipUVs",
		Enabled: func(cfg *config.Config) bool { return cfg.FlipUV },
		Apply: func(s *scene.Scene, cfg *config.Config) error {
			// only V is ever flipped from the pipeline
			FlipUVs(s, false, true)
			return nil
		},
		Fields: func(*config.Config) []zap.Field {
			return []zap.Field{zap.String("flip", "v")}
		},
	},
}

// Validate checks the parameters of every enabled step before anything is
// mutated.
func Validate(cfg *config.Config) error {
	if cfg.Swizzle != "" {
		if _, err := geom.ParseSwizzle(cfg.Swizzle); err != nil {
			return pipeerr.Config("%v", err)
		}
	}
	if !(cfg.Scale > 0) {
		return pipeerr.Config("scale factor must be positive, got %g", cfg.Scale)
	}
	m := geom.FromColumnMajor(cfg.Matrix)
	if !geom.IsIdentity(&m) {
		if _, err := geom.NormalMatrix(&m); err != nil {
			return pipeerr.Config("transform matrix: %v", err)
		}
	}
	return nil
}

// Run validates cfg and then applies every enabled step in order. Steps are
// logged at info level when cfg.Verbose is set.
func Run(s *scene.Scene, cfg *config.Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	log := logger.Debug
	if cfg.Verbose {
		log = logger.Info
	}
	for _, step := range Steps {
		if !step.Enabled(cfg) {
			continue
		}
		fields := []zap.Field{zap.String("step", step.Name)}
		if step.Fields != nil {
			fields = append(fields, step.Fields(cfg)...)
		}
		log("apply transform", fields...)
		if err := step.Apply(s, cfg); err != nil {
			return err
		}
	}
	return nil
}
