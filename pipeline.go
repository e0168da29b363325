package meshpipe

import (
	"io"

	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/export"
	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/process"
	"github.com/flywave/go-meshpipe/report"
	"github.com/flywave/go-meshpipe/scene"

	"go.uber.org/zap"
)

// Scene drives one pipeline run: Load, Process, Report, Save. It is not safe
// for concurrent use.
type Scene struct {
	cfg      *config.Config
	registry *export.Registry
	scene    *scene.Scene
}

func NewScene(cfg *config.Config) *Scene {
	return &Scene{cfg: cfg, registry: export.NewRegistry()}
}

// Registry exposes the generic exporter table so hosts can add formats.
func (s *Scene) Registry() *export.Registry { return s.registry }

// Graph returns the loaded scene graph, or nil before Load.
func (s *Scene) Graph() *scene.Scene { return s.scene }

func (s *Scene) verbose(msg string, fields ...zap.Field) {
	if s.cfg.Verbose {
		logger.Info(msg, fields...)
	} else {
		logger.Debug(msg, fields...)
	}
}

// StripMask returns the components removed on import for cfg.
func StripMask(cfg *config.Config) postprocess.Component {
	strip := postprocess.DefaultStrip
	if cfg.StripNormals {
		strip |= postprocess.ComponentNormals | postprocess.ComponentTangentsAndBitangents
	}
	if cfg.StripTexCoords {
		strip |= postprocess.ComponentTexCoords
	}
	return strip
}

// Load imports the configured input file.
func (s *Scene) Load() error {
	if s.cfg.StripNormals {
		s.verbose("strip normals/tangents")
	}
	if s.cfg.StripTexCoords {
		s.verbose("strip texcoords")
	}
	sc, err := ReadFile(s.cfg.Input, StripMask(s.cfg), postprocess.ImportSteps)
	if err != nil {
		return err
	}
	s.scene = sc
	return nil
}

// Process runs the transform pipeline on the loaded scene.
func (s *Scene) Process() error {
	if s.scene == nil {
		return pipeerr.Import("failed to read input file: %s, reason: no scene loaded", s.cfg.Input)
	}
	return process.Run(s.scene, s.cfg)
}

// Report writes the statistics document for the current scene to w.
func (s *Scene) Report(w io.Writer) error {
	if s.scene == nil {
		return pipeerr.Import("failed to read input file: %s, reason: no scene loaded", s.cfg.Input)
	}
	return report.Write(w, report.Build(s.scene, s.cfg.Input))
}

// Dump writes the human readable scene summary to w.
func (s *Scene) Dump(w io.Writer) error {
	if s.scene == nil {
		return pipeerr.Import("failed to read input file: %s, reason: no scene loaded", s.cfg.Input)
	}
	return report.Dump(w, s.scene, s.cfg.Input)
}

// Save resolves the exporter for the configured format and writes the
// scene. An unknown format id fails before anything is written.
func (s *Scene) Save() error {
	if s.scene == nil {
		return pipeerr.Import("failed to read input file: %s, reason: no scene loaded", s.cfg.Input)
	}
	target, err := export.Resolve(s.cfg, s.registry)
	if err != nil {
		return err
	}
	switch t := target.(type) {
	case *export.GltfxTarget:
		s.verbose("exporting custom glTF", zap.Bool("binary", t.Options.WriteBinary))
	case *export.GenericTarget:
		s.verbose("export format", zap.String("description", t.Format.Description))
		if t.Flags.JoinIdenticalVertices {
			s.verbose("join identical vertices")
		}
	}
	s.verbose("writing to output file", zap.String("path", target.Path()))
	return target.Execute(s.scene)
}

// Close releases the loaded scene. It is safe to call more than once.
func (s *Scene) Close() error {
	s.scene = nil
	return nil
}

// Run executes a complete pipeline for cfg. The report document, when
// requested, is written to w; the returned status describes the outcome.
func Run(cfg *config.Config, w io.Writer) report.StatusDoc {
	return report.Status(run(cfg, w))
}

func run(cfg *config.Config, w io.Writer) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s := NewScene(cfg)
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := s.Load(); err != nil {
		return err
	}
	if err := s.Process(); err != nil {
		return err
	}
	if cfg.Report {
		if err := s.Report(w); err != nil {
			return pipeerr.Wrap(pipeerr.KindExport, err, "failed to write report")
		}
	}
	if err := s.Save(); err != nil {
		return err
	}
	logger.Debug("pipeline finished", zap.String("input", cfg.Input))
	return nil
}
