// Package meshpipe loads a 3D scene, runs the configured transform pipeline
// on it and writes it out again.
package meshpipe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/postprocess"
	"github.com/flywave/go-meshpipe/scene"

	"go.uber.org/zap"
)

const (
	OBJ     = ".obj"
	STL     = ".stl"
	GLTF    = ".gltf"
	GLB     = ".glb"
	FBX     = ".fbx"
	THREEDS = ".3ds"
	DAE     = ".dae"
	TBIN    = ".bin"
	JSBIN   = ".jsbin"
)

// Importer reads one file into a scene. Faces may be arbitrary polygons;
// triangulation and vertex joining happen afterwards.
type Importer interface {
	Import(path string) (*scene.Scene, error)
}

// ImporterFactory returns the importer for a lower-cased file extension,
// or nil.
func ImporterFactory(ext string) Importer {
	switch ext {
	case THREEDS:
		return &ThreeDsImporter{}
	case DAE:
		return &DaeImporter{}
	case FBX:
		return &FbxImporter{}
	case GLTF, GLB:
		return &GltfImporter{}
	case OBJ:
		return &ObjImporter{}
	case TBIN, JSBIN:
		return &ThreejsBinImporter{}
	case STL:
		return &StlImporter{}
	}
	return nil
}

// SupportedExtensions lists every extension ImporterFactory knows.
func SupportedExtensions() []string {
	return []string{OBJ, STL, GLTF, GLB, FBX, THREEDS, DAE, TBIN, JSBIN}
}

// ReadFile imports path and runs the import-side post-processing steps.
func ReadFile(path string, strip postprocess.Component, steps postprocess.Step) (*scene.Scene, error) {
	fail := func(reason interface{}) error {
		return pipeerr.Import("failed to read input file: %s, reason: %v", path, reason)
	}

	ext := strings.ToLower(filepath.Ext(path))
	imp := ImporterFactory(ext)
	if imp == nil {
		return nil, fail("unsupported file extension " + ext)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fail(err)
	}

	s, err := imp.Import(path)
	if err != nil {
		return nil, fail(err)
	}
	if err := s.Validate(); err != nil {
		return nil, fail(err)
	}

	postprocess.Apply(s, strip, steps)
	logger.Debug("scene imported",
		zap.String("path", path),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("vertices", s.NumVertices()),
		zap.Int("faces", s.NumFaces()))
	return s, nil
}
