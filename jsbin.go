package meshpipe

import (
	"github.com/flywave/go-meshpipe/scene"

	jsbin "github.com/flywave/go-3jsbin"
	"github.com/pkg/errors"
)

// ThreejsBinImporter reads three.js binary model files.
type ThreejsBinImporter struct{}

func (cv *ThreejsBinImporter) Import(path string) (*scene.Scene, error) {
	mh, err := jsbin.ThreejsBin2Mst(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parse three.js binary %s", path)
	}
	return mstToScene(mh), nil
}
