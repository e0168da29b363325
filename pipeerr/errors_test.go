package pipeerr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.True(t, IsConfig(Config("invalid output format id: %s", "foo")))
	assert.True(t, IsImport(Import("failed")))
	assert.True(t, IsExport(Export("failed")))
	assert.False(t, IsConfig(fmt.Errorf("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindExport, cause, "failed to write output file: a.obj")
	assert.True(t, IsExport(err))
	assert.Equal(t, "failed to write output file: a.obj: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	// an existing kind survives rewrapping
	cfg := Config("bad swizzle")
	assert.Same(t, cfg, Wrap(KindExport, cfg, "ignored"))

	wrapped := errors.Wrap(cfg, "context")
	assert.True(t, IsConfig(wrapped))
	assert.Nil(t, Wrap(KindImport, nil, "x"))
}
