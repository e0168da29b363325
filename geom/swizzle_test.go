package geom

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSwizzle(t *testing.T) {
	sw, err := ParseSwizzle("X-ZY")
	require.NoError(t, err)
	assert.Equal(t, vec3.T{1, -3, 2}, sw.Apply(vec3.T{1, 2, 3}))
	assert.Equal(t, dvec3.T{1, -3, 2}, sw.ApplyD(dvec3.T{1, 2, 3}))

	sw, err = ParseSwizzle("+x+y+z")
	require.NoError(t, err)
	assert.True(t, sw.IsIdentity())

	sw, err = ParseSwizzle("-Y X Z")
	require.Error(t, err, "spaces are not axis tokens")

	sw, err = ParseSwizzle("-YXZ")
	require.NoError(t, err)
	assert.Equal(t, vec3.T{-2, 1, 3}, sw.Apply(vec3.T{1, 2, 3}))
}

func TestParseSwizzleErrors(t *testing.T) {
	for _, spec := range []string{"", "XY", "XYZX", "XXZ", "X--YZ", "XYZ-", "ABC", "X+Y+"} {
		_, err := ParseSwizzle(spec)
		assert.Error(t, err, spec)
	}
}
