package geom

import (
	"fmt"
	"strings"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// Swizzle is a signed permutation of the three axes: output axis i takes
// Sign[i] * input[Source[i]].
type Swizzle struct {
	Source [3]int
	Sign   [3]float64
}

// IdentitySwizzle maps every axis onto itself.
var IdentitySwizzle = Swizzle{Source: [3]int{0, 1, 2}, Sign: [3]float64{1, 1, 1}}

// ParseSwizzle reads three axis tokens, each an optional '+' or '-' followed
// by X, Y or Z. "X-ZY" maps (x, y, z) to (x, -z, y).
func ParseSwizzle(spec string) (Swizzle, error) {
	var sw Swizzle
	var used [3]bool
	axis := 0
	sign := 1.0
	signed := false

	for _, c := range strings.ToUpper(strings.TrimSpace(spec)) {
		switch c {
		case '+', '-':
			if signed {
				return sw, fmt.Errorf("invalid swizzle %q: repeated sign", spec)
			}
			signed = true
			if c == '-' {
				sign = -1
			}
		case 'X', 'Y', 'Z':
			if axis == 3 {
				return sw, fmt.Errorf("invalid swizzle %q: more than three axes", spec)
			}
			src := int(c - 'X')
			if used[src] {
				return sw, fmt.Errorf("invalid swizzle %q: axis %c used twice", spec, c)
			}
			used[src] = true
			sw.Source[axis] = src
			sw.Sign[axis] = sign
			axis++
			sign = 1
			signed = false
		default:
			return sw, fmt.Errorf("invalid swizzle %q: unexpected %q", spec, c)
		}
	}
	if axis != 3 || signed {
		return sw, fmt.Errorf("invalid swizzle %q: expected three axes", spec)
	}
	return sw, nil
}

func (s Swizzle) IsIdentity() bool {
	return s == IdentitySwizzle
}

func (s Swizzle) Apply(v vec3.T) vec3.T {
	var out vec3.T
	for i := 0; i < 3; i++ {
		out[i] = float32(s.Sign[i]) * v[s.Source[i]]
	}
	return out
}

// Matrix returns the swizzle as a 3×3 linear map.
func (s Swizzle) Matrix() Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		m[i*3+s.Source[i]] = s.Sign[i]
	}
	return m
}

func (s Swizzle) ApplyD(v dvec3.T) dvec3.T {
	return s.Matrix().MulVec3(v)
}
