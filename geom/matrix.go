package geom

import (
	"errors"
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

var ErrSingular = errors.New("matrix is singular")

// Mat3 is a 3×3 matrix stored row-major.
type Mat3 [9]float64

// FromColumnMajor builds a mat4 from 16 values in glTF/column-major order.
func FromColumnMajor(a [16]float64) dmat.T {
	var m dmat.T
	m[0] = dvec4.T{a[0], a[1], a[2], a[3]}
	m[1] = dvec4.T{a[4], a[5], a[6], a[7]}
	m[2] = dvec4.T{a[8], a[9], a[10], a[11]}
	m[3] = dvec4.T{a[12], a[13], a[14], a[15]}
	return m
}

// IdentityArray is the column-major identity.
func IdentityArray() [16]float64 {
	return [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func IsIdentity(m *dmat.T) bool {
	return *m == dmat.Ident
}

// Linear returns the upper-left 3×3 block of m.
func Linear(m *dmat.T) Mat3 {
	// m[col][row]
	return Mat3{
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

func (m Mat3) Inverse() (Mat3, error) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Mat3{}, ErrSingular
	}
	inv := 1 / det
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, nil
}

func (m Mat3) MulVec3(v dvec3.T) dvec3.T {
	return dvec3.T{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// NormalMatrix is the inverse transpose of m's linear part.
func NormalMatrix(m *dmat.T) (Mat3, error) {
	inv, err := Linear(m).Inverse()
	if err != nil {
		return Mat3{}, err
	}
	return inv.Transpose(), nil
}
