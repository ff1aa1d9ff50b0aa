package geom

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 float32 transform stored column-major, so element (row r,
// column c) is m[c*4+r]. Translation lives in m[12], m[13], m[14].
type Matrix4 [16]float32

// Identity returns the identity transform.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that moves points by (x, y, z).
func Translation(x, y, z float32) Matrix4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns a transform that scales points by (x, y, z).
func Scaling(x, y, z float32) Matrix4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Mul returns m*o: o is applied first, then m.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// IsIdentity reports whether m is the identity within float tolerance.
func (m Matrix4) IsIdentity() bool {
	id := Identity()
	for i := range m {
		if math32.Abs(m[i]-id[i]) > 1e-6 {
			return false
		}
	}
	return true
}

// TransformPoint applies m to the 2D point p (z = 0, w = 1).
func (m Matrix4) TransformPoint(p Point[float32]) Point[float32] {
	x := m[0]*p.X + m[4]*p.Y + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[13]
	w := m[3]*p.X + m[7]*p.Y + m[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Point[float32]{x, y}
}
