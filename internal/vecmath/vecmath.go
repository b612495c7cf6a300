// Package vecmath implements the small set of 3-vector and 3x3-matrix
// routines the projection engine needs, with the exact numeric semantics
// of the NAIF SPICE toolkit equivalents (VHAT, MTXV, RADREC, VROTV, ...).
// It is internal because it is not a general linear-algebra API: rounding
// and degenerate-input behavior are pinned to the legacy renderer.
package vecmath

import "math"

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Mat3 is a 3x3 matrix in row-major order.
type Mat3 [3]Vec3

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns s * v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v[0], s * v[1], s * v[2]}
}

// Neg returns the negation of v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Hat returns the unit vector along v, or the zero vector when v is zero
// (SPICE VHAT convention).
func (v Vec3) Hat() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// Lcom returns the linear combination a*v + b*w (SPICE VLCOM).
func Lcom(a float64, v Vec3, b float64, w Vec3) Vec3 {
	return Vec3{
		a*v[0] + b*w[0],
		a*v[1] + b*w[1],
		a*v[2] + b*w[2],
	}
}

// Sep returns the angular separation between v and w in radians.
func Sep(v, w Vec3) float64 {
	d := v.Hat().Dot(w.Hat())
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// MTxV returns transpose(m) * v (SPICE MTXV). The camera transform stores
// its basis vectors in columns, so this maps reference-frame vectors into
// the camera frame.
func (m Mat3) MTxV(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
}

// Col returns column j of m.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[0][j], m[1][j], m[2][j]}
}

// RadRec converts spherical coordinates (range, longitude, latitude) to a
// rectangular vector (SPICE RADREC). Angles are in radians.
func RadRec(r, lon, lat float64) Vec3 {
	cosLat := math.Cos(lat)
	return Vec3{
		r * cosLat * math.Cos(lon),
		r * cosLat * math.Sin(lon),
		r * math.Sin(lat),
	}
}

// RecRad converts a rectangular vector to spherical coordinates
// (range, longitude, latitude), the inverse of RadRec (SPICE RECRAD).
// The zero vector maps to (0, 0, 0).
func RecRad(v Vec3) (r, lon, lat float64) {
	r = v.Norm()
	if r < 1e-15 {
		return 0, 0, 0
	}
	lon = math.Atan2(v[1], v[0])
	s := v[2] / r
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	lat = math.Asin(s)
	return r, lon, lat
}

// RotV rotates v about axis by angle radians using the right-hand rule
// (SPICE VROTV). A zero axis returns v unchanged.
func RotV(v, axis Vec3, angle float64) Vec3 {
	ax := axis.Hat()
	if ax.Norm() == 0 {
		return v
	}
	ca := math.Cos(angle)
	sa := math.Sin(angle)
	dot := v.Dot(ax)
	cross := ax.Cross(v)
	return Vec3{
		v[0]*ca + cross[0]*sa + ax[0]*dot*(1-ca),
		v[1]*ca + cross[1]*sa + ax[1]*dot*(1-ca),
		v[2]*ca + cross[2]*sa + ax[2]*dot*(1-ca),
	}
}

// Perp returns the component of v perpendicular to w (SPICE VPERP).
func Perp(v, w Vec3) Vec3 {
	wh := w.Hat()
	return v.Sub(wh.Scale(v.Dot(wh)))
}

// Frame builds a right-handed orthonormal frame whose first axis is the
// unit vector along x (SPICE FRAME). The second axis is chosen against the
// smallest component of x so the construction is stable for any input.
func Frame(x Vec3) (xh, y, z Vec3) {
	xh = x.Hat()
	ax, ay, az := math.Abs(xh[0]), math.Abs(xh[1]), math.Abs(xh[2])
	var ref Vec3
	switch {
	case ax <= ay && ax <= az:
		ref = Vec3{1, 0, 0}
	case ay <= ax && ay <= az:
		ref = Vec3{0, 1, 0}
	default:
		ref = Vec3{0, 0, 1}
	}
	y = xh.Cross(ref).Hat()
	z = xh.Cross(y)
	return xh, y, z
}

// NInt rounds half away from zero and returns an int, the FORTRAN
// NINT/IDNINT convention.
func NInt(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}

// OpSgnd reports whether a and b have strictly opposite signs
// (FORTRAN OPSGND: zero is neither positive nor negative).
func OpSgnd(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
