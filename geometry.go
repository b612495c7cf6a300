package planetview

import (
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// Geometry supplies the positional state of one observation epoch. All
// vectors are in the J2000 reference frame and one consistent length
// unit (conventionally km). Implementations wrap an ephemeris service;
// the chart itself performs no dynamics.
//
// Any error is treated as fatal and reported before drawing begins, so a
// failed lookup never leaves a half-drawn chart body.
type Geometry interface {
	// ObserverPosition returns the observer's position.
	ObserverPosition() (vecmath.Vec3, error)

	// BodyPosition returns the apparent position of a body, light travel
	// time already applied.
	BodyPosition(id int) (vecmath.Vec3, error)

	// BodyRadius returns the body's equatorial radius.
	BodyRadius(id int) (float64, error)

	// BodyPole returns the unit direction of the body's rotation axis,
	// used to orient its surface grid.
	BodyPole(id int) (vecmath.Vec3, error)

	// RingGeometry returns the unit ring-plane pole of the body's ring
	// system.
	RingGeometry(id int) (vecmath.Vec3, error)

	// SunDirection returns the unit direction from the body to the Sun
	// and the Sun's angular radius seen from there, in radians.
	SunDirection(id int) (vecmath.Vec3, float64, error)
}
