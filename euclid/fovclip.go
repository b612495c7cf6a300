package euclid

import (
	"math"

	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// fovClip clips the camera-frame segment p-q against the cone of half
// angle acos(cosFOV) about +Z. Endpoints outside the cone are moved onto
// it rather than dropped, so closed polygons stay closed. A segment with
// no surviving portion collapses to a single point on the cone, which the
// later rectangular clip discards.
func fovClip(p, q vecmath.Vec3, cosFOV float64) (vecmath.Vec3, vecmath.Vec3) {
	x := p.Hat()
	y := q.Hat()
	if x[2] >= cosFOV && y[2] >= cosFOV {
		return p, q
	}

	cosSqr := cosFOV * cosFOV
	d := q.Sub(p)

	// The cone constraint z = cosFOV*|v| along p + t*d is a quadratic
	// in t.
	c := p[2]*p[2] - cosSqr*p.Dot(p)
	b := p[2]*d[2] - cosSqr*p.Dot(d)
	a := d[2]*d[2] - cosSqr*d.Dot(d)

	discrm := b*b - a*c
	var ts []float64
	dump := false
	switch {
	case discrm <= 0:
		dump = true
	case a == 0:
		if b != 0 {
			ts = append(ts, -c/b)
		} else {
			dump = true
		}
	default:
		sq := math.Sqrt(discrm)
		ts = append(ts, (-b+sq)/a, (-b-sq)/a)
	}

	valid := ts[:0]
	for _, t := range ts {
		if 0 < t && t < 1 {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		dump = true
	}
	if dump {
		pt := conePoint(cosFOV)
		return pt, pt
	}

	switch {
	case x[2] >= cosFOV && y[2] < cosFOV:
		s := valid[0]
		for _, t := range valid[1:] {
			s = math.Min(s, t)
		}
		return p, vecmath.Lcom(1-s, p, s, q)
	case x[2] < cosFOV && y[2] >= cosFOV:
		s := valid[0]
		for _, t := range valid[1:] {
			s = math.Max(s, t)
		}
		return vecmath.Lcom(1-s, p, s, q), q
	case p[2] > 0 && q[2] > 0 && len(valid) >= 2:
		return vecmath.Lcom(1-valid[0], p, valid[0], q),
			vecmath.Lcom(1-valid[1], p, valid[1], q)
	default:
		pt := conePoint(cosFOV)
		return pt, pt
	}
}

func conePoint(cosFOV float64) vecmath.Vec3 {
	return vecmath.Vec3{math.Sqrt(1 - cosFOV*cosFOV), 0, cosFOV}
}

// insideCone reports whether v lies within the cone of half angle
// acos(cosFOV) about +Z.
func insideCone(v vecmath.Vec3, cosFOV float64) bool {
	return v.Hat()[2] >= cosFOV
}

// diskOverlap classifies the overlap of two disks seen from the origin,
// each given by its center direction and linear radius. It returns 0 for
// disjoint, 1 when disk one lies inside disk two, 2 when disk two lies
// inside disk one, 3 for partial overlap, and -1 when either center is at
// the origin.
func diskOverlap(c1 vecmath.Vec3, r1 float64, c2 vecmath.Vec3, r2 float64) int {
	a := c1.Norm()
	b := c2.Norm()
	if a == 0 || b == 0 {
		return -1
	}

	tAlpha := r1 / a
	tBeta := r2 / b
	cAlpha := 1 / math.Sqrt(1+tAlpha*tAlpha)
	cBeta := 1 / math.Sqrt(1+tBeta*tBeta)

	gamma := vecmath.Sep(c1, c2)
	alpha := math.Atan2(tAlpha*cAlpha, cAlpha)
	beta := math.Atan2(tBeta*cBeta, cBeta)

	if alpha+beta <= gamma {
		return 0
	}
	switch {
	case alpha+gamma <= beta:
		return 1
	case beta+gamma <= alpha:
		return 2
	default:
		return 3
	}
}
