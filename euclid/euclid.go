// Package euclid projects 3D scene geometry into the 2D segments the
// escher layer strokes. It owns the camera transform and the field-of-view
// cone: bodies become closed limb polygons, rings become foreshortened
// ellipse arcs with the far arc suppressed behind the primary body, and
// stars become small line glyphs. Everything it emits goes through an
// escher.View, so draw order here is paint order on the page.
package euclid

import (
	"math"

	"github.com/SETI/rms-planetviewer/escher"
)

const (
	// StdSeg is the number of points on the standard unit circle used to
	// approximate limbs and rings. It must be divisible by 8; the trig
	// table is built by quadrant reflection.
	StdSeg = 96

	// MaxFOV is the hard ceiling on the field-of-view half angle. The
	// clip cone never opens wider than this regardless of the requested
	// chart FOV.
	MaxFOV = math.Pi * 5.0 / 12.0
)

// Gray indices for scene line work. The values index the device gray
// table: 1 is black, 7 a mid gray for unlit limbs, night-side grids and
// terminators.
const (
	LineLit  = 1
	LineDark = 7
	LineAxis = 1
	LineStar = 1

	// LineNone suppresses a feature: as a Body.TermGray it skips the
	// terminator, and as a segment gray the device drops the chain.
	LineNone = escher.GrayInvisible
)

// StarFontPlus is the default star glyph: a two-segment "+" cross in unit
// glyph coordinates. Glyph tables are data; alternate glyphs plug into
// ProjectStar without touching projection code.
var StarFontPlus = [][2][2]float64{
	{{-1, 0}, {1, 0}},
	{{0, -1}, {0, 1}},
}

// stdCos and stdSin hold the standard circle, index 0..StdSeg with the
// endpoints duplicated (index StdSeg equals index 0 up to sign). The first
// octant is computed directly and the rest reflected, matching the legacy
// table so the polygon vertices agree bit for bit.
var stdCos, stdSin [StdSeg + 1]float64

func init() {
	angle := 2 * math.Pi / float64(StdSeg)
	q4 := StdSeg / 4
	stdCos[q4] = 0
	stdSin[q4] = 1

	q8 := StdSeg / 8
	for i := 1; i <= q8; i++ {
		stdCos[i] = math.Cos(float64(i) * angle)
		stdSin[i] = math.Sin(float64(i) * angle)
	}
	for i := q8 + 1; i < q4; i++ {
		stdSin[i] = stdCos[q4-i]
		stdCos[i] = stdSin[q4-i]
	}
	j := 1
	for i := q4 + 1; i <= StdSeg; i++ {
		stdCos[i] = -stdSin[j]
		stdSin[i] = stdCos[j]
		j++
	}
	stdCos[0] = 1
	stdSin[0] = 0
}

// segmentSkip picks the stride through the standard circle for a feature
// of the given physical semi-major axis at the given camera-frame center.
// Small features use fewer vertices.
func segmentSkip(major float64, dist, fovRad float64) int {
	ratio := 1.0
	if dist > 0 && fovRad > 0 {
		ratio = major / (dist * fovRad)
	}
	switch {
	case ratio > 0.2:
		return 1
	case ratio > 0.1:
		return 2
	case ratio > 0.04:
		return 3
	case ratio > 0.01:
		return 4
	default:
		return 6
	}
}
