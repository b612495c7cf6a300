package planetview

import (
	"time"

	"github.com/SETI/rms-planetviewer/starcat"
)

// Caption is one row of the two-column caption block under the chart.
// Left text is right-aligned against the alignment point, Right text
// left-aligned after it.
type Caption struct {
	Left  string
	Right string
}

// Moon selects one satellite for the chart. ID is the body identifier
// passed to the Geometry provider; Name, when non-empty, is the label
// drawn next to the moon.
type Moon struct {
	ID   int
	Name string
}

// RingSpec describes one ring of the target body. Radius is in the same
// length unit the Geometry provider uses. Dashed rings stroke with a
// dash pattern and never render as unlit.
type RingSpec struct {
	Radius float64
	Dashed bool
}

// DefaultAlignPts is the caption alignment point used when
// Options.AlignPts is zero.
const DefaultAlignPts = 234.0

// DefaultStarPts is the glyph diameter of a magnitude-zero star.
const DefaultStarPts = 24.0

// Options describes one chart. Target, CenterRA, CenterDec and FOV are
// required; everything else has a usable zero value.
type Options struct {
	// Target is the body identifier of the primary, resolved through the
	// Geometry provider. TargetName appears in the credit footer and the
	// %%Creator header comment.
	Target     int
	TargetName string

	// Chart center in J2000, radians. FOV is the full field of view in
	// radians and must lie in (0, pi); the projection additionally caps
	// the half angle at 75 degrees.
	CenterRA  float64
	CenterDec float64
	FOV       float64

	Title    string
	Captions []Caption
	// AlignPts positions the caption columns, in printer points from the
	// left page edge. Zero selects DefaultAlignPts.
	AlignPts float64

	Moons []Moon
	// MoonLabelPts enables moon name labels at the given font size in
	// printer points; zero disables labels.
	MoonLabelPts float64
	// MoonDiamPts is the minimum apparent moon diameter in printer
	// points. Moons smaller than this are stroked with a width that pads
	// them up to it.
	MoonDiamPts float64

	// BlankDisks suppresses the meridian/latitude grid on every disk and
	// draws the terminator in the lit gray instead of the dark one.
	BlankDisks bool

	Rings []RingSpec

	Stars      []starcat.Star
	StarLabels bool
	// StarPts scales star glyphs: a magnitude-zero star is drawn StarPts
	// points across. Zero selects DefaultStarPts.
	StarPts float64

	// ShareURL, when non-empty, is encoded as a QR glyph in the page
	// corner.
	ShareURL string

	// Now supplies the timestamp for the credit footer. Nil means
	// time.Now. Tests inject a fixed clock here to pin the output bytes.
	Now func() time.Time
}

// withDefaults fills the zero-value fields that have non-zero defaults.
func (o Options) withDefaults() Options {
	if o.AlignPts == 0 {
		o.AlignPts = DefaultAlignPts
	}
	if o.StarPts == 0 {
		o.StarPts = DefaultStarPts
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
