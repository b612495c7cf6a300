package planetview

import (
	"fmt"
	"math"
	"strings"

	"github.com/SETI/rms-planetviewer/euclid"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

const (
	// Tick lengths as fractions of the window half width.
	tickMajor = 0.05
	tickMinor = 0.02

	// A tick step is acceptable when at least this many major steps fit
	// across the window.
	minTickSteps = 3.0

	// Right ascension labels wrap into one day of seconds.
	maxSecs = 86400.0

	degPerRad = 180.0 / math.Pi
)

// tickStep lists the candidate label step sizes in seconds, smallest
// first. tickSubs gives the minor ticks per major step for each entry.
// The values round-trip through float32 because the legacy chart layout
// stored them in single precision and the selected step feeds the label
// text.
var tickStep = [...]float64{
	0.0, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5,
	1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0, 600.0, 1800.0,
	3600.0, 7200.0, 18000.0, 36000.0, 72000.0,
}

var tickSubs = [...]int{
	0, 5, 4, 5, 5, 4, 5, 5, 4, 5,
	5, 4, 5, 5, 6, 6, 4, 5, 5, 6,
	6, 4, 5, 5, 6,
}

// step32 returns a tickStep entry as single precision, matching the
// legacy layout arithmetic.
func step32(i int) float64 {
	return float64(float32(tickStep[i]))
}

// psEscape escapes a string for a PostScript string literal: backslashes
// and parentheses get backslash escapes, and the Unicode degree sign
// becomes the octal escape \260. Emitting the degree sign as UTF-8 would
// put two bytes in the string, and the first renders as a stray glyph in
// common fonts.
func psEscape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"(", `\(`,
		")", `\)`,
		"°", `\260`,
	)
	return r.Replace(s)
}

// writeText emits s as a parenthesized PostScript string literal.
func (c *chart) writeText(s string) error {
	return c.dev.WriteString("(" + psEscape(s) + ")")
}

// writeLabel writes a numeric tick label at the current point, formatted
// as degrees (or hours), minutes and seconds with trailing zeros
// trimmed. offset selects the label macro: 'B' places the text below a
// bottom-edge tick and wraps the value into [0, 24h); 'L' places it left
// of a side tick.
func (c *chart) writeLabel(secs float64, offset byte) error {
	s1 := secs
	if offset == 'B' {
		s1 = math.Mod(s1, maxSecs)
		if s1 < 0 {
			s1 += maxSecs
		}
	}
	neg := s1 < 0
	f := math.Abs(s1)

	var ims int
	if offset == 'B' {
		ims = vecmath.NInt(f*1000.0 + 1.0e-9)
	} else {
		ims = vecmath.NInt(f * 1000.0)
	}
	isec := ims / 1000
	ims -= 1000 * isec
	imin := isec / 60
	isec -= 60 * imin
	ideg := imin / 60
	imin -= 60 * ideg

	var s string
	if ims == 0 {
		s = fmt.Sprintf("%3d %02d %02d", ideg, imin, isec)
	} else {
		s = fmt.Sprintf("%3d %02d %02d.%03d", ideg, imin, isec, ims)
		s = strings.TrimRight(s, "0 ")
		s = strings.TrimRight(s, ".")
	}
	s = strings.TrimLeft(s, " ")
	if neg {
		s = "-" + s
	}

	if err := c.dev.MoveToLast(); err != nil {
		return err
	}
	macro := " LabelBelow"
	if offset == 'L' {
		macro = " LabelLeft"
	}
	return c.dev.WriteString("(" + psEscape(s) + ")" + macro)
}

// annotate writes a name label beside a scene position. los is the line
// of sight to the object; radius offsets the label diagonally off the
// disk so the text clears the limb. Positions behind the camera or
// outside the window draw nothing.
func (c *chart) annotate(name string, los vecmath.Vec3, radius float64) error {
	cam := c.cmat.MTxV(los)
	if cam[2] <= 0 {
		return nil
	}
	x := -cam[0]/cam[2] + 0.7070*radius
	y := -cam[1]/cam[2] - 0.7070*radius
	if math.Abs(x) >= c.delta || math.Abs(y) >= c.delta {
		return nil
	}
	err := c.scene.ProjectMarker(
		[]float64{x}, []float64{y}, []float64{x}, []float64{y}, euclid.LineAxis)
	if err != nil {
		return err
	}
	if err := c.dev.MoveToLast(); err != nil {
		return err
	}
	return c.dev.WriteString("(" + psEscape(name) + ") LabelBody")
}

// axisTicks draws RA and Dec tick marks along the chart border with
// numeric labels on the major ticks. The step size is the smallest table
// entry that still leaves at least minTickSteps major steps across the
// window; right ascension steps are in seconds of time, declination in
// seconds of arc.
func (c *chart) axisTicks() error {
	_, ra, dec := vecmath.RecRad(c.cmat.Col(2))

	deltaRA := c.delta
	if math.Abs(math.Cos(dec)) > 1e-12 {
		deltaRA = c.delta / math.Cos(dec)
	}
	dtick1 := tickMajor * c.delta
	dtick2 := tickMinor * c.delta
	const eps = 1e-12

	// Right ascension ticks along the top and bottom edges.
	spr := degPerRad * 3600.0 / 15.0
	sdelta := deltaRA * spr
	i := len(tickStep) - 1
	for i >= 2 {
		if 2.0*sdelta >= minTickSteps*step32(i) {
			break
		}
		i--
	}
	nsubs := tickSubs[i]
	ds := step32(i) / float64(nsubs)
	raSec := ra * spr
	k1 := vecmath.NInt((raSec-sdelta)/ds + 0.5)
	k2 := vecmath.NInt((raSec+sdelta)/ds - 0.5)
	for k := k1; k <= k2; k++ {
		s := float64(k) * ds
		length := dtick2
		isMajor := k%nsubs == 0
		if isMajor {
			length = dtick1
		}
		los := vecmath.RadRec(1.0, s/spr, dec)
		cam := c.cmat.MTxV(los)
		if cam[2] <= eps {
			continue
		}
		x := -cam[0] / cam[2]
		if math.Abs(x) > c.delta {
			continue
		}
		err := c.scene.ProjectMarker(
			[]float64{x}, []float64{c.delta - length},
			[]float64{x}, []float64{c.delta}, euclid.LineAxis)
		if err != nil {
			return err
		}
		if isMajor {
			if err := c.writeLabel(s, 'B'); err != nil {
				return err
			}
		}
		err = c.scene.ProjectMarker(
			[]float64{x}, []float64{-c.delta + length},
			[]float64{x}, []float64{-c.delta}, euclid.LineAxis)
		if err != nil {
			return err
		}
	}

	// Declination ticks along the left and right edges.
	spr = degPerRad * 3600.0
	sdelta = c.delta * spr
	i = len(tickStep) - 1
	for i >= 2 {
		if 2.0*sdelta >= minTickSteps*step32(i) {
			break
		}
		i--
	}
	nsubs = tickSubs[i]
	ds = step32(i) / float64(nsubs)
	decSec := dec * spr
	k1 = vecmath.NInt((decSec-sdelta)/ds + 0.5)
	k2 = vecmath.NInt((decSec+sdelta)/ds - 0.5)
	for k := k1; k <= k2; k++ {
		s := float64(k) * ds
		length := dtick2
		isMajor := k%nsubs == 0
		if isMajor {
			length = dtick1
		}
		los := vecmath.RadRec(1.0, ra, s/spr)
		cam := c.cmat.MTxV(los)
		if cam[2] <= eps {
			continue
		}
		y := -cam[1] / cam[2]
		if math.Abs(y) > c.delta {
			continue
		}
		err := c.scene.ProjectMarker(
			[]float64{-c.delta + length}, []float64{y},
			[]float64{-c.delta}, []float64{y}, euclid.LineAxis)
		if err != nil {
			return err
		}
		if isMajor {
			if err := c.writeLabel(s, 'L'); err != nil {
				return err
			}
		}
		err = c.scene.ProjectMarker(
			[]float64{c.delta - length}, []float64{y},
			[]float64{c.delta}, []float64{y}, euclid.LineAxis)
		if err != nil {
			return err
		}
	}
	return nil
}
