package planetview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

const (
	pointsPerInch = 72.0

	// Moon label text scale: labelpts/moonLabelDiv, capped.
	moonLabelDiv = 12.0
	moonLabelCap = 2.0
)

// creditLayout is the strftime-equivalent layout of the footer date.
const creditLayout = "Mon Jan 02 15:04:05 2006"

// writePrologue emits the label macro definitions after the device
// header. MakeDegreeFont rebinds octal 260 to the degree glyph when the
// font has one, so escaped degree signs render correctly. LabelBelow,
// LabelLeft and LabelBody place tick and name labels relative to the
// current point; all three unscale first because the page operates under
// a 0.1 0.1 scale.
func (c *chart) writePrologue() error {
	lines := []string{
		"/MakeDegreeFont {",
		"findfont dup /CharStrings get /degree known {",
		"dup length dict /newdict exch def {",
		"1 index /FID ne { newdict 3 1 roll put }",
		"{ pop pop } ifelse } forall",
		"newdict /Encoding get dup length array copy",
		"newdict exch /Encoding exch put",
		"newdict /CharStrings get /degree known {",
		"newdict /Encoding get 8#260 /degree put } if",
		"newdict true } { pop false } ifelse } def",
		"/MyFont /Helvetica  MakeDegreeFont { definefont pop } if",
		"/unscale {10 10 scale} def",
		"/TextHeight {11} def",
		"/MyFont findfont TextHeight scalefont setfont",
		"/LabelBelow {gsave currentpoint translate",
		"unscale",
		"dup stringwidth pop -0.5 mul TextHeight -1.3 mul",
		"moveto show grestore} def",
		"/LabelLeft {gsave currentpoint translate",
		"unscale 90 rotate",
		"dup stringwidth pop -0.5 mul TextHeight 0.3 mul",
		"moveto show grestore} def",
	}
	for _, line := range lines {
		if err := c.dev.WriteString(line); err != nil {
			return err
		}
	}

	scale := 1.0
	if c.opts.MoonLabelPts > 0 {
		scale = math.Min(c.opts.MoonLabelPts/moonLabelDiv, moonLabelCap)
	}
	scaleStr := fmt.Sprintf("%.3f", scale)
	lines = []string{
		"/LabelBody {gsave currentpoint translate",
		"unscale",
		scaleStr + " " + scaleStr + " scale",
		"TextHeight 0.2 mul dup",
		"moveto show grestore} def",
		"%%EndProlog",
		"%",
	}
	for _, line := range lines {
		if err := c.dev.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

// writeDecorations emits the title, the caption columns, the credit
// footer and the two axis captions. now stamps the footer.
func (c *chart) writeDecorations(now time.Time) error {
	if t := strings.TrimSpace(c.opts.Title); t != "" {
		lines := []string{
			"gsave unscale 324 756 translate 1.4 1.4 scale",
			"(" + psEscape(t) + ")",
			"dup stringwidth pop",
			"-0.5 mul TextHeight neg moveto show grestore",
		}
		for _, line := range lines {
			if err := c.dev.WriteString(line); err != nil {
				return err
			}
		}
	}

	if len(c.opts.Captions) > 0 {
		if err := c.dev.WriteString("gsave unscale"); err != nil {
			return err
		}
		align := vecmath.NInt(c.opts.AlignPts) + int(pointsPerInch)
		if err := c.dev.WriteString(fmt.Sprintf("%4d 162 translate", align)); err != nil {
			return err
		}
		if err := c.dev.WriteString("0 TextHeight 0.4 mul translate"); err != nil {
			return err
		}
		for _, row := range c.opts.Captions {
			lines := []string{
				"0 TextHeight -1.25 mul translate",
				"0 0 moveto",
				"(" + psEscape(strings.TrimRight(row.Right, " ")) + ")",
				"show",
				"(" + psEscape(strings.TrimRight(row.Left, " ")+"  ") + ")",
				"dup stringwidth pop neg 0 moveto show",
			}
			for _, line := range lines {
				if err := c.dev.WriteString(line); err != nil {
					return err
				}
			}
		}
		if err := c.dev.WriteString("grestore"); err != nil {
			return err
		}
	}

	date := now.Format(creditLayout)
	credit := fmt.Sprintf("Generated by the %s Viewer Tool, PDS Ring-Moon Systems Node, %s",
		psEscape(c.opts.TargetName), psEscape(date))
	lines := []string{
		fmt.Sprintf("gsave unscale %d 36 translate 0.5 0.5 scale", int(pointsPerInch)),
		"0 0 moveto",
		"(" + credit + ")",
		"show grestore",
		"gsave unscale",
		"324 180 translate 1.2 1.2 scale",
		"(Right Ascension (h m s)) dup stringwidth pop",
		"-0.5 mul 0 moveto show grestore",
		"gsave unscale",
		"36 450 translate 1.2 1.2 scale 90 rotate",
		"(Declination (d m s)) dup stringwidth pop",
		"-0.5 mul TextHeight neg moveto show grestore",
	}
	for _, line := range lines {
		if err := c.dev.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}
