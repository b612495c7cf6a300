package planetview

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/SETI/rms-planetviewer/escher"
)

// Share glyph box in device units, lower right of the footer area.
const (
	qrBoxUnits = 540
	qrLeft     = 4860
	qrBottom   = 360
)

// shareGlyph encodes url as a QR code and paints it as filled rectangles
// in the page corner, one rectangle per dark module. The quiet zone the
// encoder adds around the symbol stays white because only dark modules
// are painted.
func (c *chart) shareGlyph(url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("planetview: share glyph: %w", err)
	}
	bitmap := q.Bitmap()
	n := len(bitmap)
	if n == 0 {
		return nil
	}
	cell := qrBoxUnits / n
	if cell < 1 {
		cell = 1
	}
	if err := c.dev.WriteString("%Share URL..."); err != nil {
		return err
	}
	for row := range bitmap {
		y0 := qrBottom + (n-1-row)*cell
		for col, dark := range bitmap[row] {
			if !dark {
				continue
			}
			x0 := qrLeft + col*cell
			if err := c.dev.FillRect(x0, x0+cell, y0, y0+cell, escher.GrayBlack); err != nil {
				return err
			}
		}
	}
	return nil
}
