// Package escher emits device-space PostScript for the chart renderer.
//
// The output model is deliberately narrow: all coordinates are integers in
// a 0.1-point device space ("0.1 0.1 scale" in the prolog), drawing happens
// through a segment buffer that is coalesced into polyline strokes, and the
// emitted bytes are deterministic for a given call sequence. Legacy charts
// produced by the FORTRAN toolchain compare byte for byte against this
// package's output, so the formatting rules here (token spelling, gray
// directives, width format, dot promotion) are load-bearing and must not
// be "cleaned up".
//
// Device owns the output stream and the pen state. View owns the
// viewport-to-device mapping and the segment buffer that feeds the device.
package escher

// Device-space page bounds in 0.1-point units. A full US-letter page is
// 6120 x 7920 units; the drawable region leaves margins on all sides.
const (
	MinX = 360
	MaxX = 5760
	MinY = 1800
	MaxY = 7200
)

const (
	// BufferCap is the segment buffer capacity in values (5 per segment).
	BufferCap = 5000

	// ChainCap is the longest polyline chain a single stroke may carry.
	ChainCap = 64

	// MinWidth is the smallest line width ever emitted, in device units.
	MinWidth = 5
)

// grayTokens maps a gray index to its PostScript directive. Index 0 is
// white and 1 is black; 2 through 10 step from 0.1 to 0.9. The table order
// is historical and fixed.
var grayTokens = [11]string{
	"1.0 G",
	"0.0 G",
	"0.1 G",
	"0.2 G",
	"0.3 G",
	"0.4 G",
	"0.5 G",
	"0.6 G",
	"0.7 G",
	"0.8 G",
	"0.9 G",
}

// Gray indices with conventional meanings in chart output.
const (
	GrayWhite = 0
	GrayBlack = 1
)

// Bounds returns the drawable device-space rectangle as
// (left, right, bottom, top).
func Bounds() (int, int, int, int) {
	return MinX, MaxX, MinY, MaxY
}
