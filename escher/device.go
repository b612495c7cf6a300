package escher

import (
	"fmt"
	"io"
	"strings"

	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// Device writes PostScript to an output stream and tracks the pen state
// needed to suppress redundant gray and width directives. The EPSF header
// is written lazily, just before the first drawing output, so a Device
// that is never drawn to produces no bytes.
type Device struct {
	w       io.Writer
	title   string
	creator string
	fonts   string

	headerDone bool
	closed     bool

	// Last stroked point, for MoveToLast.
	xsave, ysave int

	oldGray  int
	oldWidth int
	drawn    bool
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithTitle sets the %%Title comment. When title carries path separators
// only the final component is used.
func WithTitle(title string) DeviceOption {
	return func(d *Device) { d.title = title }
}

// WithCreator sets the %%Creator comment.
func WithCreator(creator string) DeviceOption {
	return func(d *Device) { d.creator = creator }
}

// WithFonts sets the %%DocumentFonts comment.
func WithFonts(fonts string) DeviceOption {
	return func(d *Device) { d.fonts = fonts }
}

// NewDevice returns a Device writing to w. Nothing is written until the
// first drawing call.
func NewDevice(w io.Writer, opts ...DeviceOption) *Device {
	d := &Device{
		w:        w,
		oldGray:  -9999,
		oldWidth: MinWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open forces the EPSF header out immediately. Callers that write raw
// PostScript before the first stroke (preamble macros, titles) need the
// prolog in place first; drawing calls open the device implicitly.
func (d *Device) Open() error {
	return d.ensureHeader()
}

// titleBase strips any leading path from the title, honoring the path
// separators the legacy header logic recognized.
func titleBase(s string) string {
	if i := strings.LastIndexAny(s, "/:]"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ensureHeader writes the EPSF-2.0 prolog on the first drawing call.
func (d *Device) ensureHeader() error {
	if d.headerDone {
		return nil
	}
	d.headerDone = true

	title := strings.TrimSpace(d.title)
	if title == "" {
		title = "escher.ps"
	}
	lines := []string{
		"%!PS-Adobe-2.0 EPSF-2.0",
		"%%Title: " + titleBase(title),
		"%%Creator: " + strings.TrimRight(d.creator, " "),
		"%%BoundingBox: 0 0 612 792",
		"%%Pages: 1",
		"%%DocumentFonts: " + strings.TrimRight(d.fonts, " "),
		"%%EndComments",
		"% ",
		"0.1 0.1 scale",
		"8 setlinewidth",
		"1 setlinecap",
		"1 setlinejoin",
		"/L {lineto} def",
		"/M {moveto} def",
		"/N {newpath} def",
		"/G {setgray} def",
		"/S {stroke} def",
	}
	for _, line := range lines {
		if _, err := io.WriteString(d.w, line+"\n"); err != nil {
			return fmt.Errorf("escher: write header: %w", err)
		}
	}
	return nil
}

// Draw strokes a segment buffer. segs holds n values laid out as repeated
// (beginX, beginY, endX, endY, gray) 5-tuples; n must be a multiple of 5.
// Consecutive segments sharing an endpoint and gray are coalesced into one
// polyline of at most ChainCap points. A chain with zero extent is promoted
// to a visible dot by nudging its final x by one unit (toward the page when
// at the right edge). Gray directives are emitted only on change; chains
// with negative gray are consumed without output.
func (d *Device) Draw(n int, segs []int) error {
	if n < 5 {
		return nil
	}
	if err := d.ensureHeader(); err != nil {
		return err
	}

	var xs, ys [ChainCap]int
	xs[0], ys[0] = segs[0], segs[1]
	xs[1], ys[1] = segs[2], segs[3]
	count := 2
	chainGray := segs[4]
	lastX, lastY := segs[2], segs[3]
	maxDisp := max(abs(segs[2]-segs[0]), abs(segs[3]-segs[1]))

	for i := 5; i < n; i += 5 {
		bx, by := segs[i], segs[i+1]
		ex, ey := segs[i+2], segs[i+3]
		gray := segs[i+4]

		if bx == lastX && by == lastY && gray == chainGray && count < ChainCap {
			lastX, lastY = ex, ey
			maxDisp = max(maxDisp, max(abs(ex-bx), abs(ey-by)))
			xs[count], ys[count] = ex, ey
			count++
			continue
		}

		if err := d.strokeChain(xs[:count], ys[:count], chainGray, maxDisp); err != nil {
			return err
		}
		xs[0], ys[0] = bx, by
		xs[1], ys[1] = ex, ey
		count = 2
		chainGray = gray
		lastX, lastY = ex, ey
		maxDisp = max(abs(ex-bx), abs(ey-by))
	}
	return d.strokeChain(xs[:count], ys[:count], chainGray, maxDisp)
}

func (d *Device) strokeChain(xs, ys []int, gray, maxDisp int) error {
	if maxDisp == 0 {
		last := len(xs) - 1
		if xs[last] < MaxX {
			xs[last]++
		} else {
			xs[last]--
		}
	}
	if gray < 0 {
		return nil
	}

	if err := d.writef("N\n%d %d M\n", xs[0], ys[0]); err != nil {
		return err
	}
	d.xsave, d.ysave = xs[0], ys[0]
	lastLine := fmt.Sprintf("%d %d L", xs[0], ys[0])
	for m := 1; m < len(xs); m++ {
		line := fmt.Sprintf("%d %d L", xs[m], ys[m])
		if line != lastLine {
			if err := d.writef("%s\n", line); err != nil {
				return err
			}
			d.xsave, d.ysave = xs[m], ys[m]
			d.drawn = true
		}
		lastLine = line
	}

	out := gray
	if out > 10 {
		out = 1
	}
	if out != d.oldGray {
		if err := d.writef("%s\n", grayTokens[out]); err != nil {
			return err
		}
		d.oldGray = out
	}
	return d.writef("S\n")
}

// SetWidth sets the stroke width in printer points. Widths are scaled to
// device units, rounded half away from zero, floored at MinWidth, and
// emitted only when the value changes. Before the first drawing output
// SetWidth is a no-op, matching the implicit "8 setlinewidth" in the
// prolog.
func (d *Device) SetWidth(points float64) error {
	if !d.headerDone {
		return nil
	}
	width := vecmath.NInt(points * 10.0)
	if width < MinWidth {
		width = MinWidth
	}
	if width == d.oldWidth {
		return nil
	}
	if err := d.writef("%3d setlinewidth\n", width); err != nil {
		return err
	}
	d.oldWidth = width
	return nil
}

// WriteString writes raw PostScript, appending a newline when s does not
// already end with one. It is a no-op before the first drawing output.
func (d *Device) WriteString(s string) error {
	if !d.headerDone {
		return nil
	}
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return d.writef("%s", s)
}

// MoveToLast emits a moveto to the last stroked point, restoring the
// current point after raw PostScript (such as text) has disturbed it.
func (d *Device) MoveToLast() error {
	if !d.headerDone {
		return nil
	}
	return d.writef("%d %d M\n", d.xsave, d.ysave)
}

// ClearRect paints a white filled rectangle over the given device-space
// region. Clearing the full drawable page instead finishes the page: it
// emits showpage and marks the device closed.
func (d *Device) ClearRect(hmin, hmax, vmin, vmax int) error {
	if !d.headerDone {
		return nil
	}
	if hmin == MinX && hmax == MaxX && vmin == MinY && vmax == MaxY {
		if err := d.writef("showpage\n"); err != nil {
			return err
		}
		d.closed = true
		return nil
	}
	err := d.writef("%% \n%% CLEAR PART OF THE PAGE\n%% \nN\n"+
		"%d %d M\n%d %d L\n%d %d L\n%d %d L\n%d %d L\n"+
		"closepath\n1 G\nfill\n0 G\n",
		hmin, vmin, hmin, vmax, hmax, vmax, hmax, vmin, hmin, vmin)
	if err != nil {
		return err
	}
	d.oldGray = GrayBlack
	return nil
}

// FillRect paints a filled rectangle at the given gray over a device-space
// region. The pen's last-emitted gray is restored afterward so subsequent
// strokes are unaffected.
func (d *Device) FillRect(hmin, hmax, vmin, vmax, gray int) error {
	if gray < 0 || gray > 10 {
		return fmt.Errorf("%w: %d", ErrGrayLevel, gray)
	}
	if err := d.ensureHeader(); err != nil {
		return err
	}
	restore := d.oldGray
	err := d.writef("N\n%d %d M\n%d %d L\n%d %d L\n%d %d L\nclosepath\n%s\nfill\n",
		hmin, vmin, hmin, vmax, hmax, vmax, hmax, vmin, grayTokens[gray])
	if err != nil {
		return err
	}
	if restore >= 0 && restore <= 10 && restore != gray {
		if err := d.writef("%s\n", grayTokens[restore]); err != nil {
			return err
		}
	} else {
		d.oldGray = gray
	}
	return nil
}

// Closed reports whether the page has been finished by a full-page clear.
func (d *Device) Closed() bool { return d.closed }

// Drawn reports whether any visible stroke has been emitted.
func (d *Device) Drawn() bool { return d.drawn }

func (d *Device) writef(format string, args ...any) error {
	if _, err := fmt.Fprintf(d.w, format, args...); err != nil {
		return fmt.Errorf("escher: write: %w", err)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
