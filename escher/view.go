package escher

import (
	"errors"
	"fmt"
	"math"

	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// Errors reported by the view layer.
var (
	// ErrEmptyFOV reports a field of view with zero width or height.
	ErrEmptyFOV = errors.New("escher: field of view has zero extent")

	// ErrNotFinite reports a non-finite coordinate passed to Draw.
	ErrNotFinite = errors.New("escher: coordinate is not finite")

	// ErrGrayLevel reports a gray index outside the supported range.
	ErrGrayLevel = errors.New("escher: gray level out of range")
)

// GrayInvisible marks a segment that occupies buffer order without ink.
const GrayInvisible = -1

// drawEps keeps the perspective divide away from z = 0. Points closer to
// the camera plane than this are pushed to the epsilon on their own side.
const drawEps = 1e-12

// Rect is a rectangle given as (Hmin, Hmax, Vmin, Vmax) or
// (Xmin, Xmax, Ymin, Ymax) depending on context.
type Rect [4]float64

// View maps camera-frame 3D segments onto a device viewport. It performs
// the perspective divide, clips against the field of view, maps to integer
// device coordinates, and accumulates segments in a buffer that flushes to
// the device when full or on Dump.
type View struct {
	dev *Device

	viewport Rect // fractions of the drawable page, 0..1
	fov      Rect // projection-plane window

	ux, uy     float64
	xcen, ycen float64
	pcen, lcen float64

	buf []int
}

// NewView binds a viewport to dev. viewport gives the viewport corners as
// fractions of the drawable page; fov gives the projection-plane window the
// viewport displays. The scale is isotropic: the tighter of the two axes
// wins and the other is letterboxed.
func NewView(dev *Device, viewport, fov Rect) (*View, error) {
	hmin, hmax, vmin, vmax := viewport[0], viewport[1], viewport[2], viewport[3]
	xmin, xmax, ymin, ymax := fov[0], fov[1], fov[2], fov[3]
	if xmax == xmin {
		return nil, fmt.Errorf("%w: xmin=%v xmax=%v", ErrEmptyFOV, xmin, xmax)
	}
	if ymax == ymin {
		return nil, fmt.Errorf("%w: ymin=%v ymax=%v", ErrEmptyFOV, ymin, ymax)
	}

	left, right, bottom, top := Bounds()
	pix0, pix1 := float64(left), float64(right)
	lam0, lam1 := float64(bottom), float64(top)

	ux := (hmax - hmin) * (pix1 - pix0) / (xmax - xmin)
	uy := (vmax - vmin) * (lam1 - lam0) / (ymax - ymin)
	u := math.Min(math.Abs(ux), math.Abs(uy))

	v := &View{
		dev:      dev,
		viewport: viewport,
		fov:      fov,
		ux:       math.Copysign(u, ux),
		uy:       math.Copysign(u, uy),
		xcen:     (xmin + xmax) / 2,
		ycen:     (ymin + ymax) / 2,
		pcen:     pix0 + (hmax+hmin)*(pix1-pix0)/2,
		lcen:     lam0 + (vmax+vmin)*(lam1-lam0)/2,
		buf:      make([]int, 0, BufferCap),
	}
	return v, nil
}

// Device returns the device this view draws to.
func (v *View) Device() *Device { return v.dev }

// FOV returns the projection-plane window.
func (v *View) FOV() Rect { return v.fov }

// Map converts a projection-plane point to integer device coordinates.
func (v *View) Map(x, y float64) (px, py int) {
	px = vecmath.NInt(v.pcen + v.ux*(x-v.xcen))
	py = vecmath.NInt(v.lcen + v.uy*(y-v.ycen))
	return px, py
}

// Draw projects the camera-frame segment begin-end onto the view plane,
// clips it against the field of view, and buffers the surviving portion
// with the given gray index. The camera looks down -Z: a point (X, Y, Z)
// lands at (-X/Z, -Y/Z). Segments entirely outside the window vanish; a
// full buffer flushes to the device before the new segment is queued.
func (v *View) Draw(begin, end vecmath.Vec3, gray int) error {
	if gray < GrayInvisible || gray > 10 {
		return fmt.Errorf("%w: %d", ErrGrayLevel, gray)
	}
	for _, c := range []float64{begin[0], begin[1], begin[2], end[0], end[1], end[2]} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: begin=%v end=%v", ErrNotFinite, begin, end)
		}
	}

	z1 := guardZ(begin[2])
	z2 := guardZ(end[2])
	bx, by := -begin[0]/z1, -begin[1]/z1
	ex, ey := -end[0]/z2, -end[1]/z2

	bx, by, ex, ey, visible := clipSegment(
		v.fov[0], v.fov[1], v.fov[2], v.fov[3], bx, by, ex, ey)
	if !visible {
		return nil
	}

	p1, l1 := v.Map(bx, by)
	p2, l2 := v.Map(ex, ey)
	v.buf = append(v.buf, p1, l1, p2, l2, gray)
	if len(v.buf) >= BufferCap {
		return v.Dump()
	}
	return nil
}

func guardZ(z float64) float64 {
	if math.Abs(z) >= drawEps {
		return z
	}
	if z >= 0 {
		return drawEps
	}
	return -drawEps
}

// Dump flushes the segment buffer to the device. Flushes and explicit dumps
// are the only points where buffered geometry becomes output, so chain
// coalescing never crosses a Dump.
func (v *View) Dump() error {
	if len(v.buf) == 0 {
		return nil
	}
	n := len(v.buf)
	segs := v.buf
	v.buf = make([]int, 0, BufferCap)
	return v.dev.Draw(n, segs)
}

// Pending returns the number of buffered segments.
func (v *View) Pending() int { return len(v.buf) / 5 }

// Clear paints a white rectangle over a region of the drawable page, given
// as fractions of the page like a viewport. Clearing the full page (0,1,0,1)
// finishes it. Min/max order in either axis is tolerated.
func (v *View) Clear(region Rect) error {
	hmin, hmax := region[0], region[1]
	vmin, vmax := region[2], region[3]
	if hmin > hmax {
		hmin, hmax = hmax, hmin
	}
	if vmin > vmax {
		vmin, vmax = vmax, vmin
	}
	left, right, bottom, top := Bounds()
	pix0, pix1 := float64(left), float64(right)
	lam0, lam1 := float64(bottom), float64(top)
	return v.dev.ClearRect(
		vecmath.NInt(pix0+hmin*(pix1-pix0)),
		vecmath.NInt(pix0+hmax*(pix1-pix0)),
		vecmath.NInt(lam0+vmin*(lam1-lam0)),
		vecmath.NInt(lam0+vmax*(lam1-lam0)),
	)
}
