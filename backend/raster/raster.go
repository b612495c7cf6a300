// Package raster renders simplified sky charts as PNG images.
//
// The raster backend draws the chart shapes directly: the border, the
// primary's disk, moon markers, ring ellipses and the star field, plus
// the title and credit text. It trades the byte-exact PostScript layout
// for a self-contained bitmap, which web callers embed without a
// PostScript interpreter.
//
// Importing the package registers the "raster" backend:
//
//	import _ "github.com/SETI/rms-planetviewer/backend/raster"
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	planetview "github.com/SETI/rms-planetviewer"
	"github.com/SETI/rms-planetviewer/backend"
	"github.com/SETI/rms-planetviewer/euclid"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
	"github.com/SETI/rms-planetviewer/starcat"
)

// Page geometry in pixels, one pixel per printer point.
const (
	pageW = 612
	pageH = 792

	chartLeft = 72
	chartTop  = 108
	chartSize = 504

	titleSize  = 16.0
	creditSize = 8.0
)

// Backend renders charts as PNG bitmaps.
type Backend struct{}

// init registers the raster backend on package import.
func init() {
	backend.Register(backend.BackendRaster, func() backend.ChartRenderer {
		return &Backend{}
	})
}

// New creates a new raster chart backend.
func New() *Backend { return &Backend{} }

// Name returns the backend identifier.
func (*Backend) Name() string { return backend.BackendRaster }

// Ext returns the output file extension.
func (*Backend) Ext() string { return "png" }

// Render draws the chart described by opts as a PNG page on w.
func (b *Backend) Render(w io.Writer, geom planetview.Geometry, opts planetview.Options) error {
	if !(opts.FOV > 0 && opts.FOV < math.Pi) {
		return fmt.Errorf("%w: %v rad", planetview.ErrFOVRange, opts.FOV)
	}
	if opts.FOV/2 > euclid.MaxFOV {
		return fmt.Errorf("%w: %v rad", euclid.ErrFOVLimit, opts.FOV/2)
	}

	img := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
	fill(img, color.White)

	p := &painter{
		img:   img,
		cmat:  planetview.CameraMatrix(opts.CenterRA, opts.CenterDec),
		delta: math.Tan(opts.FOV / 2.0),
	}

	if err := p.drawScene(geom, &opts); err != nil {
		return err
	}
	p.drawBorder()
	if err := p.drawText(&opts); err != nil {
		return err
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("raster: encode: %w", err)
	}
	return nil
}

// painter carries the per-chart raster state.
type painter struct {
	img   *image.RGBA
	cmat  vecmath.Mat3
	delta float64
}

// project maps a line of sight to chart pixel coordinates. ok is false
// behind the camera plane; points outside the window still project so
// line drawing can clip at the pixel level.
func (p *painter) project(los vecmath.Vec3) (px, py float64, ok bool) {
	cam := p.cmat.MTxV(los)
	if cam[2] <= 0 {
		return 0, 0, false
	}
	x := -cam[0] / cam[2]
	y := -cam[1] / cam[2]
	half := float64(chartSize) / 2.0
	px = chartLeft + half + x/p.delta*half
	py = chartTop + half - y/p.delta*half
	return px, py, true
}

// drawScene paints the primary disk, moons, rings and stars.
func (p *painter) drawScene(geom planetview.Geometry, opts *planetview.Options) error {
	obs, err := geom.ObserverPosition()
	if err != nil {
		return fmt.Errorf("raster: observer: %w", err)
	}
	pos, err := geom.BodyPosition(opts.Target)
	if err != nil {
		return fmt.Errorf("raster: body %d: %w", opts.Target, err)
	}
	rad, err := geom.BodyRadius(opts.Target)
	if err != nil {
		return fmt.Errorf("raster: body %d: %w", opts.Target, err)
	}
	primary := pos.Sub(obs)
	p.drawDisk(primary, rad, color.Black)

	for _, m := range opts.Moons {
		mpos, err := geom.BodyPosition(m.ID)
		if err != nil {
			return fmt.Errorf("raster: body %d: %w", m.ID, err)
		}
		mrad, err := geom.BodyRadius(m.ID)
		if err != nil {
			return fmt.Errorf("raster: body %d: %w", m.ID, err)
		}
		los := mpos.Sub(obs)
		p.drawDisk(los, mrad, color.Black)
		if opts.MoonLabelPts > 0 && m.Name != "" {
			if x, y, ok := p.project(los); ok && p.inChart(x, y) {
				if err := p.label(m.Name, x+4, y-4, creditSize+1); err != nil {
					return err
				}
			}
		}
	}

	if len(opts.Rings) > 0 {
		pole, err := geom.RingGeometry(opts.Target)
		if err != nil {
			return fmt.Errorf("raster: rings of %d: %w", opts.Target, err)
		}
		for _, rs := range opts.Rings {
			p.drawRing(primary, pole, rs.Radius)
		}
	}

	starPts := opts.StarPts
	if starPts == 0 {
		starPts = planetview.DefaultStarPts
	}
	for _, st := range opts.Stars {
		los := vecmath.RadRec(1.0, st.RA, st.Dec)
		x, y, ok := p.project(los)
		if !ok || !p.inChart(x, y) {
			continue
		}
		half := starcat.GlyphPoints(st.Mag) * (starPts / planetview.DefaultStarPts) / 2.0
		p.line(x-half, y, x+half, y, color.Black)
		p.line(x, y-half, x, y+half, color.Black)
		if opts.StarLabels && st.Name != "" {
			if err := p.label(st.Name, x+half+2, y-2, creditSize+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawDisk strokes a body's limb as a polygon of standard vertices. Tiny
// bodies collapse to a dot so every moon stays visible.
func (p *painter) drawDisk(los vecmath.Vec3, radius float64, col color.Color) {
	cam := p.cmat.MTxV(los)
	if cam[2] <= 0 || radius <= 0 {
		return
	}
	_, u, v := vecmath.Frame(cam)
	const steps = 48
	var px, py float64
	first := true
	var x0, y0 float64
	for i := 0; i <= steps; i++ {
		ang := 2 * math.Pi * float64(i) / steps
		pt := cam.Add(vecmath.Lcom(radius*math.Cos(ang), u, radius*math.Sin(ang), v))
		if pt[2] <= 0 {
			continue
		}
		x := chartLeft + float64(chartSize)/2 + (-pt[0]/pt[2])/p.delta*float64(chartSize)/2
		y := chartTop + float64(chartSize)/2 - (-pt[1]/pt[2])/p.delta*float64(chartSize)/2
		if first {
			x0, y0 = x, y
			first = false
		} else {
			p.line(px, py, x, y, col)
		}
		px, py = x, y
	}
	if !first && math.Hypot(px-x0, py-y0) < 1 {
		p.set(int(px), int(py), col)
	}
}

// drawRing strokes the projected ring ellipse.
func (p *painter) drawRing(center, pole vecmath.Vec3, radius float64) {
	cam := p.cmat.MTxV(center)
	axis := p.cmat.MTxV(pole).Hat()
	if cam[2] <= 0 || radius <= 0 {
		return
	}
	u := axis.Cross(cam.Hat()).Hat()
	if u.Norm() == 0 {
		_, u, _ = vecmath.Frame(axis)
	}
	v := u.Cross(axis)
	const steps = 96
	var px, py float64
	havePrev := false
	for i := 0; i <= steps; i++ {
		ang := 2 * math.Pi * float64(i) / steps
		pt := cam.Add(vecmath.Lcom(radius*math.Cos(ang), u, radius*math.Sin(ang), v))
		if pt[2] <= 0 {
			havePrev = false
			continue
		}
		x := chartLeft + float64(chartSize)/2 + (-pt[0]/pt[2])/p.delta*float64(chartSize)/2
		y := chartTop + float64(chartSize)/2 - (-pt[1]/pt[2])/p.delta*float64(chartSize)/2
		if havePrev {
			p.line(px, py, x, y, color.Black)
		}
		px, py = x, y
		havePrev = true
	}
}

// drawBorder frames the chart square.
func (p *painter) drawBorder() {
	l, t := float64(chartLeft), float64(chartTop)
	r, b := l+chartSize, t+chartSize
	p.line(l, t, r, t, color.Black)
	p.line(r, t, r, b, color.Black)
	p.line(r, b, l, b, color.Black)
	p.line(l, b, l, t, color.Black)
}

// drawText places the title above the chart and the credit line under it,
// both centered with shaped widths.
func (p *painter) drawText(opts *planetview.Options) error {
	if opts.Title != "" {
		w, err := measure(opts.Title, titleSize)
		if err != nil {
			return err
		}
		err = p.label(opts.Title, pageW/2-w/2, chartTop-24, titleSize)
		if err != nil {
			return err
		}
	}
	credit := "Generated by the " + opts.TargetName + " Viewer Tool, PDS Ring-Moon Systems Node"
	w, err := measure(credit, creditSize)
	if err != nil {
		return err
	}
	return p.label(credit, pageW/2-w/2, chartTop+chartSize+40, creditSize)
}

// inChart reports whether a pixel position lies inside the chart square.
func (p *painter) inChart(x, y float64) bool {
	return x >= chartLeft && x <= chartLeft+chartSize &&
		y >= chartTop && y <= chartTop+chartSize
}

// set colors one chart pixel, clipped to the chart square.
func (p *painter) set(x, y int, col color.Color) {
	if x < chartLeft || x > chartLeft+chartSize || y < chartTop || y > chartTop+chartSize {
		return
	}
	p.img.Set(x, y, col)
}

// line draws a clipped line between two pixel positions.
func (p *painter) line(x0, y0, x1, y1 float64, col color.Color) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.set(int(x0+t*dx+0.5), int(y0+t*dy+0.5), col)
	}
}

// fill floods the whole image with one color.
func fill(img *image.RGBA, col color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, col)
		}
	}
}
