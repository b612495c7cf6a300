package euclid

import (
	"errors"
	"fmt"
	"math"

	"github.com/SETI/rms-planetviewer/escher"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// ErrFOVLimit reports a requested field of view beyond the hard ceiling.
var ErrFOVLimit = errors.New("euclid: field of view exceeds limit")

// ErrNoCamera reports a projection attempted before SetCamera.
var ErrNoCamera = errors.New("euclid: camera not set")

// Body is one scene object for a single frame. Center is the
// observer-relative position in the reference frame; Radius is the
// equatorial radius in the same length unit. An oblate body sets Pole to
// its rotation axis and Flattening to (a-c)/a; the limb's polar semi-axis
// shrinks accordingly.
//
// Merids and Lats select a surface grid: Merids meridian planes spaced
// pi/Merids apart (each drawing two opposite meridians) and Lats latitude
// circles spaced evenly between the poles. Both need Pole. Sun, when
// nonzero, is the unit direction from the body to the Sun: grid arcs on
// the night side stroke in DarkGray and the terminator circle strokes in
// TermGray. A TermGray of LineNone suppresses the terminator; without Sun
// the whole grid strokes in Gray and no terminator is drawn.
type Body struct {
	Center     vecmath.Vec3
	Radius     float64
	Pole       vecmath.Vec3
	Flattening float64
	Sun        vecmath.Vec3

	Merids int
	Lats   int

	Gray     int
	DarkGray int
	TermGray int
}

// Ring is a circular ring for a single frame. Center is observer-relative
// in the reference frame, Pole the ring-plane normal, Radius the physical
// ring radius. A Dark ring (unlit face toward the observer) strokes in its
// dark gray; the lit case uses the lit gray.
type Ring struct {
	Center vecmath.Vec3
	Pole   vecmath.Vec3
	Radius float64
	Dark   bool
}

// Scene projects one frame of geometry through a camera into an
// escher.View. A Scene is single-threaded and owned by one chart at a
// time; a new chart starts from a fresh Scene or a Clear.
type Scene struct {
	view *escher.View

	camera    vecmath.Mat3
	hasCamera bool
	cosFOV    float64

	// FOV disk approximation for coarse culling, derived from the view
	// window: a direction and the tangent of the covering half angle.
	fovCen vecmath.Vec3
	fovRad float64

	// Camera-frame primary body, for ring occlusion.
	bodies []Body
	camCen []vecmath.Vec3

	nprojected int
}

// NewScene returns a Scene drawing into view. The FOV culling disk is
// derived from the view's projection window.
func NewScene(view *escher.View) *Scene {
	s := &Scene{
		view:   view,
		cosFOV: math.Cos(MaxFOV),
	}
	s.setFOVDisk(view.FOV())
	return s
}

// setFOVDisk finds a direction and angular radius covering the four window
// corners. A window wider than a hemisphere falls back to the +Z axis.
func (s *Scene) setFOVDisk(fov escher.Rect) {
	x1, x2, y1, y2 := fov[0], fov[1], fov[2], fov[3]
	corners := []vecmath.Vec3{
		vecmath.Vec3{-x1, -y1, 1}.Hat(),
		vecmath.Vec3{-x1, -y2, 1}.Hat(),
		vecmath.Vec3{-x2, -y1, 1}.Hat(),
		vecmath.Vec3{-x2, -y2, 1}.Hat(),
	}
	center := vecmath.Vec3{-0.5 * (x1 + x2), -0.5 * (y1 + y2), 1}.Hat()

	minCos := 2.0
	cosAng := 0.0
	for _, c := range corners {
		cosAng = c.Dot(center)
		if cosAng < minCos {
			minCos = cosAng
		}
	}
	if cosAng <= 0.001 {
		minCos = 2.0
		for _, c := range corners {
			if c[2] < minCos {
				minCos = c[2]
			}
		}
		center = vecmath.Vec3{0, 0, 1}
	}
	s.fovCen = center
	s.fovRad = math.Sqrt(1-minCos*minCos) / minCos
}

// SetCamera stores the camera orientation. The matrix columns are the
// camera axes in the reference frame; projections apply its transpose.
// fovLimit is the chart's full field of view; its half angle may not
// exceed MaxFOV.
func (s *Scene) SetCamera(m vecmath.Mat3, fovLimit float64) error {
	if fovLimit/2 > MaxFOV {
		return fmt.Errorf("%w: %.4f rad, limit %.4f rad", ErrFOVLimit, fovLimit/2, MaxFOV)
	}
	s.camera = m
	s.hasCamera = true
	return nil
}

// SetGeometry stores the frame's bodies, transformed into the camera
// frame. The first body is the primary and occludes ring arcs.
func (s *Scene) SetGeometry(bodies []Body) error {
	if !s.hasCamera {
		return ErrNoCamera
	}
	s.bodies = bodies
	s.camCen = s.camCen[:0]
	for _, b := range bodies {
		s.camCen = append(s.camCen, s.camera.MTxV(b.Center))
	}
	return nil
}

// ProjectGeometry projects all bodies, then all rings. Bodies go first so
// ring ink paints over body limbs where the ring passes in front.
func (s *Scene) ProjectGeometry(bodies []Body, rings []Ring) error {
	if err := s.SetGeometry(bodies); err != nil {
		return err
	}
	for i := range bodies {
		if err := s.ProjectBody(bodies[i]); err != nil {
			return err
		}
	}
	litGray, darkGray := LineLit, LineDark
	for i := range rings {
		if err := s.ProjectRing(rings[i], litGray, darkGray); err != nil {
			return err
		}
	}
	return nil
}

// ProjectBody draws the body's limb as a closed polygon, then its surface
// grid and terminator. The limb is the circle of the body's radius
// perpendicular to the line of sight; vertices falling outside the FOV
// cone are clipped onto it so the polygon stays closed. Grid and
// terminator arcs keep only segments whose endpoints both lie on the
// visible hemisphere, the legacy limb-plane test. A body whose disk lies
// entirely outside the cull disk emits nothing.
func (s *Scene) ProjectBody(b Body) error {
	if !s.hasCamera {
		return ErrNoCamera
	}
	c := s.camera.MTxV(b.Center)
	dist := c.Norm()
	if dist == 0 || b.Radius <= 0 {
		return nil
	}
	if diskOverlap(c, b.Radius, s.fovCen, s.fovRad) == 0 {
		return nil
	}

	_, u, v := vecmath.Frame(c)
	skip := segmentSkip(b.Radius, dist, s.fovRad)
	clipped := !insideCone(c, s.cosFOV) || b.Radius/dist > math.Tan(MaxFOV)

	var pole vecmath.Vec3
	hasPole := b.Pole.Norm() > 0
	if hasPole {
		pole = s.camera.MTxV(b.Pole).Hat()
	}
	flatten := func(off vecmath.Vec3) vecmath.Vec3 {
		if b.Flattening > 0 && hasPole {
			off = off.Sub(pole.Scale(b.Flattening * off.Dot(pole)))
		}
		return off
	}
	limb := func(i int) vecmath.Vec3 {
		return c.Add(flatten(vecmath.Lcom(stdCos[i]*b.Radius, u, stdSin[i]*b.Radius, v)))
	}

	prev := limb(0)
	for i := skip; i <= StdSeg; i += skip {
		pt := limb(i)
		beg, end := prev, pt
		if clipped || !insideCone(beg, s.cosFOV) || !insideCone(end, s.cosFOV) {
			beg, end = fovClip(beg, end, s.cosFOV)
		}
		if err := s.view.Draw(beg, end, b.Gray); err != nil {
			return err
		}
		prev = pt
	}
	if err := s.drawSurface(b, c, dist, skip, clipped, pole, hasPole, flatten); err != nil {
		return err
	}
	s.nprojected++
	return s.view.Dump()
}

// drawSurface strokes the meridian/latitude grid and the terminator
// circle. Visibility is the limb-plane test: a surface point p shows when
// p dot chat <= dist - R^2/dist; a segment survives only when both
// endpoints do. With the Sun set, grid segments whose midpoint faces away
// from it stroke in DarkGray.
func (s *Scene) drawSurface(b Body, c vecmath.Vec3, dist float64, skip int,
	clipped bool, pole vecmath.Vec3, hasPole bool, flatten func(vecmath.Vec3) vecmath.Vec3) error {

	hasSun := b.Sun.Norm() > 0
	wantGrid := hasPole && (b.Merids > 0 || b.Lats > 0)
	wantTerm := hasSun && b.TermGray != LineNone
	if !wantGrid && !wantTerm {
		return nil
	}

	chat := c.Hat()
	limbConst := dist - b.Radius*b.Radius/dist
	var sun vecmath.Vec3
	if hasSun {
		sun = s.camera.MTxV(b.Sun).Hat()
	}

	// arc strokes one circle given its two in-plane semi-axis vectors and
	// an off-center offset, keeping visible segments only.
	arc := func(major, minor, offset vecmath.Vec3, grayFor func(mid vecmath.Vec3) int) error {
		center := c.Add(offset)
		prev := center.Add(major)
		prevVis := prev.Dot(chat) <= limbConst
		for i := skip; ; i += skip {
			if i > StdSeg {
				i = StdSeg
			}
			pt := center.Add(vecmath.Lcom(stdCos[i], major, stdSin[i], minor))
			vis := pt.Dot(chat) <= limbConst
			if vis && prevVis {
				beg, end := prev, pt
				if clipped || !insideCone(beg, s.cosFOV) || !insideCone(end, s.cosFOV) {
					beg, end = fovClip(beg, end, s.cosFOV)
				}
				mid := vecmath.Lcom(0.5, beg, 0.5, end)
				if err := s.view.Draw(beg, end, grayFor(mid)); err != nil {
					return err
				}
			}
			prev, prevVis = pt, vis
			if i == StdSeg {
				return nil
			}
		}
	}

	gridGray := func(mid vecmath.Vec3) int {
		if hasSun && mid.Sub(c).Dot(sun) < 0 {
			return b.DarkGray
		}
		return b.Gray
	}

	if wantGrid {
		_, e1, e2 := vecmath.Frame(pole)
		polar := pole.Scale(b.Radius * (1 - b.Flattening))

		for j := 0; j < b.Merids; j++ {
			major := vecmath.RotV(e1, pole, math.Pi*float64(j)/float64(b.Merids)).Scale(b.Radius)
			if err := arc(major, polar, vecmath.Vec3{}, gridGray); err != nil {
				return err
			}
		}
		for j := 1; j <= b.Lats; j++ {
			lat := -math.Pi/2 + math.Pi*float64(j)/float64(b.Lats+1)
			r := b.Radius * math.Cos(lat)
			offset := polar.Scale(math.Sin(lat))
			if err := arc(e1.Scale(r), e2.Scale(r), offset, gridGray); err != nil {
				return err
			}
		}
	}

	if wantTerm {
		_, t1, t2 := vecmath.Frame(sun)
		term := func(vecmath.Vec3) int { return b.TermGray }
		if err := arc(flatten(t1.Scale(b.Radius)), flatten(t2.Scale(b.Radius)), vecmath.Vec3{}, term); err != nil {
			return err
		}
	}
	return nil
}

// ProjectRing draws a ring as the perspective projection of its 3D circle,
// which foreshortens the minor axis by the sine of the opening angle. The
// far arc is suppressed where it passes behind the primary body's disk;
// edge on (opening angle zero) no point is farther than another, so
// nothing is suppressed. The ring strokes in darkGray when Dark, litGray
// otherwise.
func (s *Scene) ProjectRing(r Ring, litGray, darkGray int) error {
	if !s.hasCamera {
		return ErrNoCamera
	}
	c := s.camera.MTxV(r.Center)
	pole := s.camera.MTxV(r.Pole).Hat()
	dist := c.Norm()
	if dist == 0 || r.Radius <= 0 {
		return nil
	}
	if diskOverlap(c, r.Radius, s.fovCen, s.fovRad) == 0 {
		return nil
	}

	// In-plane axes: u along the projected major axis (perpendicular to
	// both pole and line of sight), v toward the line of sight. Points
	// along v carry the depth variation that decides near and far.
	chat := c.Hat()
	u := pole.Cross(chat).Hat()
	if u.Norm() == 0 {
		// Face-on ring: any in-plane direction serves.
		_, u, _ = vecmath.Frame(pole)
	}
	v := u.Cross(pole)

	// Opening angle: zero when edge on. Edge on, the far and near arcs
	// coincide on screen, so no suppression applies there.
	sinB := math.Abs(chat.Dot(pole))
	vDotC := v.Dot(chat)

	gray := litGray
	if r.Dark {
		gray = darkGray
	}

	// Primary body angular radius for occlusion.
	var bodyCen vecmath.Vec3
	bodyAng := 0.0
	if len(s.camCen) > 0 && s.bodies[0].Radius > 0 {
		bodyCen = s.camCen[0]
		if bd := bodyCen.Norm(); bd > s.bodies[0].Radius {
			bodyAng = math.Asin(s.bodies[0].Radius / bd)
		}
	}

	skip := segmentSkip(r.Radius, dist, s.fovRad)
	clipped := !insideCone(c, s.cosFOV) || r.Radius/dist > math.Tan(MaxFOV)

	point := func(i int) vecmath.Vec3 {
		return c.Add(vecmath.Lcom(stdCos[i]*r.Radius, u, stdSin[i]*r.Radius, v))
	}
	// Depth of vertex i relative to the ring center along the line of
	// sight. Positive means the far side.
	depth := func(i int) float64 {
		return stdSin[i] * r.Radius * vDotC
	}
	hidden := func(i int) bool {
		if sinB == 0 || bodyAng == 0 || depth(i) <= 0 {
			return false
		}
		return vecmath.Sep(point(i), bodyCen) < bodyAng
	}

	prevIdx := 0
	for i := skip; ; i += skip {
		last := false
		if i >= StdSeg {
			i = StdSeg
			last = true
		}
		if !hidden(prevIdx) || !hidden(i) {
			beg, end := point(prevIdx), point(i)
			if clipped || !insideCone(beg, s.cosFOV) || !insideCone(end, s.cosFOV) {
				beg, end = fovClip(beg, end, s.cosFOV)
			}
			if err := s.view.Draw(beg, end, gray); err != nil {
				return err
			}
		}
		if last {
			break
		}
		prevIdx = i
	}
	s.nprojected++
	return s.view.Dump()
}

// ProjectStar draws a line glyph at the star's direction. dir is a unit
// vector in the reference frame; glyph holds unit-square segment pairs
// scaled by scale. Stars behind the camera plane are skipped.
func (s *Scene) ProjectStar(dir vecmath.Vec3, glyph [][2][2]float64, scale float64, gray int) error {
	if !s.hasCamera {
		return ErrNoCamera
	}
	star := s.camera.MTxV(dir)
	if star[2] <= 0 {
		return nil
	}
	z := star[2]
	for _, seg := range glyph {
		x1 := seg[0][0] * scale
		y1 := seg[0][1] * scale
		x2 := seg[1][0] * scale
		y2 := seg[1][1] * scale
		beg := vecmath.Vec3{star[0] - x1*z, star[1] - y1*z, z}
		end := vecmath.Vec3{star[0] - x2*z, star[1] - y2*z, z}
		if err := s.view.Draw(beg, end, gray); err != nil {
			return err
		}
	}
	return s.view.Dump()
}

// ProjectMarker draws overlay segments given directly in image-plane
// coordinates at unit depth. Border boxes, tick marks and annotation
// leaders use this path.
func (s *Scene) ProjectMarker(xbeg, ybeg, xend, yend []float64, gray int) error {
	for i := range xbeg {
		beg := vecmath.Vec3{-xbeg[i], -ybeg[i], 1}
		end := vecmath.Vec3{-xend[i], -yend[i], 1}
		if err := s.view.Draw(beg, end, gray); err != nil {
			return err
		}
	}
	return s.view.Dump()
}

// Projected returns the number of bodies and rings projected this frame.
func (s *Scene) Projected() int { return s.nprojected }

// Clear erases a region of the page (fractions, like a viewport) and
// resets the per-frame counters. Clearing the full page finishes it.
func (s *Scene) Clear(region escher.Rect) error {
	s.nprojected = 0
	s.bodies = nil
	s.camCen = s.camCen[:0]
	return s.view.Clear(region)
}
