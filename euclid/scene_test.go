package euclid

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SETI/rms-planetviewer/escher"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

func newTestScene(t *testing.T, fov float64) (*Scene, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	dev := escher.NewDevice(&buf, escher.WithTitle("scene.ps"))
	delta := math.Tan(fov / 2)
	view, err := escher.NewView(dev,
		escher.Rect{0.066666667, 1.0, 0.988888889, 0.055555556},
		escher.Rect{-delta, delta, -delta, delta})
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene(view)
	if err := s.SetCamera(vecmath.Identity(), fov); err != nil {
		t.Fatal(err)
	}
	return s, &buf
}

func TestSetCameraRejectsWideFOV(t *testing.T) {
	s, _ := newTestScene(t, 0.3)
	if err := s.SetCamera(vecmath.Identity(), math.Pi); !errors.Is(err, ErrFOVLimit) {
		t.Errorf("pi FOV gave %v, want ErrFOVLimit", err)
	}
	// Exactly at the ceiling is allowed.
	if err := s.SetCamera(vecmath.Identity(), 2*MaxFOV); err != nil {
		t.Errorf("FOV at the ceiling rejected: %v", err)
	}
}

func TestProjectBodyRequiresCamera(t *testing.T) {
	var buf bytes.Buffer
	dev := escher.NewDevice(&buf)
	view, err := escher.NewView(dev, escher.Rect{0, 1, 0, 1}, escher.Rect{-1, 1, -1, 1})
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene(view)
	err = s.ProjectBody(Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 1, Gray: LineLit})
	if !errors.Is(err, ErrNoCamera) {
		t.Errorf("got %v, want ErrNoCamera", err)
	}
}

func TestProjectBodyEmitsClosedLimb(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	// Body on the optic axis: camera columns are reference axes, so the
	// camera-frame center is (0, 0, 100).
	b := Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 2, Gray: LineLit}
	if err := s.ProjectBody(b); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "S\n") {
		t.Fatal("no stroke emitted")
	}
	// The limb is one closed chain: exactly one newpath for the polygon.
	if got := strings.Count(out, "N\n"); got != 1 {
		t.Errorf("limb stroked in %d chains, want 1 closed polygon", got)
	}
	if s.Projected() != 1 {
		t.Errorf("Projected = %d, want 1", s.Projected())
	}
}

func TestProjectBodyCentroidOnAxis(t *testing.T) {
	// A centered body's limb midpoints must average to the screen center.
	var buf bytes.Buffer
	dev := escher.NewDevice(&buf)
	view, err := escher.NewView(dev, escher.Rect{0, 1, 0, 1},
		escher.Rect{-0.15, 0.15, -0.15, 0.15})
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene(view)
	if err := s.SetCamera(vecmath.Identity(), 0.3); err != nil {
		t.Fatal(err)
	}
	if err := s.ProjectBody(Body{
		Center: vecmath.Vec3{0, 0, 1},
		Radius: 0.05,
		Gray:   LineLit,
	}); err != nil {
		t.Fatal(err)
	}

	var sumX, sumY, n float64
	for _, line := range strings.Split(buf.String(), "\n") {
		var x, y int
		var op string
		if _, err := fmtSscanf(line, &x, &y, &op); err != nil || op != "L" {
			continue
		}
		sumX += float64(x)
		sumY += float64(y)
		n++
	}
	if n == 0 {
		t.Fatal("no lineto vertices found")
	}
	cx, cy := sumX/n, sumY/n
	wantX := float64(escher.MinX+escher.MaxX) / 2
	wantY := float64(escher.MinY+escher.MaxY) / 2
	if math.Abs(cx-wantX) > 2 || math.Abs(cy-wantY) > 2 {
		t.Errorf("limb centroid (%.1f, %.1f), want (%.1f, %.1f)", cx, cy, wantX, wantY)
	}
}

// fmtSscanf parses "X Y OP" lines from the PostScript body.
func fmtSscanf(line string, x, y *int, op *string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, errors.New("not a coordinate line")
	}
	var err error
	if *x, err = atoi(fields[0]); err != nil {
		return 0, err
	}
	if *y, err = atoi(fields[1]); err != nil {
		return 1, err
	}
	*op = fields[2]
	return 3, nil
}

func atoi(s string) (int, error) {
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func TestProjectBodyOblateFlattensPolarAxis(t *testing.T) {
	// With the pole along camera y and flattening f, the limb's vertical
	// extent shrinks to (1-f) of the horizontal one.
	limbSpans := func(f float64) (dx, dy float64) {
		var buf bytes.Buffer
		dev := escher.NewDevice(&buf)
		view, err := escher.NewView(dev, escher.Rect{0, 1, 0, 1},
			escher.Rect{-0.15, 0.15, -0.15, 0.15})
		if err != nil {
			t.Fatal(err)
		}
		s := NewScene(view)
		if err := s.SetCamera(vecmath.Identity(), 0.3); err != nil {
			t.Fatal(err)
		}
		if err := s.ProjectBody(Body{
			Center:     vecmath.Vec3{0, 0, 1},
			Radius:     0.05,
			Pole:       vecmath.Vec3{0, 1, 0},
			Flattening: f,
			Gray:       LineLit,
		}); err != nil {
			t.Fatal(err)
		}
		minX, maxX := 1<<30, -(1 << 30)
		minY, maxY := 1<<30, -(1 << 30)
		for _, line := range strings.Split(buf.String(), "\n") {
			var x, y int
			var op string
			if _, err := fmtSscanf(line, &x, &y, &op); err != nil || (op != "L" && op != "M") {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
		return float64(maxX - minX), float64(maxY - minY)
	}
	dx, dy := limbSpans(0.5)
	if dx == 0 || dy == 0 {
		t.Fatal("no limb vertices found")
	}
	if ratio := dy / dx; math.Abs(ratio-0.5) > 0.05 {
		t.Errorf("polar/equatorial span ratio = %.3f, want 0.5", ratio)
	}
	dx0, dy0 := limbSpans(0)
	if math.Abs(dy0/dx0-1.0) > 0.05 {
		t.Errorf("spherical body span ratio = %.3f, want 1", dy0/dx0)
	}
}

// renderBody projects one body into a fresh 0.3 rad scene and returns
// the PostScript emitted.
func renderBody(t *testing.T, b Body) string {
	t.Helper()
	s, buf := newTestScene(t, 0.3)
	if err := s.ProjectBody(b); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestProjectBodyGridDayNightSplit(t *testing.T) {
	// Sunlight from +x with the body on the optic axis: the visible
	// hemisphere is half day, half night, so the grid strokes in both
	// the lit and the dark gray and the terminator arc appears.
	out := renderBody(t, Body{
		Center:   vecmath.Vec3{0, 0, 100},
		Radius:   5,
		Pole:     vecmath.Vec3{0, 1, 0},
		Sun:      vecmath.Vec3{1, 0, 0},
		Merids:   4,
		Lats:     3,
		Gray:     LineLit,
		DarkGray: LineDark,
		TermGray: LineDark,
	})
	if !strings.Contains(out, "0.0 G") {
		t.Error("day-side grid missing lit gray")
	}
	if !strings.Contains(out, "0.6 G") {
		t.Error("night-side grid missing dark gray")
	}
	bare := renderBody(t, Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit})
	if strings.Count(out, "N\n") <= strings.Count(bare, "N\n") {
		t.Error("grid added no chains beyond the bare limb")
	}
}

func TestProjectBodyGridWithoutSunStaysLit(t *testing.T) {
	out := renderBody(t, Body{
		Center:   vecmath.Vec3{0, 0, 100},
		Radius:   5,
		Pole:     vecmath.Vec3{0, 1, 0},
		Merids:   4,
		Lats:     3,
		Gray:     LineLit,
		DarkGray: LineDark,
		TermGray: LineDark,
	})
	if strings.Contains(out, "0.6 G") {
		t.Errorf("sunless grid stroked in dark gray:\n%s", out)
	}
	if !strings.Contains(out, "S\n") {
		t.Error("sunless grid emitted nothing")
	}
}

func TestProjectBodyGridStaysInsideLimb(t *testing.T) {
	// Every grid vertex lies on the visible hemisphere, so its projection
	// stays within the limb's device-space bounding box.
	bbox := func(out string) (minX, maxX, minY, maxY int) {
		minX, maxX = 1<<30, -(1 << 30)
		minY, maxY = 1<<30, -(1 << 30)
		for _, line := range strings.Split(out, "\n") {
			var x, y int
			var op string
			if _, err := fmtSscanf(line, &x, &y, &op); err != nil || (op != "L" && op != "M") {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
		return minX, maxX, minY, maxY
	}
	limb := Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit}
	lx1, lx2, ly1, ly2 := bbox(renderBody(t, limb))

	grid := limb
	grid.Pole = vecmath.Vec3{0, 1, 0}
	grid.Sun = vecmath.Vec3{1, 0, 0}
	grid.Merids = 6
	grid.Lats = 5
	grid.DarkGray = LineDark
	grid.TermGray = LineDark
	gx1, gx2, gy1, gy2 := bbox(renderBody(t, grid))

	const slack = 2
	if gx1 < lx1-slack || gx2 > lx2+slack || gy1 < ly1-slack || gy2 > ly2+slack {
		t.Errorf("grid bbox (%d..%d, %d..%d) leaks outside limb bbox (%d..%d, %d..%d)",
			gx1, gx2, gy1, gy2, lx1, lx2, ly1, ly2)
	}
}

func TestProjectBodyTerminatorAlone(t *testing.T) {
	// Blank grid, Sun set: only the limb plus the terminator arc.
	out := renderBody(t, Body{
		Center:   vecmath.Vec3{0, 0, 100},
		Radius:   5,
		Sun:      vecmath.Vec3{1, 0, 0},
		Gray:     LineLit,
		TermGray: LineDark,
	})
	if !strings.Contains(out, "0.6 G") {
		t.Errorf("terminator arc missing:\n%s", out)
	}
}

func TestProjectBodyTerminatorSuppressedByLineNone(t *testing.T) {
	plain := renderBody(t, Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit})
	none := renderBody(t, Body{
		Center:   vecmath.Vec3{0, 0, 100},
		Radius:   5,
		Sun:      vecmath.Vec3{1, 0, 0},
		Gray:     LineLit,
		TermGray: LineNone,
	})
	if plain != none {
		t.Errorf("TermGray LineNone still drew a terminator:\n%s", none)
	}
}

func TestProjectBodyVerticesStayInCone(t *testing.T) {
	// A body pushed to the cone edge must have every vertex clipped onto
	// or inside the 75 degree boundary, never dropped.
	s, buf := newTestScene(t, 2*MaxFOV)
	dir := vecmath.RadRec(100, 0, math.Pi/2-MaxFOV) // centered on the cone boundary
	if err := s.ProjectBody(Body{Center: dir, Radius: 30, Gray: LineLit}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "S\n") {
		t.Error("boundary body emitted nothing")
	}
}

func TestProjectBodyOutsideViewEmitsNothing(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	behind := Body{Center: vecmath.Vec3{0, 0, -100}, Radius: 1, Gray: LineLit}
	if err := s.ProjectBody(behind); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("body behind camera produced output:\n%s", buf.String())
	}
}

func TestProjectRingEdgeOnNoSuppression(t *testing.T) {
	// Edge-on ring: pole perpendicular to the line of sight. The
	// projected ellipse degenerates to a line and no arc is suppressed,
	// so all StdSeg/skip segments survive into the output.
	s, buf := newTestScene(t, 0.3)
	bodies := []Body{{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit}}
	if err := s.SetGeometry(bodies); err != nil {
		t.Fatal(err)
	}
	ring := Ring{
		Center: vecmath.Vec3{0, 0, 100},
		Pole:   vecmath.Vec3{0, 1, 0},
		Radius: 10,
	}
	if err := s.ProjectRing(ring, LineLit, LineDark); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "S\n") {
		t.Fatal("edge-on ring emitted nothing")
	}
	// Degenerate ellipse: every vertex has the same device y.
	ys := map[int]bool{}
	for _, line := range strings.Split(out, "\n") {
		var x, y int
		var op string
		if _, err := fmtSscanf(line, &x, &y, &op); err != nil || (op != "L" && op != "M") {
			continue
		}
		ys[y] = true
	}
	if len(ys) > 2 {
		t.Errorf("edge-on ring spans %d device rows, want a flat line", len(ys))
	}
}

func TestProjectRingFarArcSuppressed(t *testing.T) {
	// Open ring around a large primary: the far arc passes behind the
	// disk and is omitted, so fewer segments survive than an unoccluded
	// ring would emit.
	countSegments := func(bodyRadius float64) int {
		s, buf := newTestScene(t, 0.6)
		bodies := []Body{{Center: vecmath.Vec3{0, 0, 100}, Radius: bodyRadius, Gray: LineLit}}
		if err := s.SetGeometry(bodies); err != nil {
			t.Fatal(err)
		}
		ring := Ring{
			Center: vecmath.Vec3{0, 0, 100},
			Pole:   vecmath.Vec3{0, 0.8, 0.6},
			Radius: 20,
		}
		if err := s.ProjectRing(ring, LineLit, LineDark); err != nil {
			t.Fatal(err)
		}
		n := 0
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.HasSuffix(line, " L") || strings.HasSuffix(line, " M") {
				n++
			}
		}
		return n
	}
	open := countSegments(15)
	tiny := countSegments(0.001)
	if open >= tiny {
		t.Errorf("large primary suppressed nothing: %d segments vs %d unoccluded", open, tiny)
	}
}

func TestProjectRingDarkUsesDarkGray(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	if err := s.SetGeometry(nil); err != nil {
		t.Fatal(err)
	}
	ring := Ring{
		Center: vecmath.Vec3{0, 0, 100},
		Pole:   vecmath.Vec3{0, 0.3, 1},
		Radius: 10,
		Dark:   true,
	}
	if err := s.ProjectRing(ring, LineLit, LineDark); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0.6 G\n") {
		t.Errorf("dark ring not stroked in dark gray:\n%s", buf.String())
	}
}

func TestProjectStarGlyph(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	dir := vecmath.Vec3{0, 0, 1}
	if err := s.ProjectStar(dir, StarFontPlus, 0.01, LineStar); err != nil {
		t.Fatal(err)
	}
	// Two glyph segments, disconnected: two strokes.
	if got := strings.Count(buf.String(), "N\n"); got != 2 {
		t.Errorf("cross glyph stroked in %d chains, want 2", got)
	}
}

func TestProjectStarBehindCameraSkipped(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	if err := s.ProjectStar(vecmath.Vec3{0, 0, -1}, StarFontPlus, 0.01, LineStar); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("star behind camera produced output:\n%s", buf.String())
	}
}

func TestProjectMarkerDrawsOverlay(t *testing.T) {
	s, buf := newTestScene(t, 0.3)
	d := math.Tan(0.15)
	err := s.ProjectMarker(
		[]float64{-d, -d, d, d},
		[]float64{-d, d, d, -d},
		[]float64{-d, d, d, -d},
		[]float64{d, d, -d, -d},
		LineAxis)
	if err != nil {
		t.Fatal(err)
	}
	// Four box edges share endpoints and gray: one coalesced chain.
	if got := strings.Count(buf.String(), "N\n"); got != 1 {
		t.Errorf("border box stroked in %d chains, want 1", got)
	}
}

func TestProjectGeometryOrderBodiesBeforeRings(t *testing.T) {
	s, buf := newTestScene(t, 0.6)
	bodies := []Body{{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit}}
	rings := []Ring{{
		Center: vecmath.Vec3{0, 0, 100},
		Pole:   vecmath.Vec3{0, 0.3, 1},
		Radius: 15,
		Dark:   true,
	}}
	if err := s.ProjectGeometry(bodies, rings); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	body := strings.Index(out, "0.0 G")
	ring := strings.Index(out, "0.6 G")
	if body < 0 || ring < 0 || body > ring {
		t.Errorf("ring ink not painted after body ink (body at %d, ring at %d)", body, ring)
	}
}

func TestClearResetsCounters(t *testing.T) {
	s, _ := newTestScene(t, 0.3)
	if err := s.ProjectBody(Body{Center: vecmath.Vec3{0, 0, 100}, Radius: 5, Gray: LineLit}); err != nil {
		t.Fatal(err)
	}
	if s.Projected() == 0 {
		t.Fatal("nothing projected")
	}
	if err := s.Clear(escher.Rect{0.1, 0.9, 0.1, 0.9}); err != nil {
		t.Fatal(err)
	}
	if s.Projected() != 0 {
		t.Errorf("Projected = %d after clear", s.Projected())
	}
}
