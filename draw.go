package planetview

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/SETI/rms-planetviewer/escher"
	"github.com/SETI/rms-planetviewer/euclid"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
	"github.com/SETI/rms-planetviewer/starcat"
)

// ErrFOVRange reports a requested field of view outside (0, pi).
var ErrFOVRange = errors.New("planetview: field of view out of range")

const (
	// The chart square spans seven inches of the page.
	fovPts = 7.0 * pointsPerInch

	// Chart viewport as fractions of the drawable page. The vertical
	// fractions are inverted so declination increases upward.
	viewH1 = 0.066666667
	viewH2 = 1.0
	viewV1 = 0.988888889
	viewV2 = 0.055555556

	starWidthPts = 1.5
)

// chart carries the drawing state threaded through one DrawView call.
type chart struct {
	dev   *escher.Device
	view  *escher.View
	scene *euclid.Scene
	opts  *Options
	cmat  vecmath.Mat3
	delta float64
}

// chartBody is a scene body plus the bookkeeping the decoration steps
// need: the name label, the observer line of sight and the apparent
// diameter in printer points.
type chartBody struct {
	euclid.Body
	name string
	los  vecmath.Vec3
	pts  float64
}

// DrawView renders one chart as PostScript on w. The geometry provider
// supplies all positional state for the epoch; opts describes the chart.
// Every error path that reaches the output stream still finishes the
// page, so the result is always well-formed PostScript.
func DrawView(w io.Writer, geom Geometry, opts Options) (err error) {
	log := Logger()
	if !(opts.FOV > 0 && opts.FOV < math.Pi) {
		return fmt.Errorf("%w: %v rad", ErrFOVRange, opts.FOV)
	}
	o := opts.withDefaults()

	dev := escher.NewDevice(w,
		escher.WithTitle(o.Title),
		escher.WithCreator(o.TargetName+" Viewer, PDS Ring-Moon Systems Node"),
		escher.WithFonts("Helvetica"),
	)
	delta := math.Tan(o.FOV / 2.0)
	view, err := escher.NewView(dev,
		escher.Rect{viewH1, viewH2, viewV1, viewV2},
		escher.Rect{-delta, delta, -delta, delta})
	if err != nil {
		return err
	}
	c := &chart{
		dev:   dev,
		view:  view,
		scene: euclid.NewScene(view),
		opts:  &o,
		delta: delta,
	}

	log.Debug("chart: prolog", "title", o.Title)
	if err = dev.Open(); err != nil {
		return err
	}
	// The page is open from here on: finish it whatever happens below.
	defer func() {
		if dev.Closed() {
			return
		}
		log.Debug("chart: clear")
		if cerr := c.scene.Clear(escher.Rect{0, 1, 0, 1}); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = c.writePrologue(); err != nil {
		return err
	}

	log.Debug("chart: decorations")
	if err = c.writeDecorations(o.Now()); err != nil {
		return err
	}
	if o.ShareURL != "" {
		if err = c.shareGlyph(o.ShareURL); err != nil {
			return err
		}
	}

	log.Debug("chart: camera", "ra", o.CenterRA, "dec", o.CenterDec, "fov", o.FOV)
	c.cmat = CameraMatrix(o.CenterRA, o.CenterDec)
	if err = c.scene.SetCamera(c.cmat, o.FOV); err != nil {
		return err
	}

	log.Debug("chart: geometry", "target", o.Target)
	bodies, rings, dashed, err2 := c.buildGeometry(geom)
	if err2 != nil {
		err = err2
		return err
	}

	log.Debug("chart: scene", "bodies", len(bodies), "rings", len(rings))
	if err = c.drawScene(bodies, rings, dashed); err != nil {
		return err
	}

	log.Debug("chart: border")
	if err = c.drawBox(); err != nil {
		return err
	}
	if err = c.axisTicks(); err != nil {
		return err
	}

	log.Debug("chart: annotations")
	if err = c.labelMoons(bodies); err != nil {
		return err
	}
	if err = c.drawStars(); err != nil {
		return err
	}

	log.Info("chart complete", "target", o.TargetName,
		"projected", c.scene.Projected(), "inked", c.dev.Drawn(), "stars", len(o.Stars))
	return nil
}

// Meridian and latitude counts for every drawn disk. Twelve planes give
// meridians every 15 degrees; eleven circles give latitudes every 15
// degrees between the poles.
const (
	diskMerids = 12
	diskLats   = 11
)

// buildGeometry resolves every provider lookup up front. The primary is
// always the first body; ring darkness comes from whether the observer
// and the Sun sit on opposite sides of the ring plane, with the Sun's
// angular radius as the penumbra allowance. Dashed rings are never dark.
func (c *chart) buildGeometry(geom Geometry) ([]chartBody, []euclid.Ring, []bool, error) {
	obs, err := geom.ObserverPosition()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planetview: observer: %w", err)
	}
	pos, err := geom.BodyPosition(c.opts.Target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", c.opts.Target, err)
	}
	rad, err := geom.BodyRadius(c.opts.Target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", c.opts.Target, err)
	}
	bpole, err := geom.BodyPole(c.opts.Target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", c.opts.Target, err)
	}
	sunDir, sunAng, err := geom.SunDirection(c.opts.Target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planetview: sun: %w", err)
	}
	sun := sunDir.Hat()

	merids, lats := diskMerids, diskLats
	termGray := euclid.LineDark
	if c.opts.BlankDisks {
		merids, lats = 0, 0
		termGray = euclid.LineLit
	}
	surface := func(center vecmath.Vec3, radius float64, pole vecmath.Vec3) euclid.Body {
		return euclid.Body{
			Center:   center,
			Radius:   radius,
			Pole:     pole,
			Sun:      sun,
			Merids:   merids,
			Lats:     lats,
			Gray:     euclid.LineLit,
			DarkGray: euclid.LineDark,
			TermGray: termGray,
		}
	}

	primaryLOS := pos.Sub(obs)
	bodies := []chartBody{{
		Body: surface(primaryLOS, rad, bpole),
		los:  primaryLOS,
	}}

	for _, m := range c.opts.Moons {
		mpos, err := geom.BodyPosition(m.ID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", m.ID, err)
		}
		mrad, err := geom.BodyRadius(m.ID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", m.ID, err)
		}
		mpole, err := geom.BodyPole(m.ID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("planetview: body %d: %w", m.ID, err)
		}
		los := mpos.Sub(obs)
		pts := 0.0
		if d := los.Norm(); d > 0 {
			pts = 2.0 * mrad * fovPts / (d * c.opts.FOV)
		}
		bodies = append(bodies, chartBody{
			Body: surface(los, mrad, mpole),
			name: m.Name,
			los:  los,
			pts:  pts,
		})
	}

	var rings []euclid.Ring
	var dashed []bool
	if len(c.opts.Rings) > 0 {
		pole, err := geom.RingGeometry(c.opts.Target)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("planetview: rings of %d: %w", c.opts.Target, err)
		}
		dot1 := -pole.Dot(primaryLOS)
		dot2 := pole.Dot(sun)
		for _, rs := range c.opts.Rings {
			dark := !rs.Dashed && vecmath.OpSgnd(dot1, dot2) && math.Abs(dot2) > sunAng
			rings = append(rings, euclid.Ring{
				Center: primaryLOS,
				Pole:   pole,
				Radius: rs.Radius,
				Dark:   dark,
			})
			dashed = append(dashed, rs.Dashed)
		}
	}
	return bodies, rings, dashed, nil
}

// drawScene projects every body, then every ring, interleaving the
// progress comments and pen-width changes the legacy charts carry. Small
// moons are stroked with extra width so they stay visible at the minimum
// apparent diameter.
func (c *chart) drawScene(bodies []chartBody, rings []euclid.Ring, dashed []bool) error {
	ebodies := make([]euclid.Body, len(bodies))
	for i := range bodies {
		ebodies[i] = bodies[i].Body
	}
	if err := c.scene.SetGeometry(ebodies); err != nil {
		return err
	}

	for i, b := range bodies {
		if i == 0 {
			if err := c.dev.WriteString("%Draw planet..."); err != nil {
				return err
			}
		} else {
			if b.name != "" {
				if err := c.dev.WriteString("%Draw " + b.name + "..."); err != nil {
					return err
				}
			}
			if err := c.dev.SetWidth(c.opts.MoonDiamPts - b.pts); err != nil {
				return err
			}
		}
		if err := c.scene.ProjectBody(b.Body); err != nil {
			return err
		}
	}
	if err := c.dev.SetWidth(0); err != nil {
		return err
	}

	for i := range rings {
		if err := c.dev.WriteString(fmt.Sprintf("%%Draw ring #%2d...", i+1)); err != nil {
			return err
		}
		if dashed[i] {
			if err := c.dev.WriteString("[30 30] 0 setdash"); err != nil {
				return err
			}
		}
		if err := c.scene.ProjectRing(rings[i], euclid.LineLit, euclid.LineDark); err != nil {
			return err
		}
		if dashed[i] {
			if err := c.dev.WriteString("[] 0 setdash"); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawBox strokes the chart border.
func (c *chart) drawBox() error {
	if err := c.dev.WriteString("%Draw box..."); err != nil {
		return err
	}
	d := c.delta
	return c.scene.ProjectMarker(
		[]float64{-d, -d, d, d},
		[]float64{-d, d, d, -d},
		[]float64{-d, d, d, -d},
		[]float64{d, d, -d, -d},
		euclid.LineAxis)
}

// labelMoons writes name labels beside the moons, offset off the disk by
// the larger of the true and the padded apparent radius.
func (c *chart) labelMoons(bodies []chartBody) error {
	if c.opts.MoonLabelPts <= 0 {
		return nil
	}
	if err := c.dev.WriteString("%Label moons..."); err != nil {
		return err
	}
	for _, b := range bodies[1:] {
		if b.name == "" {
			continue
		}
		radius := math.Max(b.pts, c.opts.MoonDiamPts) * 0.5 * c.opts.FOV / fovPts
		if err := c.annotate(b.name, b.los, radius); err != nil {
			return err
		}
	}
	return nil
}

// drawStars plots the star field as plus glyphs sized by magnitude, with
// optional name labels.
func (c *chart) drawStars() error {
	if len(c.opts.Stars) == 0 {
		return nil
	}
	if err := c.dev.WriteString("%Draw stars..."); err != nil {
		return err
	}
	if err := c.dev.SetWidth(starWidthPts); err != nil {
		return err
	}
	for _, st := range c.opts.Stars {
		los := vecmath.RadRec(1.0, st.RA, st.Dec)
		pts := starcat.GlyphPoints(st.Mag) * (c.opts.StarPts / DefaultStarPts)
		scale := pts * c.delta / fovPts
		err := c.scene.ProjectStar(los, euclid.StarFontPlus, scale, euclid.LineStar)
		if err != nil {
			return err
		}
		if c.opts.StarLabels && st.Name != "" {
			if err := c.annotate(st.Name, los, 0); err != nil {
				return err
			}
		}
	}
	return c.dev.SetWidth(0)
}
