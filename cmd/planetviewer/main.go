// Command planetviewer renders a planetary sky chart from a precomputed
// geometry file.
//
// Usage:
//
//	planetviewer -geometry scene.json -target 699 -name Saturn \
//	    -ra "2 30 00" -dec "12 00 00" -fov 0.5 -o chart.ps
//
// RA is given in hours (or "h m s"), Dec in degrees (or "d m s"), and
// the field of view in degrees. Moons repeat as -moon ID=Name; rings
// repeat as -ring RADIUS or -ring RADIUS,dashed with radii in
// kilometers. Stars come from a plain-text catalog (-stars) or a SQLite
// catalog (-stardb), trimmed to the brightest entries in the field.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	planetview "github.com/SETI/rms-planetviewer"
	"github.com/SETI/rms-planetviewer/backend"
	"github.com/SETI/rms-planetviewer/starcat"
)

func main() {
	var (
		geomPath  = flag.String("geometry", "", "scene geometry file (JSON)")
		target    = flag.Int("target", 0, "primary body ID")
		name      = flag.String("name", "", "primary body name")
		raArg     = flag.String("ra", "0", "center right ascension, hours or \"h m s\"")
		decArg    = flag.String("dec", "0", "center declination, degrees or \"d m s\"")
		fovDeg    = flag.Float64("fov", 1.0, "field of view in degrees")
		title     = flag.String("title", "", "chart title")
		moonDiam  = flag.Float64("moon-diam", 4.0, "minimum moon diameter in points")
		moonLabel = flag.Float64("moon-label", 9.0, "moon label size in points, 0 disables")
		starsPath = flag.String("stars", "", "plain-text star catalog")
		starDB    = flag.String("stardb", "", "SQLite star catalog")
		starMax   = flag.Int("star-max", 100, "maximum catalog stars")
		starNames = flag.Bool("star-labels", false, "label stars by name")
		starPts   = flag.Float64("star-pts", planetview.DefaultStarPts, "zero-magnitude star diameter in points")
		blank     = flag.Bool("blank-disks", false, "suppress surface grids on body disks")
		shareURL  = flag.String("share-url", "", "URL encoded as a corner QR glyph")
		backName  = flag.String("backend", "", "output backend (default: best available)")
		output    = flag.String("o", "chart.ps", "output file")
	)

	var moons []planetview.Moon
	flag.Func("moon", "moon as ID=Name, repeatable", func(s string) error {
		id, mname, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("want ID=Name, got %q", s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return fmt.Errorf("bad moon ID %q: %w", id, err)
		}
		moons = append(moons, planetview.Moon{ID: n, Name: strings.TrimSpace(mname)})
		return nil
	})

	var rings []planetview.RingSpec
	flag.Func("ring", "ring radius in km, optionally RADIUS,dashed; repeatable", func(s string) error {
		radArg, mod, hasMod := strings.Cut(s, ",")
		r, err := strconv.ParseFloat(strings.TrimSpace(radArg), 64)
		if err != nil {
			return fmt.Errorf("bad ring radius %q: %w", radArg, err)
		}
		dashed := false
		if hasMod {
			if strings.TrimSpace(mod) != "dashed" {
				return fmt.Errorf("unknown ring modifier %q", mod)
			}
			dashed = true
		}
		rings = append(rings, planetview.RingSpec{Radius: r, Dashed: dashed})
		return nil
	})

	var captions []planetview.Caption
	flag.Func("caption", "caption row as LEFT=RIGHT, repeatable", func(s string) error {
		left, right, _ := strings.Cut(s, "=")
		captions = append(captions, planetview.Caption{Left: left, Right: right})
		return nil
	})

	flag.Parse()

	if *geomPath == "" || *target == 0 {
		fmt.Fprintln(os.Stderr, "planetviewer: -geometry and -target are required")
		flag.Usage()
		os.Exit(2)
	}

	geom, err := loadGeometry(*geomPath)
	if err != nil {
		log.Fatalf("planetviewer: %v", err)
	}

	ra, err := starcat.ParseAngle(*raArg)
	if err != nil {
		log.Fatalf("planetviewer: -ra: %v", err)
	}
	dec, err := starcat.ParseAngle(*decArg)
	if err != nil {
		log.Fatalf("planetviewer: -dec: %v", err)
	}
	raRad := ra * 15 * math.Pi / 180
	decRad := dec * math.Pi / 180
	fov := *fovDeg * math.Pi / 180

	stars, err := loadStars(*starsPath, *starDB, raRad, decRad, fov, *starMax)
	if err != nil {
		log.Fatalf("planetviewer: %v", err)
	}

	opts := planetview.Options{
		Target:       *target,
		TargetName:   *name,
		CenterRA:     raRad,
		CenterDec:    decRad,
		FOV:          fov,
		Title:        *title,
		Captions:     captions,
		Moons:        moons,
		MoonLabelPts: *moonLabel,
		MoonDiamPts:  *moonDiam,
		BlankDisks:   *blank,
		Rings:        rings,
		Stars:        stars,
		StarLabels:   *starNames,
		StarPts:      *starPts,
		ShareURL:     *shareURL,
	}

	b, err := pickBackend(*backName)
	if err != nil {
		log.Fatalf("planetviewer: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("planetviewer: %v", err)
	}
	if err := b.Render(f, geom, opts); err != nil {
		f.Close()
		log.Fatalf("planetviewer: render: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("planetviewer: %v", err)
	}
	log.Printf("Chart saved to %s (%s backend)\n", *output, b.Name())
}

// pickBackend resolves the named backend, or the best registered one.
func pickBackend(name string) (backend.ChartRenderer, error) {
	if name == "" {
		b := backend.Default()
		if b == nil {
			return nil, fmt.Errorf("no chart backend available")
		}
		return b, nil
	}
	return backend.Get(name)
}

// loadStars reads the star field from whichever catalog was given. The
// SQLite path trims to the brightest stars within the field of view.
func loadStars(textPath, dbPath string, ra, dec, fov float64, limit int) ([]starcat.Star, error) {
	switch {
	case textPath != "" && dbPath != "":
		return nil, fmt.Errorf("-stars and -stardb are mutually exclusive")
	case textPath != "":
		f, err := os.Open(textPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return starcat.ReadCatalog(f, limit)
	case dbPath != "":
		db, err := starcat.OpenDB(dbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.BrightestInField(context.Background(), ra, dec, fov/2, limit)
	}
	return nil, nil
}
