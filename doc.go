// Package planetview renders sky charts of planetary systems as
// PostScript, reproducing the page layout and byte-level stream
// conventions of the PDS Ring-Moon Systems Node viewer tools.
//
// # Overview
//
// A chart shows a primary body, its moons and rings, and a background
// star field inside a square window on the sky, framed by RA/Dec tick
// marks with deg/min/sec labels, a title, caption columns and a credit
// footer. Positions come from a caller-supplied Geometry provider; the
// package performs the projection and the drawing, never the dynamics.
//
// # Quick Start
//
//	opts := planetview.Options{
//	    Target:     699,
//	    TargetName: "Saturn",
//	    CenterRA:   ra,
//	    CenterDec:  dec,
//	    FOV:        fov,
//	    Title:      "Saturn  2026-08-31",
//	}
//	var buf bytes.Buffer
//	if err := planetview.DrawView(&buf, geom, opts); err != nil {
//	    log.Fatal(err)
//	}
//
// # Structure
//
// The escher package owns the PostScript stream and its pen state; the
// euclid package projects scene geometry through the camera; starcat
// loads star catalogs; backend selects alternative renderers. DrawView
// orchestrates one chart through a fixed sequence and always finishes
// the page, even when drawing fails partway.
//
// # Logging
//
// The package is silent by default. Call SetLogger with an *slog.Logger
// to observe chart progress.
package planetview
