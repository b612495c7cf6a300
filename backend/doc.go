// Package backend provides a pluggable chart rendering abstraction.
//
// The backend package lets callers pick an output format at runtime.
// The PostScript backend reproduces the legacy sky-chart pages byte for
// byte and is always available; alternative backends are optional and
// register themselves when their package is imported.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The PostScript backend is automatically registered on import:
//
//	import "github.com/SETI/rms-planetviewer/backend"
//
// The raster backend registers on its own import, so builds that exclude
// it carry none of its dependencies:
//
//	import _ "github.com/SETI/rms-planetviewer/backend/raster"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b, err := backend.Get("raster")
//	if errors.Is(err, backend.ErrBackendNotAvailable) {
//		// this build has no raster support
//	}
//
// # Usage
//
//	b := backend.MustDefault()
//	f, err := os.Create("chart." + b.Ext())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer f.Close()
//	if err := b.Render(f, geom, opts); err != nil {
//		log.Fatal(err)
//	}
//
// # Available Backends
//
// - "postscript": the legacy PostScript page (always available)
// - "raster": simplified PNG chart (register by importing backend/raster)
package backend
