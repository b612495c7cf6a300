//go:build !noraster

package main

// The raster backend registers itself on import. Build with -tags noraster
// to drop the PNG path and its font dependencies.
import _ "github.com/SETI/rms-planetviewer/backend/raster"
