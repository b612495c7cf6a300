package backend

import (
	"errors"
	"io"

	planetview "github.com/SETI/rms-planetviewer"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered, typically because its build was excluded.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendPostScript is the name of the PostScript chart backend.
	// It is always available.
	BackendPostScript = "postscript"
	// BackendRaster is the name of the PNG raster backend. It is
	// registered by importing backend/raster.
	BackendRaster = "raster"
)

// ChartRenderer renders one chart description to an output stream.
// The PostScript backend reproduces the legacy page byte for byte;
// alternative backends draw a simplified chart in their own format.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type ChartRenderer interface {
	// Name returns the backend identifier (e.g. "postscript", "raster").
	Name() string

	// Ext returns the conventional file extension of the output,
	// without the dot.
	Ext() string

	// Render draws the chart described by opts onto w, resolving
	// positions through geom.
	Render(w io.Writer, geom planetview.Geometry, opts planetview.Options) error
}
