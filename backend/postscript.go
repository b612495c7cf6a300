package backend

import (
	"io"

	planetview "github.com/SETI/rms-planetviewer"
)

// PostScriptBackend renders charts as the legacy PostScript pages.
type PostScriptBackend struct{}

// init registers the PostScript backend on package import.
func init() {
	Register(BackendPostScript, func() ChartRenderer {
		return &PostScriptBackend{}
	})
}

// NewPostScriptBackend creates a new PostScript chart backend.
func NewPostScriptBackend() *PostScriptBackend {
	return &PostScriptBackend{}
}

// Name returns the backend identifier.
func (*PostScriptBackend) Name() string { return BackendPostScript }

// Ext returns the output file extension.
func (*PostScriptBackend) Ext() string { return "ps" }

// Render draws the chart as PostScript.
func (*PostScriptBackend) Render(w io.Writer, geom planetview.Geometry, opts planetview.Options) error {
	return planetview.DrawView(w, geom, opts)
}
