package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	planetview "github.com/SETI/rms-planetviewer"
	"github.com/SETI/rms-planetviewer/backend"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
	"github.com/SETI/rms-planetviewer/starcat"
)

func newTestImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
	fill(img, color.White)
	return img
}

type stubGeometry struct{}

func (stubGeometry) ObserverPosition() (vecmath.Vec3, error) {
	return vecmath.Vec3{}, nil
}

func (stubGeometry) BodyPosition(id int) (vecmath.Vec3, error) {
	if id == 606 {
		return vecmath.Vec3{1.4e9, 1.2e6, 2e5}, nil
	}
	return vecmath.Vec3{1.4e9, 0, 0}, nil
}

func (stubGeometry) BodyRadius(id int) (float64, error) {
	if id == 606 {
		return 2575, nil
	}
	return 60268, nil
}

func (stubGeometry) BodyPole(id int) (vecmath.Vec3, error) {
	return vecmath.Vec3{0, 0.3, 0.954}.Hat(), nil
}

func (stubGeometry) RingGeometry(id int) (vecmath.Vec3, error) {
	return vecmath.Vec3{0, 0.3, 0.954}.Hat(), nil
}

func (stubGeometry) SunDirection(id int) (vecmath.Vec3, float64, error) {
	return vecmath.Vec3{-1, 0, 0}, 0.0003, nil
}

func chartOptions() planetview.Options {
	return planetview.Options{
		Target:     699,
		TargetName: "Saturn",
		FOV:        0.002,
		Title:      "Saturn Chart",
		Moons:      []planetview.Moon{{ID: 606, Name: "Titan"}},
		Rings:      []planetview.RingSpec{{Radius: 136780}},
		Stars: []starcat.Star{
			{Name: "HD 1", RA: 0.0003, Dec: 0.0002, Mag: 6},
		},
		MoonLabelPts: 9,
		StarLabels:   true,
	}
}

func TestBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendRaster) {
		t.Fatal("raster backend not registered on import")
	}
	b, err := backend.Get(backend.BackendRaster)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Name() != "raster" {
		t.Errorf("Name() = %q, want %q", b.Name(), "raster")
	}
	if b.Ext() != "png" {
		t.Errorf("Ext() = %q, want %q", b.Ext(), "png")
	}
}

func TestRenderProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, stubGeometry{}, chartOptions()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != pageW || h != pageH {
		t.Errorf("image size = %dx%d, want %dx%d", w, h, pageW, pageH)
	}
}

func TestRenderDrawsInk(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, stubGeometry{}, chartOptions()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dark := 0
	for y := chartTop; y <= chartTop+chartSize; y++ {
		for x := chartLeft; x <= chartLeft+chartSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				dark++
			}
		}
	}
	// The border alone contributes four 505-pixel edges.
	if dark < 4*chartSize {
		t.Errorf("dark pixels = %d, want at least %d", dark, 4*chartSize)
	}
}

func TestRenderRejectsFOVOutOfRange(t *testing.T) {
	for _, fov := range []float64{0, -1, math.Pi} {
		var buf bytes.Buffer
		opts := chartOptions()
		opts.FOV = fov
		err := New().Render(&buf, stubGeometry{}, opts)
		if !errors.Is(err, planetview.ErrFOVRange) {
			t.Errorf("FOV %v: err = %v, want ErrFOVRange", fov, err)
		}
		if buf.Len() != 0 {
			t.Errorf("FOV %v: wrote %d bytes, want 0", fov, buf.Len())
		}
	}
}

func TestMeasureWidthGrowsWithText(t *testing.T) {
	short, err := measure("a", 12)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	long, err := measure("a much longer line of text", 12)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if short <= 0 {
		t.Errorf("measure(a) = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("measure(long) = %v, want > %v", long, short)
	}
}

func TestLabelPaintsPixels(t *testing.T) {
	img := newTestImage()
	p := &painter{img: img, delta: 1}
	if err := p.label("Enceladus", chartLeft+10, chartTop+20, 12); err != nil {
		t.Fatalf("label: %v", err)
	}
	found := false
	for y := chartTop; y < chartTop+40 && !found; y++ {
		for x := chartLeft; x < chartLeft+120; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && b < 0x8000 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no dark pixels painted for label text")
	}
}
