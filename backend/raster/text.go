package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// All chart text uses one embedded face. Parsed forms are cached per
// process; the shaper pool keeps HarfBuzz state reuse cheap across
// concurrent renders.

var (
	fontOnce  sync.Once
	fontErr   error
	shapeFont *gtfont.Face
	drawFont  *opentype.Font

	shaperPool = sync.Pool{
		New: func() any {
			return &shaping.HarfbuzzShaper{}
		},
	}
)

func loadFonts() (*gtfont.Face, *opentype.Font, error) {
	fontOnce.Do(func() {
		shapeFont, fontErr = gtfont.ParseTTF(bytes.NewReader(goregular.TTF))
		if fontErr != nil {
			fontErr = fmt.Errorf("raster: parse font: %w", fontErr)
			return
		}
		drawFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("raster: parse font: %w", fontErr)
		}
	})
	return shapeFont, drawFont, fontErr
}

// measure shapes text at the given size and returns its advance width in
// pixels.
func measure(text string, size float64) (float64, error) {
	sf, _, err := loadFonts()
	if err != nil {
		return 0, err
	}
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      sf,
		Size:      fixed.Int26_6(size * 64),
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	shaperPool.Put(shaper)

	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.XAdvance
	}
	return float64(adv) / 64.0, nil
}

// label draws text with its baseline origin at (x, y) chart pixels.
func (p *painter) label(text string, x, y, size float64) error {
	_, df, err := loadFonts()
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(df, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("raster: face: %w", err)
	}
	defer face.Close()

	d := xfont.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
	return nil
}
