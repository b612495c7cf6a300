// Package starcat loads star catalogs for chart star fields. Two sources
// are supported: the legacy plain-text list (name, RA, Dec on successive
// lines) and a SQLite catalog with magnitudes. Coordinates are J2000,
// returned in radians.
package starcat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Star is one catalog entry. RA and Dec are J2000, in radians. Mag is the
// visual magnitude; text catalogs carry no magnitude and leave it zero.
type Star struct {
	Name string
	RA   float64
	Dec  float64
	Mag  float64
}

// ErrBadAngle reports an angle field that could not be parsed.
var ErrBadAngle = errors.New("starcat: malformed angle")

// ParseAngle parses an angle written as one to three whitespace-separated
// numbers: degrees (or hours), minutes, seconds. Minutes and seconds must
// be non-negative; a leading minus sign negates the whole value, including
// "-0 30" style entries. The result is in the units of the first number.
func ParseAngle(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty string", ErrBadAngle)
	}
	parts := strings.Fields(trimmed)

	var angle float64
	switch {
	case len(parts) >= 3:
		v1, err1 := strconv.ParseFloat(parts[0], 64)
		v2, err2 := strconv.ParseFloat(parts[1], 64)
		v3, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadAngle, s)
		}
		if v2 < 0 || v3 < 0 {
			return 0, fmt.Errorf("%w: negative minutes or seconds in %q", ErrBadAngle, s)
		}
		angle = math.Abs(v1) + v2/60 + v3/3600
	case len(parts) == 2:
		v1, err1 := strconv.ParseFloat(parts[0], 64)
		v2, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadAngle, s)
		}
		if v2 < 0 {
			return 0, fmt.Errorf("%w: negative minutes in %q", ErrBadAngle, s)
		}
		angle = math.Abs(v1) + v2/60
	default:
		v1, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadAngle, s)
		}
		angle = math.Abs(v1)
	}

	if strings.HasPrefix(trimmed, "-") {
		angle = -angle
	}
	return angle, nil
}

// ReadCatalog reads the plain-text catalog format: for each star a name
// line, then an RA line in hours (or h m s), then a Dec line in degrees
// (or d m s). Lines starting with '!' are comments. Malformed entries are
// skipped, matching the legacy reader. At most maxStars entries are
// returned.
func ReadCatalog(r io.Reader, maxStars int) ([]Star, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "!") {
				continue
			}
			return line, true
		}
		return "", false
	}
	nextField := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if strings.HasPrefix(line, "!") {
				continue
			}
			return line, true
		}
		return "", false
	}

	var stars []Star
	for len(stars) < maxStars {
		name, ok := next()
		if !ok {
			break
		}
		raLine, ok := nextField()
		if !ok {
			break
		}
		decLine, ok := nextField()
		if !ok {
			break
		}
		ra, err1 := ParseAngle(raLine)
		dec, err2 := ParseAngle(decLine)
		if err1 != nil || err2 != nil {
			continue
		}
		stars = append(stars, Star{
			Name: name,
			RA:   ra * 15 * math.Pi / 180,
			Dec:  dec * math.Pi / 180,
		})
	}
	if err := sc.Err(); err != nil {
		return stars, fmt.Errorf("starcat: read catalog: %w", err)
	}
	return stars, nil
}

// Glyph sizing bounds in printer points.
const (
	baseGlyphPts = 24.0
	minGlyphPts  = 6.0
	maxGlyphPts  = 48.0
)

// GlyphPoints converts a visual magnitude to a glyph diameter in printer
// points. Diameter scales with the square root of flux, so five magnitudes
// shrink the glyph by a factor of ten; the result is clamped to keep faint
// stars printable and bright ones inside their labels.
func GlyphPoints(mag float64) float64 {
	d := baseGlyphPts * math.Pow(10, -0.2*mag)
	if d < minGlyphPts {
		return minGlyphPts
	}
	if d > maxGlyphPts {
		return maxGlyphPts
	}
	return d
}
