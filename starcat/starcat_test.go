package starcat

import (
	"math"
	"strings"
	"testing"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"three fields", "12 30 45", 12.0 + 30.0/60 + 45.0/3600, false},
		{"two fields", "5 30", 5.5, false},
		{"one field", "7.25", 7.25, false},
		{"negative degrees", "-5 30", -5.5, false},
		{"negative zero degrees", "-0 30", -0.5, false},
		{"negative one field", "-12.5", -12.5, false},
		{"negative minutes rejected", "5 -30", 0, true},
		{"negative seconds rejected", "5 30 -1", 0, true},
		{"garbage", "twelve", 0, true},
		{"empty", "   ", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAngle(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAngle(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAngle(%q): %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ParseAngle(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

const sampleCatalog = `! Bright stars near the ecliptic
Aldebaran
4 35 55.2
16 30 33
! a comment between entries
Regulus
10 8 22.3
11 58 2
Spica
13 25 11.6
-11 9 41
`

func TestReadCatalog(t *testing.T) {
	stars, err := ReadCatalog(strings.NewReader(sampleCatalog), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(stars) != 3 {
		t.Fatalf("read %d stars, want 3", len(stars))
	}
	if stars[0].Name != "Aldebaran" || stars[2].Name != "Spica" {
		t.Errorf("names = %q, %q", stars[0].Name, stars[2].Name)
	}
	// RA hours convert through 15 degrees per hour.
	wantRA := (4.0 + 35.0/60 + 55.2/3600) * 15 * math.Pi / 180
	if math.Abs(stars[0].RA-wantRA) > 1e-12 {
		t.Errorf("Aldebaran RA = %v, want %v", stars[0].RA, wantRA)
	}
	if stars[2].Dec >= 0 {
		t.Errorf("Spica Dec = %v, want negative", stars[2].Dec)
	}
}

func TestReadCatalogRespectsLimit(t *testing.T) {
	stars, err := ReadCatalog(strings.NewReader(sampleCatalog), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(stars) != 2 {
		t.Errorf("read %d stars with limit 2", len(stars))
	}
}

func TestReadCatalogSkipsMalformedEntry(t *testing.T) {
	bad := `BrokenStar
not an angle
12 0 0
GoodStar
1 0 0
2 0 0
`
	stars, err := ReadCatalog(strings.NewReader(bad), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(stars) != 1 || stars[0].Name != "GoodStar" {
		t.Errorf("got %+v, want only GoodStar", stars)
	}
}

func TestGlyphPoints(t *testing.T) {
	if got := GlyphPoints(0); math.Abs(got-24) > 1e-9 {
		t.Errorf("GlyphPoints(0) = %v, want 24", got)
	}
	// Five magnitudes fainter means a tenth the diameter, before clamping.
	bright := GlyphPoints(-1)
	faint := GlyphPoints(3)
	if bright <= 24 || faint >= 24 {
		t.Errorf("scaling not monotonic: bright %v, faint %v", bright, faint)
	}
	if got := GlyphPoints(15); got != minGlyphPts {
		t.Errorf("very faint star = %v, want clamp %v", got, minGlyphPts)
	}
	if got := GlyphPoints(-10); got != maxGlyphPts {
		t.Errorf("very bright star = %v, want clamp %v", got, maxGlyphPts)
	}
}
