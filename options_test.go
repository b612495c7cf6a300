package planetview

import (
	"testing"
	"time"
)

func TestOptionsWithDefaults(t *testing.T) {
	var o Options
	got := o.withDefaults()
	if got.AlignPts != DefaultAlignPts {
		t.Errorf("AlignPts = %v, want %v", got.AlignPts, DefaultAlignPts)
	}
	if got.StarPts != DefaultStarPts {
		t.Errorf("StarPts = %v, want %v", got.StarPts, DefaultStarPts)
	}
	if got.Now == nil {
		t.Error("Now = nil, want time.Now")
	}
}

func TestOptionsWithDefaultsKeepsExplicitValues(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	o := Options{AlignPts: 300, StarPts: 12, Now: fixed}
	got := o.withDefaults()
	if got.AlignPts != 300 {
		t.Errorf("AlignPts = %v, want 300", got.AlignPts)
	}
	if got.StarPts != 12 {
		t.Errorf("StarPts = %v, want 12", got.StarPts)
	}
	if !got.Now().Equal(fixed()) {
		t.Error("Now was replaced despite being set")
	}
}
