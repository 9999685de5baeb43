package gps

import "testing"

var anchor = Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}

// feed runs one fresh reading at pos through the detector, the way the
// session does after a successful parse.
func feed(d BaseDetector, r Reading, pos Position) Reading {
	r.IsNew = true
	r.Current = pos
	r.Offset = OffsetFrom(r.Current, r.Base)
	return d.Apply(r)
}

func TestBaseDetector_ConfirmsAfterThresholdPlusOne(t *testing.T) {
	d := NewBaseDetector(100)
	var r Reading
	for i := 1; i <= 100; i++ {
		r = feed(d, r, anchor)
		if r.HasBase {
			t.Fatalf("base confirmed early at sample %d", i)
		}
		if r.StableCount != i {
			t.Fatalf("sample %d: stable count %d", i, r.StableCount)
		}
	}
	r = feed(d, r, anchor)
	if !r.HasBase {
		t.Fatalf("base not confirmed after 101 samples")
	}
	if r.StableCount != 100 {
		t.Fatalf("stable count = %d, want clamp at 100", r.StableCount)
	}
	if r.Base != anchor {
		t.Fatalf("base = %+v, want %+v", r.Base, anchor)
	}
}

func TestBaseDetector_OutlierResets(t *testing.T) {
	d := NewBaseDetector(100)
	var r Reading
	for i := 0; i < 50; i++ {
		r = feed(d, r, anchor)
	}
	if r.StableCount != 50 {
		t.Fatalf("stable count = %d, want 50", r.StableCount)
	}

	far := anchor
	far.Lat += 10 // ~10.9 cm north
	r = feed(d, r, far)
	if r.StableCount != 0 {
		t.Fatalf("stable count after outlier = %d, want 0", r.StableCount)
	}
	if r.HasBase {
		t.Fatalf("base confirmed after outlier")
	}

	// The next sample re-anchors on itself.
	r = feed(d, r, far)
	if r.Base != far || r.StableCount != 1 {
		t.Fatalf("after re-anchor base=%+v count=%d", r.Base, r.StableCount)
	}
}

func TestBaseDetector_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		name   string
		shift  Position
		inside bool
	}{
		{"lat 4 cm", Position{Lat: 4}, true},   // 4.38 -> 4
		{"lat 5 cm", Position{Lat: 5}, false},  // 5.47 -> 5
		{"lon 3 cm", Position{Lon: 3}, true},   // -3.38 -> -3
		{"lon 5 cm", Position{Lon: 5}, false},  // -5.64 -> -5
		{"alt 4 cm", Position{Alt: 49}, true},  // 4.9 -> 4
		{"alt 5 cm", Position{Alt: 50}, false}, // 5.0
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBaseDetector(10)
			var r Reading
			r = feed(d, r, anchor)
			moved := Position{
				Lat: anchor.Lat + tt.shift.Lat,
				Lon: anchor.Lon + tt.shift.Lon,
				Alt: anchor.Alt + tt.shift.Alt,
			}
			r = feed(d, r, moved)
			if got := r.StableCount == 2; got != tt.inside {
				t.Fatalf("stable count %d, inside=%v", r.StableCount, tt.inside)
			}
		})
	}
}

func TestBaseDetector_FrozenOnceConfirmed(t *testing.T) {
	d := NewBaseDetector(1)
	var r Reading
	r = feed(d, r, anchor)
	r = feed(d, r, anchor)
	if !r.HasBase {
		t.Fatalf("base not confirmed")
	}

	far := anchor
	far.Lat += 1000
	r = feed(d, r, far)
	if !r.HasBase || r.Base != anchor || r.StableCount != 1 {
		t.Fatalf("confirmed state changed: %+v", r)
	}
	if r.Offset.X != 1094 {
		t.Fatalf("offset x = %d, want 1094", r.Offset.X)
	}
}

func TestBaseDetector_IgnoresStaleReading(t *testing.T) {
	d := NewBaseDetector(1)
	r := Reading{Current: anchor}
	if got := d.Apply(r); got != r {
		t.Fatalf("stale reading changed: %+v", got)
	}
}

func TestNewBaseDetector_ClampsThreshold(t *testing.T) {
	for _, in := range []int{0, -5} {
		if d := NewBaseDetector(in); d.Threshold != 1 {
			t.Fatalf("NewBaseDetector(%d).Threshold = %d", in, d.Threshold)
		}
	}
}
