package gps

import (
	"math"
	"testing"
	"time"
)

func TestFormatGGA_ParsesBack(t *testing.T) {
	pos := Position{Lat: -335123456, Lon: -702345678, Alt: 545400}
	utc := time.Date(2026, 3, 1, 2, 31, 51, 0, time.UTC)
	line := FormatGGA(pos, 5, utc)

	s, err := ParseSentence(line, DefaultPrefix)
	if err != nil {
		t.Fatalf("ParseSentence(%q): %v", line, err)
	}
	if s.Position != pos {
		t.Fatalf("position = %+v, want %+v", s.Position, pos)
	}
	if s.Quality != Float {
		t.Fatalf("quality = %v, want float", s.Quality)
	}
}

func TestDiagnose(t *testing.T) {
	pos := Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}
	line := FormatGGA(pos, 4, time.Date(2026, 3, 1, 2, 31, 51, 0, time.UTC))

	d, err := Diagnose(line)
	if err != nil {
		t.Fatalf("Diagnose(%q): %v", line, err)
	}
	if d.Satellites != 12 {
		t.Fatalf("satellites = %d, want 12", d.Satellites)
	}
	if math.Abs(d.HDOP-0.56) > 1e-9 {
		t.Fatalf("hdop = %v", d.HDOP)
	}
	if d.FixCode != "4" {
		t.Fatalf("fix code = %q", d.FixCode)
	}
	// The float path of the NMEA library must agree with the fixed-point one.
	if math.Abs(d.LatDeg*E7-float64(pos.Lat)) > 1 || math.Abs(d.LonDeg*E7-float64(pos.Lon)) > 1 {
		t.Fatalf("library lat/lon %v/%v disagree with %+v", d.LatDeg, d.LonDeg, pos)
	}
	if math.Abs(d.AltM-10.363) > 1e-9 {
		t.Fatalf("alt = %v", d.AltM)
	}
}

func TestDiagnose_BadChecksum(t *testing.T) {
	if _, err := Diagnose(fixedLine[:len(fixedLine)-2] + "00"); err == nil {
		t.Fatalf("expected checksum error")
	}
}

func TestSimulatedSource_ConfirmsBase(t *testing.T) {
	src := NewSimulatedSource(Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}, 1.5, 7)
	s := NewSession(src, &fakeClock{}, 20)
	for i := 0; i < 21; i++ {
		if !s.ReadOnce() {
			t.Fatalf("simulated line %d rejected: %v", i, s.Err())
		}
	}
	if !s.Reading().HasBase {
		t.Fatalf("base not confirmed, count=%d", s.Reading().StableCount)
	}
}

func TestSimulatedSource_SpikeResets(t *testing.T) {
	src := NewSimulatedSource(Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}, 0, 1)
	src.SpikeEvery = 5
	s := NewSession(src, &fakeClock{}, 100)
	for i := 0; i < 5; i++ {
		s.ReadOnce()
	}
	if got := s.Reading().StableCount; got != 0 {
		t.Fatalf("stable count after spike = %d, want 0", got)
	}
}
