package app

import (
	"strings"
	"testing"

	"github.com/relabs-tech/rtk_reader/internal/gps"
)

func TestFormatFix(t *testing.T) {
	f := gps.Fix{
		DeltaTimeMs: 100,
		Quality:     gps.Float,
		Position:    center,
		Offset:      gps.Vector{X: 12, Y: -3, Z: 1},
		StableCount: 7,
	}
	line := formatFix(f)
	for _, want := range []string{"q=float", "lat=  108101821", "off=(   12,   -3,    1)cm", "stable=  7", "base=false", "dt=100ms"} {
		if !strings.Contains(line, want) {
			t.Fatalf("formatFix() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(line, "sats=") {
		t.Fatalf("diagnostics printed without diagnostics: %q", line)
	}

	f.Diagnostics = &gps.Diagnostics{Satellites: 12, HDOP: 0.56, UTC: "02:31:51.0000"}
	line = formatFix(f)
	if !strings.Contains(line, "sats=12 hdop=0.56 utc=02:31:51.0000") {
		t.Fatalf("formatFix() with diagnostics = %q", line)
	}
}
