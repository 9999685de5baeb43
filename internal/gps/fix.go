package gps

// Fix is the JSON message published for every new reading.
type Fix struct {
	TimeMs      int64        `json:"time_ms"`
	DeltaTimeMs int64        `json:"dt_ms"`
	Quality     FixQuality   `json:"quality"`
	Position    Position     `json:"position"`
	Base        Position     `json:"base"`
	Offset      Vector       `json:"offset_cm"`
	HasBase     bool         `json:"has_base"`
	StableCount int          `json:"stable_count"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"` // nil when the full NMEA parse failed
}

// NewFix builds the published message for r. d may be nil.
func NewFix(r Reading, d *Diagnostics) Fix {
	return Fix{
		TimeMs:      r.PrevTimeMs,
		DeltaTimeMs: r.DeltaTimeMs,
		Quality:     r.Quality,
		Position:    r.Current,
		Base:        r.Base,
		Offset:      r.Offset,
		HasBase:     r.HasBase,
		StableCount: r.StableCount,
		Diagnostics: d,
	}
}

// BaseEvent is published once when the base is confirmed.
type BaseEvent struct {
	Base        Position `json:"base"`
	StableCount int      `json:"stable_count"`
	TimeMs      int64    `json:"time_ms"`
}
