// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// Diagnostics holds GGA fields the fixed-point path ignores. They come from
// a full NMEA parse, checksum included, and are informational only.
type Diagnostics struct {
	UTC        string  `json:"utc"`
	Satellites int64   `json:"satellites"`
	HDOP       float64 `json:"hdop"`
	FixCode    string  `json:"fix_code"`
	LatDeg     float64 `json:"lat_deg"`
	LonDeg     float64 `json:"lon_deg"`
	AltM       float64 `json:"alt_m"`
}

// Diagnose runs a full NMEA parse over an accepted GGA line.
func Diagnose(line string) (Diagnostics, error) {
	s, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return Diagnostics{}, fmt.Errorf("nmea parse: %w", err)
	}
	if s.DataType() != nmea.TypeGGA {
		return Diagnostics{}, fmt.Errorf("nmea: %s is not GGA", s.DataType())
	}
	m := s.(nmea.GGA)
	return Diagnostics{
		UTC:        m.Time.String(),
		Satellites: m.NumSatellites,
		HDOP:       m.HDOP,
		FixCode:    m.FixQuality,
		LatDeg:     m.Latitude,
		LonDeg:     m.Longitude,
		AltM:       m.Altitude,
	}, nil
}
