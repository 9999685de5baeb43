// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"time"
)

// FormatDegreesMinutes encodes unsigned degrees ×10^7 as NMEA degree-minute
// text with degDigits integer degree digits (2 for latitude, 3 for
// longitude) and seven minute decimals. ParseDegreesMinutes inverts it
// exactly.
func FormatDegreesMinutes(e7 int64, degDigits int) string {
	e7 = abs(e7)
	deg := e7 / E7
	minE7 := (e7 % E7) * 60
	return fmt.Sprintf("%0*d%02d.%07d", degDigits, deg, minE7/E7, minE7%E7)
}

// FormatLatitude returns the latitude field and its N/S hemisphere.
func FormatLatitude(e7 int64) (string, byte) {
	hemi := byte('N')
	if e7 < 0 {
		hemi = 'S'
	}
	return FormatDegreesMinutes(e7, 2), hemi
}

// FormatLongitude returns the longitude field and its E/W hemisphere.
func FormatLongitude(e7 int64) (string, byte) {
	hemi := byte('E')
	if e7 < 0 {
		hemi = 'W'
	}
	return FormatDegreesMinutes(e7, 3), hemi
}

// FormatGGA builds a complete $GNGGA line with a valid checksum and no line
// ending. qualityCode is the raw GGA quality indicator.
func FormatGGA(pos Position, qualityCode int, utc time.Time) string {
	lat, ns := FormatLatitude(pos.Lat)
	lon, ew := FormatLongitude(pos.Lon)
	sign := ""
	if pos.Alt < 0 {
		sign = "-"
	}
	alt := abs(pos.Alt)
	body := fmt.Sprintf("GNGGA,%02d%02d%02d.%02d,%s,%c,%s,%c,%d,12,0.56,%s%d.%03d,M,-2.076,M,1.0,2446",
		utc.Hour(), utc.Minute(), utc.Second(), utc.Nanosecond()/int(10*time.Millisecond),
		lat, ns, lon, ew, qualityCode, sign, alt/1000, alt%1000)
	return fmt.Sprintf("$%s*%02X", body, Checksum(body))
}

// Checksum is the NMEA XOR checksum of the text between '$' and '*'.
func Checksum(body string) byte {
	var ck byte
	for i := 0; i < len(body); i++ {
		ck ^= body[i]
	}
	return ck
}
