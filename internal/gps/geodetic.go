// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"
)

// E7 is the fixed-point scale of latitude and longitude values.
const E7 = 10_000_000

// maxDegrees bounds the degree prefix of either coordinate.
const maxDegrees = 180

// minutesWidth is "mm.mmmmmmm": two minute digits, the point, seven decimals.
const minutesWidth = 10

// ParseDegreesMinutes converts NMEA ddmm.mmmmmmm / dddmm.mmmmmmm text into
// unsigned decimal degrees ×10^7. A degree prefix above 180 is rejected.
//
// The degree/minute boundary is always two digits left of the point, so the
// field is split textually and no float rounding is involved.
func ParseDegreesMinutes(s string) (int64, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 2 {
		return 0, fmt.Errorf("%w: no minute digits in %q", ErrNumericConversion, s)
	}
	if dot == 2 && len(s) == minutesWidth {
		return parseMinutes(s)
	}

	deg, err := ParseDecimal(s[:dot-2], 0)
	if err != nil {
		return 0, err
	}
	if deg > maxDegrees {
		return 0, fmt.Errorf("%w: %d degrees in %q", ErrNumericConversion, deg, s)
	}
	mins, err := parseMinutes(s[dot-2:])
	if err != nil {
		return 0, err
	}
	return deg*E7 + mins, nil
}

// parseMinutes turns "mm.mmmmmmm" into degrees ×10^7. The integer division
// by 60 truncates, so the result can be at most one unit low.
func parseMinutes(s string) (int64, error) {
	if len(s) != minutesWidth {
		return 0, fmt.Errorf("%w: minutes %q must be %d characters", ErrNumericConversion, s, minutesWidth)
	}
	v, err := ParseDecimal(s, minutesWidth)
	if err != nil {
		return 0, err
	}
	return v / 60, nil
}

// ParseLatitude applies the N/S hemisphere to ParseDegreesMinutes.
func ParseLatitude(s string, hemi byte) (int64, error) {
	v, err := ParseDegreesMinutes(s)
	if err != nil {
		return 0, fmt.Errorf("latitude: %w", err)
	}
	if hemi == 'S' {
		v = -v
	}
	return v, nil
}

// ParseLongitude applies the E/W hemisphere to ParseDegreesMinutes.
func ParseLongitude(s string, hemi byte) (int64, error) {
	v, err := ParseDegreesMinutes(s)
	if err != nil {
		return 0, fmt.Errorf("longitude: %w", err)
	}
	if hemi == 'W' {
		v = -v
	}
	return v, nil
}
