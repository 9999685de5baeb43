// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMalformedSentence is returned for a wrong prefix, a wrong field
	// marker or too few fields.
	ErrMalformedSentence = errors.New("malformed sentence")

	// ErrNumericConversion is returned when a numeric field holds a
	// character other than a digit or a single decimal point, or does not
	// have the required width.
	ErrNumericConversion = errors.New("numeric conversion failure")
)

// ParseDecimal reads the first width bytes of s as a base-10 integer with
// the decimal point dropped, so "12.345" gives 12345. A width <= 0 uses all
// of s. An empty span parses as 0.
func ParseDecimal(s string, width int) (int64, error) {
	if width <= 0 {
		width = len(s)
	}
	if width > len(s) {
		return 0, fmt.Errorf("%w: %q shorter than %d", ErrNumericConversion, s, width)
	}

	var (
		v   int64
		dot bool
	)
	for i := 0; i < width; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			if v > (math.MaxInt64-int64(c-'0'))/10 {
				return 0, fmt.Errorf("%w: %q overflows", ErrNumericConversion, s[:width])
			}
			v = v*10 + int64(c-'0')
		case c == '.' && !dot:
			dot = true
		default:
			return 0, fmt.Errorf("%w: bad character %q in %q", ErrNumericConversion, c, s[:width])
		}
	}
	return v, nil
}
