// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"
)

// DefaultPrefix is the sentence identifier accepted by default.
const DefaultPrefix = "$GNGGA"

// ggaFields is the number of fields the tokenizer produces; anything past
// the tenth comma stays in the last field.
const ggaFields = 10

// GGA field indices after the identifier is stripped.
const (
	fieldLat     = 1
	fieldLatHemi = 2
	fieldLon     = 3
	fieldLonHemi = 4
	fieldQuality = 5
	fieldAlt     = 8
	fieldAltUnit = 9
)

// Sentence is the content extracted from one accepted line.
type Sentence struct {
	Position Position
	Quality  FixQuality
}

// ParseSentence parses one GGA line that must start with prefix. The byte
// after the prefix and the final byte of the line (checksum delimiter side)
// are dropped before the body is split. The checksum itself is not checked.
//
// Either a complete Sentence or an error is returned, never a partial result.
func ParseSentence(line, prefix string) (Sentence, error) {
	if !strings.HasPrefix(line, prefix) {
		return Sentence{}, fmt.Errorf("%w: missing prefix %q", ErrMalformedSentence, prefix)
	}
	if len(line) < len(prefix)+2 {
		return Sentence{}, fmt.Errorf("%w: empty body", ErrMalformedSentence)
	}
	f := splitFields(line[len(prefix)+1 : len(line)-1])
	if len(f) < ggaFields {
		return Sentence{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformedSentence, len(f), ggaFields)
	}

	latHemi, lonHemi, unit := first(f[fieldLatHemi]), first(f[fieldLonHemi]), first(f[fieldAltUnit])
	if latHemi != 'N' && latHemi != 'S' {
		return Sentence{}, fmt.Errorf("%w: latitude hemisphere %q", ErrMalformedSentence, f[fieldLatHemi])
	}
	if lonHemi != 'E' && lonHemi != 'W' {
		return Sentence{}, fmt.Errorf("%w: longitude hemisphere %q", ErrMalformedSentence, f[fieldLonHemi])
	}
	if unit != 'M' {
		return Sentence{}, fmt.Errorf("%w: altitude unit %q", ErrMalformedSentence, f[fieldAltUnit])
	}

	var s Sentence
	var err error
	if s.Position.Alt, err = ParseDecimal(f[fieldAlt], 0); err != nil {
		return Sentence{}, fmt.Errorf("altitude: %w", err)
	}
	if s.Position.Lat, err = ParseLatitude(f[fieldLat], latHemi); err != nil {
		return Sentence{}, err
	}
	if s.Position.Lon, err = ParseLongitude(f[fieldLon], lonHemi); err != nil {
		return Sentence{}, err
	}
	code, err := ParseDecimal(f[fieldQuality], 0)
	if err != nil {
		return Sentence{}, fmt.Errorf("quality: %w", err)
	}
	s.Quality = QualityFromCode(code)
	return s, nil
}

// splitFields is a bounded comma split: at most ggaFields fields, the last
// one absorbing the remainder of the body.
func splitFields(body string) []string {
	return strings.SplitN(body, ",", ggaFields)
}

func first(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
