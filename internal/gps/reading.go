// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "fmt"

// Conversion factors from fixed-point position units to centimeters.
const (
	LatToCM = 1.09469075  // per 10^-7 degree of latitude
	LonToCM = 1.127819549 // per 10^-7 degree of longitude
	AltToCM = 0.1         // per altitude unit (thousandths of the sentence's meters)
)

// FixQuality is the receiver's solution type, collapsed to three states.
type FixQuality int

const (
	NoSolution FixQuality = iota
	Float
	Fixed
)

// GGA quality codes that map to RTK solutions.
const (
	ggaFixedCode = 4
	ggaFloatCode = 5
)

// QualityFromCode maps a GGA quality indicator. Every code other than
// 4 (RTK fixed) and 5 (RTK float) is NoSolution.
func QualityFromCode(code int64) FixQuality {
	switch code {
	case ggaFixedCode:
		return Fixed
	case ggaFloatCode:
		return Float
	default:
		return NoSolution
	}
}

func (q FixQuality) String() string {
	switch q {
	case Fixed:
		return "fixed"
	case Float:
		return "float"
	default:
		return "nosolution"
	}
}

// MarshalText encodes the quality by name for JSON payloads.
func (q FixQuality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (q *FixQuality) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fixed":
		*q = Fixed
	case "float":
		*q = Float
	case "nosolution":
		*q = NoSolution
	default:
		return fmt.Errorf("unknown fix quality %q", b)
	}
	return nil
}

// Position is a fixed-point geodetic position.
type Position struct {
	Lat int64 `json:"lat_e7"` // degrees ×10^7, south negative
	Lon int64 `json:"lon_e7"` // degrees ×10^7, west negative
	Alt int64 `json:"alt"`    // altitude digits, 10.363 m -> 10363
}

// Vector is a local offset in centimeters: X north, Y west-negative, Z up.
type Vector struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// OffsetFrom expresses cur relative to base in centimeters. Products are
// truncated toward zero.
func OffsetFrom(cur, base Position) Vector {
	return Vector{
		X: int64(float64(cur.Lat-base.Lat) * LatToCM),
		Y: -int64(float64(cur.Lon-base.Lon) * LonToCM),
		Z: int64(float64(cur.Alt-base.Alt) * AltToCM),
	}
}

// Within reports whether every axis of v is within tol centimeters.
func (v Vector) Within(tol int64) bool {
	return abs(v.X) <= tol && abs(v.Y) <= tol && abs(v.Z) <= tol
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Reading is the session's record of the latest accepted sentence.
//
// IsNew is set by a successful parse and cleared by the next consumed line.
// A poll that finds no data leaves it as it was, so a poll loop should act on
// Session.ReadOnce's return value rather than on IsNew. A rejected line
// clears IsNew and leaves every other field as it was.
type Reading struct {
	IsNew       bool       `json:"is_new"`
	HasBase     bool       `json:"has_base"`
	StableCount int        `json:"stable_count"`
	Quality     FixQuality `json:"quality"`
	Current     Position   `json:"current"`
	Base        Position   `json:"base"`
	Offset      Vector     `json:"offset_cm"`
	PrevTimeMs  int64      `json:"prev_time_ms"`
	DeltaTimeMs int64      `json:"dt_ms"`
}
