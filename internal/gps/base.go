// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

const (
	// DefaultStableMax is the number of consecutive in-tolerance samples
	// required before the base is confirmed.
	DefaultStableMax = 100

	// DefaultStableDeviationCM is the per-axis tolerance against the
	// candidate base.
	DefaultStableDeviationCM = 4
)

// BaseDetector decides when the candidate base has been stable long enough.
//
// While no base is confirmed, a StableCount of 0 re-anchors the candidate
// base on the current position. Each in-tolerance sample increments the
// count; once it would exceed Threshold it is clamped and the base is
// confirmed for good. Any out-of-tolerance sample resets the count to 0.
type BaseDetector struct {
	Threshold int
	Tolerance int64
}

// NewBaseDetector returns a detector with the default tolerance. Threshold
// is clamped to at least 1.
func NewBaseDetector(threshold int) BaseDetector {
	if threshold < 1 {
		threshold = 1
	}
	return BaseDetector{Threshold: threshold, Tolerance: DefaultStableDeviationCM}
}

// Apply advances the stability state for one fresh reading and returns the
// updated reading. Readings that are not new, or that already have a base,
// are returned unchanged.
func (d BaseDetector) Apply(r Reading) Reading {
	if r.HasBase || !r.IsNew {
		return r
	}
	if r.StableCount == 0 {
		r.Base = r.Current
		r.Offset = OffsetFrom(r.Current, r.Base)
	}
	if !r.Offset.Within(d.Tolerance) {
		r.StableCount = 0
		return r
	}
	r.StableCount++
	if r.StableCount > d.Threshold {
		r.StableCount = d.Threshold
		r.HasBase = true
	}
	return r
}
