// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"time"
)

// LineSource yields newline-terminated records from the receiver.
// ReadLine must not block once Available has returned true.
type LineSource interface {
	Available() bool
	ReadLine() (string, error)
}

// Clock is a non-decreasing millisecond clock.
type Clock interface {
	Millis() int64
}

// SystemClock counts milliseconds since it was created, using the
// monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() int64 {
	return time.Since(c.start).Milliseconds()
}

// Result classifies the outcome of one poll that consumed a line.
type Result string

const (
	ResultAccepted  Result = "accepted"
	ResultMalformed Result = "malformed"
	ResultNumeric   Result = "numeric"
	ResultReadError Result = "read_error"
)

// Observer receives every poll outcome. It is called synchronously from
// ReadOnce.
type Observer interface {
	ObserveLine(res Result)
	ObserveReading(r Reading)
}

// Stats counts poll outcomes over the session's lifetime.
type Stats struct {
	Lines           int `json:"lines"`
	Parsed          int `json:"parsed"`
	Malformed       int `json:"malformed"`
	NumericFailures int `json:"numeric_failures"`
	ReadErrors      int `json:"read_errors"`
	NoSolution      int `json:"no_solution"`
}

// Session polls a LineSource and keeps one Reading up to date. It is not
// safe for concurrent use.
type Session struct {
	src      LineSource
	clock    Clock
	prefix   string
	detector BaseDetector
	observer Observer

	reading  Reading
	stats    Stats
	lastLine string
	lastErr  error
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithPrefix sets the accepted sentence identifier (default "$GNGGA").
func WithPrefix(prefix string) SessionOption {
	return func(s *Session) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithObserver attaches an Observer, typically a metrics collector.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) { s.observer = o }
}

// WithTolerance overrides the per-axis base tolerance in centimeters.
func WithTolerance(cm int64) SessionOption {
	return func(s *Session) { s.detector.Tolerance = cm }
}

// NewSession creates a session with a zeroed reading. threshold is the
// number of stable samples needed to confirm the base and is clamped to at
// least 1.
func NewSession(src LineSource, clock Clock, threshold int, opts ...SessionOption) *Session {
	s := &Session{
		src:      src,
		clock:    clock,
		prefix:   DefaultPrefix,
		detector: NewBaseDetector(threshold),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadOnce consumes at most one line and reports whether it produced a new
// reading. With no data available it returns false and changes nothing,
// IsNew included.
func (s *Session) ReadOnce() bool {
	if !s.src.Available() {
		return false
	}
	s.reading.IsNew = false

	line, err := s.src.ReadLine()
	if err != nil {
		s.stats.ReadErrors++
		s.lastErr = err
		s.observe(ResultReadError)
		return false
	}
	s.stats.Lines++

	sent, err := ParseSentence(line, s.prefix)
	if err != nil {
		s.lastErr = err
		if errors.Is(err, ErrNumericConversion) {
			s.stats.NumericFailures++
			s.observe(ResultNumeric)
		} else {
			s.stats.Malformed++
			s.observe(ResultMalformed)
		}
		return false
	}

	r := s.reading
	r.Current = sent.Position
	r.Quality = sent.Quality
	r.Offset = OffsetFrom(r.Current, r.Base)
	r.IsNew = true
	now := s.clock.Millis()
	r.DeltaTimeMs = now - r.PrevTimeMs
	r.PrevTimeMs = now
	s.reading = s.detector.Apply(r)

	s.stats.Parsed++
	if sent.Quality == NoSolution {
		s.stats.NoSolution++
	}
	s.lastLine = line
	s.lastErr = nil
	s.observe(ResultAccepted)
	if s.observer != nil {
		s.observer.ObserveReading(s.reading)
	}
	return true
}

func (s *Session) observe(res Result) {
	if s.observer != nil {
		s.observer.ObserveLine(res)
	}
}

// Reading returns a copy of the current record.
func (s *Session) Reading() Reading { return s.reading }

// Stats returns a copy of the poll counters.
func (s *Session) Stats() Stats { return s.stats }

// LastLine is the raw text of the most recently accepted sentence.
func (s *Session) LastLine() string { return s.lastLine }

// Err is the reason the most recent consumed line was rejected, or nil.
func (s *Session) Err() error { return s.lastErr }

// Threshold is the clamped stability threshold.
func (s *Session) Threshold() int { return s.detector.Threshold }

// ResetBase drops a confirmed base so stability tracking starts over on the
// next accepted sentence. Position and timing fields are kept.
func (s *Session) ResetBase() {
	s.reading.HasBase = false
	s.reading.StableCount = 0
}
