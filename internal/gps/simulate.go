// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math/rand/v2"
	"time"
)

// spikeLatE7 is roughly one meter of latitude.
const spikeLatE7 = 91

// SimulatedSource is a LineSource that always has a GGA line ready, jittered
// around a fixed point. It stands in for a receiver on the bench.
type SimulatedSource struct {
	Center      Position
	JitterCM    float64 // uniform jitter per horizontal axis
	QualityCode int
	// SpikeEvery, when > 0, makes every n-th line jump 1 m north to
	// exercise base re-anchoring.
	SpikeEvery int

	rnd   *rand.Rand
	count int
	now   func() time.Time
}

// NewSimulatedSource returns an RTK-fixed source centered on center.
func NewSimulatedSource(center Position, jitterCM float64, seed uint64) *SimulatedSource {
	return &SimulatedSource{
		Center:      center,
		JitterCM:    jitterCM,
		QualityCode: ggaFixedCode,
		rnd:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *SimulatedSource) Available() bool { return true }

func (s *SimulatedSource) ReadLine() (string, error) {
	s.count++
	pos := s.Center
	pos.Lat += s.jitter(LatToCM)
	pos.Lon += s.jitter(LonToCM)
	if s.SpikeEvery > 0 && s.count%s.SpikeEvery == 0 {
		pos.Lat += spikeLatE7
	}
	return FormatGGA(pos, s.QualityCode, s.now()), nil
}

func (s *SimulatedSource) jitter(cmPerUnit float64) int64 {
	if s.JitterCM <= 0 {
		return 0
	}
	cm := (s.rnd.Float64()*2 - 1) * s.JitterCM
	return int64(cm / cmPerUnit)
}
