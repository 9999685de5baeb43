// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/rtk_reader/internal/gps"
)

// mockCenter is the point the simulated receiver jitters around.
var mockCenter = gps.Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}

// RunMockConsole runs a session against a simulated receiver and prints
// every reading. No hardware or broker is needed.
func RunMockConsole() error {
	src := gps.NewSimulatedSource(mockCenter, 1.5, uint64(time.Now().UnixNano()))
	src.SpikeEvery = 250
	session := gps.NewSession(src, gps.NewSystemClock(), gps.DefaultStableMax)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if !session.ReadOnce() {
			return fmt.Errorf("simulated line rejected: %w", session.Err())
		}
		fmt.Println(formatFix(gps.NewFix(session.Reading(), nil)))
	}
	return nil
}
