// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/rtk_reader/internal/gps"
)

// RunReplay feeds a captured NMEA log through a session and prints each
// accepted reading.
func RunReplay(path string, threshold int, prefix string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open replay log: %w", err)
	}
	defer f.Close()

	st, err := replay(f, os.Stdout, threshold, prefix)
	if err != nil {
		return err
	}
	log.Printf("replay: lines=%d parsed=%d malformed=%d numeric=%d nosolution=%d",
		st.Lines, st.Parsed, st.Malformed, st.NumericFailures, st.NoSolution)
	return nil
}

// replayClock advances one tick per accepted sentence, so dt_ms in replay
// output counts sentences rather than wall time.
type replayClock struct{ ms int64 }

func (c *replayClock) Millis() int64 { c.ms++; return c.ms }

func replay(r io.Reader, w io.Writer, threshold int, prefix string) (gps.Stats, error) {
	src := gps.NewStreamSource(r, 0)
	session := gps.NewSession(src, &replayClock{}, threshold, gps.WithPrefix(prefix))

	for {
		if src.Available() {
			if session.ReadOnce() {
				if _, err := fmt.Fprintln(w, formatFix(gps.NewFix(session.Reading(), nil))); err != nil {
					return session.Stats(), err
				}
			}
			continue
		}
		select {
		case <-src.Done():
			if src.Available() {
				continue
			}
			return session.Stats(), src.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}
