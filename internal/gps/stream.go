// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrNoLine is returned by ReadLine when nothing is buffered.
var ErrNoLine = errors.New("no line available")

// defaultStreamDepth bounds how many unread lines are buffered.
const defaultStreamDepth = 64

// StreamSource turns a blocking io.Reader into a polled LineSource. A pump
// goroutine reads lines into a bounded buffer; Available and ReadLine never
// block.
type StreamSource struct {
	lines   chan string
	pending *string

	mu   sync.Mutex
	err  error
	done chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStreamSource starts pumping lines from r. depth <= 0 uses a default
// buffer depth. When the buffer is full the pump waits, so the receiver's
// own flow control applies.
func NewStreamSource(r io.Reader, depth int) *StreamSource {
	if depth <= 0 {
		depth = defaultStreamDepth
	}
	s := &StreamSource{
		lines: make(chan string, depth),
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	go s.pump(bufio.NewReader(r))
	return s
}

func (s *StreamSource) pump(br *bufio.Reader) {
	defer close(s.done)
	defer close(s.lines)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			select {
			case s.lines <- strings.TrimRight(line, "\r\n"):
			case <-s.stop:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
	}
}

// Available reports whether ReadLine will return a line right away.
func (s *StreamSource) Available() bool {
	if s.pending != nil {
		return true
	}
	select {
	case line, ok := <-s.lines:
		if !ok {
			return false
		}
		s.pending = &line
		return true
	default:
		return false
	}
}

// ReadLine returns the next buffered line without its line ending.
func (s *StreamSource) ReadLine() (string, error) {
	if !s.Available() {
		return "", ErrNoLine
	}
	line := *s.pending
	s.pending = nil
	return line, nil
}

// Close stops the pump even when the buffer is full and nobody is reading.
// Lines already buffered stay readable. It does not close the underlying
// reader.
func (s *StreamSource) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once the underlying reader is exhausted or failed.
func (s *StreamSource) Done() <-chan struct{} { return s.done }

// Err reports the read error that stopped the pump, or nil on EOF.
func (s *StreamSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
