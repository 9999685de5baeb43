package gps

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func waitDone(t *testing.T, s *StreamSource) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("stream source did not finish")
	}
}

func TestStreamSource_Lines(t *testing.T) {
	in := fixedLine + "\r\n" + "$GNTXT,01,01,02,ANTENNA OK*2B\n" + "partial"
	s := NewStreamSource(strings.NewReader(in), 4)
	waitDone(t, s)

	var got []string
	for s.Available() {
		line, err := s.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		got = append(got, line)
	}
	want := []string{fixedLine, "$GNTXT,01,01,02,ANTENNA OK*2B", "partial"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if _, err := s.ReadLine(); !errors.Is(err, ErrNoLine) {
		t.Fatalf("ReadLine on drained source: %v", err)
	}
	if s.Err() != nil {
		t.Fatalf("Err() = %v on EOF", s.Err())
	}
}

func TestStreamSource_AvailableDoesNotBlock(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	s := NewStreamSource(pr, 0)

	if s.Available() {
		t.Fatalf("Available true before any data")
	}

	go func() { _, _ = io.WriteString(pw, fixedLine+"\n") }()
	deadline := time.Now().Add(2 * time.Second)
	for !s.Available() {
		if time.Now().After(deadline) {
			t.Fatalf("line never became available")
		}
		time.Sleep(time.Millisecond)
	}
	// Repeated Available calls must not consume the peeked line.
	if !s.Available() {
		t.Fatalf("peeked line lost")
	}
	line, err := s.ReadLine()
	if err != nil || line != fixedLine {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
}

func TestStreamSource_ReportsReadError(t *testing.T) {
	pr, pw := io.Pipe()
	s := NewStreamSource(pr, 0)
	boom := errors.New("device unplugged")
	pw.CloseWithError(boom)
	waitDone(t, s)
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err() = %v, want %v", s.Err(), boom)
	}
}

func TestStreamSource_CloseUnblocksFullBuffer(t *testing.T) {
	in := strings.Repeat(fixedLine+"\n", 10)
	s := NewStreamSource(strings.NewReader(in), 1)

	// Nobody reads, so the pump fills the single slot and waits.
	select {
	case <-s.Done():
		t.Fatalf("pump finished with a full buffer")
	case <-time.After(20 * time.Millisecond):
	}

	s.Close()
	s.Close()
	waitDone(t, s)

	if !s.Available() {
		t.Fatalf("buffered line lost on Close")
	}
	if line, err := s.ReadLine(); err != nil || line != fixedLine {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
}

func TestSessionOverStreamSource(t *testing.T) {
	in := strings.Repeat(fixedLine+"\r\n", 3)
	src := NewStreamSource(strings.NewReader(in), 0)
	waitDone(t, src)

	s := NewSession(src, &fakeClock{}, 100)
	n := 0
	for s.ReadOnce() {
		n++
	}
	if n != 3 {
		t.Fatalf("accepted %d readings, want 3", n)
	}
	if s.Reading().StableCount != 3 {
		t.Fatalf("stable count = %d", s.Reading().StableCount)
	}
}
