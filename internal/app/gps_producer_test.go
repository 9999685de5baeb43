package app

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/rtk_reader/internal/gps"
)

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(topic string, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{topic, retained, payload})
	return nil
}

type stepClock struct{ ms int64 }

func (c *stepClock) Millis() int64 { c.ms += 100; return c.ms }

var center = gps.Position{Lat: 108101821, Lon: 1068220918, Alt: 10363}

func ggaLines(n int) string {
	utc := time.Date(2026, 3, 1, 2, 31, 51, 0, time.UTC)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(gps.FormatGGA(center, 4, utc.Add(time.Duration(i)*100*time.Millisecond)))
		b.WriteString("\r\n")
	}
	return b.String()
}

func newTestProducer(t *testing.T, input string, threshold int, pub publisher) *gpsProducer {
	t.Helper()
	src := gps.NewStreamSource(strings.NewReader(input), 256)
	select {
	case <-src.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("source did not drain")
	}
	return &gpsProducer{
		src:       src,
		session:   gps.NewSession(src, &stepClock{}, threshold),
		pub:       pub,
		topicFix:  "rtk/gps",
		topicBase: "rtk/gps/base",
	}
}

func TestProducerPublishesFixesAndBaseOnce(t *testing.T) {
	pub := &fakePublisher{}
	input := ggaLines(3) + "$GNGGA,broken\r\n" + ggaLines(3)
	p := newTestProducer(t, input, 2, pub)

	if n := p.drain(); n != 6 {
		t.Fatalf("published %d readings, want 6", n)
	}

	var fixes, bases int
	for _, m := range pub.msgs {
		switch m.topic {
		case "rtk/gps":
			fixes++
			if m.retained {
				t.Fatalf("fix published retained")
			}
		case "rtk/gps/base":
			bases++
			if !m.retained {
				t.Fatalf("base event not retained")
			}
			var ev gps.BaseEvent
			if err := json.Unmarshal(m.payload, &ev); err != nil {
				t.Fatalf("base payload: %v", err)
			}
			if ev.Base != center || ev.StableCount != 2 {
				t.Fatalf("base event = %+v", ev)
			}
		default:
			t.Fatalf("unexpected topic %q", m.topic)
		}
	}
	if fixes != 6 || bases != 1 {
		t.Fatalf("fixes=%d bases=%d, want 6 and 1", fixes, bases)
	}

	var last gps.Fix
	if err := json.Unmarshal(pub.msgs[len(pub.msgs)-1].payload, &last); err != nil {
		t.Fatalf("fix payload: %v", err)
	}
	if !last.HasBase || last.Quality != gps.Fixed || last.Position != center {
		t.Fatalf("last fix = %+v", last)
	}
	if last.Diagnostics == nil || last.Diagnostics.Satellites != 12 {
		t.Fatalf("diagnostics missing: %+v", last.Diagnostics)
	}
}

func TestProducerDrainIsBounded(t *testing.T) {
	pub := &fakePublisher{}
	p := newTestProducer(t, ggaLines(maxLinesPerTick+5), 100, pub)
	if n := p.drain(); n != maxLinesPerTick {
		t.Fatalf("first drain published %d, want %d", n, maxLinesPerTick)
	}
	if n := p.drain(); n != 5 {
		t.Fatalf("second drain published %d, want 5", n)
	}
	if n := p.drain(); n != 0 {
		t.Fatalf("empty drain published %d", n)
	}
}

func TestProducerFlushPublishesEverythingBuffered(t *testing.T) {
	pub := &fakePublisher{}
	n := 2*maxLinesPerTick + 3
	p := newTestProducer(t, ggaLines(n), 500, pub)
	if got := p.flush(); got != n {
		t.Fatalf("flush published %d, want %d", got, n)
	}
	if p.src.Available() {
		t.Fatalf("lines left in source after flush")
	}
	if got := len(pub.msgs); got != n {
		t.Fatalf("publisher saw %d messages, want %d", got, n)
	}
}

func TestProducerPublishErrorIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	p := newTestProducer(t, ggaLines(2), 100, pub)
	if n := p.drain(); n != 0 {
		t.Fatalf("published %d with a failing broker", n)
	}
	if got := p.session.Stats().Parsed; got != 2 {
		t.Fatalf("parsed = %d, want 2", got)
	}
}
