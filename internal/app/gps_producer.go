// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relabs-tech/rtk_reader/internal/config"
	"github.com/relabs-tech/rtk_reader/internal/gps"
	"github.com/relabs-tech/rtk_reader/internal/observability"
)

// maxLinesPerTick bounds how many buffered lines one poll tick drains.
const maxLinesPerTick = 32

// publisher is the slice of the MQTT client the producer needs.
type publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
}

func (p mqttPublisher) Publish(topic string, retained bool, payload []byte) error {
	token := p.client.Publish(topic, 0, retained, payload)
	token.Wait()
	return token.Error()
}

// gpsProducer turns session readings into MQTT messages.
type gpsProducer struct {
	src       gps.LineSource
	session   *gps.Session
	pub       publisher
	topicFix  string
	topicBase string

	baseAnnounced bool
}

// drain polls the session until the source has nothing buffered or the
// per-tick bound is hit, publishing each new reading. It returns the number
// of readings published.
func (p *gpsProducer) drain() int {
	published := 0
	for i := 0; i < maxLinesPerTick && p.src.Available(); i++ {
		if !p.session.ReadOnce() {
			if err := p.session.Err(); err != nil {
				log.Printf("gps: rejected line: %v", err)
			}
			continue
		}
		if err := p.publishReading(p.session.Reading()); err != nil {
			log.Printf("gps: publish error: %v", err)
			continue
		}
		published++
	}
	return published
}

// flush drains every line still buffered in the source, ignoring the
// per-tick bound. Used once the source has stopped producing.
func (p *gpsProducer) flush() int {
	total := 0
	for p.src.Available() {
		total += p.drain()
	}
	return total
}

func (p *gpsProducer) publishReading(r gps.Reading) error {
	var diag *gps.Diagnostics
	if d, err := gps.Diagnose(p.session.LastLine()); err == nil {
		diag = &d
	}

	payload, err := json.Marshal(gps.NewFix(r, diag))
	if err != nil {
		return fmt.Errorf("marshal fix: %w", err)
	}
	if err := p.pub.Publish(p.topicFix, false, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.topicFix, err)
	}

	if r.HasBase && !p.baseAnnounced {
		ev := gps.BaseEvent{Base: r.Base, StableCount: r.StableCount, TimeMs: r.PrevTimeMs}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal base event: %w", err)
		}
		if err := p.pub.Publish(p.topicBase, true, payload); err != nil {
			return fmt.Errorf("publish %s: %w", p.topicBase, err)
		}
		p.baseAnnounced = true
		log.Printf("gps: base confirmed at lat=%d lon=%d alt=%d after %d stable samples",
			r.Base.Lat, r.Base.Lon, r.Base.Alt, r.StableCount)
	}
	return nil
}

// RunGPSProducer opens the RTK receiver, tracks the base point, and publishes
// every accepted GGA reading as JSON to the configured MQTT topic.
func RunGPSProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGPS)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("gps: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open GPS serial port ----
	src, err := gps.OpenSerial(cfg.GPSSerialPort, uint(cfg.GPSBaudRate))
	if err != nil {
		return err
	}
	defer src.Close()
	log.Printf("gps: serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	// ---- 3) Metrics ----
	collector, err := observability.NewGPSCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	if cfg.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		go func() {
			log.Printf("gps: metrics listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("gps: metrics server error: %v", err)
			}
		}()
	}

	session := gps.NewSession(src, gps.NewSystemClock(), cfg.BaseStableMax,
		gps.WithPrefix(cfg.GPSSentencePrefix),
		gps.WithObserver(collector),
	)
	log.Printf("gps: waiting for %d stable samples (%s) to confirm base", session.Threshold(), cfg.GPSSentencePrefix)

	p := &gpsProducer{
		src:       src,
		session:   session,
		pub:       mqttPublisher{client: client},
		topicFix:  cfg.TopicGPS,
		topicBase: cfg.TopicGPSBase,
	}

	// ---- 4) Poll loop ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.GPSPollInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.drain()
		case <-src.Done():
			if n := p.flush(); n > 0 {
				log.Printf("gps: published %d buffered readings after the port stopped", n)
			}
			if err := src.Err(); err != nil {
				return fmt.Errorf("gps serial read: %w", err)
			}
			return fmt.Errorf("gps serial port %s closed", src.Name())
		case <-sigCh:
			st := session.Stats()
			log.Printf("gps: shutting down (lines=%d parsed=%d malformed=%d numeric=%d)",
				st.Lines, st.Parsed, st.Malformed, st.NumericFailures)
			return nil
		}
	}
}
