package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/rtk_reader/internal/config"
	"github.com/relabs-tech/rtk_reader/internal/gps"
)

// formatFix renders one fix as a console line.
func formatFix(f gps.Fix) string {
	line := fmt.Sprintf(
		"[GPS ]  q=%-10s lat=%11d lon=%11d alt=%7d  off=(%5d,%5d,%5d)cm  stable=%3d base=%v dt=%dms",
		f.Quality, f.Position.Lat, f.Position.Lon, f.Position.Alt,
		f.Offset.X, f.Offset.Y, f.Offset.Z, f.StableCount, f.HasBase, f.DeltaTimeMs,
	)
	if d := f.Diagnostics; d != nil {
		line += fmt.Sprintf("  sats=%d hdop=%.2f utc=%s", d.Satellites, d.HDOP, d.UTC)
	}
	return line
}

func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to fixes
	fixToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
			return
		}
		fmt.Println(formatFix(f))
	})
	fixToken.Wait()
	if fixToken.Error() != nil {
		return fixToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPS)

	// Subscribe to base confirmation (retained)
	baseToken := client.Subscribe(cfg.TopicGPSBase, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev gps.BaseEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: base unmarshal error: %v", err)
			return
		}
		fmt.Printf("[BASE]  lat=%d lon=%d alt=%d  confirmed after %d samples\n",
			ev.Base.Lat, ev.Base.Lon, ev.Base.Alt, ev.StableCount)
	})
	baseToken.Wait()
	if baseToken.Error() != nil {
		return baseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPSBase)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
