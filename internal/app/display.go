package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/rtk_reader/internal/config"
	"github.com/relabs-tech/rtk_reader/internal/gps"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	fix     gps.Fix
	haveFix bool
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("display: gps unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.fix = f
		data.haveFix = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicGPS)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		fix, have := data.fix, data.haveFix
		data.mu.RUnlock()

		if err := dev.Draw(dev.Bounds(), renderFix(fix, have), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// newCanvas returns a blank 128x64 frame and a drawer writing into it.
func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawLine(d *font.Drawer, y int, s string) {
	d.Dot = fixed.P(0, y)
	d.DrawString(s)
}

// renderFix lays out quality, base state and offset on four text rows.
func renderFix(f gps.Fix, have bool) *image1bit.VerticalLSB {
	img, d := newCanvas()
	if !have {
		drawLine(d, 26, "RTK base")
		drawLine(d, 39, "Waiting...")
		return img
	}

	status := fmt.Sprintf("base %d", f.StableCount)
	if f.HasBase {
		status = "base OK"
	}
	drawLine(d, 13, fmt.Sprintf("%-6s %s", f.Quality, status))
	drawLine(d, 26, fmt.Sprintf("X:%7dcm", f.Offset.X))
	drawLine(d, 39, fmt.Sprintf("Y:%7dcm", f.Offset.Y))
	drawLine(d, 52, fmt.Sprintf("Z:%7dcm", f.Offset.Z))
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, d := newCanvas()
	d.Dot = fixed.P(10, 26)
	d.DrawString("RTK Reader")
	d.Dot = fixed.P(5, 43)
	d.DrawString("Looking for")
	d.Dot = fixed.P(25, 56)
	d.DrawString("base")
	return img
}
