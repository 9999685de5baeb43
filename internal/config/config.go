// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDGPS     string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string

	// Topics
	TopicGPS     string
	TopicGPSBase string

	// GPS receiver
	GPSSerialPort     string
	GPSBaudRate       int
	GPSSentencePrefix string
	GPSPollInterval   int // milliseconds

	// Base stability: consecutive samples within tolerance before the base
	// is confirmed.
	BaseStableMax int

	// Web Server
	WebServerPort int
	MetricsPort   int // 0 disables the /metrics listener

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Package-level singleton state. External code uses InitGlobal() to set and
// Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTClientIDGPS:       "rtk-gps-producer",
		MQTTClientIDConsole:   "rtk-console-subscriber",
		MQTTClientIDWeb:       "rtk-web-subscriber",
		MQTTClientIDDisplay:   "rtk-display",
		TopicGPS:              "rtk/gps",
		TopicGPSBase:          "rtk/gps/base",
		GPSSerialPort:         "/dev/ttyUSB0",
		GPSBaudRate:           115200,
		GPSSentencePrefix:     "$GNGGA",
		GPSPollInterval:       10,
		BaseStableMax:         100,
		WebServerPort:         8080,
		DisplayI2CBus:         "",
		DisplayUpdateInterval: 500,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_GPS_BASE":
		c.TopicGPSBase = value

	// GPS receiver
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		if rate <= 0 {
			return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", rate)
		}
		c.GPSBaudRate = rate
	case "GPS_SENTENCE_PREFIX":
		if !strings.HasPrefix(value, "$") {
			return fmt.Errorf("GPS_SENTENCE_PREFIX must start with '$', got %q", value)
		}
		c.GPSSentencePrefix = value
	case "GPS_POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_POLL_INTERVAL %q: %w", value, err)
		}
		c.GPSPollInterval = interval

	// Base stability
	case "BASE_STABLE_MAX":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BASE_STABLE_MAX %q: %w", value, err)
		}
		c.BaseStableMax = n

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "METRICS_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid METRICS_PORT %q: %w", value, err)
		}
		c.MetricsPort = port

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicGPS == "" {
		return fmt.Errorf("TOPIC_GPS is required")
	}
	if c.GPSPollInterval <= 0 {
		return fmt.Errorf("GPS_POLL_INTERVAL must be positive, got %d", c.GPSPollInterval)
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT out of range: %d", c.MetricsPort)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
