// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// DefaultBaudRate is the rate RTK receivers are configured for here.
const DefaultBaudRate = 115200

// SerialSource is a StreamSource reading from a serial port.
type SerialSource struct {
	*StreamSource
	port io.ReadWriteCloser
	name string
}

// OpenSerial opens portName at 8N1 and starts reading lines from it.
func OpenSerial(portName string, baud uint) (*SerialSource, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	return &SerialSource{
		StreamSource: NewStreamSource(port, 0),
		port:         port,
		name:         portName,
	}, nil
}

// Name is the device path the source was opened on.
func (s *SerialSource) Name() string { return s.name }

// Close stops the pump and closes the port.
func (s *SerialSource) Close() error {
	s.StreamSource.Close()
	return s.port.Close()
}
