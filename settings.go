// settings.go - part of UartSpy

// Copyright (C) 2026 the UartSpy authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// The credentials record is a fixed 128-byte layout, kept compatible
// with what the provisioning tool writes:
//
//	[0:32)    ssid, NUL padded
//	[32:64)   psk, NUL padded
//	[64:66)   mirror port, little endian
//	[66:68)   update port, little endian
//	[68:128)  bcrypt hash of the update key
const credentialsRecordSize = 128

var errBadCredentials = errors.New("uartspy: credentials record unreadable or malformed")

type credentials struct {
	ssid          string
	psk           string
	mirrorPort    int
	updatePort    int
	updateKeyHash []byte
}

// loadCredentials reads and parses the record. Any failure is
// terminal for the caller: without credentials the device has no
// authenticated services to offer.
func loadCredentials(path string) (credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return credentials{}, fmt.Errorf("%w: %v", errBadCredentials, err)
	}
	if len(raw) != credentialsRecordSize {
		return credentials{}, fmt.Errorf("%w: got %d bytes, want %d",
			errBadCredentials, len(raw), credentialsRecordSize)
	}
	return credentials{
		ssid:          string(bytes.TrimRight(raw[0:32], "\x00")),
		psk:           string(bytes.TrimRight(raw[32:64], "\x00")),
		mirrorPort:    int(binary.LittleEndian.Uint16(raw[64:66])),
		updatePort:    int(binary.LittleEndian.Uint16(raw[66:68])),
		updateKeyHash: bytes.TrimRight(raw[68:128], "\x00"),
	}, nil
}

func saveCredentials(path string, c credentials) error {
	if len(c.ssid) > 32 || len(c.psk) > 32 || len(c.updateKeyHash) > 60 {
		return fmt.Errorf("%w: field too long", errBadCredentials)
	}
	raw := make([]byte, credentialsRecordSize)
	copy(raw[0:32], c.ssid)
	copy(raw[32:64], c.psk)
	binary.LittleEndian.PutUint16(raw[64:66], uint16(c.mirrorPort))
	binary.LittleEndian.PutUint16(raw[66:68], uint16(c.updatePort))
	copy(raw[68:128], c.updateKeyHash)
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// touchCalibration maps raw resistive-pad readings onto native panel
// pixels. data holds {xMin, xMax, yMin, yMax, flags}; flags bit 0
// swaps the axes, bits 1 and 2 invert X and Y.
type touchCalibration struct {
	data [5]uint16
}

const (
	calFlagSwapXY  = 1 << 0
	calFlagInvertX = 1 << 1
	calFlagInvertY = 1 << 2

	calibrationRecordSize = 10
)

func defaultCalibration() touchCalibration {
	return touchCalibration{data: [5]uint16{0, rawTouchMax, 0, rawTouchMax, 0}}
}

func loadCalibration(path string) (touchCalibration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return touchCalibration{}, fmt.Errorf("reading calibration: %w", err)
	}
	if len(raw) != calibrationRecordSize {
		return touchCalibration{}, fmt.Errorf("calibration record is %d bytes, want %d",
			len(raw), calibrationRecordSize)
	}
	var cal touchCalibration
	for i := range cal.data {
		cal.data[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	if cal.data[1] <= cal.data[0] || cal.data[3] <= cal.data[2] {
		return touchCalibration{}, errors.New("calibration record has empty axis range")
	}
	return cal, nil
}

func saveCalibration(path string, cal touchCalibration) error {
	raw := make([]byte, calibrationRecordSize)
	for i, v := range cal.data {
		binary.LittleEndian.PutUint16(raw[2*i:], v)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("writing calibration: %w", err)
	}
	return nil
}

// transform converts one raw reading into native panel pixels,
// clamped to the w x h frame.
func (c touchCalibration) transform(rawX, rawY uint16, w, h int16) (int16, int16) {
	flags := c.data[4]
	if flags&calFlagSwapXY != 0 {
		rawX, rawY = rawY, rawX
	}
	x := scaleAxis(rawX, c.data[0], c.data[1], w)
	y := scaleAxis(rawY, c.data[2], c.data[3], h)
	if flags&calFlagInvertX != 0 {
		x = w - 1 - x
	}
	if flags&calFlagInvertY != 0 {
		y = h - 1 - y
	}
	return x, y
}

func scaleAxis(raw, lo, hi uint16, extent int16) int16 {
	if raw < lo {
		raw = lo
	}
	if raw > hi {
		raw = hi
	}
	v := int16(int32(raw-lo) * int32(extent) / int32(hi-lo))
	if v > extent-1 {
		v = extent - 1
	}
	return v
}
