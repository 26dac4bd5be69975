// touch.go - part of UartSpy

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

import "sync"

// rawTouchMax is the full-scale reading of the resistive touch
// controller on either axis.
const rawTouchMax = 4095

// touchSource is sampled once per tick. ok is the level of the touch
// contact: true for every sample while a finger is down. Coordinates
// are pixels in the currently selected orientation.
type touchSource interface {
	Poll() (ok bool, x, y int16)
}

// pauseInput is the level-sensed physical pause switch.
type pauseInput interface {
	Engaged() bool
}

// pointerTouch adapts raw pad press/release events (delivered on the
// UI toolkit's thread, or by the touch controller's IRQ on hardware)
// into the level-sampled touchSource the device loop expects. Raw
// readings pass through the stored calibration into native panel
// pixels, then through the orientation mapping.
type pointerTouch struct {
	mu   sync.Mutex
	cal  touchCalibration
	mode orientationMode
	held bool
	rawX uint16
	rawY uint16
}

func newPointerTouch(cal touchCalibration) *pointerTouch {
	return &pointerTouch{cal: cal}
}

// setOrientation must track every panel rotation change so touch
// coordinates stay in the same frame as the drawing coordinates.
func (t *pointerTouch) setOrientation(mode orientationMode) {
	t.mu.Lock()
	t.mode = mode
	t.mu.Unlock()
}

func (t *pointerTouch) press(rawX, rawY uint16) {
	t.mu.Lock()
	t.held = true
	t.rawX = rawX
	t.rawY = rawY
	t.mu.Unlock()
}

func (t *pointerTouch) release() {
	t.mu.Lock()
	t.held = false
	t.mu.Unlock()
}

// rawSample bypasses the calibration and orientation mapping; only
// the calibration routine reads touches this way.
func (t *pointerTouch) rawSample() (bool, uint16, uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held, t.rawX, t.rawY
}

// setCalibration installs a freshly fitted calibration.
func (t *pointerTouch) setCalibration(cal touchCalibration) {
	t.mu.Lock()
	t.cal = cal
	t.mu.Unlock()
}

func (t *pointerTouch) Poll() (bool, int16, int16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.held {
		return false, 0, 0
	}
	nx, ny := t.cal.transform(t.rawX, t.rawY, panelWidth, panelHeight)
	if t.mode == landscape {
		return true, panelHeight - 1 - ny, nx
	}
	return true, nx, ny
}

// pauseSwitch is the host stand-in for the panel's pause input: a key
// held down on the window keeps the level asserted.
type pauseSwitch struct {
	mu      sync.Mutex
	engaged bool
}

func (p *pauseSwitch) set(engaged bool) {
	p.mu.Lock()
	p.engaged = engaged
	p.mu.Unlock()
}

func (p *pauseSwitch) Engaged() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engaged
}
