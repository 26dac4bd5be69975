// harness_test.go - part of UartSpy

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
	"image/color"

	"tinygo.org/x/drivers"
)

// recordingPanel counts and records controller register traffic so
// tests can assert on scroll and clear behaviour without a real
// framebuffer.
type recordingPanel struct {
	rotation drivers.Rotation

	scrolls     []int16
	tfa, bfa    int16
	fillScreens int
	fillRects   []panelRect
	fillColors  []color.RGBA
	pixels      int
	displays    int
}

type panelRect struct {
	x, y, w, h int16
}

func (p *recordingPanel) Size() (int16, int16) {
	if p.rotation == drivers.Rotation90 {
		return panelHeight, panelWidth
	}
	return panelWidth, panelHeight
}

func (p *recordingPanel) SetPixel(x, y int16, c color.RGBA) { p.pixels++ }

func (p *recordingPanel) Display() error {
	p.displays++
	return nil
}

func (p *recordingPanel) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	p.fillRects = append(p.fillRects, panelRect{x, y, width, height})
	p.fillColors = append(p.fillColors, c)
	return nil
}

func (p *recordingPanel) FillScreen(c color.RGBA) { p.fillScreens++ }

func (p *recordingPanel) SetRotation(rotation drivers.Rotation) error {
	p.rotation = rotation
	return nil
}

func (p *recordingPanel) SetScrollArea(topFixedArea, bottomFixedArea int16) {
	p.tfa = topFixedArea
	p.bfa = bottomFixedArea
}

func (p *recordingPanel) SetScroll(line int16) {
	p.scrolls = append(p.scrolls, line)
}

func (p *recordingPanel) lastScroll() int16 {
	if len(p.scrolls) == 0 {
		return -1
	}
	return p.scrolls[len(p.scrolls)-1]
}

// scriptedCapture is a captureSource preloaded with bytes, recording
// any Reopen calls.
type scriptedCapture struct {
	data      []byte
	reopened  []int
	reopenErr error
}

func (c *scriptedCapture) Available() int { return len(c.data) }

func (c *scriptedCapture) ReadByte() byte {
	if len(c.data) == 0 {
		return 0
	}
	b := c.data[0]
	c.data = c.data[1:]
	return b
}

func (c *scriptedCapture) Reopen(baud int) error {
	c.reopened = append(c.reopened, baud)
	c.data = nil
	return c.reopenErr
}

// recordingMirror captures the byte stream a mirror client would see.
// Line advances are recorded as single '\n' markers.
type recordingMirror struct {
	out        []byte
	lines      int
	serviceErr error
}

func (m *recordingMirror) Print(p []byte) { m.out = append(m.out, p...) }

func (m *recordingMirror) Println() {
	m.lines++
	m.out = append(m.out, '\n')
}

func (m *recordingMirror) Service() error { return m.serviceErr }

// scriptedTouch replays a fixed sequence of samples; the final sample
// repeats once the script runs out.
type touchSample struct {
	ok   bool
	x, y int16
}

type scriptedTouch struct {
	script []touchSample
	next   int
}

func (t *scriptedTouch) Poll() (bool, int16, int16) {
	if len(t.script) == 0 {
		return false, 0, 0
	}
	s := t.script[t.next]
	if t.next < len(t.script)-1 {
		t.next++
	}
	return s.ok, s.x, s.y
}

type staticPause struct {
	engaged bool
}

func (p *staticPause) Engaged() bool { return p.engaged }

type staticUpdater struct {
	err error
}

func (u *staticUpdater) Service() error { return u.err }
