// menu.go - part of UartSpy

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
	"strconv"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

const (
	menuTimeout      = 10 * time.Second
	menuPollInterval = 5 * time.Millisecond
)

var (
	menuCaptionFont = &freemono.Regular12pt7b
	menuLabelFont   = &freemono.Regular9pt7b
)

type effectTag uint8

const (
	effectExit effectTag = iota
	effectFont
	effectOrientation
	effectBaud
)

// menuButton is one touch region of the configuration menu. cx,cy is
// the region centre. Buttons are transient: built fresh on every menu
// entry, discarded on exit.
type menuButton struct {
	label  string
	cx, cy int16
	w, h   int16
	fill   color.RGBA
	effect effectTag
	arg    int

	pressed    bool
	wasPressed bool
}

func (b *menuButton) contains(x, y int16) bool {
	return x >= b.cx-b.w/2 && x <= b.cx+b.w/2 &&
		y >= b.cy-b.h/2 && y <= b.cy+b.h/2
}

func (b *menuButton) justPressed() bool  { return b.pressed && !b.wasPressed }
func (b *menuButton) justReleased() bool { return !b.pressed && b.wasPressed }

// menuButtons builds the twelve regions in the fixed landscape
// layout: three font sizes, two orientations plus exit, six baud
// rates in ascending order.
func menuButtons() []menuButton {
	buttons := []menuButton{
		{label: "1", cx: 70, cy: 70, w: 62, h: 40, fill: colorBlack, effect: effectFont, arg: 1},
		{label: "2", cx: 150, cy: 70, w: 62, h: 40, fill: colorBlack, effect: effectFont, arg: 2},
		{label: "3", cx: 230, cy: 70, w: 62, h: 40, fill: colorBlack, effect: effectFont, arg: 3},
		{label: "landscape", cx: 130, cy: 155, w: 140, h: 40, fill: colorBlue, effect: effectOrientation, arg: int(landscape)},
		{label: "portrait", cx: 290, cy: 155, w: 140, h: 40, fill: colorBlue, effect: effectOrientation, arg: int(portrait)},
		{label: "exit", cx: 410, cy: 290, w: 120, h: 40, fill: colorRed, effect: effectExit},
	}
	baudX := [...]int16{45, 116, 191, 268, 343, 419}
	baudW := [...]int16{65, 74, 74, 74, 75, 75}
	for i, rate := range baudRates {
		buttons = append(buttons, menuButton{
			label: strconv.Itoa(rate), cx: baudX[i], cy: 235, w: baudW[i], h: 40,
			fill: colorDarkGrey, effect: effectBaud, arg: rate,
		})
	}
	return buttons
}

// configMenu is the bounded-time modal settings menu. It deliberately
// blocks the rest of the device loop while active; the drain hook
// keeps the capture source's hardware buffer from overrunning, at the
// documented cost of losing those bytes.
type configMenu struct {
	panel       Panel
	touch       touchSource
	touchOrient func(orientationMode)
	drain       func()

	timeout      time.Duration
	pollInterval time.Duration
}

func newConfigMenu(panel Panel, touch touchSource) *configMenu {
	return &configMenu{
		panel:        panel,
		touch:        touch,
		timeout:      menuTimeout,
		pollInterval: menuPollInterval,
	}
}

// run displays the menu and polls until the first rising press edge
// or the idle timeout. Exactly one configuration value (or none)
// changes per invocation; the returned config is a proposal the
// caller applies.
func (m *configMenu) run(cfg deviceConfig) deviceConfig {
	buttons := menuButtons()
	m.render(buttons)

	deadline := time.Now().Add(m.timeout)
	for time.Now().Before(deadline) {
		if m.drain != nil {
			m.drain()
		}
		ok, tx, ty := m.touch.Poll()
		for i := range buttons {
			b := &buttons[i]
			b.wasPressed = b.pressed
			b.pressed = ok && b.contains(tx, ty)
		}
		for i := range buttons {
			b := &buttons[i]
			if b.justReleased() {
				m.drawButton(b, false)
			}
			if b.justPressed() {
				// First press edge is final: selection is
				// single-touch, not confirm-on-release.
				m.drawButton(b, true)
				m.panel.Display()
				return applyMenuEffect(cfg, b)
			}
		}
		m.panel.Display()
		time.Sleep(m.pollInterval)
	}
	return cfg
}

func applyMenuEffect(cfg deviceConfig, b *menuButton) deviceConfig {
	switch b.effect {
	case effectFont:
		cfg.fontSelector = b.arg
	case effectOrientation:
		cfg.orientation = orientationMode(b.arg)
	case effectBaud:
		cfg.baud = b.arg
	case effectExit:
		// no change
	}
	return cfg
}

// render paints the whole menu once. The menu always runs in the
// landscape layout, whatever the display orientation was, so button
// placement is consistent.
func (m *configMenu) render(buttons []menuButton) {
	m.panel.SetRotation(landscape.rotation())
	if m.touchOrient != nil {
		m.touchOrient(landscape)
	}
	m.panel.SetScroll(0)
	m.panel.FillScreen(colorBlack)

	tinyfont.WriteLine(m.panel, menuCaptionFont, 50, 35, "fontsize", colorWhite)
	tinyfont.WriteLine(m.panel, menuCaptionFont, 50, 125, "screen orientation", colorWhite)
	tinyfont.WriteLine(m.panel, menuCaptionFont, 50, 205, "serial speed", colorWhite)

	for i := range buttons {
		m.drawButton(&buttons[i], false)
	}
	m.panel.Display()
}

func (m *configMenu) drawButton(b *menuButton, inverted bool) {
	fill, text := b.fill, colorWhite
	if inverted {
		fill, text = colorWhite, b.fill
	}
	x := b.cx - b.w/2
	y := b.cy - b.h/2
	m.panel.FillRectangle(x, y, b.w, b.h, fill)
	frame(m.panel, x, y, b.w, b.h, colorWhite)
	_, labelWidth := tinyfont.LineWidth(menuLabelFont, b.label)
	// centre the label; +5 puts the 9pt baseline at the visual middle
	tinyfont.WriteLine(m.panel, menuLabelFont, b.cx-int16(labelWidth)/2, b.cy+5, b.label, text)
}
