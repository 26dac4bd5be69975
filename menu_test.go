// menu_test.go - part of UartSpy

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
	"testing"
	"time"

	"tinygo.org/x/drivers"
)

func newTestMenu(touch touchSource) (*configMenu, *recordingPanel) {
	panel := &recordingPanel{}
	m := newConfigMenu(panel, touch)
	m.timeout = 100 * time.Millisecond
	m.pollInterval = time.Millisecond
	return m, panel
}

func TestMenuButtonsLayout(t *testing.T) {
	buttons := menuButtons()
	if len(buttons) != 12 {
		t.Fatalf("button count: got %d, want 12", len(buttons))
	}
	var baud []int
	for _, b := range buttons {
		if b.effect == effectBaud {
			baud = append(baud, b.arg)
		}
	}
	if len(baud) != len(baudRates) {
		t.Fatalf("baud buttons: got %d, want %d", len(baud), len(baudRates))
	}
	for i, rate := range baudRates {
		if baud[i] != rate {
			t.Fatalf("baud button %d: got %d, want %d", i, baud[i], rate)
		}
	}
}

func TestButtonContains(t *testing.T) {
	b := menuButton{cx: 70, cy: 70, w: 62, h: 40}
	for _, tc := range []struct {
		x, y int16
		want bool
	}{
		{70, 70, true},
		{39, 50, true},   // top-left corner
		{101, 90, true},  // bottom-right corner
		{38, 70, false},  // one past the left edge
		{70, 91, false},  // one past the bottom edge
		{0, 0, false},
	} {
		if got := b.contains(tc.x, tc.y); got != tc.want {
			t.Errorf("contains(%d,%d): got %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestApplyMenuEffect(t *testing.T) {
	base := deviceConfig{fontSelector: 2, orientation: landscape, baud: 9600}

	got := applyMenuEffect(base, &menuButton{effect: effectFont, arg: 3})
	if got != (deviceConfig{fontSelector: 3, orientation: landscape, baud: 9600}) {
		t.Fatalf("font effect: got %+v", got)
	}
	got = applyMenuEffect(base, &menuButton{effect: effectOrientation, arg: int(portrait)})
	if got.orientation != portrait || got.fontSelector != 2 || got.baud != 9600 {
		t.Fatalf("orientation effect: got %+v", got)
	}
	got = applyMenuEffect(base, &menuButton{effect: effectBaud, arg: 115200})
	if got.baud != 115200 {
		t.Fatalf("baud effect: got %+v", got)
	}
	if got := applyMenuEffect(base, &menuButton{effect: effectExit}); got != base {
		t.Fatalf("exit changed the config: got %+v", got)
	}
}

func TestDrawButtonInvertsFillAndLabel(t *testing.T) {
	m, panel := newTestMenu(&scriptedTouch{})
	black := &menuButton{label: "1", cx: 70, cy: 70, w: 62, h: 40, fill: colorBlack}

	m.drawButton(black, false)
	if panel.fillColors[0] != colorBlack {
		t.Fatalf("normal fill: got %v, want black", panel.fillColors[0])
	}

	panel.fillColors = nil
	m.drawButton(black, true)
	// press feedback swaps fill and label: white button, black text
	if panel.fillColors[0] != colorWhite {
		t.Fatalf("inverted fill: got %v, want white", panel.fillColors[0])
	}
}

func TestMenuRendersInLandscape(t *testing.T) {
	m, panel := newTestMenu(&scriptedTouch{})
	m.timeout = 5 * time.Millisecond
	m.run(defaultConfig())

	if panel.rotation != drivers.Rotation90 {
		t.Fatalf("menu rotation: got %v, want landscape", panel.rotation)
	}
	if panel.fillScreens == 0 {
		t.Fatal("menu did not clear the screen")
	}
	if len(panel.scrolls) == 0 || panel.scrolls[0] != 0 {
		t.Fatal("menu did not reset the scroll register")
	}
}

func TestMenuCommitsOnRisingEdge(t *testing.T) {
	touch := &scriptedTouch{script: []touchSample{
		{false, 0, 0},
		{true, 150, 70}, // font selector 2
	}}
	m, _ := newTestMenu(touch)

	got := m.run(defaultConfig())
	if got.fontSelector != 2 {
		t.Fatalf("font selector: got %d, want 2", got.fontSelector)
	}
	if got.baud != defaultConfig().baud || got.orientation != defaultConfig().orientation {
		t.Fatalf("more than one value changed: %+v", got)
	}
}

func TestMenuHeldTouchCommitsOnce(t *testing.T) {
	// a touch already down when the menu opens is a rising edge on the
	// first poll
	touch := &scriptedTouch{script: []touchSample{{true, 419, 235}}}
	m, _ := newTestMenu(touch)

	got := m.run(defaultConfig())
	if got.baud != 230400 {
		t.Fatalf("baud: got %d, want 230400", got.baud)
	}
}

func TestMenuExitLeavesConfigUntouched(t *testing.T) {
	touch := &scriptedTouch{script: []touchSample{
		{false, 0, 0},
		{true, 410, 290}, // exit
	}}
	m, _ := newTestMenu(touch)
	m.timeout = 5 * time.Second

	start := time.Now()
	got := m.run(defaultConfig())
	if got != defaultConfig() {
		t.Fatalf("exit changed the config: %+v", got)
	}
	if time.Since(start) > time.Second {
		t.Fatal("exit waited for the timeout instead of committing")
	}
}

func TestMenuTimesOutUnchanged(t *testing.T) {
	m, _ := newTestMenu(&scriptedTouch{script: []touchSample{{false, 0, 0}}})
	m.timeout = 10 * time.Millisecond

	drained := 0
	m.drain = func() { drained++ }

	cfg := deviceConfig{fontSelector: 3, orientation: portrait, baud: 57600}
	if got := m.run(cfg); got != cfg {
		t.Fatalf("timeout changed the config: %+v", got)
	}
	if drained == 0 {
		t.Fatal("capture source never drained while the menu was open")
	}
}

func TestMenuTouchOutsideButtonsKeepsWaiting(t *testing.T) {
	touch := &scriptedTouch{script: []touchSample{
		{true, 5, 5}, // dead zone
	}}
	m, _ := newTestMenu(touch)
	m.timeout = 10 * time.Millisecond

	cfg := defaultConfig()
	if got := m.run(cfg); got != cfg {
		t.Fatalf("dead-zone touch changed the config: %+v", got)
	}
}
