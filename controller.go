// controller.go - part of UartSpy

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
	"errors"
	"fmt"
	"strconv"
	"time"

	"tinygo.org/x/tinyfont"
)

// baudRates are the selectable capture rates, ascending, matching the
// menu's baud row left to right.
var baudRates = [...]int{9600, 19200, 38400, 57600, 115200, 230400}

const defaultBaud = 9600

// errRestart asks the process supervisor to restart the whole device.
// It is the only non-nil error the controller loop ever returns.
var errRestart = errors.New("uartspy: device restart required")

// deviceConfig is the complete user-adjustable state. It is passed by
// value: the menu returns a proposal, and only applyConfig makes it
// current.
type deviceConfig struct {
	fontSelector int
	orientation  orientationMode
	baud         int
}

// defaultConfig is the power-on state: smallest font, landscape,
// 9600 baud.
func defaultConfig() deviceConfig {
	return deviceConfig{fontSelector: 1, orientation: landscape, baud: defaultBaud}
}

// captureReopener is the extra face a capture source must expose so a
// menu baud change can take effect.
type captureReopener interface {
	captureSource
	Reopen(baud int) error
}

// controller owns the device loop: one tick services the mirror and
// updater, samples the touch for menu entry, and otherwise relays
// capture bytes through the fan-out pipeline.
type controller struct {
	cfg     deviceConfig
	panel   Panel
	touch   touchSource
	pause   pauseInput
	capture captureReopener
	mirror  mirrorService
	updater updater

	scr  *scroller
	pipe *fanoutPipeline
	menu *configMenu

	touchOrient  func(orientationMode)
	tickInterval time.Duration
}

// mirrorService is a byteMirror that also needs servicing each tick.
type mirrorService interface {
	byteMirror
	Service() error
}

func newController(cfg deviceConfig, panel Panel, touch touchSource, pause pauseInput,
	capture captureReopener, mirror mirrorService, up updater) *controller {

	scr := newScroller(panel, colorGreen, colorBlack)
	c := &controller{
		cfg:          cfg,
		panel:        panel,
		touch:        touch,
		pause:        pause,
		capture:      capture,
		mirror:       mirror,
		updater:      up,
		scr:          scr,
		pipe:         newFanoutPipeline(scr, mirror, pause),
		menu:         newConfigMenu(panel, touch),
		tickInterval: 10 * time.Millisecond,
	}
	c.menu.drain = func() { c.pipe.discard(capture) }
	return c
}

// setTouchOrient installs the hook that keeps the touch coordinate
// frame in step with the panel rotation, for both the relay view and
// the menu's forced-landscape layout.
func (c *controller) setTouchOrient(fn func(orientationMode)) {
	c.touchOrient = fn
	c.menu.touchOrient = fn
}

// start applies the initial configuration and paints the boot banner.
func (c *controller) start() error {
	return c.applyConfig(c.cfg, true)
}

// tick runs one pass of the device loop. Returning errRestart means
// the device must restart; any other state is handled in place.
func (c *controller) tick() error {
	if err := c.mirror.Service(); err != nil {
		return err
	}
	if err := c.updater.Service(); err != nil {
		return err
	}
	if ok, _, _ := c.touch.Poll(); ok {
		proposed := c.menu.run(c.cfg)
		return c.applyConfig(proposed, false)
	}
	c.pipe.service(c.capture)
	return c.panel.Display()
}

// run ticks until stop is closed or a tick demands a restart.
func (c *controller) run(stop <-chan struct{}) error {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			if err := c.tick(); err != nil {
				return err
			}
		}
	}
}

// applyConfig makes proposed the current configuration and rebuilds
// everything that depends on it. It always repaints from a blank
// viewport - even a no-change menu exit must erase the menu - and
// reopens the capture port only when the rate actually changed.
func (c *controller) applyConfig(proposed deviceConfig, boot bool) error {
	baudChanged := proposed.baud != c.cfg.baud
	c.cfg = proposed

	if err := c.panel.SetRotation(c.cfg.orientation.rotation()); err != nil {
		return fmt.Errorf("setting panel rotation: %w", err)
	}
	if c.touchOrient != nil {
		c.touchOrient(c.cfg.orientation)
	}
	c.panel.FillScreen(colorBlack)
	c.scr.reconfigure(c.cfg.orientation, fontForSelector(c.cfg.fontSelector))

	if baudChanged || boot {
		if err := c.capture.Reopen(c.cfg.baud); err != nil {
			fmt.Printf("ERROR: reopening capture port: %v\n", err)
			return errRestart
		}
	}

	c.banner("ready..." + strconv.Itoa(c.cfg.baud) + " baud")
	return c.panel.Display()
}

// notice paints one status line immediately, outside the tick cycle.
func (c *controller) notice(msg string) {
	c.banner(msg)
	c.panel.Display()
}

// banner writes one line of status text at the cursor and advances,
// so capture output starts on the next line.
func (c *controller) banner(msg string) {
	tinyfont.WriteLine(c.panel, c.scr.font.font,
		c.scr.xPixel, c.scr.linePixel+c.scr.font.baseline, msg, c.scr.fg)
	c.mirror.Print([]byte(msg))
	c.mirror.Println()
	c.scr.advanceLine()
}
