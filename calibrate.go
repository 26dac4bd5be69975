// calibrate.go - part of UartSpy

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
	"image/color"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

const (
	calTargetMargin = 20 // px from the viewport corner to each target
	calTargetArm    = 10 // crosshair arm length
	calPollInterval = 10 * time.Millisecond
	calTimeout      = 30 * time.Second
)

// rawTouchSampler exposes uncalibrated pad readings, needed only
// while calibrating.
type rawTouchSampler interface {
	rawSample() (ok bool, rawX, rawY uint16)
}

type rawPoint struct {
	x, y uint16
}

// computeCalibration derives the axis ranges and flags from two
// corner presses: tl on the target at (margin, margin), br on the one
// at (w-1-margin, h-1-margin), both in native portrait pixels.
func computeCalibration(tl, br rawPoint, w, h, margin int16) (touchCalibration, error) {
	var cal touchCalibration

	fit := func(lo, hi uint16) (uint16, uint16, bool, error) {
		inverted := false
		if hi < lo {
			lo, hi = hi, lo
			inverted = true
		}
		if hi-lo < 100 {
			return 0, 0, false, errors.New("touch targets too close together")
		}
		return lo, hi, inverted, nil
	}
	xLo, xHi, xInv, err := fit(tl.x, br.x)
	if err != nil {
		return cal, fmt.Errorf("x axis: %w", err)
	}
	yLo, yHi, yInv, err := fit(tl.y, br.y)
	if err != nil {
		return cal, fmt.Errorf("y axis: %w", err)
	}

	// widen the measured span from the inset targets out to the
	// full viewport
	extendX := uint32(xHi-xLo) * uint32(margin) / uint32(w-1-2*margin)
	extendY := uint32(yHi-yLo) * uint32(margin) / uint32(h-1-2*margin)
	xLo = clampRaw(int32(xLo) - int32(extendX))
	xHi = clampRaw(int32(xHi) + int32(extendX))
	yLo = clampRaw(int32(yLo) - int32(extendY))
	yHi = clampRaw(int32(yHi) + int32(extendY))

	cal.data = [5]uint16{xLo, xHi, yLo, yHi, 0}
	if xInv {
		cal.data[4] |= calFlagInvertX
	}
	if yInv {
		cal.data[4] |= calFlagInvertY
	}
	return cal, nil
}

func clampRaw(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > rawTouchMax {
		return rawTouchMax
	}
	return uint16(v)
}

// runCalibration walks the user through two corner targets in the
// native portrait layout and returns the fitted calibration.
func runCalibration(panel Panel, raw rawTouchSampler) (touchCalibration, error) {
	panel.SetRotation(portrait.rotation())
	panel.SetScroll(0)
	panel.FillScreen(colorBlack)
	tinyfont.WriteLine(panel, &freemono.Regular9pt7b, 20, panelHeight/2,
		"touch each target", colorWhite)
	panel.Display()

	targets := [2]struct{ x, y int16 }{
		{calTargetMargin, calTargetMargin},
		{panelWidth - 1 - calTargetMargin, panelHeight - 1 - calTargetMargin},
	}
	var samples [2]rawPoint
	for i, tgt := range targets {
		drawCrosshair(panel, tgt.x, tgt.y, colorGreen)
		panel.Display()
		p, err := awaitPress(raw)
		if err != nil {
			return touchCalibration{}, err
		}
		samples[i] = p
		drawCrosshair(panel, tgt.x, tgt.y, colorDarkGrey)
		panel.Display()
		awaitRelease(raw)
	}
	return computeCalibration(samples[0], samples[1],
		panelWidth, panelHeight, calTargetMargin)
}

func drawCrosshair(panel Panel, x, y int16, c color.RGBA) {
	panel.FillRectangle(x-calTargetArm, y, 2*calTargetArm+1, 1, c)
	panel.FillRectangle(x, y-calTargetArm, 1, 2*calTargetArm+1, c)
}

func awaitPress(raw rawTouchSampler) (rawPoint, error) {
	deadline := time.Now().Add(calTimeout)
	for time.Now().Before(deadline) {
		if ok, x, y := raw.rawSample(); ok {
			return rawPoint{x, y}, nil
		}
		time.Sleep(calPollInterval)
	}
	return rawPoint{}, errors.New("calibration timed out waiting for a touch")
}

func awaitRelease(raw rawTouchSampler) {
	for {
		if ok, _, _ := raw.rawSample(); !ok {
			return
		}
		time.Sleep(calPollInterval)
	}
}
