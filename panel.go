// panel.go - part of UartSpy

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

// The panel is an ST7796-class 320x480 controller. All geometry is
// derived from these native (portrait) dimensions.
const (
	panelWidth  = 320
	panelHeight = 480
)

// Panel is the display controller as seen by the scroller and the
// menu. SetScrollArea and SetScroll are the controller's vertical
// scroll definition (VSCRDEF) and scroll start address (VSCRSAD)
// registers; the remap they define acts on frame-memory rows, so it
// is only visually useful in the native (portrait) rotation.
type Panel interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
	FillScreen(c color.RGBA)
	SetRotation(rotation drivers.Rotation) error
	SetScrollArea(topFixedArea, bottomFixedArea int16)
	SetScroll(line int16)
}

type orientationMode uint8

const (
	portrait orientationMode = iota
	landscape
)

func (o orientationMode) String() string {
	if o == landscape {
		return "landscape"
	}
	return "portrait"
}

func (o orientationMode) rotation() drivers.Rotation {
	if o == landscape {
		return drivers.Rotation90
	}
	return drivers.Rotation0
}

// viewport returns the pixel extents of the active orientation. The
// fixed bands are zero on this device but the scroller arithmetic
// keeps them symbolic.
func (o orientationMode) viewport() viewportGeometry {
	if o == landscape {
		return viewportGeometry{
			width:  panelHeight,
			height: panelWidth,
		}
	}
	return viewportGeometry{
		width:  panelWidth,
		height: panelHeight,
	}
}

// frame draws a one-pixel rectangular outline, used for menu button
// borders.
func frame(p Panel, x, y, w, h int16, c color.RGBA) {
	p.FillRectangle(x, y, w, 1, c)
	p.FillRectangle(x, y+h-1, w, 1, c)
	p.FillRectangle(x, y, 1, h, c)
	p.FillRectangle(x+w-1, y, 1, h, c)
}
