// scroller.go - part of UartSpy

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

	"tinygo.org/x/tinyfont"
)

const (
	carriageReturn = '\r'

	// minRightMargin is the narrowest wrap margin; profiles with wide
	// glyphs get a wider one so a wrapped glyph never paints past the
	// viewport edge.
	minRightMargin = 10
)

// viewportGeometry is the pixel extent of the active orientation plus
// any fixed (non-scrolling) bands. topFixedRows+bottomFixedRows must
// be less than height.
type viewportGeometry struct {
	width, height   int16
	topFixedRows    int16
	bottomFixedRows int16
}

// scrollBottom is the first row below the scrollable band.
func (g viewportGeometry) scrollBottom() int16 {
	return g.height - g.bottomFixedRows
}

// scroller owns the drawing cursor and the viewport. It advances one
// text line at a time, using the panel's vertical scroll registers in
// portrait and a clear-and-redraw band in landscape - the panel's
// scroll remap acts on frame-memory rows, so rotation defeats it and
// the choice of strategy is a hardware constraint, not a preference.
type scroller struct {
	panel Panel
	fg    color.RGBA
	bg    color.RGBA

	geom viewportGeometry
	font fontProfile
	mode orientationMode

	xPixel       int16 // next glyph's left edge
	linePixel    int16 // top of the current text line
	scrollOrigin int16 // logical top of the scrollable window
	margin       int16 // wrap margin for the current font
}

func newScroller(panel Panel, fg, bg color.RGBA) *scroller {
	return &scroller{panel: panel, fg: fg, bg: bg}
}

// reconfigure must be called after every orientation or font change,
// before any further drawByte/advanceLine. It resets the cursor and
// scroll origin to the viewport top and re-issues the hardware scroll
// band definition for the new geometry.
func (s *scroller) reconfigure(mode orientationMode, font fontProfile) {
	s.mode = mode
	s.font = font
	s.geom = mode.viewport()
	s.margin = font.glyphAdvance('W') + 1
	if s.margin < minRightMargin {
		s.margin = minRightMargin
	}
	s.xPixel = 0
	s.scrollOrigin = s.geom.topFixedRows
	s.linePixel = s.geom.topFixedRows
	s.panel.SetScrollArea(s.geom.topFixedRows, s.geom.bottomFixedRows)
	s.panel.SetScroll(s.scrollOrigin)
}

// needsLineBreak reports whether b must be preceded by a line
// advance: either b is a carriage return, or the cursor has passed
// the wrap margin and b belongs at column 0 of a new line.
func (s *scroller) needsLineBreak(b byte) bool {
	return b == carriageReturn || s.xPixel > s.geom.width-s.margin
}

// advanceLine moves the cursor to a fresh line and returns the top
// pixel row of that line.
func (s *scroller) advanceLine() int16 {
	prevTop := s.scrollOrigin
	bottom := s.geom.scrollBottom()
	switch s.mode {
	case portrait:
		// Hardware scroll: jump the origin a whole line and push it to
		// the scroll start register. At the wrap the panel would scan
		// out stale rows, so the whole frame is cleared once.
		s.scrollOrigin += s.font.lineHeight
		if s.scrollOrigin >= bottom {
			s.scrollOrigin = s.geom.topFixedRows + s.font.baseline
			s.panel.FillScreen(s.bg)
		}
		s.panel.SetScroll(s.scrollOrigin)
		s.linePixel = s.scrollOrigin
	case landscape:
		// Software scroll: step the scroll register one pixel row at a
		// time to keep it monotonic even though rotation defeats its
		// visual effect, then blank only the new line's band.
		for i := int16(0); i < s.font.lineHeight; i++ {
			s.scrollOrigin++
			if s.scrollOrigin == bottom {
				s.scrollOrigin = s.geom.topFixedRows + s.font.baseline
			}
			s.panel.SetScroll(s.scrollOrigin)
		}
		s.panel.FillRectangle(0, prevTop, s.geom.width, s.font.lineHeight, s.bg)
		s.linePixel = prevTop
	}
	s.xPixel = 0
	return s.linePixel
}

// drawByte renders a printable byte (ASCII 32..127) at the cursor and
// returns the advance width; anything else is not rendered and
// advances zero. Line-break decisions are the caller's, via
// needsLineBreak, so the network mirror can observe them too.
func (s *scroller) drawByte(b byte) int16 {
	if b < 32 || b > 127 {
		return 0
	}
	tinyfont.DrawChar(s.panel, s.font.font, s.xPixel, s.linePixel+s.font.baseline, rune(b), s.fg)
	adv := s.font.glyphAdvance(b)
	s.xPixel += adv
	return adv
}
