// fonts.go - part of UartSpy

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
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// fontProfile bundles the renderer handle with the two metrics the
// line-advance arithmetic depends on. lineHeight and baseline are
// only ever swapped together, as one value - updating them
// separately is how off-by-one scroll bugs are born.
type fontProfile struct {
	font       tinyfont.Fonter
	lineHeight int16 // pixel rows consumed by one text line
	baseline   int16 // rows from the line top down to the glyph baseline
}

const (
	minFontSelector = 1
	maxFontSelector = 4
)

// The four fixed profiles. The menu only offers 1..3; profile 4 is
// reachable programmatically, as on the original panel firmware.
var fontProfiles = [maxFontSelector]fontProfile{
	{&proggy.TinySZ8pt7b, 11, 8},
	{&freemono.Regular9pt7b, 18, 13},
	{&freemono.Regular12pt7b, 24, 18},
	{&freemono.Regular24pt7b, 47, 36},
}

// fontForSelector returns the fixed profile for selector 1..4.
// An out-of-range selector falls back to the smallest font rather
// than leaving the scroller with zero-height lines.
func fontForSelector(sel int) fontProfile {
	if sel < minFontSelector || sel > maxFontSelector {
		sel = minFontSelector
	}
	return fontProfiles[sel-1]
}

// glyphAdvance is the rendered width of b in this profile.
func (p fontProfile) glyphAdvance(b byte) int16 {
	return int16(p.font.GetGlyph(rune(b)).Info().XAdvance)
}
