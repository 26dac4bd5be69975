// fanout_test.go - part of UartSpy

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

import "testing"

func newTestPipeline(mode orientationMode) (*fanoutPipeline, *scroller, *recordingMirror, *staticPause) {
	s, _ := newTestScroller(mode, 2)
	mirror := &recordingMirror{}
	pause := &staticPause{}
	return newFanoutPipeline(s, mirror, pause), s, mirror, pause
}

func TestDispatchMirrorsEveryAcceptedByte(t *testing.T) {
	pipe, _, mirror, _ := newTestPipeline(portrait)
	src := &scriptedCapture{data: []byte("AB\rC")}

	pipe.service(src)

	if string(mirror.out) != "AB\nC" {
		t.Fatalf("mirror stream: got %q, want %q", mirror.out, "AB\nC")
	}
	if mirror.lines != 1 {
		t.Fatalf("mirror line advances: got %d, want 1", mirror.lines)
	}
	if src.Available() != 0 {
		t.Fatalf("source not drained, %d left", src.Available())
	}
}

func TestCarriageReturnAdvancesWithoutGlyph(t *testing.T) {
	pipe, s, _, _ := newTestPipeline(portrait)
	lineHeight := s.font.lineHeight

	pipe.dispatch('A')
	col := s.xPixel
	pipe.dispatch(carriageReturn)
	if s.linePixel != lineHeight {
		t.Fatalf("line after CR: got %d, want %d", s.linePixel, lineHeight)
	}
	if s.xPixel != 0 {
		t.Fatalf("column after CR: got %d, want 0", s.xPixel)
	}
	pipe.dispatch('B')
	if s.xPixel != col {
		t.Fatalf("glyph after CR at column %d, want %d", s.xPixel, col)
	}
}

func TestNonPrintableReachesMirrorNotScreen(t *testing.T) {
	pipe, s, mirror, _ := newTestPipeline(portrait)

	pipe.dispatch(0x07)
	if s.xPixel != 0 {
		t.Fatalf("non-printable moved the cursor to %d", s.xPixel)
	}
	if len(mirror.out) != 1 || mirror.out[0] != 0x07 {
		t.Fatalf("mirror stream: got %v, want [7]", mirror.out)
	}
}

func TestPauseDiscardsWithoutSideEffects(t *testing.T) {
	pipe, s, mirror, pause := newTestPipeline(portrait)
	pause.engaged = true
	src := &scriptedCapture{data: []byte("hello\rworld")}

	pipe.service(src)

	if src.Available() != 0 {
		t.Fatal("paused service must still drain the source")
	}
	if len(mirror.out) != 0 || mirror.lines != 0 {
		t.Fatalf("paused bytes leaked to the mirror: %q", mirror.out)
	}
	if s.xPixel != 0 || s.linePixel != 0 {
		t.Fatal("paused bytes moved the cursor")
	}

	// released mid-stream: later cycles relay normally
	pause.engaged = false
	pipe.service(&scriptedCapture{data: []byte("ok")})
	if string(mirror.out) != "ok" {
		t.Fatalf("stream after release: got %q, want %q", mirror.out, "ok")
	}
}

func TestWrapEmitsMirrorLineAdvance(t *testing.T) {
	pipe, s, mirror, _ := newTestPipeline(portrait)
	s.xPixel = s.geom.width // force the wrap on the next printable

	pipe.dispatch('A')

	if mirror.lines != 1 {
		t.Fatalf("mirror line advances on wrap: got %d, want 1", mirror.lines)
	}
	if string(mirror.out) != "\nA" {
		t.Fatalf("mirror stream: got %q, want %q", mirror.out, "\nA")
	}
	if s.linePixel != s.font.lineHeight {
		t.Fatalf("screen line after wrap: got %d, want %d", s.linePixel, s.font.lineHeight)
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	pipe, s, mirror, _ := newTestPipeline(portrait)
	src := &scriptedCapture{data: []byte("menu is open")}

	pipe.discard(src)

	if src.Available() != 0 {
		t.Fatal("discard left bytes in the source")
	}
	if len(mirror.out) != 0 || s.xPixel != 0 {
		t.Fatal("discarded bytes reached a destination")
	}
}
