// fanout.go - part of UartSpy

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

// fanoutPipeline gates capture bytes through the pause switch and
// dispatches each accepted byte to both the scroller and the network
// mirror. Both destinations always observe accepted bytes in the same
// relative order; neither waits for the other.
type fanoutPipeline struct {
	scr    *scroller
	mirror byteMirror
	pause  pauseInput
}

func newFanoutPipeline(scr *scroller, mirror byteMirror, pause pauseInput) *fanoutPipeline {
	return &fanoutPipeline{scr: scr, mirror: mirror, pause: pause}
}

// service drains every byte currently available from the capture
// source. The pause level is sampled once per cycle; while engaged,
// bytes are still read off the source (the device-level buffer must
// not overrun) but are discarded before reaching either destination.
func (p *fanoutPipeline) service(src captureSource) {
	paused := p.pause.Engaged()
	for src.Available() > 0 {
		b := src.ReadByte()
		if paused {
			continue
		}
		p.dispatch(b)
	}
}

// discard drains and drops everything available. Used while the
// configuration menu is open: capture bytes during that window are
// lost, not queued.
func (p *fanoutPipeline) discard(src captureSource) {
	for src.Available() > 0 {
		src.ReadByte()
	}
}

func (p *fanoutPipeline) dispatch(b byte) {
	if p.scr.needsLineBreak(b) {
		p.scr.advanceLine()
		p.mirror.Println()
	}
	if b == carriageReturn {
		return
	}
	// Non-printables are not rendered but still reach the mirror, so a
	// remote observer sees the raw bytes the screen cannot show.
	p.scr.drawByte(b)
	p.mirror.Print([]byte{b})
}
