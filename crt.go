// crt.go - part of UartSpy

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
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"tinygo.org/x/drivers"
)

const crtRefreshPeriod = 50 * time.Millisecond

// crtPanel models the display controller: a fixed portrait frame
// memory plus the rotation and vertical-scroll registers. Drawing
// goes through the rotation mapping into frame memory; scan-out
// applies the scroll remap to frame-memory rows. That reproduces the
// real constraint that the scroll registers only shift whole memory
// rows, so their visual effect survives only in portrait.
type crtPanel struct {
	mu    sync.RWMutex
	frame *image.NRGBA // always panelWidth x panelHeight, never rotated

	rotation   drivers.Rotation
	tfa, bfa   int16
	scrollLine int16
	dirty      bool
}

func newCrtPanel() *crtPanel {
	p := &crtPanel{frame: image.NewNRGBA(image.Rect(0, 0, panelWidth, panelHeight))}
	draw.Draw(p.frame, p.frame.Bounds(), image.Black, image.Point{}, draw.Src)
	return p
}

func (p *crtPanel) Size() (int16, int16) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.rotation == drivers.Rotation90 {
		return panelHeight, panelWidth
	}
	return panelWidth, panelHeight
}

// memXY maps a logical pixel in the current rotation onto frame
// memory. Callers hold the lock.
func (p *crtPanel) memXY(x, y int16) (int16, int16) {
	if p.rotation == drivers.Rotation90 {
		return y, panelHeight - 1 - x
	}
	return x, y
}

func (p *crtPanel) SetPixel(x, y int16, c color.RGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	mx, my := p.memXY(x, y)
	if mx < 0 || mx >= panelWidth || my < 0 || my >= panelHeight {
		return
	}
	p.frame.SetNRGBA(int(mx), int(my), color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (p *crtPanel) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	nc := color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	for dy := int16(0); dy < height; dy++ {
		for dx := int16(0); dx < width; dx++ {
			mx, my := p.memXY(x+dx, y+dy)
			if mx < 0 || mx >= panelWidth || my < 0 || my >= panelHeight {
				continue
			}
			p.frame.SetNRGBA(int(mx), int(my), nc)
		}
	}
	return nil
}

func (p *crtPanel) FillScreen(c color.RGBA) {
	p.mu.Lock()
	defer p.mu.Unlock()
	draw.Draw(p.frame, p.frame.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (p *crtPanel) SetRotation(rotation drivers.Rotation) error {
	p.mu.Lock()
	p.rotation = rotation
	p.mu.Unlock()
	return nil
}

func (p *crtPanel) SetScrollArea(topFixedArea, bottomFixedArea int16) {
	p.mu.Lock()
	p.tfa = topFixedArea
	p.bfa = bottomFixedArea
	p.mu.Unlock()
}

func (p *crtPanel) SetScroll(line int16) {
	p.mu.Lock()
	p.scrollLine = line
	p.mu.Unlock()
}

// Display marks the frame ready for the next scan-out.
func (p *crtPanel) Display() error {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
	return nil
}

// scanOut composes the presented picture into dst: fixed bands pass
// through, the scrollable band is read starting at the scroll line
// and wraps within itself. The remap is applied only in the native
// rotation - rotated, the remapped memory rows would be logical
// columns, so the panel's scroll feature has no visual effect there
// and the register merely tracks where the next band lives. Reports
// whether anything changed since the last scan-out.
func (p *crtPanel) scanOut(dst *image.NRGBA) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty {
		return false
	}
	p.dirty = false

	tfa, bfa := int(p.tfa), int(p.bfa)
	band := panelHeight - tfa - bfa
	start := int(p.scrollLine) - tfa
	scrolled := p.rotation == drivers.Rotation0
	for py := 0; py < panelHeight; py++ {
		src := py
		if scrolled && band > 0 && py >= tfa && py < panelHeight-bfa {
			src = tfa + ((start+(py-tfa))%band+band)%band
		}
		copy(dst.Pix[py*dst.Stride:py*dst.Stride+4*panelWidth],
			p.frame.Pix[src*p.frame.Stride:src*p.frame.Stride+4*panelWidth])
	}
	return true
}

// crtView is the window widget showing the panel, and the stand-in
// for its touch overlay: mouse presses become raw pad readings.
type crtView struct {
	widget.BaseWidget
	raster    *canvas.Raster
	presented *image.NRGBA
	panel     *crtPanel
	touch     *pointerTouch
}

func newCrtView(panel *crtPanel, touch *pointerTouch) *crtView {
	v := &crtView{
		presented: image.NewNRGBA(image.Rect(0, 0, panelWidth, panelHeight)),
		panel:     panel,
		touch:     touch,
	}
	draw.Draw(v.presented, v.presented.Bounds(), image.Black, image.Point{}, draw.Src)
	v.raster = canvas.NewRasterFromImage(v.presented)
	v.raster.SetMinSize(fyne.NewSize(panelWidth, panelHeight))
	v.ExtendBaseWidget(v)
	return v
}

func (v *crtView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// rawFromPosition converts a widget-space position into the touch
// pad's raw coordinate range, clamped to full scale.
func (v *crtView) rawFromPosition(pos fyne.Position) (uint16, uint16) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}
	clamp := func(f float32) uint16 {
		if f < 0 {
			return 0
		}
		if f > rawTouchMax {
			return rawTouchMax
		}
		return uint16(f)
	}
	return clamp(pos.X / size.Width * rawTouchMax),
		clamp(pos.Y / size.Height * rawTouchMax)
}

func (v *crtView) MouseDown(me *desktop.MouseEvent) {
	rawX, rawY := v.rawFromPosition(me.Position)
	v.touch.press(rawX, rawY)
}

func (v *crtView) MouseUp(_ *desktop.MouseEvent) {
	v.touch.release()
}

// runRefresher pushes scan-outs to the window at a fixed cadence,
// from outside the UI thread, for as long as stop stays open.
func (v *crtView) runRefresher(stop <-chan struct{}) {
	ticker := time.NewTicker(crtRefreshPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if v.panel.scanOut(v.presented) {
				fyne.Do(v.raster.Refresh)
			}
		}
	}
}
