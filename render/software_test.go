// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
)

func TestSoftwareDeviceFrameCycle(t *testing.T) {
	dev := NewSoftwareDevice(8, 4)

	frame, err := dev.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error = %v", err)
	}
	enc := dev.CreateEncoder("test")
	enc.Clear(frame.Target(), RGB(0, 0, 1))
	enc.DrawQuads(frame.Target(), nil, []Quad{
		{X: 0, Y: 0, Width: 2, Height: 4, Color: RGB(1, 0, 0)},
	})
	if err := dev.Submit(enc.Finish()); err != nil {
		t.Fatalf("Submit() unexpected error = %v", err)
	}
	frame.Present()
	frame.Present()

	img := dev.Image()
	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("quad pixel = %v, want red", got)
	}
	if got := img.RGBAAt(5, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("background pixel = %v, want blue", got)
	}

	stats := dev.Stats()
	if stats.Acquired != 1 || stats.Submitted != 1 || stats.Presented != 1 || stats.Commands != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestSoftwareFrameDiscard(t *testing.T) {
	dev := NewSoftwareDevice(4, 4)

	frame, _ := dev.Acquire()
	frame.Discard()
	frame.Discard()
	frame.Present()

	presented, _ := dev.Acquire()
	presented.Present()
	presented.Discard()

	stats := dev.Stats()
	if stats.Discarded != 1 || stats.Presented != 1 {
		t.Errorf("Stats() = %+v, want one discarded and one presented frame", stats)
	}
}

func TestSoftwareDeviceAdapterInfo(t *testing.T) {
	var handle DeviceHandle = NewSoftwareDevice(1, 1)
	if got := handle.AdapterInfo().Type; got != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterInfo().Type = %v, want Software", got)
	}
	if got := (NullDeviceHandle{}).AdapterInfo(); got != (gpucontext.AdapterInfo{}) {
		t.Errorf("NullDeviceHandle.AdapterInfo() = %+v, want zero", got)
	}
}

func TestSoftwareDeviceInjectedFailures(t *testing.T) {
	dev := NewSoftwareDevice(4, 4)
	dev.FailNextAcquire(ErrSurfaceTimeout)
	dev.FailNextAcquire(ErrOutOfMemory)

	if _, err := dev.Acquire(); !errors.Is(err, ErrSurfaceTimeout) {
		t.Errorf("first Acquire() error = %v, want ErrSurfaceTimeout", err)
	}
	if _, err := dev.Acquire(); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("second Acquire() error = %v, want ErrOutOfMemory", err)
	}
	if _, err := dev.Acquire(); err != nil {
		t.Errorf("third Acquire() error = %v, want nil", err)
	}
	if got := dev.Stats().Acquired; got != 1 {
		t.Errorf("Acquired = %d, want 1", got)
	}
}

func TestSoftwareDeviceGlyphsAndImages(t *testing.T) {
	dev := NewSoftwareDevice(10, 10)
	frame, _ := dev.Acquire()
	target := frame.Target()

	mask := image.NewAlpha(image.Rect(0, 0, 2, 2))
	for i := range mask.Pix {
		mask.Pix[i] = 0xFF
	}
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1] = 0xFF
		src.Pix[i+3] = 0xFF
	}

	enc := dev.CreateEncoder("test")
	enc.Clear(target, Black)
	enc.DrawImage(target, nil, src, image.Rect(5, 5, 8, 8))
	enc.DrawGlyphs(target, nil, []GlyphQuad{{Mask: mask, X: 1, Y: 1, Color: White}})
	if err := dev.Submit(enc.Finish()); err != nil {
		t.Fatalf("Submit() unexpected error = %v", err)
	}

	img := dev.Image()
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("glyph pixel = %v, want white", got)
	}
	if got := img.RGBAAt(6, 6); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("image pixel = %v, want green", got)
	}
	if got := img.RGBAAt(9, 9); got != (color.RGBA{A: 255}) {
		t.Errorf("untouched pixel = %v, want black", got)
	}
}

func TestSoftwareDeviceUnsupportedTarget(t *testing.T) {
	dev := NewSoftwareDevice(4, 4)
	enc := dev.CreateEncoder("bad")
	enc.Clear(struct{ RenderTarget }{NewPixmapTarget(1, 1)}, Black)

	err := dev.Submit(enc.Finish())
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("Submit() error = %v, want ErrUnsupportedTarget", err)
	}
}

func TestSoftwareDeviceConfigure(t *testing.T) {
	dev := NewSoftwareDevice(4, 4)
	dev.Configure(16, 9)
	if b := dev.Image().Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("image bounds after Configure = %v, want 16x9", b)
	}
}
