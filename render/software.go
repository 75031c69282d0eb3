// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// SoftwareDevice is a CPU implementation of Device backed by *image.RGBA.
//
// Submitted command buffers are replayed immediately with image/draw:
// clears use draw.Src, quads, images and glyph masks are composited with
// draw.Over in recording order.
//
// Acquire failures can be injected with FailNextAcquire so that the frame
// orchestrator's drop and fatal paths can be exercised without a GPU.
//
// Example:
//
//	dev := render.NewSoftwareDevice(800, 600)
//	ctx, _ := render.NewContext(dev, 800, 600, 1)
//	// ... render a frame ...
//	png.Encode(w, dev.Image())
type SoftwareDevice struct {
	NullDeviceHandle

	target   *PixmapTarget
	failures []error
	stats    SoftwareStats
}

// SoftwareStats counts device-side operations.
type SoftwareStats struct {
	Acquired  int
	Submitted int
	Presented int
	Discarded int
	Commands  int
}

// NewSoftwareDevice creates a CPU device with a surface of the given size.
func NewSoftwareDevice(width, height int) *SoftwareDevice {
	return &SoftwareDevice{target: NewPixmapTarget(width, height)}
}

// SurfaceFormat returns RGBA8, the format of the backing image.
func (d *SoftwareDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// AdapterInfo describes the CPU device as a software adapter.
func (d *SoftwareDevice) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "sugarloaf software", Type: gpucontext.AdapterTypeSoftware}
}

// Configure implements Device.
func (d *SoftwareDevice) Configure(width, height int) {
	d.target.Resize(width, height)
}

// FailNextAcquire queues err to be returned by the next Acquire call.
// Multiple calls queue multiple failures.
func (d *SoftwareDevice) FailNextAcquire(err error) {
	d.failures = append(d.failures, err)
}

// Acquire implements Device.
func (d *SoftwareDevice) Acquire() (Frame, error) {
	if len(d.failures) > 0 {
		err := d.failures[0]
		d.failures = d.failures[1:]
		return nil, err
	}
	d.stats.Acquired++
	return &softwareFrame{device: d, target: d.target}, nil
}

// CreateEncoder implements Device.
func (d *SoftwareDevice) CreateEncoder(label string) Encoder {
	return NewRecorder(label)
}

// Submit implements Device by replaying buf onto its targets.
func (d *SoftwareDevice) Submit(buf CommandBuffer) error {
	for i, cmd := range buf.Commands {
		if err := execute(cmd); err != nil {
			return fmt.Errorf("render: %s command %d (%s): %w", buf.Label, i, cmd.Type, err)
		}
	}
	d.stats.Submitted++
	d.stats.Commands += len(buf.Commands)
	return nil
}

// Image returns the surface image. It reflects the last submitted frame.
func (d *SoftwareDevice) Image() *image.RGBA {
	return d.target.Image()
}

// Target returns the surface target.
func (d *SoftwareDevice) Target() *PixmapTarget {
	return d.target
}

// Stats returns operation counters.
func (d *SoftwareDevice) Stats() SoftwareStats {
	return d.stats
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)

type softwareFrame struct {
	device    *SoftwareDevice
	target    *PixmapTarget
	presented bool
	released  bool
}

func (f *softwareFrame) Target() RenderTarget {
	return f.target
}

func (f *softwareFrame) Present() {
	if f.presented || f.released {
		return
	}
	f.presented = true
	f.device.stats.Presented++
}

func (f *softwareFrame) Discard() {
	if f.presented || f.released {
		return
	}
	f.released = true
	f.device.stats.Discarded++
}

// drawable is implemented by targets exposing a CPU image.
type drawable interface {
	Image() *image.RGBA
}

func execute(cmd Command) error {
	if cmd.Target == nil {
		return errors.New("nil target")
	}
	d, ok := cmd.Target.(drawable)
	if !ok {
		return ErrUnsupportedTarget
	}
	dst := d.Image()

	switch cmd.Type {
	case CmdClear:
		draw.Draw(dst, dst.Bounds(), image.NewUniform(cmd.Clear.NRGBA()), image.Point{}, draw.Src)
	case CmdQuads:
		for _, q := range cmd.Quads {
			r := q.Rect().Intersect(dst.Bounds())
			if r.Empty() || q.Color.A <= 0 {
				continue
			}
			draw.Draw(dst, r, image.NewUniform(q.Color.NRGBA()), image.Point{}, draw.Over)
		}
	case CmdImage:
		draw.Draw(dst, cmd.Bounds, cmd.Image, cmd.Image.Bounds().Min, draw.Over)
	case CmdGlyphs:
		for _, g := range cmd.Glyphs {
			if g.Mask == nil {
				continue
			}
			mb := g.Mask.Bounds()
			r := image.Rect(g.X, g.Y, g.X+mb.Dx(), g.Y+mb.Dy())
			draw.DrawMask(dst, r, image.NewUniform(g.Color.NRGBA()), image.Point{}, g.Mask, mb.Min, draw.Over)
		}
	default:
		return fmt.Errorf("unknown command type %d", cmd.Type)
	}
	return nil
}
