// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rect implements the solid rectangle batch renderer.
package rect

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/sugarloaf/internal/shaders"
	"github.com/gogpu/sugarloaf/render"
)

// Rect is a solid rectangle in logical pixels.
type Rect struct {
	Position [2]float32
	Color    render.Color
	Size     [2]float32
}

// Quad returns the rectangle scaled to physical pixels.
func (r Rect) Quad(scale float32) render.Quad {
	return render.Quad{
		X:      r.Position[0] * scale,
		Y:      r.Position[1] * scale,
		Width:  r.Size[0] * scale,
		Height: r.Size[1] * scale,
		Color:  r.Color,
	}
}

// instanceSize is the byte size of one packed instance: position, size and
// color as float32.
const instanceSize = 8 * 4

// Brush batches rectangles into one instanced draw.
//
// Brush is NOT safe for concurrent use.
type Brush struct {
	pipeline *render.Pipeline
	scale    float32

	rects     []Rect
	quads     []render.Quad
	instances []byte
	scratch   []byte
}

// NewBrush creates a rect brush and its pipeline.
func NewBrush(ctx *render.Context) (*Brush, error) {
	spirv, err := shaders.SPIRV(shaders.Rect)
	if err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	pipeline, err := ctx.CreatePipeline("sugarloaf::rect", spirv)
	if err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	return &Brush{pipeline: pipeline, scale: ctx.Scale()}, nil
}

// SetRects replaces the batch drawn by the next Prepare/Render. The
// previously prepared quads are dropped; Render draws nothing until the
// new batch is prepared.
func (b *Brush) SetRects(rects []Rect) {
	b.rects = rects
	b.quads = b.quads[:0]
	b.instances = nil
}

// Len returns the number of rectangles in the batch.
func (b *Brush) Len() int {
	return len(b.rects)
}

// Resize picks up the context scale factor.
func (b *Brush) Resize(ctx *render.Context) {
	b.scale = ctx.Scale()
}

// Prepare converts the batch to physical pixels and uploads the packed
// instances through the staging belt.
func (b *Brush) Prepare(ctx *render.Context) error {
	b.quads = b.quads[:0]
	b.instances = nil
	if len(b.rects) == 0 {
		return nil
	}

	b.scratch = b.scratch[:0]
	for _, r := range b.rects {
		q := r.Quad(b.scale)
		b.quads = append(b.quads, q)
		b.scratch = appendInstance(b.scratch, q)
	}
	b.instances = ctx.Staging().Write(b.scratch)
	return nil
}

// Render draws the prepared batch.
func (b *Brush) Render(enc render.Encoder, target render.RenderTarget, _ render.Viewport) error {
	enc.DrawQuads(target, b.pipeline, b.quads)
	return nil
}

// Instances returns the staged instance data of the last Prepare.
func (b *Brush) Instances() []byte {
	return b.instances
}

// Destroy releases the pipeline.
func (b *Brush) Destroy(ctx *render.Context) {
	ctx.DestroyPipeline(b.pipeline)
}

func appendInstance(buf []byte, q render.Quad) []byte {
	for _, v := range [8]float32{q.X, q.Y, q.Width, q.Height, q.Color.R, q.Color.G, q.Color.B, q.Color.A} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
