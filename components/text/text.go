// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text implements the text batch renderer. Preparation shapes the
// frame's spans and rasterizes their glyphs into the atlas; rendering emits
// the glyph draw call. The two steps are independent.
package text

import (
	"fmt"

	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/internal/parallel"
	"github.com/gogpu/sugarloaf/internal/shaders"
	"github.com/gogpu/sugarloaf/render"
	stext "github.com/gogpu/sugarloaf/text"
)

// warmThreshold is the glyph count from which Prepare rasterizes on the
// worker pool.
const warmThreshold = 16

// Layout places lines in logical pixels.
type Layout struct {
	// Origin is the top-left corner of the first line.
	Origin [2]float32
	// FontSize is the font size in pixels per em.
	FontSize float32
	// LineHeight is the distance between line tops.
	LineHeight float32
}

// Brush shapes spans and draws their glyphs.
//
// Brush is NOT safe for concurrent use.
type Brush struct {
	pipeline *render.Pipeline
	lib      *font.Library
	shaper   *stext.Shaper
	atlas    *stext.Atlas
	buffer   *stext.Buffer
	pool     *parallel.WorkerPool
	requests []stext.GlyphRequest

	layout Layout
	scale  float32

	glyphs  []render.GlyphQuad
	skipped int
}

// NewBrush creates a text brush drawing with lib and caching masks in atlas.
func NewBrush(ctx *render.Context, lib *font.Library, atlas *stext.Atlas) (*Brush, error) {
	spirv, err := shaders.SPIRV(shaders.Glyph)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	pipeline, err := ctx.CreatePipeline("sugarloaf::glyph", spirv)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	if atlas == nil {
		atlas = stext.NewAtlas(0)
	}
	return &Brush{
		pipeline: pipeline,
		lib:      lib,
		shaper:   stext.NewShaper(),
		atlas:    atlas,
		buffer:   stext.NewBuffer(),
		pool:     parallel.NewWorkerPool(0),
		scale:    ctx.Scale(),
	}, nil
}

// SetLayout sets line placement.
func (b *Brush) SetLayout(l Layout) {
	b.layout = l
}

// SetSpans replaces the spans of the next Prepare. Glyphs prepared for
// the previous spans are dropped; Render draws nothing until the new spans
// are prepared.
func (b *Brush) SetSpans(spans []stext.Span) {
	b.buffer.SetSpans(spans)
	b.glyphs = b.glyphs[:0]
	b.skipped = 0
}

// SetLibrary switches the font library and drops cached masks.
func (b *Brush) SetLibrary(lib *font.Library) {
	b.lib = lib
	b.atlas.Reset()
	b.buffer.SetSpans(b.buffer.Spans())
}

// Buffer returns the span buffer.
func (b *Brush) Buffer() *stext.Buffer {
	return b.buffer
}

// Atlas returns the glyph atlas.
func (b *Brush) Atlas() *stext.Atlas {
	return b.atlas
}

// Skipped returns the number of glyphs the last Prepare could not
// rasterize, such as color glyphs.
func (b *Brush) Skipped() int {
	return b.skipped
}

// Resize picks up the context scale factor.
func (b *Brush) Resize(ctx *render.Context) {
	if b.scale != ctx.Scale() {
		b.scale = ctx.Scale()
		b.buffer.SetSpans(b.buffer.Spans())
	}
}

// Prepare shapes the spans and rasterizes every glyph.
func (b *Brush) Prepare(_ *render.Context) error {
	b.glyphs = b.glyphs[:0]
	b.skipped = 0
	if b.lib == nil {
		return nil
	}

	size := b.layout.FontSize * b.scale
	if size <= 0 {
		return nil
	}
	metrics := b.lib.Metrics(size)
	lineHeight := b.layout.LineHeight * b.scale
	// Center the font's line box in the layout line.
	baseline := (lineHeight-(metrics.Ascent+metrics.Descent))/2 + metrics.Ascent

	originX := b.layout.Origin[0] * b.scale
	originY := b.layout.Origin[1] * b.scale
	lines := b.buffer.Shape(b.shaper, b.lib, size)
	b.warm(lines, size)
	for i, line := range lines {
		y := originY + float32(i)*lineHeight + baseline
		for _, g := range line.Glyphs {
			mask, err := b.atlas.Get(g.Face, g.GID, size)
			if err != nil {
				b.skipped++
				continue
			}
			if mask.Mask == nil {
				continue
			}
			b.glyphs = append(b.glyphs, render.GlyphQuad{
				Mask:  mask.Mask,
				X:     round(originX+g.X) + mask.Offset.X,
				Y:     round(y+g.Y) + mask.Offset.Y,
				Color: g.Attrs.Color,
			})
		}
	}
	return nil
}

// warm rasterizes the glyphs of a large batch on the worker pool. Small
// batches are left to the serial path in Prepare.
func (b *Brush) warm(lines []stext.Line, size float32) {
	b.requests = b.requests[:0]
	for _, line := range lines {
		for _, g := range line.Glyphs {
			b.requests = append(b.requests, stext.GlyphRequest{Face: g.Face, GID: g.GID, Size: size})
		}
	}
	if len(b.requests) < warmThreshold {
		return
	}
	b.atlas.Warm(b.pool.Run, b.requests)
}

// Render draws the prepared glyphs.
func (b *Brush) Render(enc render.Encoder, target render.RenderTarget, _ render.Viewport) error {
	enc.DrawGlyphs(target, b.pipeline, b.glyphs)
	return nil
}

// Len returns the number of prepared glyph quads.
func (b *Brush) Len() int {
	return len(b.glyphs)
}

// Trim evicts glyph masks unused for the atlas frame lifetime.
func (b *Brush) Trim() {
	b.atlas.Trim()
}

// Destroy releases the pipeline and stops the rasterization workers.
func (b *Brush) Destroy(ctx *render.Context) {
	ctx.DestroyPipeline(b.pipeline)
	b.pool.Close()
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
