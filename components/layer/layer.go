// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/sugarloaf/internal/shaders"
	"github.com/gogpu/sugarloaf/render"
)

// Brush draws one background image beneath everything else. The decoded
// image is scaled once per destination size and reused across frames.
//
// Brush is NOT safe for concurrent use.
type Brush struct {
	pipeline *render.Pipeline
	cache    *Cache
	viewport image.Point

	image  *Image
	scaled *image.RGBA
	key    scaledKey
}

type scaledKey struct {
	path string
	size image.Point
}

// NewBrush creates a layer brush loading images through cache. A nil cache
// gets a private one with default expiration.
func NewBrush(ctx *render.Context, cache *Cache) (*Brush, error) {
	spirv, err := shaders.SPIRV(shaders.Layer)
	if err != nil {
		return nil, fmt.Errorf("layer: %w", err)
	}
	pipeline, err := ctx.CreatePipeline("sugarloaf::layer", spirv)
	if err != nil {
		return nil, fmt.Errorf("layer: %w", err)
	}
	if cache == nil {
		cache = NewCache(0, 0)
	}
	size := ctx.Size()
	return &Brush{
		pipeline: pipeline,
		cache:    cache,
		viewport: image.Pt(size.Width, size.Height),
	}, nil
}

// SetImage sets the image drawn by the next Prepare/Render. nil disables
// the layer.
func (b *Brush) SetImage(img *Image) {
	b.image = img
}

// Image returns the current image descriptor.
func (b *Brush) Image() *Image {
	return b.image
}

// Resize picks up the context viewport.
func (b *Brush) Resize(ctx *render.Context) {
	size := ctx.Size()
	b.viewport = image.Pt(size.Width, size.Height)
}

// Prepare decodes and scales the image for the current viewport.
func (b *Brush) Prepare(_ *render.Context) error {
	if b.image == nil {
		b.scaled = nil
		return nil
	}
	key := scaledKey{path: b.image.Path, size: b.image.size(b.viewport)}
	if b.scaled != nil && b.key == key {
		return nil
	}
	if key.size.X <= 0 || key.size.Y <= 0 {
		b.scaled = nil
		return nil
	}

	src, err := b.cache.Load(b.image.Path)
	if err != nil {
		return err
	}
	dst := image.NewRGBA(image.Rectangle{Max: key.size})
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	b.scaled = dst
	b.key = key
	return nil
}

// Render draws the prepared image at its offset.
func (b *Brush) Render(enc render.Encoder, target render.RenderTarget, _ render.Viewport) error {
	if b.scaled == nil || b.image == nil {
		return nil
	}
	// Only draw what was prepared for the current image and viewport.
	if b.key != (scaledKey{path: b.image.Path, size: b.image.size(b.viewport)}) {
		return nil
	}
	bounds := b.scaled.Bounds().Add(image.Pt(b.image.X, b.image.Y))
	enc.DrawImage(target, b.pipeline, b.scaled, bounds)
	return nil
}

// Destroy releases the pipeline.
func (b *Brush) Destroy(ctx *render.Context) {
	ctx.DestroyPipeline(b.pipeline)
}
