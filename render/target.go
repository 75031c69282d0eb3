// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gputypes"
)

// Viewport is the size of the render target in physical pixels.
type Viewport struct {
	Width  int
	Height int
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Bounds returns the viewport as an image rectangle anchored at the origin.
func (v Viewport) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// RenderTarget defines where recorded commands land.
//
// Targets may support CPU access (Pixels), GPU access (TextureView), or both.
// The Device implementation chooses the appropriate access method.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// TextureView represents a GPU view into a texture.
type TextureView interface {
	// Destroy releases resources associated with this view.
	Destroy()
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	target.Clear(color.Black)
//	img := target.Image()
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// At returns the color at the given coordinates.
func (t *PixmapTarget) At(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}

// Resize replaces the backing image with one of the given dimensions.
// The contents are not preserved. Resizing to the current size is a no-op.
func (t *PixmapTarget) Resize(width, height int) {
	if t.Width() == width && t.Height() == height {
		return
	}
	t.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)
