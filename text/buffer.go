package text

import (
	"github.com/gogpu/sugarloaf/font"
)

// Line is one shaped line. Glyph positions are relative to the line origin.
type Line struct {
	Glyphs []Glyph
	Width  float32
}

// Buffer holds the spans of a frame and their shaped lines.
// The shaped result is cached until the spans or the size change.
//
// Buffer is NOT safe for concurrent use.
type Buffer struct {
	spans []Span
	lines []Line

	shapedSize float32
	dirty      bool
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// SetSpans replaces the buffer contents. The slice is copied.
func (b *Buffer) SetSpans(spans []Span) {
	b.spans = append(b.spans[:0], spans...)
	b.dirty = true
}

// Spans returns the current spans.
func (b *Buffer) Spans() []Span {
	return b.spans
}

// Lines returns the lines of the last Shape call.
func (b *Buffer) Lines() []Line {
	return b.lines
}

// Clear removes all spans and lines.
func (b *Buffer) Clear() {
	b.spans = b.spans[:0]
	b.lines = nil
	b.dirty = false
}

// Shape lays out the spans with faces from lib at size pixels per em.
// Every line-break span closes a line; content after the last break forms
// a final line.
func (b *Buffer) Shape(shaper *Shaper, lib *font.Library, size float32) []Line {
	if !b.dirty && b.shapedSize == size {
		return b.lines
	}
	b.lines = b.lines[:0]

	var (
		cur  Line
		open bool
	)
	for _, span := range b.spans {
		if span.IsLineBreak() {
			b.lines = append(b.lines, cur)
			cur = Line{}
			open = false
			continue
		}
		open = true
		glyphs := shaper.Shape(span.Content, span.Attrs.face(lib), size)
		for _, g := range glyphs {
			g.X += cur.Width
			g.Attrs = span.Attrs
			cur.Glyphs = append(cur.Glyphs, g)
		}
		for _, g := range glyphs {
			cur.Width += g.Advance
		}
	}
	if open {
		b.lines = append(b.lines, cur)
	}

	b.shapedSize = size
	b.dirty = false
	return b.lines
}
