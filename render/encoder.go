// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"strconv"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	CmdClear  CommandType = iota // Clear the whole target
	CmdQuads                     // Draw solid-color quads
	CmdImage                     // Blit an image into bounds
	CmdGlyphs                    // Draw glyph coverage masks
)

var commandTypeNames = [...]string{
	CmdClear:  "Clear",
	CmdQuads:  "Quads",
	CmdImage:  "Image",
	CmdGlyphs: "Glyphs",
}

// String returns the command name.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "CommandType(" + strconv.Itoa(int(t)) + ")"
}

// Quad is one instanced rectangle in target pixel space.
type Quad struct {
	X, Y          float32
	Width, Height float32
	Color         Color
}

// Rect returns the integer pixel rectangle covered by the quad.
func (q Quad) Rect() image.Rectangle {
	return image.Rect(
		round(q.X), round(q.Y),
		round(q.X+q.Width), round(q.Y+q.Height),
	)
}

// GlyphQuad places a rasterized coverage mask at a pixel position.
type GlyphQuad struct {
	Mask  *image.Alpha
	X, Y  int
	Color Color
}

// Command is one recorded operation. Only the fields relevant to Type are set.
type Command struct {
	Type     CommandType
	Target   RenderTarget
	Pipeline *Pipeline

	Clear  Color
	Quads  []Quad
	Image  image.Image
	Bounds image.Rectangle
	Glyphs []GlyphQuad
}

// CommandBuffer is a finished, submittable command sequence.
type CommandBuffer struct {
	Label    string
	Commands []Command
}

// Len returns the number of recorded commands.
func (b CommandBuffer) Len() int {
	return len(b.Commands)
}

// Encoder records a command sequence for one frame.
type Encoder interface {
	// Clear fills the whole target with c.
	Clear(target RenderTarget, c Color)

	// DrawQuads draws solid quads in submission order.
	DrawQuads(target RenderTarget, p *Pipeline, quads []Quad)

	// DrawImage draws img into bounds. img is expected to already have the
	// size of bounds.
	DrawImage(target RenderTarget, p *Pipeline, img image.Image, bounds image.Rectangle)

	// DrawGlyphs draws glyph masks tinted with their colors.
	DrawGlyphs(target RenderTarget, p *Pipeline, glyphs []GlyphQuad)

	// Finish closes the sequence. The encoder must not be used afterwards.
	Finish() CommandBuffer
}

// Recorder is an Encoder that stores typed commands for later playback.
// Devices that execute work on the CPU, or translate it into a GPU API at
// submit time, use it as their encoder.
type Recorder struct {
	label    string
	commands []Command
	finished bool
}

// NewRecorder creates an empty recorder.
func NewRecorder(label string) *Recorder {
	return &Recorder{label: label}
}

// Clear implements Encoder.
func (r *Recorder) Clear(target RenderTarget, c Color) {
	r.push(Command{Type: CmdClear, Target: target, Clear: c})
}

// DrawQuads implements Encoder. Empty batches are not recorded.
func (r *Recorder) DrawQuads(target RenderTarget, p *Pipeline, quads []Quad) {
	if len(quads) == 0 {
		return
	}
	r.push(Command{Type: CmdQuads, Target: target, Pipeline: p, Quads: quads})
}

// DrawImage implements Encoder.
func (r *Recorder) DrawImage(target RenderTarget, p *Pipeline, img image.Image, bounds image.Rectangle) {
	if img == nil || bounds.Empty() {
		return
	}
	r.push(Command{Type: CmdImage, Target: target, Pipeline: p, Image: img, Bounds: bounds})
}

// DrawGlyphs implements Encoder. Empty batches are not recorded.
func (r *Recorder) DrawGlyphs(target RenderTarget, p *Pipeline, glyphs []GlyphQuad) {
	if len(glyphs) == 0 {
		return
	}
	r.push(Command{Type: CmdGlyphs, Target: target, Pipeline: p, Glyphs: glyphs})
}

// Finish implements Encoder.
func (r *Recorder) Finish() CommandBuffer {
	r.finished = true
	buf := CommandBuffer{Label: r.label, Commands: r.commands}
	r.commands = nil
	return buf
}

func (r *Recorder) push(cmd Command) {
	if r.finished {
		panic("render: encoder used after Finish")
	}
	r.commands = append(r.commands, cmd)
}

// Ensure Recorder implements Encoder.
var _ Encoder = (*Recorder)(nil)

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
