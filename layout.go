package sugarloaf

import (
	"github.com/gogpu/sugarloaf/components/layer"
	"github.com/gogpu/sugarloaf/render"
)

// Layout defaults.
const (
	DefaultFontSize   = 16
	DefaultLineHeight = 1.0
	DefaultPadding    = 10
)

// Layout is the frame geometry. Width and Height are physical pixels; every
// other length is in logical pixels and scaled by ScaleFactor when drawn.
//
// The fields after the separator are derived by Update.
type Layout struct {
	Width       int
	Height      int
	ScaleFactor float32
	FontSize    float32
	// LineHeight multiplies the font's line box.
	LineHeight float32
	// Padding is the offset of the first cell from the top-left corner.
	Padding         [2]float32
	BackgroundColor render.Color
	BackgroundImage *layer.Image

	// CellAdvance and CellHeightRatio are font metrics per pixel of font
	// size, set from the regular face.
	CellAdvance     float32
	CellHeightRatio float32

	SugarWidth   float32
	SugarHeight  float32
	LineHeightPx float32
	Columns      int
	Lines        int
}

// DefaultLayout returns a layout for a surface of the given physical size.
func DefaultLayout(width, height int, scale float32) Layout {
	l := Layout{
		Width:           width,
		Height:          height,
		ScaleFactor:     scale,
		FontSize:        DefaultFontSize,
		LineHeight:      DefaultLineHeight,
		Padding:         [2]float32{DefaultPadding, DefaultPadding},
		BackgroundColor: render.Black,
		CellAdvance:     0.6,
		CellHeightRatio: 1.2,
	}
	l.Update()
	return l
}

// Resize sets the physical size.
func (l *Layout) Resize(width, height int) *Layout {
	l.Width, l.Height = width, height
	return l
}

// Rescale sets the scale factor.
func (l *Layout) Rescale(scale float32) *Layout {
	l.ScaleFactor = scale
	return l
}

// SetMetrics sets the per-pixel font metrics.
func (l *Layout) SetMetrics(advance, heightRatio float32) *Layout {
	if advance > 0 {
		l.CellAdvance = advance
	}
	if heightRatio > 0 {
		l.CellHeightRatio = heightRatio
	}
	return l
}

// Update recomputes the derived fields.
func (l *Layout) Update() {
	if l.ScaleFactor <= 0 {
		l.ScaleFactor = 1
	}
	if l.FontSize <= 0 {
		l.FontSize = DefaultFontSize
	}
	if l.LineHeight <= 0 {
		l.LineHeight = DefaultLineHeight
	}

	l.SugarWidth = l.FontSize * l.CellAdvance
	l.SugarHeight = l.FontSize * l.CellHeightRatio
	l.LineHeightPx = l.SugarHeight * l.LineHeight

	l.Columns, l.Lines = 0, 0
	if l.SugarWidth > 0 {
		w := float32(l.Width)/l.ScaleFactor - 2*l.Padding[0]
		l.Columns = max(int(w/l.SugarWidth), 0)
	}
	if l.LineHeightPx > 0 {
		h := float32(l.Height)/l.ScaleFactor - 2*l.Padding[1]
		l.Lines = max(int(h/l.LineHeightPx), 0)
	}
}

// geometry is the part of the layout pending rects depend on.
type geometry struct {
	width, height int
	scale         float32
	sugarWidth    float32
	sugarHeight   float32
	lineHeight    float32
}

func (l *Layout) geometry() geometry {
	return geometry{l.Width, l.Height, l.ScaleFactor, l.SugarWidth, l.SugarHeight, l.LineHeightPx}
}
