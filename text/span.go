package text

import (
	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/render"
)

// Attrs are the style attributes of a span.
type Attrs struct {
	Weight font.Weight
	Style  font.Style
	Color  render.Color

	// Family selects an extra library face by name. Empty uses the style
	// slots of the library.
	Family string
}

// Bold returns a copy with bold weight.
func (a Attrs) Bold() Attrs {
	a.Weight = font.WeightBold
	return a
}

// Italic returns a copy with italic style.
func (a Attrs) Italic() Attrs {
	a.Style = font.StyleItalic
	return a
}

// Span is a styled text fragment.
type Span struct {
	Content string
	Attrs   Attrs

	lineBreak bool
}

// LineBreak returns the span that terminates a line.
func LineBreak() Span {
	return Span{Content: "\n", lineBreak: true}
}

// IsLineBreak reports whether s terminates a line.
func (s Span) IsLineBreak() bool {
	return s.lineBreak
}

// face picks the library face for the attributes.
func (a Attrs) face(lib *font.Library) *font.Face {
	if a.Family != "" {
		if f, ok := lib.Family(a.Family); ok {
			return f
		}
	}
	return lib.Select(a.Weight.IsBold(), a.Style == font.StyleItalic)
}
