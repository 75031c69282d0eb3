package sugarloaf

import (
	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/text"
)

// spanFor builds the styled span of a run. Bold-italic takes precedence
// over bold, bold over italic.
func spanFor(r Run) text.Span {
	attrs := text.Attrs{Weight: font.WeightNormal, Color: r.Foreground}
	if s := r.Style; s != nil {
		switch {
		case s.IsBoldItalic:
			attrs.Weight = font.WeightBold
			attrs.Style = font.StyleItalic
		case s.IsBold:
			attrs.Weight = font.WeightBold
		case s.IsItalic:
			attrs.Style = font.StyleItalic
		}
	}
	return text.Span{Content: r.Content, Attrs: attrs}
}
