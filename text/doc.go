// Package text turns styled spans into positioned glyphs and rasterized
// glyph masks.
//
// A Buffer holds the spans of one frame. Shape splits them into lines at
// line-break spans and shapes every span with HarfBuzz (go-text/typesetting),
// advancing the pen across spans of the same line:
//
//	buf := text.NewBuffer()
//	buf.SetSpans([]text.Span{
//		{Content: "ls -la", Attrs: text.Attrs{Color: render.White}},
//		text.LineBreak(),
//	})
//	lines := buf.Shape(text.NewShaper(), lib, 16)
//
// An Atlas caches rasterized glyph masks across frames and evicts masks that
// were not used for a number of frames when Trim is called.
package text
