package sugarloaf

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/gogpu/sugarloaf/render"
)

// Style selects the face a cell is shaped with.
type Style struct {
	IsBold       bool
	IsItalic     bool
	IsBoldItalic bool
}

// Decoration is an overlay rectangle drawn on top of a cell.
//
// RelativePosition is in cell units: x in cell widths from the cell's left
// edge, y in line heights from the row top. Size scales the cell width and
// height.
type Decoration struct {
	RelativePosition [2]float32
	Size             [2]float32
	Color            render.Color
}

// Common decorations.
var (
	Underline     = Decoration{RelativePosition: [2]float32{0, 0.92}, Size: [2]float32{1, 0.08}}
	Strikethrough = Decoration{RelativePosition: [2]float32{0, 0.5}, Size: [2]float32{1, 0.06}}
	Block         = Decoration{RelativePosition: [2]float32{0, 0}, Size: [2]float32{1, 1}}
	Beam          = Decoration{RelativePosition: [2]float32{0, 0}, Size: [2]float32{0.1, 1}}
)

// WithColor returns a copy of d drawn in c.
func (d Decoration) WithColor(c render.Color) *Decoration {
	d.Color = c
	return &d
}

// Cell is one grid position. Content is a single grapheme cluster; an empty
// Content is a blank cell.
type Cell struct {
	Content    string
	Foreground render.Color
	Background render.Color
	Style      *Style
	Decoration *Decoration
}

// Stack is one row of cells in display order.
type Stack []Cell

// mergeable reports whether c and next render as one run.
func (c *Cell) mergeable(next *Cell) bool {
	return c.Content == next.Content &&
		c.Foreground == next.Foreground &&
		c.Background == next.Background &&
		c.Decoration == nil &&
		next.Decoration == nil
}

// CellsFromString splits s into grapheme clusters, one cell each. Wide
// clusters are followed by an empty cell so that columns stay aligned.
func CellsFromString(s string, fg, bg render.Color) Stack {
	row := make(Stack, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		row = append(row, Cell{Content: cluster, Foreground: fg, Background: bg})
		if runewidth.StringWidth(cluster) > 1 {
			row = append(row, Cell{Foreground: fg, Background: bg})
		}
	}
	return row
}
