package sugarloaf

import (
	"github.com/gogpu/sugarloaf/components/rect"
)

// Rect is a solid rectangle in logical pixels.
type Rect = rect.Rect

// runRects appends the background rect of r and, for decorated runs, the
// decoration overlay. rowY is the top of the row.
func (l *Layout) runRects(dst []Rect, r Run, rowY float32) []Rect {
	x := l.Padding[0] + float32(r.Column)*l.SugarWidth
	dst = append(dst, Rect{
		Position: [2]float32{x, rowY},
		Color:    r.Background,
		Size:     [2]float32{l.SugarWidth * float32(r.Quantity), l.SugarHeight},
	})
	if d := r.Decoration; d != nil {
		dst = append(dst, Rect{
			Position: [2]float32{
				x + d.RelativePosition[0]*l.SugarWidth,
				rowY + d.RelativePosition[1]*l.LineHeightPx,
			},
			Color: d.Color,
			Size:  [2]float32{l.SugarWidth * d.Size[0], l.SugarHeight * d.Size[1]},
		})
	}
	return dst
}
