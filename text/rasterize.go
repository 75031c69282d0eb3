package text

import (
	"image"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// rasterize fills the outline into a coverage mask. offset is the position
// of the mask's top-left pixel relative to the glyph origin on the baseline.
// Outlines without area return a nil mask.
func rasterize(segments sfnt.Segments) (mask *image.Alpha, offset image.Point) {
	if len(segments) == 0 {
		return nil, image.Point{}
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, seg := range segments {
		for _, p := range seg.Args[:argCount(seg.Op)] {
			x, y := pt(p)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}

	x0, y0 := int(math.Floor(float64(minX))), int(math.Floor(float64(minY)))
	x1, y1 := int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY)))
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return nil, image.Point{}
	}

	dx, dy := float32(-x0), float32(-y0)
	z := vector.NewRasterizer(w, h)
	for _, seg := range segments {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := pt(a[0])
			z.MoveTo(x+dx, y+dy)
		case sfnt.SegmentOpLineTo:
			x, y := pt(a[0])
			z.LineTo(x+dx, y+dy)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(a[0])
			x, y := pt(a[1])
			z.QuadTo(cx+dx, cy+dy, x+dx, y+dy)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(a[0])
			c2x, c2y := pt(a[1])
			x, y := pt(a[2])
			z.CubeTo(c1x+dx, c1y+dy, c2x+dx, c2y+dy, x+dx, y+dy)
		}
	}
	z.ClosePath()

	mask = image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, image.Pt(x0, y0)
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

func pt(p fixed.Point26_6) (float32, float32) {
	return float32(p.X) / 64, float32(p.Y) / 64
}
