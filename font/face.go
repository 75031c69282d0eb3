package font

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	gotext "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var nextFaceID atomic.Uint64

// Face is a parsed font file. It carries both parsed forms: the sfnt font
// used for metrics and rasterization and the go-text font used for shaping.
//
// Face is safe for concurrent use.
type Face struct {
	id     uint64
	font   Font
	data   []byte
	sfnt   *sfnt.Font
	shaper *gotext.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

// Metrics are face measurements at a given pixel size.
type Metrics struct {
	Ascent  float32
	Descent float32
	Height  float32
	// Advance is the horizontal advance of '0', the cell width of a
	// monospace face.
	Advance float32
}

// LineHeight returns the distance between baselines.
func (m Metrics) LineHeight() float32 {
	return max(m.Height, m.Ascent+m.Descent)
}

// ParseFace parses TTF/OTF data. Family and style are read from the name table.
func ParseFace(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: failed to parse font: %w", err)
	}
	shaped, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: failed to parse font for shaping: %w", err)
	}

	face := &Face{
		id:     nextFaceID.Add(1),
		data:   data,
		sfnt:   f,
		shaper: shaped.Font,
	}
	face.font = face.describe()
	return face, nil
}

func (f *Face) describe() Font {
	desc := Font{Weight: WeightNormal}
	if name, err := f.sfnt.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		desc.Family = name
	}
	sub, err := f.sfnt.Name(&f.buf, sfnt.NameIDSubfamily)
	if err != nil {
		return desc
	}
	sub = strings.ToLower(sub)
	if strings.Contains(sub, "bold") || strings.Contains(sub, "black") || strings.Contains(sub, "heavy") {
		desc.Weight = WeightBold
	}
	if strings.Contains(sub, "italic") || strings.Contains(sub, "oblique") {
		desc.Style = StyleItalic
	}
	return desc
}

// ID returns a process-unique identifier, used as a cache key.
func (f *Face) ID() uint64 {
	return f.id
}

// Font returns the face descriptor.
func (f *Face) Font() Font {
	return f.font
}

// Family returns the family name.
func (f *Face) Family() string {
	return f.font.Family
}

// SFNT returns the parsed sfnt font.
func (f *Face) SFNT() *sfnt.Font {
	return f.sfnt
}

// Shaping returns the go-text font used by the shaper.
func (f *Face) Shaping() *gotext.Font {
	return f.shaper
}

// HasGlyph reports whether the face maps r to a glyph.
func (f *Face) HasGlyph(r rune) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, err := f.sfnt.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// Metrics returns the face metrics at size pixels per em.
func (f *Face) Metrics(size float32) Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	ppem := toFixed(size)
	var m Metrics
	if fm, err := f.sfnt.Metrics(&f.buf, ppem, xfont.HintingNone); err == nil {
		m.Ascent = fromFixed(fm.Ascent)
		m.Descent = fromFixed(fm.Descent)
		m.Height = fromFixed(fm.Height)
	}
	if idx, err := f.sfnt.GlyphIndex(&f.buf, '0'); err == nil {
		if adv, err := f.sfnt.GlyphAdvance(&f.buf, idx, ppem, xfont.HintingNone); err == nil {
			m.Advance = fromFixed(adv)
		}
	}
	if m.Advance == 0 {
		m.Advance = size / 2
	}
	return m
}

// LoadGlyph returns the outline segments of gid at size pixels per em.
// Coordinates are in pixels with y pointing down from the baseline.
func (f *Face) LoadGlyph(gid uint16, size float32) (sfnt.Segments, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	segments, err := f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), toFixed(size), nil)
	if err != nil {
		return nil, err
	}
	// The buffer is reused by the next call.
	out := make(sfnt.Segments, len(segments))
	copy(out, segments)
	return out, nil
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
