package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/internal/cache"
)

// DefaultShapeCacheSize is the number of shaped strings a Shaper keeps.
const DefaultShapeCacheSize = 4096

// Glyph is a shaped glyph positioned relative to its line origin.
// Y is the offset from the baseline.
type Glyph struct {
	Face    *font.Face
	GID     uint16
	X, Y    float32
	Advance float32
	Cluster int
	Attrs   Attrs
}

// Shaper shapes text with go-text/typesetting's HarfBuzz port. Results are
// cached per string, face and size; terminal rows repeat the same runs
// from frame to frame.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances keep mutable
// buffers, so they are pooled rather than shared.
type Shaper struct {
	pool   sync.Pool
	shaped *cache.Cache[shapeKey, []Glyph]
}

type shapeKey struct {
	str  string
	face uint64
	size int32
}

// NewShaper creates a shaper caching up to DefaultShapeCacheSize strings.
func NewShaper() *Shaper {
	return NewShaperSize(DefaultShapeCacheSize)
}

// NewShaperSize creates a shaper caching up to n strings. n <= 0 disables
// the limit.
func NewShaperSize(n int) *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		shaped: cache.New[shapeKey, []Glyph](n),
	}
}

// Shape converts str into glyphs of face at size pixels per em. Glyph
// positions start at x = 0. The returned slice is shared and must not be
// modified.
func (s *Shaper) Shape(str string, face *font.Face, size float32) []Glyph {
	if str == "" || face == nil {
		return nil
	}
	key := shapeKey{str: str, face: face.ID(), size: int32(size * 64)}
	if glyphs, ok := s.shaped.Get(key); ok {
		return glyphs
	}
	glyphs := s.shape(str, face, size)
	s.shaped.Set(key, glyphs)
	return glyphs
}

// CacheStats counts shaped string cache activity.
type CacheStats = cache.Stats

// CacheStats returns the shaped string cache counters.
func (s *Shaper) CacheStats() CacheStats {
	return s.shaped.Stats()
}

func (s *Shaper) shape(str string, face *font.Face, size float32) []Glyph {
	runes := []rune(str)
	dir := Direction(str)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		// gotext.Face is not safe for concurrent use; NewFace is cheap.
		Face:     gotext.NewFace(face.Shaping()),
		Size:     fixed.Int26_6(size * 64),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	return convertGlyphs(output.Glyphs, face)
}

// Direction returns the direction to shape s with: right-to-left when every
// bidi run of s is right-to-left, left-to-right otherwise.
func Direction(s string) di.Direction {
	if s == "" {
		return di.DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() != bidi.RightToLeft {
			return di.DirectionLTR
		}
	}
	return di.DirectionRTL
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func convertGlyphs(glyphs []shaping.Glyph, face *font.Face) []Glyph {
	if len(glyphs) == 0 {
		return nil
	}
	out := make([]Glyph, len(glyphs))
	var x float32
	for i, g := range glyphs {
		adv := fromFixed(g.Advance)
		out[i] = Glyph{
			Face:    face,
			GID:     uint16(g.GlyphID), //nolint:gosec // glyph IDs of TrueType fonts fit in 16 bits
			X:       x + fromFixed(g.XOffset),
			Y:       -fromFixed(g.YOffset),
			Advance: adv,
			Cluster: g.TextIndex(),
		}
		x += adv
	}
	return out
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
