package text

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sugarloaf/font"
)

// DefaultFrameLifetime is the number of Trim calls a glyph mask survives
// without being used.
const DefaultFrameLifetime = 64

// GlyphKey identifies a rasterized glyph.
type GlyphKey struct {
	Face uint64
	GID  uint16
	// Size is the pixel size in 26.6 fixed point.
	Size int32
}

// GlyphMask is a rasterized glyph. Offset is the position of the mask's
// top-left pixel relative to the pen position on the baseline. Glyphs
// without coverage (spaces) have a nil Mask.
type GlyphMask struct {
	Mask   *image.Alpha
	Offset image.Point
}

// AtlasStats holds cache counters.
type AtlasStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type atlasEntry struct {
	glyph    *GlyphMask
	lastUsed uint64
}

// Atlas caches rasterized glyph masks with frame-based eviction.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	mu       sync.Mutex
	entries  map[GlyphKey]*atlasEntry
	frame    uint64
	lifetime uint64
	stats    AtlasStats
}

// NewAtlas creates an atlas evicting masks unused for frameLifetime frames.
// Non-positive values use DefaultFrameLifetime.
func NewAtlas(frameLifetime int) *Atlas {
	if frameLifetime <= 0 {
		frameLifetime = DefaultFrameLifetime
	}
	return &Atlas{
		entries:  make(map[GlyphKey]*atlasEntry),
		lifetime: uint64(frameLifetime), //nolint:gosec // validated positive above
	}
}

// Get returns the mask of gid in face at size, rasterizing it on a miss.
func (a *Atlas) Get(face *font.Face, gid uint16, size float32) (*GlyphMask, error) {
	key := keyOf(face, gid, size)

	a.mu.Lock()
	if e, ok := a.entries[key]; ok {
		e.lastUsed = a.frame
		a.stats.Hits++
		a.mu.Unlock()
		return e.glyph, nil
	}
	a.stats.Misses++
	a.mu.Unlock()

	return a.load(key, face, gid, size)
}

// GlyphRequest names a glyph to rasterize ahead of use.
type GlyphRequest struct {
	Face *font.Face
	GID  uint16
	Size float32
}

// Warm rasterizes the requested glyphs that are not cached yet. The jobs
// are handed to run, which must execute all of them before returning.
// Warm returns the number of masks added. Failed glyphs are not cached
// and fail again from Get.
func (a *Atlas) Warm(run func(jobs []func()), reqs []GlyphRequest) int {
	seen := make(map[GlyphKey]struct{}, len(reqs))
	var jobs []func()
	var added atomic.Int64

	a.mu.Lock()
	for _, r := range reqs {
		if r.Face == nil {
			continue
		}
		key := keyOf(r.Face, r.GID, r.Size)
		if _, ok := a.entries[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		jobs = append(jobs, func() {
			if _, err := a.load(key, r.Face, r.GID, r.Size); err == nil {
				added.Add(1)
			}
		})
	}
	a.mu.Unlock()

	if len(jobs) > 0 {
		run(jobs)
	}
	return int(added.Load())
}

func keyOf(face *font.Face, gid uint16, size float32) GlyphKey {
	return GlyphKey{Face: face.ID(), GID: gid, Size: int32(size * 64)}
}

// load rasterizes a glyph and stores it unless another goroutine won.
func (a *Atlas) load(key GlyphKey, face *font.Face, gid uint16, size float32) (*GlyphMask, error) {
	segments, err := face.LoadGlyph(gid, size)
	if err != nil {
		return nil, fmt.Errorf("text: load glyph %d of %q: %w", gid, face.Family(), err)
	}
	mask, offset := rasterize(segments)
	glyph := &GlyphMask{Mask: mask, Offset: offset}

	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.entries[key]; ok {
		e.lastUsed = a.frame
		return e.glyph, nil
	}
	a.entries[key] = &atlasEntry{glyph: glyph, lastUsed: a.frame}
	return glyph, nil
}

// Trim advances the frame counter and evicts masks that were not used
// during the last frame lifetime. It returns the number of evicted masks.
// Call it once per frame.
func (a *Atlas) Trim() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.frame++
	if a.frame < a.lifetime {
		return 0
	}
	threshold := a.frame - a.lifetime

	evicted := 0
	for key, e := range a.entries {
		if e.lastUsed < threshold {
			delete(a.entries, key)
			evicted++
		}
	}
	a.stats.Evictions += uint64(evicted) //nolint:gosec // count is non-negative
	return evicted
}

// Reset drops every cached mask. Used after the font library changes.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = make(map[GlyphKey]*atlasEntry)
}

// Len returns the number of cached masks.
func (a *Atlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Frame returns the current frame counter.
func (a *Atlas) Frame() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame
}

// Stats returns cache counters.
func (a *Atlas) Stats() AtlasStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
