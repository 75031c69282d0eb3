// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// DefaultStagingChunkSize is the chunk size used by NewContext.
const DefaultStagingChunkSize = 64 << 10

// StagingBelt hands out upload memory for per-frame instance data.
//
// Chunks move through three lists: active (being written this frame),
// closed (submitted, in flight on the device) and free (reclaimed, ready for
// reuse). Finish closes the active chunks before submission; Recall reclaims
// closed chunks once the submission is done with them.
type StagingBelt struct {
	chunkSize int
	active    []*stagingChunk
	closed    []*stagingChunk
	free      []*stagingChunk
	allocated int
}

type stagingChunk struct {
	buf    []byte
	offset int
}

// StagingStats describes the current state of a belt.
type StagingStats struct {
	Active    int
	InFlight  int
	Free      int
	Allocated int
}

// NewStagingBelt creates a belt whose chunks hold at least chunkSize bytes.
func NewStagingBelt(chunkSize int) *StagingBelt {
	if chunkSize <= 0 {
		chunkSize = DefaultStagingChunkSize
	}
	return &StagingBelt{chunkSize: chunkSize}
}

// Write copies data into staging memory and returns the staged view.
// The view stays valid until the chunk is recalled.
func (b *StagingBelt) Write(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	c := b.chunkFor(len(data))
	start := c.offset
	c.offset += copy(c.buf[start:], data)
	return c.buf[start:c.offset:c.offset]
}

// Finish closes all active chunks. Call before submitting the encoder.
func (b *StagingBelt) Finish() {
	b.closed = append(b.closed, b.active...)
	b.active = b.active[:0]
}

// Recall reclaims closed chunks. Call after the submission completed.
func (b *StagingBelt) Recall() {
	for _, c := range b.closed {
		c.offset = 0
		b.free = append(b.free, c)
	}
	b.closed = b.closed[:0]
}

// Stats returns chunk counts per list.
func (b *StagingBelt) Stats() StagingStats {
	return StagingStats{
		Active:    len(b.active),
		InFlight:  len(b.closed),
		Free:      len(b.free),
		Allocated: b.allocated,
	}
}

func (b *StagingBelt) chunkFor(n int) *stagingChunk {
	for _, c := range b.active {
		if len(c.buf)-c.offset >= n {
			return c
		}
	}
	for i, c := range b.free {
		if len(c.buf) >= n {
			b.free = append(b.free[:i], b.free[i+1:]...)
			b.active = append(b.active, c)
			return c
		}
	}
	c := &stagingChunk{buf: make([]byte, max(n, b.chunkSize))}
	b.allocated++
	b.active = append(b.active, c)
	return c
}
