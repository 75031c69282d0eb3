// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layer implements the background image batch renderer.
package layer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	gocache "github.com/patrickmn/go-cache"
)

// Cache defaults.
const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// ErrNoPath is returned for images without a path.
var ErrNoPath = errors.New("layer: image has no path")

// Image describes a background image. A zero Width or Height stretches the
// image over that viewport dimension. X and Y offset the image from the
// top-left corner in physical pixels.
type Image struct {
	Path   string
	Width  int
	Height int
	X, Y   int
}

// size returns the destination size for a viewport.
func (img *Image) size(vp image.Point) image.Point {
	size := vp
	if img.Width > 0 {
		size.X = img.Width
	}
	if img.Height > 0 {
		size.Y = img.Height
	}
	return size
}

// Decode decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("layer: decode: %w", err)
	}
	return img, format, nil
}

// Cache keeps decoded images by path and expires them after a TTL.
//
// Cache is safe for concurrent use.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache. Non-positive durations use the defaults.
func NewCache(expiration, cleanupInterval time.Duration) *Cache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Cache{cache: gocache.New(expiration, cleanupInterval)}
}

// Load returns the decoded image at path, reading it on a miss. A hit
// refreshes the entry's expiration.
func (c *Cache) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if v, ok := c.cache.Get(path); ok {
		if img, ok := v.(image.Image); ok {
			c.cache.SetDefault(path, img)
			return img, nil
		}
	}

	// #nosec G304 -- Image path is provided by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("layer: %w", err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	c.cache.SetDefault(path, img)
	return img, nil
}

// Len returns the number of cached images, including expired ones not yet
// cleaned up.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Forget drops the image at path.
func (c *Cache) Forget(path string) {
	c.cache.Delete(path)
}

// Flush drops every image.
func (c *Cache) Flush() {
	c.cache.Flush()
}
