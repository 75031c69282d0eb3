// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Surface acquisition errors.
var (
	// ErrSurfaceTimeout is returned when no frame became available in time.
	ErrSurfaceTimeout = errors.New("render: surface acquire timed out")

	// ErrSurfaceOutdated is returned when the surface no longer matches the
	// window and must be reconfigured.
	ErrSurfaceOutdated = errors.New("render: surface outdated")

	// ErrSurfaceLost is returned when the surface was lost and will be
	// recreated by the host.
	ErrSurfaceLost = errors.New("render: surface lost")

	// ErrOutOfMemory is returned when the device ran out of memory.
	ErrOutOfMemory = errors.New("render: device out of memory")

	// ErrDeviceLost is returned when the device itself is gone.
	ErrDeviceLost = errors.New("render: device lost")
)

// Context errors.
var (
	// ErrNilDevice is returned when a nil Device is passed.
	ErrNilDevice = errors.New("render: nil device")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrUnsupportedTarget is returned when a device cannot draw into a target.
	ErrUnsupportedTarget = errors.New("render: unsupported render target")
)

// IsFatal reports whether err signals device-level exhaustion.
// Every other acquisition failure is transient: the frame is dropped and the
// next tick proceeds normally.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrDeviceLost)
}
