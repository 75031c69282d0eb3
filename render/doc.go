// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the device boundary of sugarloaf.
//
// The compositor never talks to a graphics API directly. Everything it needs
// from the host is expressed through a handful of small contracts defined
// here, and the host (a gogpu window, a headless test harness, an offscreen
// PNG exporter) provides the implementation.
//
// # Key Principle
//
// sugarloaf RECEIVES a device from the host application, it does NOT create
// its own. The host owns device, queue and surface lifetimes; sugarloaf only
// borrows them for the duration of a frame.
//
// # Core Interfaces
//
//   - DeviceHandle: opaque GPU device/queue access (gpucontext.DeviceProvider)
//   - Device: acquire a presentable Frame, create an Encoder, submit work
//   - Frame: the acquired swapchain image; Present hands it back to the host
//   - Encoder: records a command sequence (clear, quads, images, glyphs)
//   - RenderTarget: where recorded commands land
//
// # Explicit Context
//
// Context bundles the device, the viewport size, the device scale factor and
// the staging belt. It is threaded through every batch renderer call instead
// of being captured implicitly, so ownership stays visible at call sites:
//
//	dev := render.NewSoftwareDevice(800, 600)
//	ctx, err := render.NewContext(dev, 800, 600, 1.0)
//	if err != nil {
//	    return err
//	}
//	enc := ctx.Device().CreateEncoder("frame")
//
// # Software Device
//
// SoftwareDevice is a CPU implementation backed by an *image.RGBA. It replays
// recorded command buffers with image/draw and is used by tests and by the
// sugardemo command to export frames as PNG.
//
// # Surface Errors
//
// Acquire failures are classified by IsFatal. Timeout, outdated and lost
// surfaces are transient: the caller drops the frame and tries again on the
// next tick. Out-of-memory and device loss are fatal.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use unless stated otherwise.
// A Context and its Device are driven from the single goroutine running the
// frame loop.
package render
