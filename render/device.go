// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides opaque GPU device access from the host application.
//
// Batch renderers receive it through Context and pass it along to whatever
// GPU-side resources they own. sugarloaf itself never calls into the device
// or queue; it only threads them through.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so that a gogpu
// window context can be handed to sugarloaf unchanged.
type DeviceHandle = gpucontext.DeviceProvider

// Device is the surface/device contract consumed by the frame orchestrator.
//
// A frame follows Acquire → CreateEncoder → Submit → Frame.Present. Acquire
// may fail with one of the surface errors in this package; IsFatal tells the
// caller whether the failure is transient.
type Device interface {
	DeviceHandle

	// Configure resizes the presentable surface. Identical sizes are a no-op.
	Configure(width, height int)

	// Acquire returns the next presentable frame.
	Acquire() (Frame, error)

	// CreateEncoder opens a new command sequence.
	CreateEncoder(label string) Encoder

	// Submit hands a finished command sequence to the device queue.
	Submit(buf CommandBuffer) error
}

// Frame is an acquired swapchain image.
type Frame interface {
	// Target returns the render target backing this frame.
	Target() RenderTarget

	// Present hands the frame back to the host for display.
	Present()

	// Discard releases a frame that will not be presented, such as one
	// abandoned after a stage error. Discarding a presented frame is a no-op.
	Discard()
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only devices where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns the zero adapter description for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
