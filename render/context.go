// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Context is the explicit device context threaded through every batch
// renderer call. It replaces implicit global device/queue handles.
//
// Context is NOT safe for concurrent use.
type Context struct {
	device  Device
	format  gputypes.TextureFormat
	size    Viewport
	scale   float32
	staging *StagingBelt

	halDevice hal.Device
}

// NewContext creates a context over device and configures the surface.
//
// Returns error if device is nil or dimensions are invalid.
func NewContext(device Device, width, height int, scale float32) (*Context, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if scale <= 0 {
		scale = 1
	}

	c := &Context{
		device:  device,
		format:  device.SurfaceFormat(),
		size:    Viewport{Width: width, Height: height},
		scale:   scale,
		staging: NewStagingBelt(DefaultStagingChunkSize),
	}
	c.halDevice = halDeviceOf(device)
	device.Configure(width, height)
	return c, nil
}

// Device returns the device this context renders with.
func (c *Context) Device() Device {
	return c.device
}

// Handle returns the opaque device handle for batch renderers.
func (c *Context) Handle() DeviceHandle {
	return c.device
}

// Format returns the surface texture format.
func (c *Context) Format() gputypes.TextureFormat {
	return c.format
}

// Size returns the current viewport.
func (c *Context) Size() Viewport {
	return c.size
}

// Scale returns the device scale factor.
func (c *Context) Scale() float32 {
	return c.scale
}

// SetScale updates the device scale factor. Non-positive values are ignored.
func (c *Context) SetScale(scale float32) {
	if scale > 0 {
		c.scale = scale
	}
}

// Resize updates the viewport and reconfigures the surface.
// Resizing to the current size is a no-op.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if c.size.Width == width && c.size.Height == height {
		return
	}
	c.size = Viewport{Width: width, Height: height}
	c.device.Configure(width, height)
}

// Staging returns the upload belt shared by all batch renderers.
func (c *Context) Staging() *StagingBelt {
	return c.staging
}

// HalDevice returns the HAL device exposed by the host, or nil when the
// device does not expose one (CPU devices, test doubles).
func (c *Context) HalDevice() hal.Device {
	return c.halDevice
}

// halDeviceOf extracts a hal.Device from providers implementing
// HalDevice() any, the convention gogpu uses for direct HAL access.
func halDeviceOf(provider any) hal.Device {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil
	}
	return device
}
