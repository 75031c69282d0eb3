// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Pipeline identifies the shader program a draw command runs with.
//
// SPIRV always holds the compiled program. Module is only set when the
// context exposes a HAL device; CPU devices ignore both and rasterize the
// command directly.
type Pipeline struct {
	Label  string
	SPIRV  []uint32
	Module hal.ShaderModule
}

// CreatePipeline wraps compiled SPIR-V into a pipeline and, when a HAL device
// is available, uploads it as a shader module.
func (c *Context) CreatePipeline(label string, spirv []uint32) (*Pipeline, error) {
	p := &Pipeline{Label: label, SPIRV: spirv}
	if c.halDevice == nil {
		return p, nil
	}
	module, err := c.halDevice.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render: create shader module %q: %w", label, err)
	}
	p.Module = module
	return p, nil
}

// DestroyPipeline releases the pipeline's shader module, if any.
func (c *Context) DestroyPipeline(p *Pipeline) {
	if p == nil || p.Module == nil || c.halDevice == nil {
		return
	}
	c.halDevice.DestroyShaderModule(p.Module)
	p.Module = nil
}
