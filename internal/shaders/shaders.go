// Package shaders holds the WGSL programs of the batch renderers and compiles
// them to SPIR-V on first use.
package shaders

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/naga"
)

// Shader names.
const (
	Rect  = "rect"
	Layer = "layer"
	Glyph = "glyph"
)

//go:embed rect.wgsl
var rectSource string

//go:embed layer.wgsl
var layerSource string

//go:embed glyph.wgsl
var glyphSource string

var sources = map[string]string{
	Rect:  rectSource,
	Layer: layerSource,
	Glyph: glyphSource,
}

var (
	mu       sync.Mutex
	compiled = map[string][]uint32{}
)

// Names returns the registered shader names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source returns the WGSL source of the named shader.
func Source(name string) (string, error) {
	src, ok := sources[name]
	if !ok {
		return "", fmt.Errorf("shaders: unknown shader %q", name)
	}
	return src, nil
}

// SPIRV returns the compiled program of the named shader. Compilation
// happens once per process; later calls return the cached words.
func SPIRV(name string) ([]uint32, error) {
	mu.Lock()
	defer mu.Unlock()

	if words, ok := compiled[name]; ok {
		return words, nil
	}
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	words, err := Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: %w", name, err)
	}
	compiled[name] = words
	return words, nil
}

// Compile compiles WGSL source to SPIR-V words.
func Compile(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("spir-v length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
