// pre_processor.go implements the WGSL include pre-processor. Shader sources name the
// engine's GPU struct definitions with "#include <name>" lines instead of repeating them,
// so every struct has one canonical WGSL definition embedded next to the Go type it mirrors.
package shader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-tails/engine/camera"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"
)

// includeDirective is the line prefix that marks an include.
const includeDirective = "#include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps include names to embedded WGSL struct sources.
	structRegistry map[string]string
}

// PreProcessor expands "#include <name>" lines in WGSL source with registered struct sources.
type PreProcessor interface {
	// Process expands every include line. A name included more than once is only
	// emitted the first time, since WGSL rejects duplicate struct declarations.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if an include line is malformed or names an unknown struct
	Process(source string) (string, error)

	// Names returns the registered include names in sorted order.
	//
	// Returns:
	//   - []string: the include names
	Names() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with the engine's GPU structs registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[string]string{
			"camera":          camera.GPUCameraUniformSource,
			"vertex":          model.GPUVertexSource,
			"line_vertex":     model.GPULineVertexSource,
			"instance_data":   model.GPUInstanceDataSource,
			"material_params": material.GPUMaterialParamsSource,
			"light":           light.GPULightSource,
			"light_header":    light.GPULightHeaderSource,
			"shadow_data":     light.GPUShadowDataSource,
			"shadow_uniform":  light.GPUShadowUniformSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool)

	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out = append(out, line)
			continue
		}

		name := strings.TrimSpace(rest)
		if len(name) < 3 || name[0] != '<' || name[len(name)-1] != '>' {
			return "", fmt.Errorf("line %d: malformed include %q", i+1, strings.TrimSpace(line))
		}
		name = name[1 : len(name)-1]

		src, ok := p.structRegistry[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, strings.TrimRight(src, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Names() []string {
	names := make([]string, 0, len(p.structRegistry))
	for name := range p.structRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
