package shader

import _ "embed"

// LitShaderSource is the forward lit mesh shader: instanced boxes with ambient,
// directional Blinn-Phong, PCF shadows and an optional equirectangular env reflection.
//
//go:embed assets/lit.wgsl
var LitShaderSource string

// ShadowShaderSource is the depth-only shadow map shader.
//
//go:embed assets/shadow.wgsl
var ShadowShaderSource string

// LineShaderSource draws vertex coloured world-space lines.
//
//go:embed assets/line.wgsl
var LineShaderSource string
