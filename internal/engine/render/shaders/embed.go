// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for mesh rendering.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for mesh rendering.
//
//go:embed mesh.frag
var MeshFragmentShader string

// ParticleVertexShader is the vertex shader for particle billboards.
//
//go:embed particle.vert
var ParticleVertexShader string

// ParticleFragmentShader is the fragment shader for particle billboards.
//
//go:embed particle.frag
var ParticleFragmentShader string
