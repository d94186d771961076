// Package render draws a simulated scene with OpenGL: an opaque mesh pass
// with sun and point lighting, followed by a blended particle pass that
// streams the billboard buffers built by the particle simulator.
package render

import (
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/openreality/goplayer/internal/engine/camera"
	"github.com/openreality/goplayer/internal/engine/lighting"
	"github.com/openreality/goplayer/internal/engine/render/shaders"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/shader"
	"github.com/openreality/goplayer/internal/logger"
	"github.com/openreality/goplayer/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// meshBuffers is the GPU residence of one scene mesh.
type meshBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	// Bounding sphere in mesh-local space, used for frustum culling.
	center math.Vec3
	radius float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	// Mesh pass
	meshProgram   uint32
	locMVP        int32
	locModel      int32
	locBaseColor  int32
	locMetallic   int32
	locRoughness  int32
	locEmissive   int32
	locCameraPos  int32
	locSunDir     int32
	locSunColor   int32
	locSunInt     int32
	locPointCount int32
	locPointPos   int32
	locPointColor int32
	locPointRange int32
	locPointInt   int32

	meshes      []meshBuffers
	pointLights *lighting.PointLightBuffer

	// Particle pass
	particleProgram  uint32
	locPartViewProj  int32
	particleVAO      uint32
	particleVBO      uint32
	particleCapacity int
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:      cfg,
		pointLights: lighting.NewPointLightBuffer(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.08, 0.09, 0.12, 1.0)

	var err error
	r.meshProgram, err = shader.CompileProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.locMVP = shader.GetUniform(r.meshProgram, "uMVP")
	r.locModel = shader.GetUniform(r.meshProgram, "uModel")
	r.locBaseColor = shader.GetUniform(r.meshProgram, "uBaseColor")
	r.locMetallic = shader.GetUniform(r.meshProgram, "uMetallic")
	r.locRoughness = shader.GetUniform(r.meshProgram, "uRoughness")
	r.locEmissive = shader.GetUniform(r.meshProgram, "uEmissive")
	r.locCameraPos = shader.GetUniform(r.meshProgram, "uCameraPos")
	r.locSunDir = shader.GetUniform(r.meshProgram, "uSunDir")
	r.locSunColor = shader.GetUniform(r.meshProgram, "uSunColor")
	r.locSunInt = shader.GetUniform(r.meshProgram, "uSunIntensity")
	r.locPointCount = shader.GetUniform(r.meshProgram, "uPointCount")
	r.locPointPos = shader.GetUniform(r.meshProgram, "uPointPos")
	r.locPointColor = shader.GetUniform(r.meshProgram, "uPointColor")
	r.locPointRange = shader.GetUniform(r.meshProgram, "uPointRange")
	r.locPointInt = shader.GetUniform(r.meshProgram, "uPointIntensity")

	r.particleProgram, err = shader.CompileProgram(shaders.ParticleVertexShader, shaders.ParticleFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("particle shader: %w", err)
	}
	r.locPartViewProj = shader.GetUniform(r.particleProgram, "uViewProj")
	r.createParticleBuffers()

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for i := range r.meshes {
		m := &r.meshes[i]
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		if m.ebo != 0 {
			gl.DeleteBuffers(1, &m.ebo)
		}
	}
	r.meshes = nil

	if r.particleVAO != 0 {
		gl.DeleteVertexArrays(1, &r.particleVAO)
	}
	if r.particleVBO != 0 {
		gl.DeleteBuffers(1, &r.particleVBO)
	}
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
	}
	if r.particleProgram != 0 {
		gl.DeleteProgram(r.particleProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// UploadScene creates GPU buffers for every mesh in the scene. Call once
// after loading; meshes are static, only transforms change per frame.
func (r *Renderer) UploadScene(s *scene.Scene) {
	for i := range s.Meshes {
		mesh := &s.Meshes[i]
		buf, err := r.uploadMesh(mesh)
		if err != nil {
			logger.Warn("skipping mesh", zap.Int("mesh", i), zap.Error(err))
			buf = meshBuffers{}
		}
		r.meshes = append(r.meshes, buf)
	}
	logger.Info("scene uploaded", zap.Int("meshes", len(r.meshes)))
}

func (r *Renderer) uploadMesh(mesh *scene.MeshData) (meshBuffers, error) {
	vertexCount := len(mesh.Positions) / 3
	if vertexCount == 0 || len(mesh.Indices) == 0 {
		return meshBuffers{}, fmt.Errorf("empty mesh")
	}

	// Interleave position and normal; a missing normal array degrades to
	// up-facing normals rather than rejecting the mesh.
	interleaved := make([]float32, 0, vertexCount*6)
	for v := 0; v < vertexCount; v++ {
		interleaved = append(interleaved, mesh.Positions[v*3], mesh.Positions[v*3+1], mesh.Positions[v*3+2])
		if len(mesh.Normals) >= (v+1)*3 {
			interleaved = append(interleaved, mesh.Normals[v*3], mesh.Normals[v*3+1], mesh.Normals[v*3+2])
		} else {
			interleaved = append(interleaved, 0, 1, 0)
		}
	}

	var buf meshBuffers
	buf.center, buf.radius = boundingSphere(mesh.Positions)
	buf.indexCount = int32(len(mesh.Indices))

	gl.GenVertexArrays(1, &buf.vao)
	gl.BindVertexArray(buf.vao)

	gl.GenBuffers(1, &buf.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, unsafe.Pointer(&interleaved[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &buf.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return buf, nil
}

// boundingSphere returns a sphere around the vertex positions, centered on
// their average.
func boundingSphere(positions []float32) (math.Vec3, float32) {
	count := len(positions) / 3
	if count == 0 {
		return math.Vec3{}, 0
	}

	var center math.Vec3
	for v := 0; v < count; v++ {
		center.X += positions[v*3]
		center.Y += positions[v*3+1]
		center.Z += positions[v*3+2]
	}
	inv := 1 / float32(count)
	center = center.Scale(inv)

	var maxSq float32
	for v := 0; v < count; v++ {
		p := math.Vec3{X: positions[v*3], Y: positions[v*3+1], Z: positions[v*3+2]}
		if d := p.Sub(center).LengthSq(); d > maxSq {
			maxSq = d
		}
	}
	return center, float32(gomath.Sqrt(float64(maxSq)))
}

// DrawScene renders every visible mesh entity with the forward lighting
// pass. Entities whose bounding sphere falls outside the view frustum are
// skipped.
func (r *Renderer) DrawScene(s *scene.Scene, view, proj math.Mat4, camPos math.Vec3) {
	viewProj := proj.Mul(view)
	frustum := camera.ExtractFrustum(viewProj)

	gl.UseProgram(r.meshProgram)
	gl.Uniform3f(r.locCameraPos, camPos.X, camPos.Y, camPos.Z)
	r.uploadLights(s)

	for i := range s.Entities {
		e := &s.Entities[i]
		if e.MeshIndex < 0 || e.MeshIndex >= len(r.meshes) {
			continue
		}
		mb := &r.meshes[e.MeshIndex]
		if mb.vao == 0 {
			continue
		}

		worldCenter := e.World.TransformPoint(mb.center)
		if !frustum.ContainsSphere(worldCenter, mb.radius*maxScale(e.World)) {
			continue
		}

		mvp := viewProj.Mul(e.World)
		gl.UniformMatrix4fv(r.locMVP, 1, false, &mvp[0])
		gl.UniformMatrix4fv(r.locModel, 1, false, &e.World[0])
		r.uploadMaterial(s, e.MaterialIndex)

		gl.BindVertexArray(mb.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
}

// maxScale returns the largest column length of the rotation-scale block,
// a conservative bound for scaling a culling sphere.
func maxScale(m math.Mat4) float32 {
	cols := [3]float32{
		math.Vec3{X: m[0], Y: m[1], Z: m[2]}.Length(),
		math.Vec3{X: m[4], Y: m[5], Z: m[6]}.Length(),
		math.Vec3{X: m[8], Y: m[9], Z: m[10]}.Length(),
	}
	max := cols[0]
	if cols[1] > max {
		max = cols[1]
	}
	if cols[2] > max {
		max = cols[2]
	}
	return max
}

func (r *Renderer) uploadMaterial(s *scene.Scene, materialIndex int) {
	mat := scene.MaterialInfo{
		Color:     [4]float32{0.8, 0.8, 0.8, 1},
		Roughness: 0.6,
		Opacity:   1,
	}
	if materialIndex >= 0 && materialIndex < len(s.Materials) {
		mat = s.Materials[materialIndex]
	}

	gl.Uniform4f(r.locBaseColor, mat.Color[0], mat.Color[1], mat.Color[2], mat.Color[3]*mat.Opacity)
	gl.Uniform1f(r.locMetallic, mat.Metallic)
	gl.Uniform1f(r.locRoughness, mat.Roughness)
	gl.Uniform3f(r.locEmissive, mat.Emissive[0], mat.Emissive[1], mat.Emissive[2])
}

func (r *Renderer) uploadLights(s *scene.Scene) {
	// Sun defaults to a dim overhead light when the scene has none
	sun := scene.DirLight{
		Direction: lighting.SunDirection(35, 60),
		Color:     [3]float32{1, 1, 1},
		Intensity: 0.4,
	}
	if len(s.DirLights) > 0 {
		sun = s.DirLights[0]
	}
	gl.Uniform3f(r.locSunDir, sun.Direction[0], sun.Direction[1], sun.Direction[2])
	gl.Uniform3f(r.locSunColor, sun.Color[0], sun.Color[1], sun.Color[2])
	gl.Uniform1f(r.locSunInt, sun.Intensity)

	r.pointLights.SetLights(s.PointLights)
	gl.Uniform1i(r.locPointCount, int32(r.pointLights.Count))
	if r.pointLights.Count > 0 {
		positions := r.pointLights.Positions()
		colors := r.pointLights.Colors()
		ranges := r.pointLights.Ranges()
		intensities := r.pointLights.Intensities()
		gl.Uniform3fv(r.locPointPos, lighting.MaxPointLights, &positions[0])
		gl.Uniform3fv(r.locPointColor, lighting.MaxPointLights, &colors[0])
		gl.Uniform1fv(r.locPointRange, lighting.MaxPointLights, &ranges[0])
		gl.Uniform1fv(r.locPointInt, lighting.MaxPointLights, &intensities[0])
	}
}
