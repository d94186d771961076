package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

// initialParticleCapacity sizes the streaming VBO for this many particles
// before the first grow.
const initialParticleCapacity = 1024

func (r *Renderer) createParticleBuffers() {
	gl.GenVertexArrays(1, &r.particleVAO)
	gl.BindVertexArray(r.particleVAO)

	r.particleCapacity = initialParticleCapacity
	gl.GenBuffers(1, &r.particleVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.particleVBO)
	gl.BufferData(gl.ARRAY_BUFFER, r.particleCapacity*particles.VertsPerParticle*particles.FloatsPerVertex*4, nil, gl.DYNAMIC_DRAW)

	stride := int32(particles.FloatsPerVertex * 4)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// UV attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	// Color attribute (location 2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 5*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
}

// DrawParticles streams each emitter's billboard buffer and draws it with
// the blend mode its config asks for. Particles read depth but do not write
// it, so they layer over meshes without sorting against them.
func (r *Renderer) DrawParticles(s *scene.Scene, view, proj math.Mat4) {
	viewProj := proj.Mul(view)

	gl.UseProgram(r.particleProgram)
	gl.UniformMatrix4fv(r.locPartViewProj, 1, false, &viewProj[0])

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	gl.BindVertexArray(r.particleVAO)

	for i := range s.Emitters {
		em := &s.Emitters[i]
		if em.Pool == nil || em.Pool.VertexCount == 0 {
			continue
		}

		if em.Config.Additive {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		} else {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}

		floats := em.Pool.VertexCount * particles.FloatsPerVertex
		r.streamVertices(em.Pool.VertexData[:floats])
		gl.DrawArrays(gl.TRIANGLES, 0, int32(em.Pool.VertexCount))
	}

	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// streamVertices uploads one emitter's vertex data, growing and orphaning
// the buffer as needed.
func (r *Renderer) streamVertices(data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.particleVBO)

	capFloats := r.particleCapacity * particles.VertsPerParticle * particles.FloatsPerVertex
	if len(data) > capFloats {
		for len(data) > capFloats {
			r.particleCapacity *= 2
			capFloats = r.particleCapacity * particles.VertsPerParticle * particles.FloatsPerVertex
		}
		gl.BufferData(gl.ARRAY_BUFFER, capFloats*4, nil, gl.DYNAMIC_DRAW)
	}

	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, unsafe.Pointer(&data[0]))
}
