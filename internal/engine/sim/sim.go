// Package sim drives the per-frame simulation pipeline over a scene. One
// Tick per display frame, on a single goroutine: animation sampling, then
// world transform resolution, then skinning. Each stage consumes the
// previous stage's output. Particle emitters have no ordering dependency on
// the hierarchy stages and are ticked separately with the camera basis.
//
// Nothing here returns an error: per-frame data problems are recovered
// locally by the stage that finds them, and a tick always runs to
// completion.
package sim

import (
	"github.com/openreality/goplayer/internal/engine/animation"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/skinning"
	"github.com/openreality/goplayer/internal/engine/transform"
	"github.com/openreality/goplayer/pkg/math"
)

// Frame carries the per-frame inputs supplied by the host: elapsed time and
// the camera basis particle billboards face.
type Frame struct {
	DT        float32
	CameraPos math.Vec3
	CamRight  math.Vec3
	CamUp     math.Vec3
}

// Tick advances the hierarchy stages for one frame. The scene is exclusively
// owned by the caller for the duration of the call.
func Tick(s *scene.Scene, dt float32) {
	animation.Advance(s, dt)
	transform.Resolve(s)
	skinning.Evaluate(s)
}

// TickParticles updates every emitter pool, emitting from the owning
// entity's world position. Call after Tick so origins reflect this frame's
// transforms; an emitter with an invalid entity index emits from the world
// origin.
func TickParticles(s *scene.Scene, frame Frame) {
	for i := range s.Emitters {
		em := &s.Emitters[i]
		if em.Pool == nil {
			continue
		}
		var origin math.Vec3
		if em.EntityIndex >= 0 && em.EntityIndex < len(s.Entities) {
			origin = s.Entities[em.EntityIndex].WorldPosition()
		}
		em.Pool.Update(frame.DT, origin, &em.Config, frame.CameraPos, frame.CamRight, frame.CamUp)
	}
}

// Step runs a complete frame: hierarchy stages followed by particles.
func Step(s *scene.Scene, frame Frame) {
	Tick(s, frame.DT)
	TickParticles(s, frame)
}
