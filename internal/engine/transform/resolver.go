// Package transform composes entity local transforms into world-space
// matrices. It runs after animation sampling and before skinning evaluation.
package transform

import (
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

// Resolve computes the world matrix for every entity in a single forward
// pass. Storage order is depth-first with parents before children, so each
// parent's world matrix is already final when its children are visited. No
// recursion or runtime topological sort is needed.
//
// Local state is double precision; matrices are composed at single precision
// (see math.FromTRS). Dirty flags set by the animation sampler are cleared
// here.
func Resolve(s *scene.Scene) {
	n := len(s.Entities)
	for i := 0; i < n; i++ {
		e := &s.Entities[i]
		local := math.FromTRS(e.Transform.Position, e.Transform.Rotation, e.Transform.Scale)

		if e.ParentIndex >= 0 && e.ParentIndex < i {
			e.World = s.Entities[e.ParentIndex].World.Mul(local)
		} else {
			e.World = local
		}
		e.Transform.Dirty = false
	}
}
