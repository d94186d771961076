// Package skinning combines entity world transforms with inverse bind
// matrices into the bone matrices a GPU skinning shader consumes.
package skinning

import (
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

// MaxBones caps the bone count per skeleton, matching the uniform buffer
// budget of the skinning shader.
const MaxBones = 128

// Evaluate fills BoneMatrices for every skeleton in the scene:
//
//	bone = inverse(meshWorld) * boneWorld * inverseBind
//
// which expresses each bone relative to the mesh's local space. Invalid bone
// or entity indices degrade to identity matrices; a broken skeleton renders
// in bind pose instead of failing the frame.
func Evaluate(s *scene.Scene) {
	for k := range s.Skeletons {
		skel := &s.Skeletons[k]
		if skel.EntityIndex < 0 || skel.EntityIndex >= len(s.Entities) {
			continue
		}

		invMeshWorld := s.Entities[skel.EntityIndex].World.Inverse()

		boneCount := len(skel.BoneEntityIndices)
		if boneCount > MaxBones {
			boneCount = MaxBones
		}
		// Resize the output buffer in place; order never changes.
		if len(skel.BoneMatrices) != boneCount {
			skel.BoneMatrices = make([]math.Mat4, boneCount)
		}

		for i := 0; i < boneCount; i++ {
			boneEntity := skel.BoneEntityIndices[i]
			if boneEntity < 0 || boneEntity >= len(s.Entities) || i >= len(skel.InverseBindMatrices) {
				skel.BoneMatrices[i] = math.Identity()
				continue
			}
			boneWorld := s.Entities[boneEntity].World
			skel.BoneMatrices[i] = invMeshWorld.Mul(boneWorld).Mul(skel.InverseBindMatrices[i])
		}
	}
}
