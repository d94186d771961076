package skinning

import (
	gomath "math"
	"testing"

	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/transform"
	"github.com/openreality/goplayer/pkg/math"
)

func matNear(t *testing.T, got, want math.Mat4, context string) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("%s: element %d: got %f, want %f", context, i, got[i], want[i])
		}
	}
}

func chainScene() *scene.Scene {
	one := math.DVec3{X: 1, Y: 1, Z: 1}
	mk := func(parent int, pos math.DVec3) scene.Entity {
		return scene.Entity{
			ParentIndex:   parent,
			Transform:     scene.TransformState{Position: pos, Rotation: math.DQuatIdentity(), Scale: one},
			MeshIndex:     -1,
			MaterialIndex: -1,
		}
	}
	return &scene.Scene{
		Entities: []scene.Entity{
			mk(-1, math.DVec3{X: 10}), // mesh entity
			mk(0, math.DVec3{Y: 1}),   // bone 0
			mk(1, math.DVec3{Y: 1}),   // bone 1
		},
	}
}

func TestEvaluateBoneMatrixFormula(t *testing.T) {
	s := chainScene()
	invBind := math.Translate(0, -1, 0)
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:         0,
		BoneEntityIndices:   []int{1, 2},
		InverseBindMatrices: []math.Mat4{invBind, invBind},
	}}

	transform.Resolve(s)
	Evaluate(s)

	skel := &s.Skeletons[0]
	if len(skel.BoneMatrices) != 2 {
		t.Fatalf("expected 2 bone matrices, got %d", len(skel.BoneMatrices))
	}

	invMeshWorld := s.Entities[0].World.Inverse()
	for i, boneEntity := range skel.BoneEntityIndices {
		want := invMeshWorld.Mul(s.Entities[boneEntity].World).Mul(invBind)
		matNear(t, skel.BoneMatrices[i], want, "bone matrix")
	}
}

func TestEvaluateBindPoseYieldsIdentity(t *testing.T) {
	// When a bone's inverse bind matrix is the inverse of its mesh-relative
	// world transform, the resulting bone matrix is identity (no deformation
	// in bind pose).
	s := chainScene()
	transform.Resolve(s)

	invMeshWorld := s.Entities[0].World.Inverse()
	bindInverse := invMeshWorld.Mul(s.Entities[1].World).Inverse()
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:         0,
		BoneEntityIndices:   []int{1},
		InverseBindMatrices: []math.Mat4{bindInverse},
	}}

	Evaluate(s)

	matNear(t, s.Skeletons[0].BoneMatrices[0], math.Identity(), "bind pose bone")
}

func TestEvaluateInvalidBoneDegradesToIdentity(t *testing.T) {
	s := chainScene()
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:         0,
		BoneEntityIndices:   []int{99, -1, 1},
		InverseBindMatrices: []math.Mat4{math.Identity(), math.Identity(), math.Identity()},
	}}

	transform.Resolve(s)
	Evaluate(s)

	skel := &s.Skeletons[0]
	matNear(t, skel.BoneMatrices[0], math.Identity(), "out-of-range bone")
	matNear(t, skel.BoneMatrices[1], math.Identity(), "negative bone index")

	// The valid bone still gets a real matrix.
	want := s.Entities[0].World.Inverse().Mul(s.Entities[1].World)
	matNear(t, skel.BoneMatrices[2], want, "valid bone after invalid ones")
}

func TestEvaluateSkipsInvalidSkeletonOwner(t *testing.T) {
	s := chainScene()
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:       42,
		BoneEntityIndices: []int{1},
	}}

	transform.Resolve(s)
	Evaluate(s)

	if len(s.Skeletons[0].BoneMatrices) != 0 {
		t.Error("skeleton with invalid owner should be skipped entirely")
	}
}

func TestEvaluateCapsBoneCount(t *testing.T) {
	s := chainScene()
	indices := make([]int, MaxBones+10)
	binds := make([]math.Mat4, MaxBones+10)
	for i := range indices {
		indices[i] = 1
		binds[i] = math.Identity()
	}
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:         0,
		BoneEntityIndices:   indices,
		InverseBindMatrices: binds,
	}}

	transform.Resolve(s)
	Evaluate(s)

	if len(s.Skeletons[0].BoneMatrices) != MaxBones {
		t.Errorf("bone matrices should cap at %d, got %d", MaxBones, len(s.Skeletons[0].BoneMatrices))
	}
}

func TestEvaluateResizesOnBoneCountChange(t *testing.T) {
	s := chainScene()
	s.Skeletons = []scene.SkeletonData{{
		EntityIndex:         0,
		BoneEntityIndices:   []int{1, 2},
		InverseBindMatrices: []math.Mat4{math.Identity(), math.Identity()},
	}}

	transform.Resolve(s)
	Evaluate(s)
	if len(s.Skeletons[0].BoneMatrices) != 2 {
		t.Fatalf("expected 2 bone matrices, got %d", len(s.Skeletons[0].BoneMatrices))
	}

	s.Skeletons[0].BoneEntityIndices = []int{1}
	s.Skeletons[0].InverseBindMatrices = s.Skeletons[0].InverseBindMatrices[:1]
	Evaluate(s)
	if len(s.Skeletons[0].BoneMatrices) != 1 {
		t.Errorf("bone matrices should shrink to 1, got %d", len(s.Skeletons[0].BoneMatrices))
	}
}
