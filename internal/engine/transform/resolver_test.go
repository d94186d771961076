package transform

import (
	gomath "math"
	"testing"

	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

func entityAt(parent int, pos math.DVec3, rot math.DQuat, scl math.DVec3) scene.Entity {
	return scene.Entity{
		ParentIndex: parent,
		Transform: scene.TransformState{
			Position: pos,
			Rotation: rot,
			Scale:    scl,
			Dirty:    true,
		},
		MeshIndex:     -1,
		MaterialIndex: -1,
	}
}

func one() math.DVec3 { return math.DVec3{X: 1, Y: 1, Z: 1} }

func matNear(t *testing.T, got, want math.Mat4, context string) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if gomath.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("%s: element %d: got %f, want %f", context, i, got[i], want[i])
		}
	}
}

func TestResolveThreeLevelChain(t *testing.T) {
	rootRot := math.DQuatFromAxisAngle(math.DVec3{Y: 1}, gomath.Pi/2)
	s := &scene.Scene{
		Entities: []scene.Entity{
			entityAt(-1, math.DVec3{X: 1}, rootRot, one()),
			entityAt(0, math.DVec3{Y: 2}, math.DQuatIdentity(), one()),
			entityAt(1, math.DVec3{Z: 3}, math.DQuatIdentity(), math.DVec3{X: 2, Y: 2, Z: 2}),
		},
	}

	Resolve(s)

	root := math.FromTRS(math.DVec3{X: 1}, rootRot, one())
	child := math.FromTRS(math.DVec3{Y: 2}, math.DQuatIdentity(), one())
	grand := math.FromTRS(math.DVec3{Z: 3}, math.DQuatIdentity(), math.DVec3{X: 2, Y: 2, Z: 2})
	want := root.Mul(child).Mul(grand)

	matNear(t, s.Entities[2].World, want, "grandchild world")
}

func TestResolveIsIdempotent(t *testing.T) {
	s := &scene.Scene{
		Entities: []scene.Entity{
			entityAt(-1, math.DVec3{X: 5}, math.DQuatFromAxisAngle(math.DVec3{Y: 1}, 0.3), one()),
			entityAt(0, math.DVec3{Y: -2}, math.DQuatIdentity(), one()),
		},
	}

	Resolve(s)
	first := s.Entities[1].World
	Resolve(s)
	matNear(t, s.Entities[1].World, first, "recomputed world")
}

func TestResolveClearsDirty(t *testing.T) {
	s := &scene.Scene{
		Entities: []scene.Entity{
			entityAt(-1, math.DVec3{}, math.DQuatIdentity(), one()),
		},
	}

	Resolve(s)

	if s.Entities[0].Transform.Dirty {
		t.Error("resolver should clear the dirty flag")
	}
}

func TestResolveRootWithoutParent(t *testing.T) {
	s := &scene.Scene{
		Entities: []scene.Entity{
			entityAt(-1, math.DVec3{X: 7, Y: 8, Z: 9}, math.DQuatIdentity(), one()),
		},
	}

	Resolve(s)

	world := s.Entities[0].World
	if world[12] != 7 || world[13] != 8 || world[14] != 9 {
		t.Errorf("root world translation: got (%f, %f, %f), want (7, 8, 9)",
			world[12], world[13], world[14])
	}
}

func TestResolveIgnoresForwardParentReference(t *testing.T) {
	// A parent index pointing at a later entity violates DFS order; the
	// entity is treated as a root instead of reading a stale matrix.
	s := &scene.Scene{
		Entities: []scene.Entity{
			entityAt(1, math.DVec3{X: 1}, math.DQuatIdentity(), one()),
			entityAt(-1, math.DVec3{X: 100}, math.DQuatIdentity(), one()),
		},
	}

	Resolve(s)

	if s.Entities[0].World[12] != 1 {
		t.Errorf("forward parent reference should be ignored, got x=%f", s.Entities[0].World[12])
	}
}
