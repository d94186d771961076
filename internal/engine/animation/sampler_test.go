package animation

import (
	gomath "math"
	"testing"

	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

func TestFindKeyIntervalMidpoint(t *testing.T) {
	i0, i1, f, ok := findKeyInterval([]float32{0, 2}, 1)
	if !ok || i0 != 0 || i1 != 1 || f != 0.5 {
		t.Errorf("got (%d, %d, %f, %v), want (0, 1, 0.5, true)", i0, i1, f, ok)
	}
}

func TestFindKeyIntervalClamping(t *testing.T) {
	times := []float32{1, 2, 3}

	// Before the first key: clamp to key 0, factor 0.
	i0, i1, f, ok := findKeyInterval(times, 0.5)
	if !ok || i0 != 0 || i1 != 0 || f != 0 {
		t.Errorf("before range: got (%d, %d, %f), want (0, 0, 0)", i0, i1, f)
	}

	// After the last key: clamp to the last key, factor 0.
	i0, i1, f, ok = findKeyInterval(times, 5)
	if !ok || i0 != 2 || i1 != 2 || f != 0 {
		t.Errorf("after range: got (%d, %d, %f), want (2, 2, 0)", i0, i1, f)
	}
}

func TestFindKeyIntervalDegenerateCases(t *testing.T) {
	if _, _, _, ok := findKeyInterval(nil, 1); ok {
		t.Error("empty sequence should not return an interval")
	}

	i0, i1, f, ok := findKeyInterval([]float32{4}, 10)
	if !ok || i0 != 0 || i1 != 0 || f != 0 {
		t.Errorf("single key: got (%d, %d, %f), want (0, 0, 0)", i0, i1, f)
	}
}

func TestFindKeyIntervalProperties(t *testing.T) {
	times := []float32{0, 0.5, 1.25, 2, 7, 11}
	for _, q := range []float32{-1, 0, 0.3, 0.5, 1, 1.99, 2, 5, 7.01, 11, 30} {
		i0, i1, f, ok := findKeyInterval(times, q)
		if !ok {
			t.Fatalf("query %f: no interval", q)
		}
		if i0 > i1 {
			t.Errorf("query %f: i0 %d > i1 %d", q, i0, i1)
		}
		if f < 0 || f > 1 {
			t.Errorf("query %f: factor %f outside [0, 1]", q, f)
		}
		if i0 != i1 && (times[i0] > q || q > times[i1]) {
			t.Errorf("query %f: not bounded by [%f, %f]", q, times[i0], times[i1])
		}
	}
}

// clipScene builds a minimal scene with one entity and one animation state
// holding the given clip.
func clipScene(clip scene.AnimationClip) *scene.Scene {
	return &scene.Scene{
		Entities: []scene.Entity{
			{ID: 1, ParentIndex: -1, Transform: scene.DefaultTransform(), MeshIndex: -1, MaterialIndex: -1},
		},
		Animations: []scene.AnimationState{
			{Clips: []scene.AnimationClip{clip}, ActiveClip: 0, Playing: true, Looping: false, Speed: 1},
		},
	}
}

func TestAdvanceLinearPosition(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Name:     "slide",
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetPosition,
			Interpolation: scene.InterpLinear,
			Times:         []float32{0, 2},
			Values:        []float64{0, 0, 0, 10, 0, 0},
		}},
	})

	Advance(s, 1)

	pos := s.Entities[0].Transform.Position
	if gomath.Abs(pos.X-5) > 1e-6 {
		t.Errorf("position at t=1: got %f, want 5", pos.X)
	}
	if !s.Entities[0].Transform.Dirty {
		t.Error("animated transform should be marked dirty")
	}
}

func TestAdvanceStepCopiesEarlierKey(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetScale,
			Interpolation: scene.InterpStep,
			Times:         []float32{0, 2},
			Values:        []float64{1, 1, 1, 9, 9, 9},
		}},
	})

	Advance(s, 1)

	sc := s.Entities[0].Transform.Scale
	if sc.X != 1 || sc.Y != 1 || sc.Z != 1 {
		t.Errorf("step interpolation at t=1: got %v, want earlier key (1,1,1)", sc)
	}
}

func TestAdvanceCubicSplineFallsBackToLinear(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetPosition,
			Interpolation: scene.InterpCubicSpline,
			Times:         []float32{0, 2},
			Values:        []float64{0, 0, 0, 4, 0, 0},
		}},
	})

	Advance(s, 1)

	if gomath.Abs(s.Entities[0].Transform.Position.X-2) > 1e-6 {
		t.Errorf("cubic spline should evaluate linearly: got %f, want 2",
			s.Entities[0].Transform.Position.X)
	}
}

func TestAdvanceRotationSlerp(t *testing.T) {
	// Keys: identity -> 90 degrees around Y, stored (w, x, y, z).
	q90 := math.DQuatFromAxisAngle(math.DVec3{Y: 1}, gomath.Pi/2)
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetRotation,
			Interpolation: scene.InterpLinear,
			Times:         []float32{0, 2},
			Values:        []float64{1, 0, 0, 0, q90.W, q90.X, q90.Y, q90.Z},
		}},
	})

	Advance(s, 1)

	rot := s.Entities[0].Transform.Rotation
	want := math.DQuatFromAxisAngle(math.DVec3{Y: 1}, gomath.Pi/4)
	if gomath.Abs(rot.W-want.W) > 1e-6 || gomath.Abs(rot.Y-want.Y) > 1e-6 {
		t.Errorf("slerp midpoint: got %+v, want %+v", rot, want)
	}
	norm := gomath.Sqrt(rot.Dot(rot))
	if gomath.Abs(norm-1) > 1e-9 {
		t.Errorf("interpolated rotation should be unit norm, got %f", norm)
	}
}

func TestAdvanceLooping(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetPosition,
			Interpolation: scene.InterpLinear,
			Times:         []float32{0, 2},
			Values:        []float64{0, 0, 0, 10, 0, 0},
		}},
	})
	s.Animations[0].Looping = true

	// 2.5s into a 2s looping clip wraps to 0.5s.
	Advance(s, 2.5)

	state := &s.Animations[0]
	if gomath.Abs(float64(state.CurrentTime-0.5)) > 1e-6 {
		t.Errorf("looped time: got %f, want 0.5", state.CurrentTime)
	}
	if !state.Playing {
		t.Error("looping clip should keep playing")
	}
}

func TestAdvanceClampAndStop(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetPosition,
			Interpolation: scene.InterpLinear,
			Times:         []float32{0, 2},
			Values:        []float64{0, 0, 0, 10, 0, 0},
		}},
	})

	Advance(s, 5)

	state := &s.Animations[0]
	if state.CurrentTime != 2 {
		t.Errorf("non-looping time should clamp to duration, got %f", state.CurrentTime)
	}
	if state.Playing {
		t.Error("non-looping clip should stop at the end")
	}
	if s.Entities[0].Transform.Position.X != 10 {
		t.Errorf("final pose should be the last key, got %f", s.Entities[0].Transform.Position.X)
	}
}

func TestAdvanceSpeedMultiplier(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 10,
		Channels: []scene.AnimationChannel{{
			TargetEntity:  0,
			Target:        scene.TargetPosition,
			Interpolation: scene.InterpLinear,
			Times:         []float32{0, 10},
			Values:        []float64{0, 0, 0, 10, 0, 0},
		}},
	})
	s.Animations[0].Speed = 2

	Advance(s, 1)

	if gomath.Abs(float64(s.Animations[0].CurrentTime-2)) > 1e-6 {
		t.Errorf("2x speed after 1s: got time %f, want 2", s.Animations[0].CurrentTime)
	}
}

func TestAdvanceSkipsMalformedChannels(t *testing.T) {
	s := clipScene(scene.AnimationClip{
		Duration: 2,
		Channels: []scene.AnimationChannel{
			// Target entity out of range.
			{TargetEntity: 99, Target: scene.TargetPosition, Interpolation: scene.InterpLinear,
				Times: []float32{0, 2}, Values: []float64{0, 0, 0, 1, 1, 1}},
			// Empty keyframe sequence.
			{TargetEntity: 0, Target: scene.TargetPosition, Interpolation: scene.InterpLinear},
			// Truncated value buffer.
			{TargetEntity: 0, Target: scene.TargetPosition, Interpolation: scene.InterpLinear,
				Times: []float32{0, 2}, Values: []float64{0, 0}},
			// A healthy channel after the bad ones must still apply.
			{TargetEntity: 0, Target: scene.TargetPosition, Interpolation: scene.InterpLinear,
				Times: []float32{0, 2}, Values: []float64{0, 0, 0, 6, 0, 0}},
		},
	})

	Advance(s, 1)

	if gomath.Abs(s.Entities[0].Transform.Position.X-3) > 1e-6 {
		t.Errorf("healthy channel after malformed ones: got %f, want 3",
			s.Entities[0].Transform.Position.X)
	}
}

func TestAdvanceInactiveStatesUntouched(t *testing.T) {
	s := clipScene(scene.AnimationClip{Duration: 2})
	s.Animations[0].Playing = false
	s.Animations[0].CurrentTime = 1

	Advance(s, 1)

	if s.Animations[0].CurrentTime != 1 {
		t.Error("paused state should not advance")
	}

	s.Animations[0].Playing = true
	s.Animations[0].ActiveClip = -1
	Advance(s, 1)
	if s.Animations[0].CurrentTime != 1 {
		t.Error("state without active clip should not advance")
	}
}
