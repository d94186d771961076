// Package animation advances animation playback and writes interpolated
// keyframe values into entity transform states. It is the first stage of the
// per-frame pipeline; the transform resolver consumes the dirty transforms it
// leaves behind.
package animation

import (
	gomath "math"

	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

// Advance updates every playing animation state by dt seconds and applies the
// sampled channel values to their target entities.
//
// Malformed channel data (an out-of-range target entity, an empty time
// sequence, a truncated value buffer) skips that channel only. A bad channel
// must never take down the rest of the frame.
func Advance(s *scene.Scene, dt float32) {
	for i := range s.Animations {
		state := &s.Animations[i]
		if !state.Playing {
			continue
		}
		if state.ActiveClip < 0 || state.ActiveClip >= len(state.Clips) {
			continue
		}

		state.CurrentTime += dt * state.Speed

		clip := &state.Clips[state.ActiveClip]
		if state.CurrentTime > clip.Duration {
			if state.Looping && clip.Duration > 0 {
				state.CurrentTime = float32(gomath.Mod(float64(state.CurrentTime), float64(clip.Duration)))
			} else {
				state.CurrentTime = clip.Duration
				state.Playing = false
			}
		}

		applyClip(s, clip, state.CurrentTime)
	}
}

func applyClip(s *scene.Scene, clip *scene.AnimationClip, time float32) {
	for c := range clip.Channels {
		ch := &clip.Channels[c]
		if ch.TargetEntity < 0 || ch.TargetEntity >= len(s.Entities) {
			continue
		}

		i0, i1, factor, ok := findKeyInterval(ch.Times, time)
		if !ok {
			continue
		}

		target := &s.Entities[ch.TargetEntity].Transform
		switch ch.Target {
		case scene.TargetPosition:
			v, ok := sampleVec3(ch, i0, i1, factor)
			if !ok {
				continue
			}
			target.Position = v
		case scene.TargetRotation:
			q, ok := sampleQuat(ch, i0, i1, factor)
			if !ok {
				continue
			}
			target.Rotation = q
		case scene.TargetScale:
			v, ok := sampleVec3(ch, i0, i1, factor)
			if !ok {
				continue
			}
			target.Scale = v
		default:
			continue
		}
		target.Dirty = true
	}
}

// findKeyInterval binary-searches a strictly increasing time sequence for the
// interval containing time. It returns the bounding key indices and the
// normalized interpolation factor in [0, 1]. Queries outside the sequence
// clamp to the nearest endpoint with factor 0; there is no extrapolation.
// ok is false only for an empty sequence.
func findKeyInterval(times []float32, time float32) (i0, i1 int, factor float32, ok bool) {
	if len(times) == 0 {
		return 0, 0, 0, false
	}
	if len(times) == 1 || time <= times[0] {
		return 0, 0, 0, true
	}
	last := len(times) - 1
	if time >= times[last] {
		return last, last, 0, true
	}

	lo, hi := 0, last
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if times[mid] <= time {
			lo = mid
		} else {
			hi = mid
		}
	}

	t0, t1 := times[lo], times[hi]
	if t1-t0 < 1e-8 {
		// Degenerate interval: equal timestamps.
		return lo, hi, 0, true
	}
	return lo, hi, (time - t0) / (t1 - t0), true
}

// sampleVec3 reads and interpolates a 3-component value (position or scale).
// ok is false if the value buffer is too short for the requested keys.
func sampleVec3(ch *scene.AnimationChannel, i0, i1 int, factor float32) (math.DVec3, bool) {
	v0, ok0 := vec3At(ch.Values, i0)
	v1, ok1 := vec3At(ch.Values, i1)
	if !ok0 || !ok1 {
		return math.DVec3{}, false
	}
	if ch.Interpolation == scene.InterpStep {
		return v0, true
	}
	// Linear and cubic-spline both evaluate linearly.
	return v0.Lerp(v1, float64(factor)), true
}

// sampleQuat reads and interpolates a rotation value. Rotations take the
// spherical shortest path; the result is renormalized by Slerp's fallback
// branch when the keys are nearly identical.
func sampleQuat(ch *scene.AnimationChannel, i0, i1 int, factor float32) (math.DQuat, bool) {
	q0, ok0 := quatAt(ch.Values, i0)
	q1, ok1 := quatAt(ch.Values, i1)
	if !ok0 || !ok1 {
		return math.DQuat{}, false
	}
	if ch.Interpolation == scene.InterpStep {
		return q0, true
	}
	return q0.Slerp(q1, float64(factor)), true
}

func vec3At(values []float64, index int) (math.DVec3, bool) {
	i := index * 3
	if i < 0 || i+3 > len(values) {
		return math.DVec3{}, false
	}
	return math.DVec3{X: values[i], Y: values[i+1], Z: values[i+2]}, true
}

// quatAt reads a rotation key. The asset layout stores (w, x, y, z).
func quatAt(values []float64, index int) (math.DQuat, bool) {
	i := index * 4
	if i < 0 || i+4 > len(values) {
		return math.DQuat{}, false
	}
	return math.DQuat{W: values[i], X: values[i+1], Y: values[i+2], Z: values[i+3]}, true
}
