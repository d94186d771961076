// Package shadow computes the light-space matrices and cascade splits for
// directional shadow mapping.
package shadow

import (
	"github.com/openreality/goplayer/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	d := b.Max.Sub(b.Min).Scale(0.5)
	return d.Length()
}

// Extend grows the box to include a point.
func (b *AABB) Extend(p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// DirectionalLightMatrix computes the view-projection matrix for a
// directional shadow map. lightDir is the normalized direction TO the light,
// bounds the AABB of the geometry to be shadowed.
func DirectionalLightMatrix(lightDir [3]float32, bounds AABB) math.Mat4 {
	center := bounds.Center()
	radius := bounds.Radius()

	// Position the light far enough to encompass the whole volume
	lightDistance := radius * 2.0

	lightPos := math.Vec3{
		X: center.X + lightDir[0]*lightDistance,
		Y: center.Y + lightDir[1]*lightDistance,
		Z: center.Z + lightDir[2]*lightDistance,
	}

	// Avoid an up vector parallel with the light direction
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	if abs32(lightDir[1]) > 0.99 {
		up = math.Vec3{X: 0, Y: 0, Z: 1}
	}

	view := math.LookAt(lightPos, center, up)

	// Orthographic projection with padding to avoid edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := lightDistance + radius + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul(view)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
