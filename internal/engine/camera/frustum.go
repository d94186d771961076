package camera

import (
	"github.com/openreality/goplayer/pkg/math"
)

// Plane is a world-space plane in Hessian normal form: Nx*x + Ny*y + Nz*z + D.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane. Positive
// distances are on the side the normal points to.
func (p Plane) DistanceTo(point math.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six planes of a view frustum, normals pointing inward.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// ExtractFrustum builds a frustum from a combined view-projection matrix
// using the Gribb-Hartmann plane extraction. Each plane is a sum or
// difference of the fourth matrix row with another row, then normalized so
// signed distances are in world units.
func ExtractFrustum(viewProj math.Mat4) Frustum {
	// Row i of the column-major matrix.
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	add := func(a, b [4]float32) Plane {
		return Plane{
			Normal: math.Vec3{X: a[0] + b[0], Y: a[1] + b[1], Z: a[2] + b[2]},
			D:      a[3] + b[3],
		}
	}
	sub := func(a, b [4]float32) Plane {
		return Plane{
			Normal: math.Vec3{X: a[0] - b[0], Y: a[1] - b[1], Z: a[2] - b[2]},
			D:      a[3] - b[3],
		}
	}

	f := Frustum{Planes: [6]Plane{
		add(r3, r0), // left
		sub(r3, r0), // right
		add(r3, r1), // bottom
		sub(r3, r1), // top
		add(r3, r2), // near
		sub(r3, r2), // far
	}}

	for i := range f.Planes {
		length := f.Planes[i].Normal.Length()
		if length > 1e-8 {
			inv := 1 / length
			f.Planes[i].Normal = f.Planes[i].Normal.Scale(inv)
			f.Planes[i].D *= inv
		}
	}
	return f
}

// ContainsSphere reports whether a sphere intersects the frustum. A sphere
// entirely behind any single plane is outside; everything else is treated as
// visible, which errs towards drawing.
func (f *Frustum) ContainsSphere(center math.Vec3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point is inside the frustum.
func (f *Frustum) ContainsPoint(p math.Vec3) bool {
	return f.ContainsSphere(p, 0)
}
