package math

import "math"

// DQuat is a rotation quaternion at double precision.
// Components are stored as X, Y, Z, W where W is the scalar part.
// Animation keyframes interpolate at float64; the result must stay unit-norm
// at every observation point.
type DQuat struct {
	X, Y, Z, W float64
}

// DQuatIdentity returns an identity quaternion (no rotation).
func DQuatIdentity() DQuat {
	return DQuat{X: 0, Y: 0, Z: 0, W: 1}
}

// DQuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func DQuatFromAxisAngle(axis DVec3, angle float64) DQuat {
	half := angle / 2
	s := math.Sin(half)
	return DQuat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(half),
	}
}

// Normalize returns a normalized quaternion.
func (q DQuat) Normalize() DQuat {
	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 1e-8 {
		return DQuatIdentity()
	}
	inv := 1.0 / length
	return DQuat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Dot returns the dot product of two quaternions.
func (q DQuat) Dot(other DQuat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
func (q DQuat) Mul(other DQuat) DQuat {
	return DQuat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Slerp performs spherical linear interpolation between two quaternions along
// the shortest rotational path. t should be in range [0, 1].
func (q DQuat) Slerp(other DQuat, t float64) DQuat {
	dot := q.Dot(other)

	// If dot is negative, negate one quaternion to take the shorter path.
	if dot < 0 {
		other = DQuat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		dot = -dot
	}

	// Nearly identical rotations: fall back to normalized lerp to avoid a
	// division by a vanishing sin(theta).
	if dot > 0.9995 {
		return DQuat{
			X: q.X + t*(other.X-q.X),
			Y: q.Y + t*(other.Y-q.Y),
			Z: q.Z + t*(other.Z-q.Z),
			W: q.W + t*(other.W-q.W),
		}.Normalize()
	}

	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	w0 := math.Sin((1-t)*theta) / sinTheta
	w1 := math.Sin(t*theta) / sinTheta

	return DQuat{
		X: q.X*w0 + other.X*w1,
		Y: q.Y*w0 + other.Y*w1,
		Z: q.Z*w0 + other.Z*w1,
		W: q.W*w0 + other.W*w1,
	}
}
