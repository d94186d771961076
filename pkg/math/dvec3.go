package math

// DVec3 is a 3D vector at double precision. Transform state (position, scale)
// is kept at float64 so accumulated animation writes stay accurate over large
// scenes; matrices are composed at float32 (see Mat4.FromTRS).
type DVec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v DVec3) Add(other DVec3) DVec3 {
	return DVec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v DVec3) Sub(other DVec3) DVec3 {
	return DVec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v DVec3) Scale(s float64) DVec3 {
	return DVec3{v.X * s, v.Y * s, v.Z * s}
}

// Lerp returns the linear interpolation between v and other at t.
func (v DVec3) Lerp(other DVec3, t float64) DVec3 {
	return DVec3{
		v.X + t*(other.X-v.X),
		v.Y + t*(other.Y-v.Y),
		v.Z + t*(other.Z-v.Z),
	}
}

// Vec3 converts to single precision.
func (v DVec3) Vec3() Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}
