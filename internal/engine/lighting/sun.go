// Package lighting provides light direction helpers and the analytic BRDF
// terms used by the forward shading pass.
package lighting

import "math"

// SunDirection converts longitude/latitude angles in degrees to a light
// direction vector. Longitude is rotation around the Y axis, latitude is
// elevation from the horizon. Returns a normalized direction pointing
// towards the sun.
func SunDirection(longitude, latitude float32) [3]float32 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	// Spherical to Cartesian, Y up
	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Sin(latRad))
	z := float32(math.Cos(latRad) * math.Cos(lonRad))

	return [3]float32{x, y, z}
}
