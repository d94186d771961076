package camera

import (
	gomath "math"
	"testing"

	"github.com/openreality/goplayer/pkg/math"
)

func TestOrbitCameraPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 3, Y: 1, Z: -2}
	c.Distance = 7

	pos := c.Position()
	d := pos.Distance(c.Center)
	if gomath.Abs(float64(d-7)) > 1e-4 {
		t.Errorf("camera distance from center: got %f, want 7", d)
	}
}

func TestOrbitCameraZoomClamps(t *testing.T) {
	c := NewOrbitCamera()

	for i := 0; i < 100; i++ {
		c.HandleZoom(10)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("zoom in should clamp to MinDistance, got %f", c.Distance)
	}

	for i := 0; i < 200; i++ {
		c.HandleZoom(-10)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("zoom out should clamp to MaxDistance, got %f", c.Distance)
	}
}

func TestOrbitCameraDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch should clamp to MaxPitch, got %f", c.RotationX)
	}

	c.HandleDrag(0, -20000)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch should clamp to MinPitch, got %f", c.RotationX)
	}
}

func TestOrbitCameraBasisOrthonormal(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationY = 0.7
	c.RotationX = 0.4

	right, up := c.Basis()
	if gomath.Abs(float64(right.Length()-1)) > 1e-4 {
		t.Errorf("right vector not unit length: %f", right.Length())
	}
	if gomath.Abs(float64(up.Length()-1)) > 1e-4 {
		t.Errorf("up vector not unit length: %f", up.Length())
	}
	if dot := right.Dot(up); gomath.Abs(float64(dot)) > 1e-4 {
		t.Errorf("right and up not orthogonal, dot = %f", dot)
	}
}

func TestFrustumSphereAtLookTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 2, Y: 0, Z: 1}
	c.Distance = 10

	proj := math.Perspective(gomath.Pi/4, 16.0/9.0, 0.1, 100)
	frustum := ExtractFrustum(proj.Mul(c.ViewMatrix()))

	// The look-at target with a modest radius is always visible.
	if !frustum.ContainsSphere(c.Center, 1) {
		t.Error("sphere at look-at target should be inside the frustum")
	}
}

func TestFrustumRejectsFarSphere(t *testing.T) {
	c := NewOrbitCamera()
	proj := math.Perspective(gomath.Pi/4, 16.0/9.0, 0.1, 100)
	frustum := ExtractFrustum(proj.Mul(c.ViewMatrix()))

	// Well beyond the far plane on every axis.
	if frustum.ContainsSphere(math.Vec3{X: 5000, Y: 5000, Z: 5000}, 1) {
		t.Error("distant sphere should be outside the frustum")
	}
}

func TestFrustumSphereStraddlingPlane(t *testing.T) {
	proj := math.Perspective(gomath.Pi/4, 1, 0.1, 100)
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	frustum := ExtractFrustum(proj.Mul(view))

	// Center behind the near plane but radius crossing it: still visible.
	if !frustum.ContainsSphere(math.Vec3{Z: 10}, 1) {
		t.Error("sphere straddling the near plane should be treated as visible")
	}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	proj := math.Perspective(gomath.Pi/3, 2, 0.5, 50)
	view := math.LookAt(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{}, math.Vec3{Y: 1})
	frustum := ExtractFrustum(proj.Mul(view))

	for i, p := range frustum.Planes {
		if gomath.Abs(float64(p.Normal.Length()-1)) > 1e-4 {
			t.Errorf("plane %d normal not unit length: %f", i, p.Normal.Length())
		}
	}
}
