package player

import (
	gomath "math"

	"github.com/openreality/goplayer/internal/engine/scene"
)

// cubeMesh builds a unit cube centered at the origin with flat normals.
func cubeMesh(size float32) scene.MeshData {
	h := size / 2

	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	var mesh scene.MeshData
	for _, f := range faces {
		base := uint32(len(mesh.Positions) / 3)
		for _, c := range f.corners {
			mesh.Positions = append(mesh.Positions, c[0], c[1], c[2])
			mesh.Normals = append(mesh.Normals, f.normal[0], f.normal[1], f.normal[2])
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh
}

// planeMesh builds a flat XZ plane centered at the origin.
func planeMesh(size float32) scene.MeshData {
	h := size / 2
	return scene.MeshData{
		Positions: []float32{
			-h, 0, -h,
			h, 0, -h,
			h, 0, h,
			-h, 0, h,
		},
		Normals: []float32{
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// sphereMesh builds a UV sphere centered at the origin.
func sphereMesh(radius float32, rings, sectors int) scene.MeshData {
	if rings < 2 {
		rings = 2
	}
	if sectors < 3 {
		sectors = 3
	}

	var mesh scene.MeshData
	for r := 0; r <= rings; r++ {
		phi := gomath.Pi * float64(r) / float64(rings)
		y := float32(gomath.Cos(phi))
		ringRadius := float32(gomath.Sin(phi))
		for s := 0; s <= sectors; s++ {
			theta := 2 * gomath.Pi * float64(s) / float64(sectors)
			x := ringRadius * float32(gomath.Cos(theta))
			z := ringRadius * float32(gomath.Sin(theta))
			mesh.Positions = append(mesh.Positions, x*radius, y*radius, z*radius)
			// Unit sphere positions double as normals
			mesh.Normals = append(mesh.Normals, x, y, z)
		}
	}

	stride := uint32(sectors + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			mesh.Indices = append(mesh.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return mesh
}

// primitiveMesh maps a primitive name to its generator. Unknown names
// return false.
func primitiveMesh(kind string, size float32) (scene.MeshData, bool) {
	if size <= 0 {
		size = 1
	}
	switch kind {
	case "cube":
		return cubeMesh(size), true
	case "plane":
		return planeMesh(size), true
	case "sphere":
		return sphereMesh(size/2, 16, 24), true
	default:
		return scene.MeshData{}, false
	}
}
