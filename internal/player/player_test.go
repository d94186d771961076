package player

import (
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/sim"
	"github.com/openreality/goplayer/pkg/math"
)

// checkSceneIntegrity verifies the structural invariants every loaded scene
// must satisfy before the simulation may touch it.
func checkSceneIntegrity(t *testing.T, s *scene.Scene) {
	t.Helper()

	for i := range s.Entities {
		e := &s.Entities[i]
		if e.ParentIndex >= i {
			t.Errorf("entity %d: parent %d not earlier in depth-first order", i, e.ParentIndex)
		}
		if e.MeshIndex >= len(s.Meshes) {
			t.Errorf("entity %d: mesh index %d out of range", i, e.MeshIndex)
		}
		if e.MaterialIndex >= len(s.Materials) {
			t.Errorf("entity %d: material index %d out of range", i, e.MaterialIndex)
		}
	}

	for i := range s.Skeletons {
		skel := &s.Skeletons[i]
		if len(skel.BoneEntityIndices) != len(skel.InverseBindMatrices) {
			t.Errorf("skeleton %d: %d bones but %d inverse binds",
				i, len(skel.BoneEntityIndices), len(skel.InverseBindMatrices))
		}
	}

	for i := range s.Animations {
		for _, clip := range s.Animations[i].Clips {
			for c, ch := range clip.Channels {
				if ch.TargetEntity < 0 || ch.TargetEntity >= len(s.Entities) {
					t.Errorf("clip %q channel %d: target entity %d out of range", clip.Name, c, ch.TargetEntity)
				}
				if n := len(ch.Times); n > 0 && ch.Times[n-1] > clip.Duration {
					t.Errorf("clip %q channel %d: keys extend past duration", clip.Name, c)
				}
			}
		}
	}

	for i := range s.Emitters {
		if idx := s.Emitters[i].EntityIndex; idx < 0 || idx >= len(s.Entities) {
			t.Errorf("emitter %d: entity index %d out of range", i, idx)
		}
	}
}

func TestDemoSceneIntegrity(t *testing.T) {
	s := DemoScene()
	checkSceneIntegrity(t, s)

	if len(s.Emitters) != 2 {
		t.Errorf("demo scene should have 2 emitters, got %d", len(s.Emitters))
	}
	if len(s.Skeletons) != 1 {
		t.Errorf("demo scene should have 1 skeleton, got %d", len(s.Skeletons))
	}
	if len(s.DirLights) == 0 || len(s.PointLights) == 0 {
		t.Error("demo scene should carry lights")
	}
}

func TestDemoSceneBindPoseIsNeutral(t *testing.T) {
	// Before any animation, the derived inverse binds must cancel the rest
	// pose exactly: every bone matrix is identity.
	s := DemoScene()
	s.Animations[0].Playing = false

	sim.Tick(s, 0.016)

	for i, bone := range s.Skeletons[0].BoneMatrices {
		want := math.Identity()
		for k := 0; k < 16; k++ {
			if gomath.Abs(float64(bone[k]-want[k])) > 1e-4 {
				t.Fatalf("bone %d not identity in bind pose, element %d = %f", i, k, bone[k])
			}
		}
	}
}

func TestDemoSceneSimulates(t *testing.T) {
	s := DemoScene()
	for i := range s.Emitters {
		em := &s.Emitters[i]
		em.Pool = particles.NewPool(em.Config.MaxParticles, uint32(i)+1)
	}

	frame := sim.Frame{
		DT:        0.016,
		CameraPos: math.Vec3{Z: 10},
		CamRight:  math.Vec3{X: 1},
		CamUp:     math.Vec3{Y: 1},
	}
	for i := 0; i < 120; i++ {
		sim.Step(s, frame)
	}

	if s.Emitters[0].Pool.AliveCount == 0 {
		t.Error("fountain should have alive particles after 2 simulated seconds")
	}

	// The orbiter moved off its spawn transform.
	orbiter := s.Entities[2].World
	if orbiter[12] == 3 && orbiter[14] == 0 {
		t.Error("orbiting cube did not move")
	}
}

func TestPrimitiveMeshes(t *testing.T) {
	tests := []struct {
		kind string
		size float32
	}{
		{"cube", 1},
		{"plane", 10},
		{"sphere", 2},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			mesh, ok := primitiveMesh(tt.kind, tt.size)
			if !ok {
				t.Fatalf("primitive %q not recognized", tt.kind)
			}

			vertexCount := len(mesh.Positions) / 3
			if vertexCount == 0 {
				t.Fatal("empty mesh")
			}
			if len(mesh.Normals) != len(mesh.Positions) {
				t.Errorf("normals length %d != positions length %d", len(mesh.Normals), len(mesh.Positions))
			}
			if len(mesh.Indices)%3 != 0 {
				t.Errorf("index count %d not a multiple of 3", len(mesh.Indices))
			}
			for _, idx := range mesh.Indices {
				if int(idx) >= vertexCount {
					t.Fatalf("index %d out of range (%d vertices)", idx, vertexCount)
				}
			}

			// Normals are unit length
			for v := 0; v < vertexCount; v++ {
				n := math.Vec3{X: mesh.Normals[v*3], Y: mesh.Normals[v*3+1], Z: mesh.Normals[v*3+2]}
				if gomath.Abs(float64(n.Length()-1)) > 1e-4 {
					t.Fatalf("vertex %d normal not unit length: %f", v, n.Length())
				}
			}
		})
	}

	if _, ok := primitiveMesh("teapot", 1); ok {
		t.Error("unknown primitive should be rejected")
	}
}

func TestEulerToQuatYaw(t *testing.T) {
	// 90 degree yaw maps +X to -Z.
	q := eulerToQuat([3]float64{0, 90, 0})
	m := math.FromTRS(math.DVec3{}, q, math.DVec3{X: 1, Y: 1, Z: 1})
	p := m.TransformPoint(math.Vec3{X: 1})
	if gomath.Abs(float64(p.X)) > 1e-5 || gomath.Abs(float64(p.Z+1)) > 1e-5 {
		t.Errorf("yaw 90 of +X: got (%f, %f, %f), want (0, 0, -1)", p.X, p.Y, p.Z)
	}
}

const testSceneYAML = `
materials:
  - color: [0.5, 0.5, 0.5, 1.0]
    roughness: 0.8
  - color: [1.0, 0.2, 0.2, 1.0]
    roughness: 0.3

entities:
  - name: ground
    mesh: plane
    size: 10
    material: 0
  - name: pivot
    position: [0, 1, 0]
  - name: box
    parent: pivot
    position: [2, 0, 0]
    rotation: [0, 45, 0]
    mesh: cube
    size: 1
    material: 1

lights:
  directional:
    - longitude: 30
      latitude: 60
      color: [1, 1, 1]
      intensity: 2
  point:
    - position: [0, 2, 0]
      color: [1, 0.5, 0]
      intensity: 3
      range: 5

emitters:
  - entity: box
    max_particles: 64
    emission_rate: 10
    lifetime_min: 1
    lifetime_max: 2
    additive: true

animations:
  - entity: pivot
    property: rotation
    times: [0, 2, 4]
    values: [[0, 0, 0], [0, 180, 0], [0, 360, 0]]

camera:
  fov: 60
  near: 0.5
  far: 100
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing scene file: %v", err)
	}
	return path
}

func TestLoadScene(t *testing.T) {
	s, err := LoadScene(writeScene(t, testSceneYAML))
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	checkSceneIntegrity(t, s)

	if len(s.Entities) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(s.Entities))
	}
	box := &s.Entities[2]
	if box.ParentIndex != 1 {
		t.Errorf("box parent: got %d, want 1", box.ParentIndex)
	}
	if box.MeshIndex < 0 || box.MaterialIndex != 1 {
		t.Errorf("box mesh/material not resolved: %d/%d", box.MeshIndex, box.MaterialIndex)
	}
	if box.Mask&scene.MaskEmitter == 0 {
		t.Error("box should carry the emitter mask")
	}

	// Pivot has no mesh
	if s.Entities[1].MeshIndex != -1 {
		t.Error("meshless entity should have mesh index -1")
	}

	if len(s.Animations) != 1 {
		t.Fatalf("expected 1 animation state, got %d", len(s.Animations))
	}
	clip := s.Animations[0].Clips[0]
	if clip.Duration != 4 {
		t.Errorf("clip duration: got %f, want 4", clip.Duration)
	}
	if len(clip.Channels) != 1 || len(clip.Channels[0].Values) != 12 {
		t.Error("rotation channel should hold 3 quaternion keys (12 floats)")
	}

	if len(s.Emitters) != 1 || s.Emitters[0].Config.MaxParticles != 64 {
		t.Error("emitter config not applied")
	}
	if !s.Emitters[0].Config.Additive {
		t.Error("emitter blend mode not applied")
	}

	if len(s.Cameras) != 1 || s.Cameras[0].FOV != 60 {
		t.Error("camera spec not applied")
	}
}

func TestLoadSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "undeclared parent",
			yaml: `
entities:
  - name: child
    parent: missing
`,
		},
		{
			name: "forward parent reference",
			yaml: `
entities:
  - name: child
    parent: root
  - name: root
`,
		},
		{
			name: "duplicate name",
			yaml: `
entities:
  - name: a
  - name: a
`,
		},
		{
			name: "unknown primitive",
			yaml: `
entities:
  - name: a
    mesh: torus
`,
		},
		{
			name: "material out of range",
			yaml: `
entities:
  - name: a
    mesh: cube
    material: 3
`,
		},
		{
			name: "unknown emitter entity",
			yaml: `
emitters:
  - entity: ghost
`,
		},
		{
			name: "times values mismatch",
			yaml: `
entities:
  - name: a
animations:
  - entity: a
    property: position
    times: [0, 1]
    values: [[0, 0, 0]]
`,
		},
		{
			name: "unknown property",
			yaml: `
entities:
  - name: a
animations:
  - entity: a
    property: opacity
    times: [0]
    values: [[0, 0, 0]]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScene(writeScene(t, tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	if _, err := LoadScene("/nonexistent/scene.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
