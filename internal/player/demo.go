package player

import (
	gomath "math"

	"github.com/openreality/goplayer/internal/engine/lighting"
	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/internal/engine/transform"
	"github.com/openreality/goplayer/pkg/math"
)

// DemoScene builds the built-in showcase scene: a ground plane, a cube
// orbiting an animated pivot, a three-bone swaying chain, a spark fountain,
// and a smoke column. It exercises every simulation stage without needing a
// scene file on disk.
func DemoScene() *scene.Scene {
	s := &scene.Scene{}

	// Meshes: ground, orbiter, chain links, emitter markers.
	s.Meshes = []scene.MeshData{
		planeMesh(20),
		cubeMesh(1),
		cubeMesh(0.5),
		sphereMesh(0.4, 16, 24),
	}
	// Materials: ground, orbiter, chain, emitter markers.
	s.Materials = []scene.MaterialInfo{
		{Color: [4]float32{0.35, 0.37, 0.4, 1}, Roughness: 0.9, Opacity: 1},
		{Color: [4]float32{0.8, 0.3, 0.2, 1}, Roughness: 0.4, Opacity: 1},
		{Color: [4]float32{0.2, 0.5, 0.8, 1}, Roughness: 0.3, Opacity: 1, Metallic: 0.6},
		{Color: [4]float32{0.9, 0.85, 0.4, 1}, Roughness: 0.5, Opacity: 1, Emissive: [3]float32{0.3, 0.25, 0.05}},
	}

	addEntity := func(parent int, pos math.DVec3, mesh, material int, mask scene.ComponentMask) int {
		idx := len(s.Entities)
		t := scene.DefaultTransform()
		t.Position = pos
		s.Entities = append(s.Entities, scene.Entity{
			ID:            uint64(idx + 1),
			ParentIndex:   parent,
			Transform:     t,
			MeshIndex:     mesh,
			MaterialIndex: material,
			Mask:          mask,
		})
		return idx
	}

	addEntity(-1, math.DVec3{}, 0, 0, scene.MaskMesh)

	// Orbiting cube: a hidden pivot rotates, the cube hangs off it.
	pivot := addEntity(-1, math.DVec3{Y: 1.5}, -1, -1, 0)
	addEntity(pivot, math.DVec3{X: 3}, 1, 1, scene.MaskMesh)

	// Swaying chain: three bone entities under a skinned root.
	chainRoot := addEntity(-1, math.DVec3{X: -3, Y: 0}, -1, -1, scene.MaskSkeleton)
	bone0 := addEntity(chainRoot, math.DVec3{Y: 1}, 2, 2, scene.MaskMesh)
	bone1 := addEntity(bone0, math.DVec3{Y: 1}, 2, 2, scene.MaskMesh)
	bone2 := addEntity(bone1, math.DVec3{Y: 1}, 2, 2, scene.MaskMesh)

	// Emitter anchors.
	fountain := addEntity(-1, math.DVec3{X: 3, Z: -3, Y: 0.4}, 3, 3, scene.MaskMesh|scene.MaskEmitter)
	smoke := addEntity(-1, math.DVec3{X: -3, Z: -3, Y: 0.4}, 3, 3, scene.MaskMesh|scene.MaskEmitter)

	s.Animations = []scene.AnimationState{{
		Clips:      []scene.AnimationClip{demoClip(pivot, bone0, bone1, bone2)},
		ActiveClip: 0,
		Playing:    true,
		Looping:    true,
		Speed:      1,
	}}

	// Bind pose is the authored rest pose: resolve it once, then derive the
	// inverse bind matrices from the mesh-relative bone transforms.
	transform.Resolve(s)
	skel := scene.SkeletonData{
		EntityIndex:       chainRoot,
		BoneEntityIndices: []int{bone0, bone1, bone2},
	}
	invMeshWorld := s.Entities[chainRoot].World.Inverse()
	for _, b := range skel.BoneEntityIndices {
		bind := invMeshWorld.Mul(s.Entities[b].World)
		skel.InverseBindMatrices = append(skel.InverseBindMatrices, bind.Inverse())
	}
	s.Skeletons = []scene.SkeletonData{skel}

	s.Emitters = []scene.Emitter{
		{EntityIndex: fountain, Config: fountainConfig()},
		{EntityIndex: smoke, Config: smokeConfig()},
	}

	s.DirLights = []scene.DirLight{{
		Direction: lighting.SunDirection(40, 55),
		Color:     [3]float32{1, 0.96, 0.9},
		Intensity: 2.5,
	}}
	s.PointLights = []scene.PointLight{
		{Position: [3]float32{3, 1.5, -3}, Color: [3]float32{1, 0.6, 0.2}, Intensity: 3, Range: 6},
		{Position: [3]float32{-3, 2, -3}, Color: [3]float32{0.3, 0.5, 1}, Intensity: 2, Range: 8},
	}
	s.Cameras = []scene.Camera{{FOV: 45, Near: 0.1, Far: 200, Aspect: 16.0 / 9.0}}

	return s
}

// demoClip animates the orbit pivot's yaw and the chain's sway over an
// 8-second loop.
func demoClip(pivot, bone0, bone1, bone2 int) scene.AnimationClip {
	yAxis := math.DVec3{Y: 1}
	zAxis := math.DVec3{Z: 1}

	// Full pivot revolution in four quarter-turn keys to keep slerp arcs
	// under 180 degrees.
	spinTimes := []float32{0, 2, 4, 6, 8}
	var spinValues []float64
	for i := range spinTimes {
		q := math.DQuatFromAxisAngle(yAxis, float64(i)*gomath.Pi/2)
		spinValues = append(spinValues, q.W, q.X, q.Y, q.Z)
	}

	swayChannel := func(target int, amplitude, phase float64) scene.AnimationChannel {
		times := []float32{0, 2, 4, 6, 8}
		var values []float64
		for i := range times {
			angle := amplitude * gomath.Sin(float64(i)*gomath.Pi/2+phase)
			q := math.DQuatFromAxisAngle(zAxis, angle)
			values = append(values, q.W, q.X, q.Y, q.Z)
		}
		return scene.AnimationChannel{
			TargetEntity:  target,
			Target:        scene.TargetRotation,
			Interpolation: scene.InterpLinear,
			Times:         times,
			Values:        values,
		}
	}

	return scene.AnimationClip{
		Name:     "showcase",
		Duration: 8,
		Channels: []scene.AnimationChannel{
			{
				TargetEntity:  pivot,
				Target:        scene.TargetRotation,
				Interpolation: scene.InterpLinear,
				Times:         spinTimes,
				Values:        spinValues,
			},
			swayChannel(bone0, 0.3, 0),
			swayChannel(bone1, 0.4, 0.7),
			swayChannel(bone2, 0.5, 1.4),
		},
	}
}

func fountainConfig() particles.Config {
	cfg := particles.DefaultConfig()
	cfg.MaxParticles = 512
	cfg.EmissionRate = 120
	cfg.LifetimeMin = 0.8
	cfg.LifetimeMax = 1.6
	cfg.VelocityMin = math.Vec3{X: -0.8, Y: 3.5, Z: -0.8}
	cfg.VelocityMax = math.Vec3{X: 0.8, Y: 5.5, Z: 0.8}
	cfg.GravityModifier = 1
	cfg.Damping = 0.1
	cfg.StartSizeMin = 0.05
	cfg.StartSizeMax = 0.12
	cfg.EndSize = 0.01
	cfg.StartColor = [3]float32{1, 0.8, 0.3}
	cfg.EndColor = [3]float32{1, 0.2, 0.05}
	cfg.StartAlpha = 1
	cfg.EndAlpha = 0
	cfg.Additive = true
	return cfg
}

func smokeConfig() particles.Config {
	cfg := particles.DefaultConfig()
	cfg.MaxParticles = 256
	cfg.EmissionRate = 25
	cfg.LifetimeMin = 2
	cfg.LifetimeMax = 4
	cfg.VelocityMin = math.Vec3{X: -0.2, Y: 0.6, Z: -0.2}
	cfg.VelocityMax = math.Vec3{X: 0.2, Y: 1.2, Z: 0.2}
	// Buoyant: drifts up against gravity
	cfg.GravityModifier = -0.05
	cfg.Damping = 0.3
	cfg.StartSizeMin = 0.2
	cfg.StartSizeMax = 0.4
	cfg.EndSize = 1.2
	cfg.StartColor = [3]float32{0.5, 0.5, 0.55}
	cfg.EndColor = [3]float32{0.25, 0.25, 0.3}
	cfg.StartAlpha = 0.6
	cfg.EndAlpha = 0
	cfg.Additive = false
	return cfg
}
