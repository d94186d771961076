package player

import (
	"fmt"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openreality/goplayer/internal/engine/lighting"
	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/internal/engine/scene"
	"github.com/openreality/goplayer/pkg/math"
)

// sceneFile is the YAML scene description. Entities reference each other by
// name; parents must be declared before their children so the loaded scene
// keeps depth-first order.
type sceneFile struct {
	Materials  []materialSpec  `yaml:"materials"`
	Entities   []entitySpec    `yaml:"entities"`
	Lights     lightsSpec      `yaml:"lights"`
	Emitters   []emitterSpec   `yaml:"emitters"`
	Animations []animationSpec `yaml:"animations"`
	Camera     *cameraSpec     `yaml:"camera"`
}

type materialSpec struct {
	Color     [4]float32 `yaml:"color"`
	Metallic  float32    `yaml:"metallic"`
	Roughness float32    `yaml:"roughness"`
	Opacity   float32    `yaml:"opacity"`
	Emissive  [3]float32 `yaml:"emissive"`
}

type entitySpec struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"` // empty for roots
	Position [3]float64  `yaml:"position"`
	Rotation [3]float64  `yaml:"rotation"` // Euler degrees, applied yaw-pitch-roll
	Scale    *[3]float64 `yaml:"scale"`
	Mesh     string      `yaml:"mesh"` // primitive name: cube, plane, sphere
	Size     float32     `yaml:"size"`
	Material int         `yaml:"material"`
}

type lightsSpec struct {
	Directional []dirLightSpec   `yaml:"directional"`
	Point       []pointLightSpec `yaml:"point"`
}

type dirLightSpec struct {
	Longitude float32    `yaml:"longitude"`
	Latitude  float32    `yaml:"latitude"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

type pointLightSpec struct {
	Position  [3]float32 `yaml:"position"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Range     float32    `yaml:"range"`
}

type emitterSpec struct {
	Entity          string     `yaml:"entity"`
	MaxParticles    int        `yaml:"max_particles"`
	EmissionRate    float32    `yaml:"emission_rate"`
	Burst           int        `yaml:"burst"`
	LifetimeMin     float32    `yaml:"lifetime_min"`
	LifetimeMax     float32    `yaml:"lifetime_max"`
	VelocityMin     [3]float32 `yaml:"velocity_min"`
	VelocityMax     [3]float32 `yaml:"velocity_max"`
	GravityModifier float32    `yaml:"gravity_modifier"`
	Damping         float32    `yaml:"damping"`
	StartSizeMin    float32    `yaml:"start_size_min"`
	StartSizeMax    float32    `yaml:"start_size_max"`
	EndSize         float32    `yaml:"end_size"`
	StartColor      [3]float32 `yaml:"start_color"`
	EndColor        [3]float32 `yaml:"end_color"`
	StartAlpha      float32    `yaml:"start_alpha"`
	EndAlpha        float32    `yaml:"end_alpha"`
	Additive        bool       `yaml:"additive"`
}

type animationSpec struct {
	Entity        string    `yaml:"entity"`
	Property      string    `yaml:"property"`      // position, rotation, scale
	Interpolation string    `yaml:"interpolation"` // step, linear, cubic
	Times         []float32 `yaml:"times"`
	// Values holds one triplet per key: positions and scales directly,
	// rotations as Euler degrees.
	Values [][3]float64 `yaml:"values"`
}

type cameraSpec struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// LoadScene reads a YAML scene description from disk and builds the runtime
// scene. Emitter pools are not allocated here; the player attaches them with
// its configured seed.
func LoadScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return buildScene(&file)
}

func buildScene(file *sceneFile) (*scene.Scene, error) {
	s := &scene.Scene{}

	for _, m := range file.Materials {
		opacity := m.Opacity
		if opacity == 0 {
			opacity = 1
		}
		s.Materials = append(s.Materials, scene.MaterialInfo{
			Color:     m.Color,
			Metallic:  m.Metallic,
			Roughness: m.Roughness,
			Opacity:   opacity,
			Emissive:  m.Emissive,
		})
	}

	nameToIndex := make(map[string]int, len(file.Entities))
	for i, e := range file.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d: missing name", i)
		}
		if _, dup := nameToIndex[e.Name]; dup {
			return nil, fmt.Errorf("entity %q: duplicate name", e.Name)
		}

		parent := -1
		if e.Parent != "" {
			p, ok := nameToIndex[e.Parent]
			if !ok {
				return nil, fmt.Errorf("entity %q: parent %q not declared before it", e.Name, e.Parent)
			}
			parent = p
		}

		meshIndex := -1
		mask := scene.ComponentMask(0)
		if e.Mesh != "" {
			mesh, ok := primitiveMesh(e.Mesh, e.Size)
			if !ok {
				return nil, fmt.Errorf("entity %q: unknown mesh primitive %q", e.Name, e.Mesh)
			}
			meshIndex = len(s.Meshes)
			s.Meshes = append(s.Meshes, mesh)
			mask |= scene.MaskMesh
		}

		materialIndex := -1
		if meshIndex >= 0 {
			if e.Material < 0 || e.Material >= len(s.Materials) {
				return nil, fmt.Errorf("entity %q: material %d out of range", e.Name, e.Material)
			}
			materialIndex = e.Material
		}

		t := scene.DefaultTransform()
		t.Position = math.DVec3{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]}
		t.Rotation = eulerToQuat(e.Rotation)
		if e.Scale != nil {
			t.Scale = math.DVec3{X: e.Scale[0], Y: e.Scale[1], Z: e.Scale[2]}
		}

		nameToIndex[e.Name] = len(s.Entities)
		s.Entities = append(s.Entities, scene.Entity{
			ID:            uint64(len(s.Entities) + 1),
			ParentIndex:   parent,
			Transform:     t,
			MeshIndex:     meshIndex,
			MaterialIndex: materialIndex,
			Mask:          mask,
		})
	}

	for _, l := range file.Lights.Directional {
		s.DirLights = append(s.DirLights, scene.DirLight{
			Direction: lighting.SunDirection(l.Longitude, l.Latitude),
			Color:     l.Color,
			Intensity: l.Intensity,
		})
	}
	for _, l := range file.Lights.Point {
		s.PointLights = append(s.PointLights, scene.PointLight{
			Position:  l.Position,
			Color:     l.Color,
			Intensity: l.Intensity,
			Range:     l.Range,
		})
	}

	for _, em := range file.Emitters {
		idx, ok := nameToIndex[em.Entity]
		if !ok {
			return nil, fmt.Errorf("emitter: unknown entity %q", em.Entity)
		}
		s.Entities[idx].Mask |= scene.MaskEmitter
		s.Emitters = append(s.Emitters, scene.Emitter{
			EntityIndex: idx,
			Config:      emitterConfig(&em),
		})
	}

	if len(file.Animations) > 0 {
		clip, err := buildClip(file.Animations, nameToIndex)
		if err != nil {
			return nil, err
		}
		s.Animations = []scene.AnimationState{{
			Clips:      []scene.AnimationClip{clip},
			ActiveClip: 0,
			Playing:    true,
			Looping:    true,
			Speed:      1,
		}}
	}

	if file.Camera != nil {
		s.Cameras = []scene.Camera{{
			FOV:  file.Camera.FOV,
			Near: file.Camera.Near,
			Far:  file.Camera.Far,
		}}
	}

	return s, nil
}

func emitterConfig(em *emitterSpec) particles.Config {
	cfg := particles.DefaultConfig()
	if em.MaxParticles > 0 {
		cfg.MaxParticles = em.MaxParticles
	}
	cfg.EmissionRate = em.EmissionRate
	cfg.BurstCount = em.Burst
	if em.LifetimeMax > 0 {
		cfg.LifetimeMin = em.LifetimeMin
		cfg.LifetimeMax = em.LifetimeMax
	}
	cfg.VelocityMin = math.Vec3{X: em.VelocityMin[0], Y: em.VelocityMin[1], Z: em.VelocityMin[2]}
	cfg.VelocityMax = math.Vec3{X: em.VelocityMax[0], Y: em.VelocityMax[1], Z: em.VelocityMax[2]}
	cfg.GravityModifier = em.GravityModifier
	cfg.Damping = em.Damping
	if em.StartSizeMax > 0 {
		cfg.StartSizeMin = em.StartSizeMin
		cfg.StartSizeMax = em.StartSizeMax
	}
	cfg.EndSize = em.EndSize
	cfg.StartColor = em.StartColor
	cfg.EndColor = em.EndColor
	cfg.StartAlpha = em.StartAlpha
	cfg.EndAlpha = em.EndAlpha
	cfg.Additive = em.Additive
	return cfg
}

// buildClip folds all animation specs into a single clip whose duration is
// the latest keyframe time.
func buildClip(specs []animationSpec, nameToIndex map[string]int) (scene.AnimationClip, error) {
	clip := scene.AnimationClip{Name: "scene"}

	for _, a := range specs {
		idx, ok := nameToIndex[a.Entity]
		if !ok {
			return clip, fmt.Errorf("animation: unknown entity %q", a.Entity)
		}
		if len(a.Times) != len(a.Values) {
			return clip, fmt.Errorf("animation for %q: %d times but %d values", a.Entity, len(a.Times), len(a.Values))
		}

		var target scene.TargetProperty
		switch a.Property {
		case "position":
			target = scene.TargetPosition
		case "rotation":
			target = scene.TargetRotation
		case "scale":
			target = scene.TargetScale
		default:
			return clip, fmt.Errorf("animation for %q: unknown property %q", a.Entity, a.Property)
		}

		interp := scene.InterpLinear
		switch a.Interpolation {
		case "", "linear":
		case "step":
			interp = scene.InterpStep
		case "cubic":
			interp = scene.InterpCubicSpline
		default:
			return clip, fmt.Errorf("animation for %q: unknown interpolation %q", a.Entity, a.Interpolation)
		}

		ch := scene.AnimationChannel{
			TargetEntity:  idx,
			Target:        target,
			Interpolation: interp,
			Times:         a.Times,
		}
		for _, v := range a.Values {
			if target == scene.TargetRotation {
				q := eulerToQuat(v)
				ch.Values = append(ch.Values, q.W, q.X, q.Y, q.Z)
			} else {
				ch.Values = append(ch.Values, v[0], v[1], v[2])
			}
		}
		clip.Channels = append(clip.Channels, ch)

		if n := len(a.Times); n > 0 && a.Times[n-1] > clip.Duration {
			clip.Duration = a.Times[n-1]
		}
	}
	return clip, nil
}

// eulerToQuat converts Euler angles in degrees to a quaternion, applying
// yaw (Y), then pitch (X), then roll (Z).
func eulerToQuat(deg [3]float64) math.DQuat {
	rad := func(d float64) float64 { return d * gomath.Pi / 180 }
	yaw := math.DQuatFromAxisAngle(math.DVec3{Y: 1}, rad(deg[1]))
	pitch := math.DQuatFromAxisAngle(math.DVec3{X: 1}, rad(deg[0]))
	roll := math.DQuatFromAxisAngle(math.DVec3{Z: 1}, rad(deg[2]))
	return yaw.Mul(pitch).Mul(roll).Normalize()
}
