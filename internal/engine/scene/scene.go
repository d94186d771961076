// Package scene holds the mutable per-frame simulation state of a loaded
// scene: the entity hierarchy, transform states, animation playback, skeleton
// data, and particle emitters. It is plain data: the animation, transform,
// skinning, and particles packages operate on it in place, orchestrated once
// per frame by the sim package.
//
// Entities are stored in depth-first order with parents before children, and
// all references between records are indices into flat arrays. Out-of-range
// indices are tolerated at every use site: a malformed record degrades to a
// visual glitch, never a crash of the frame loop.
package scene

import (
	"github.com/openreality/goplayer/internal/engine/particles"
	"github.com/openreality/goplayer/pkg/math"
)

// TargetProperty identifies which transform component an animation channel
// drives.
type TargetProperty uint8

const (
	TargetPosition TargetProperty = iota
	TargetRotation
	TargetScale
)

// InterpolationMode selects how keyframe values are blended.
type InterpolationMode uint8

const (
	InterpStep InterpolationMode = iota
	InterpLinear
	// InterpCubicSpline is accepted from assets but evaluated as linear;
	// tangent data is ignored.
	InterpCubicSpline
)

// ComponentMask flags which optional components an entity carries.
type ComponentMask uint32

const (
	MaskMesh ComponentMask = 1 << iota
	MaskSkeleton
	MaskEmitter
	MaskLight
	MaskCamera
)

// TransformState is the mutable local transform of an entity. Position and
// scale are double precision so repeated animation writes stay accurate over
// large scenes; the world matrix is composed at single precision.
type TransformState struct {
	Position math.DVec3
	Rotation math.DQuat // unit quaternion at all observation points
	Scale    math.DVec3
	// Dirty is set when animation writes to this state and cleared when the
	// transform resolver consumes it.
	Dirty bool
}

// DefaultTransform returns an identity transform state.
func DefaultTransform() TransformState {
	return TransformState{
		Rotation: math.DQuatIdentity(),
		Scale:    math.DVec3{X: 1, Y: 1, Z: 1},
		Dirty:    true,
	}
}

// Entity is one node of the scene hierarchy.
type Entity struct {
	ID uint64
	// ParentIndex refers to an earlier entity in the array, or -1 for roots.
	// DFS storage order guarantees ParentIndex < own index.
	ParentIndex int
	Transform   TransformState
	// World is the cached world-space matrix, rewritten every tick by the
	// transform resolver.
	World math.Mat4

	MeshIndex     int // -1 if the entity has no mesh
	MaterialIndex int // -1 if the entity has no material
	Mask          ComponentMask
}

// HasParent reports whether the entity has a valid parent reference.
func (e *Entity) HasParent() bool {
	return e.ParentIndex >= 0
}

// WorldPosition returns the translation column of the cached world matrix.
func (e *Entity) WorldPosition() math.Vec3 {
	return math.Vec3{X: e.World[12], Y: e.World[13], Z: e.World[14]}
}

// AnimationChannel animates one property of one entity.
type AnimationChannel struct {
	TargetEntity  int
	Target        TargetProperty
	Interpolation InterpolationMode
	// Times is a strictly increasing keyframe time sequence in seconds.
	Times []float32
	// Values is a flat buffer: 3 float64 per key for position/scale, 4 for
	// rotation in (w, x, y, z) order.
	Values []float64
}

// AnimationClip is a named set of channels with a common duration.
type AnimationClip struct {
	Name     string
	Duration float32
	Channels []AnimationChannel
}

// AnimationState is the playback state for one animated entity.
type AnimationState struct {
	Clips       []AnimationClip
	ActiveClip  int // index into Clips, or -1 for none
	CurrentTime float32
	Playing     bool
	Looping     bool
	Speed       float32
}

// SkeletonData binds a skinned mesh entity to its bone entities.
// BoneEntityIndices, InverseBindMatrices, and BoneMatrices correspond 1:1 by
// position. BoneMatrices is resized, never reordered, when the bone count
// changes.
type SkeletonData struct {
	// EntityIndex is the entity owning the skinned mesh.
	EntityIndex         int
	BoneEntityIndices   []int
	InverseBindMatrices []math.Mat4
	// BoneMatrices is rewritten each tick by the skinning evaluator and
	// consumed by a GPU skinning shader.
	BoneMatrices []math.Mat4
}

// MeshData is parsed mesh geometry ready for GPU upload.
type MeshData struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
	// Optional skinning attributes, nil for rigid meshes.
	BoneWeights []float32
	BoneIndices []uint16
}

// MaterialInfo is parsed material data.
type MaterialInfo struct {
	Color     [4]float32
	Metallic  float32
	Roughness float32
	Opacity   float32
	Emissive  [3]float32
}

// PointLight is a positional light source.
type PointLight struct {
	Position  [3]float32
	Color     [3]float32
	Intensity float32
	Range     float32
}

// DirLight is a directional light source.
type DirLight struct {
	Direction [3]float32
	Color     [3]float32
	Intensity float32
}

// Camera holds projection parameters authored into the scene.
type Camera struct {
	FOV    float32
	Near   float32
	Far    float32
	Aspect float32
}

// Emitter attaches a particle system to an entity. The pool's lifetime is
// bound to the emitter; emission originates at the owning entity's world
// position.
type Emitter struct {
	EntityIndex int
	Config      particles.Config
	Pool        *particles.Pool
}

// Scene is the complete loaded scene state. It is exclusively owned by the
// tick driver for the duration of one tick; the renderer reads the derived
// outputs (entity world matrices, bone matrices, particle vertex buffers)
// between ticks.
type Scene struct {
	Entities    []Entity
	Meshes      []MeshData
	Materials   []MaterialInfo
	Animations  []AnimationState
	Skeletons   []SkeletonData
	Emitters    []Emitter
	PointLights []PointLight
	DirLights   []DirLight
	Cameras     []Camera
}

// NumEntities returns the entity count.
func (s *Scene) NumEntities() int {
	return len(s.Entities)
}
