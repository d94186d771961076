// Package particles simulates particle emitters and builds camera-facing
// billboard geometry for rendering. Each emitter owns one Pool; pools never
// reference entities or other pools, so emitters can be simulated in any
// order (or sharded across workers if it ever comes to that).
package particles

import (
	"sort"

	"github.com/openreality/goplayer/pkg/math"
)

// VertsPerParticle is the billboard vertex count (two triangles).
const VertsPerParticle = 6

// FloatsPerVertex is the interleaved vertex layout size: position (3),
// uv (2), rgba (4).
const FloatsPerVertex = 9

// gravity is world-space gravitational acceleration, scaled per emitter by
// Config.GravityModifier.
var gravity = math.Vec3{X: 0, Y: -9.81, Z: 0}

// Config tunes one particle emitter.
type Config struct {
	MaxParticles int
	EmissionRate float32
	// BurstCount requests an immediate one-shot emission. It is consumed
	// (reset to zero) by the next Update.
	BurstCount int

	LifetimeMin float32
	LifetimeMax float32
	VelocityMin math.Vec3
	VelocityMax math.Vec3

	GravityModifier float32
	Damping         float32

	StartSizeMin float32
	StartSizeMax float32
	EndSize      float32

	StartColor [3]float32
	EndColor   [3]float32
	StartAlpha float32
	EndAlpha   float32

	// Additive selects additive blending in the renderer; the simulation
	// itself only carries it through.
	Additive bool
}

// DefaultConfig returns emitter defaults matching the reference player.
func DefaultConfig() Config {
	return Config{
		MaxParticles:    256,
		EmissionRate:    20.0,
		BurstCount:      0,
		LifetimeMin:     1.0,
		LifetimeMax:     2.0,
		VelocityMin:     math.Vec3{X: -0.5, Y: 1.0, Z: -0.5},
		VelocityMax:     math.Vec3{X: 0.5, Y: 3.0, Z: 0.5},
		GravityModifier: 1.0,
		Damping:         0.0,
		StartSizeMin:    0.1,
		StartSizeMax:    0.3,
		EndSize:         0.0,
		StartColor:      [3]float32{1, 1, 1},
		EndColor:        [3]float32{1, 1, 1},
		StartAlpha:      1.0,
		EndAlpha:        0.0,
		Additive:        false,
	}
}

// particle is one pool slot. Slots are owned exclusively by the pool and
// recycled in place; dead slots stay allocated.
type particle struct {
	position    math.Vec3
	velocity    math.Vec3
	lifetime    float32
	maxLifetime float32
	size        float32
	alive       bool
}

// Pool holds the particle slots and derived vertex buffer for one emitter.
type Pool struct {
	particles       []particle
	emitAccumulator float32

	// VertexData is the flat billboard buffer: VertsPerParticle vertices of
	// FloatsPerVertex floats per alive particle. Read-only for the renderer
	// until the next Update overwrites it.
	VertexData  []float32
	VertexCount int
	AliveCount  int

	rand rng
}

// NewPool creates a pool with the given capacity. The seed makes particle
// randomization reproducible per pool; pass 0 for the default seed.
func NewPool(maxParticles int, seed uint32) *Pool {
	return &Pool{
		particles:  make([]particle, maxParticles),
		VertexData: make([]float32, maxParticles*VertsPerParticle*FloatsPerVertex),
		rand:       newRNG(seed),
	}
}

// Resize adjusts pool capacity if the config's MaxParticles changed.
// Growing adds dead slots; shrinking truncates.
func (p *Pool) Resize(maxParticles int) {
	if len(p.particles) == maxParticles || maxParticles < 0 {
		return
	}
	if maxParticles < len(p.particles) {
		p.particles = p.particles[:maxParticles]
	} else {
		p.particles = append(p.particles, make([]particle, maxParticles-len(p.particles))...)
	}
	p.VertexData = make([]float32, maxParticles*VertsPerParticle*FloatsPerVertex)
}

// Capacity returns the number of particle slots.
func (p *Pool) Capacity() int {
	return len(p.particles)
}

// emit spawns one particle in the first dead slot.
// Returns false if the pool is full.
func (p *Pool) emit(origin math.Vec3, cfg *Config) bool {
	for i := range p.particles {
		pt := &p.particles[i]
		if pt.alive {
			continue
		}
		pt.position = origin
		pt.velocity = math.Vec3{
			X: p.rand.rangeF(cfg.VelocityMin.X, cfg.VelocityMax.X),
			Y: p.rand.rangeF(cfg.VelocityMin.Y, cfg.VelocityMax.Y),
			Z: p.rand.rangeF(cfg.VelocityMin.Z, cfg.VelocityMax.Z),
		}
		pt.maxLifetime = p.rand.rangeF(cfg.LifetimeMin, cfg.LifetimeMax)
		pt.lifetime = pt.maxLifetime
		pt.size = p.rand.rangeF(cfg.StartSizeMin, cfg.StartSizeMax)
		pt.alive = true
		return true
	}
	return false
}

// simulate integrates all alive particles and counts survivors.
func (p *Pool) simulate(dt, gravityModifier, damping float32) {
	alive := 0
	for i := range p.particles {
		pt := &p.particles[i]
		if !pt.alive {
			continue
		}
		pt.lifetime -= dt
		if pt.lifetime <= 0 {
			pt.alive = false
			continue
		}
		pt.velocity = pt.velocity.Add(gravity.Scale(gravityModifier * dt))
		pt.velocity = pt.velocity.Scale(1 - damping*dt)
		pt.position = pt.position.Add(pt.velocity.Scale(dt))
		alive++
	}
	p.AliveCount = alive
}

// sortBackToFront partitions alive particles to the front of the slot array
// and sorts that prefix farthest-first from the camera so alpha blending
// composites correctly.
func (p *Pool) sortBackToFront(camPos math.Vec3) {
	write := 0
	for i := range p.particles {
		if p.particles[i].alive {
			if i != write {
				p.particles[i], p.particles[write] = p.particles[write], p.particles[i]
			}
			write++
		}
	}

	aliveSlice := p.particles[:write]
	sort.Slice(aliveSlice, func(a, b int) bool {
		da := aliveSlice[a].position.Sub(camPos).LengthSq()
		db := aliveSlice[b].position.Sub(camPos).LengthSq()
		return da > db
	})
}

// buildBillboards writes two screen-facing triangles per alive particle into
// the vertex buffer, interpolating size, color, and alpha over normalized age.
func (p *Pool) buildBillboards(cfg *Config, camRight, camUp math.Vec3) {
	offset := 0
	vertCount := 0

	for i := range p.particles {
		pt := &p.particles[i]
		if !pt.alive {
			continue
		}

		t := 1 - clamp01(pt.lifetime/pt.maxLifetime)
		size := lerp(pt.size, cfg.EndSize, t)
		half := size * 0.5

		r := lerp(cfg.StartColor[0], cfg.EndColor[0], t)
		g := lerp(cfg.StartColor[1], cfg.EndColor[1], t)
		b := lerp(cfg.StartColor[2], cfg.EndColor[2], t)
		a := lerp(cfg.StartAlpha, cfg.EndAlpha, t)

		right := camRight.Scale(half)
		up := camUp.Scale(half)

		bl := pt.position.Sub(right).Sub(up)
		br := pt.position.Add(right).Sub(up)
		tr := pt.position.Add(right).Add(up)
		tl := pt.position.Sub(right).Add(up)

		corners := [VertsPerParticle]struct {
			pos  math.Vec3
			u, v float32
		}{
			{bl, 0, 0}, {br, 1, 0}, {tr, 1, 1},
			{bl, 0, 0}, {tr, 1, 1}, {tl, 0, 1},
		}

		for _, c := range corners {
			if offset+FloatsPerVertex > len(p.VertexData) {
				break
			}
			p.VertexData[offset+0] = c.pos.X
			p.VertexData[offset+1] = c.pos.Y
			p.VertexData[offset+2] = c.pos.Z
			p.VertexData[offset+3] = c.u
			p.VertexData[offset+4] = c.v
			p.VertexData[offset+5] = r
			p.VertexData[offset+6] = g
			p.VertexData[offset+7] = b
			p.VertexData[offset+8] = a
			offset += FloatsPerVertex
			vertCount++
		}
	}
	p.VertexCount = vertCount
}

// Update runs one full emitter tick: resize, burst and continuous emission,
// integration, depth sort, and billboard rebuild. cfg.BurstCount is consumed.
// A full pool silently stops emitting; that is budget exhaustion, not an
// error.
func (p *Pool) Update(dt float32, origin math.Vec3, cfg *Config, camPos, camRight, camUp math.Vec3) {
	p.Resize(cfg.MaxParticles)

	if cfg.BurstCount > 0 {
		for i := 0; i < cfg.BurstCount; i++ {
			if !p.emit(origin, cfg) {
				break
			}
		}
		cfg.BurstCount = 0
	}

	p.emitAccumulator += cfg.EmissionRate * dt
	for p.emitAccumulator >= 1 {
		if !p.emit(origin, cfg) {
			break
		}
		p.emitAccumulator--
	}

	p.simulate(dt, cfg.GravityModifier, cfg.Damping)
	p.sortBackToFront(camPos)
	p.buildBillboards(cfg, camRight, camUp)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
