package particles

// rng is a xorshift32 pseudo-random generator. Particle randomization only
// needs to be visually plausible and fast, not cryptographic. Each pool owns
// its own instance so emitters never share mutable state and can be simulated
// independently.
type rng struct {
	state uint32
}

func newRNG(seed uint32) rng {
	if seed == 0 {
		seed = 12345
	}
	return rng{state: seed}
}

// next returns a uniform float32 in [0, 1].
func (r *rng) next() float32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return float32(r.state) / float32(^uint32(0))
}

// rangeF returns a uniform float32 in [lo, hi].
func (r *rng) rangeF(lo, hi float32) float32 {
	return lo + (hi-lo)*r.next()
}
