package core

import "math"

// invUint32 is 1/2^32, used to map a uint32 state into [0, 1).
const invUint32 = 1.0 / 4294967296.0

// RNG is a per-thread xorshift32 generator. A zero seed is remapped to a
// fixed nonzero constant since xorshift32 never leaves the all-zero state.
// Statistical independence across goroutines is guaranteed by construction:
// callers seed each worker from a disjoint domain (pixel index for PT,
// round*threads+tid for the photon pass; see pkg/render/scheduler.go).
type RNG struct {
	state uint32
}

// NewRNG creates an xorshift32 generator from the given seed.
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = 233
	}
	return &RNG{state: seed}
}

// Float64 returns the next pseudo-random value in [0, 1).
func (r *RNG) Float64() float64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return float64(x) * invUint32
}

// TentFilter draws from the teacher's triangular pixel-reconstruction
// filter: the inverse CDF of a tent distribution on (-1, 1), used to jitter
// sub-pixel camera-ray samples.
func (r *RNG) TentFilter() float64 {
	u := 2.0 * r.Float64()
	if u < 1.0 {
		return math.Sqrt(u) - 1.0
	}
	return 1.0 - math.Sqrt(2.0-u)
}
