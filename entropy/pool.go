// Package entropy accumulates timing jitter and device identity bits into a
// pool used to seed the node's pseudo-random generator.
package entropy

import (
	"math/bits"
	"sync/atomic"
)

// Counter is a free-running hardware counter whose low bits jitter with
// interrupt and bus timing.
type Counter interface {
	Counter() uint32
}

// Pool is the process-wide entropy accumulator.
//
// It is owned by the main loop; none of its methods are safe from
// interrupt context.
type Pool struct {
	src   Counter
	state [2]uint64
	last  uint32
	mixes atomic.Uint64
}

// New returns a pool fed by src. A nil src leaves AddEntropy a no-op.
func New(src Counter) *Pool {
	return &Pool{
		src:   src,
		state: [2]uint64{0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9},
	}
}

// AddEntropy mixes the low-order bits of the counter delta since the last
// call into the pool. Cheap and non-blocking; meant to run every loop
// iteration.
func (p *Pool) AddEntropy() {
	if p.src == nil {
		return
	}
	now := p.src.Counter()
	delta := now - p.last
	p.last = now
	p.mix(uint64(delta & 0xFF))
}

// UpdateSeed mixes a caller-supplied word into the pool.
func (p *Pool) UpdateSeed(word uint32) {
	p.mix(uint64(word))
}

// Seed returns the current pool value for seeding a generator.
func (p *Pool) Seed() uint64 {
	return p.state[0] ^ bits.RotateLeft64(p.state[1], 17)
}

// Mixes returns the number of contributions mixed so far. Safe from any
// goroutine.
func (p *Pool) Mixes() uint64 { return p.mixes.Load() }

func (p *Pool) mix(v uint64) {
	s0, s1 := p.state[0], p.state[1]
	s1 ^= v * 0xff51afd7ed558ccd
	s0 ^= s1
	s0 = bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16)
	s1 = bits.RotateLeft64(s1, 37)
	p.state[0], p.state[1] = s0, s1
	p.mixes.Add(1)
}
