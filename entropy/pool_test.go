package entropy

import "testing"

type fixedCounter struct {
	seq []uint32
	i   int
}

func (c *fixedCounter) Counter() uint32 {
	v := c.seq[c.i%len(c.seq)]
	c.i++
	return v
}

func TestNilSourceIsNoop(t *testing.T) {
	p := New(nil)
	before := p.Seed()
	p.AddEntropy()
	if p.Seed() != before || p.Mixes() != 0 {
		t.Fatalf("AddEntropy() with nil source changed the pool")
	}
}

func TestAddEntropyMixesDelta(t *testing.T) {
	a := New(&fixedCounter{seq: []uint32{10, 20, 35}})
	b := New(&fixedCounter{seq: []uint32{10, 20, 35}})
	for i := 0; i < 3; i++ {
		a.AddEntropy()
		b.AddEntropy()
	}
	if a.Seed() != b.Seed() {
		t.Fatalf("identical counter sequences produced different seeds")
	}
	if a.Mixes() != 3 {
		t.Fatalf("Mixes() = %d, want 3", a.Mixes())
	}

	c := New(&fixedCounter{seq: []uint32{10, 21, 35}})
	for i := 0; i < 3; i++ {
		c.AddEntropy()
	}
	if c.Seed() == a.Seed() {
		t.Fatalf("different jitter produced the same seed")
	}
}

func TestOnlyLowBitsOfDeltaCount(t *testing.T) {
	a := New(&fixedCounter{seq: []uint32{0x10}})
	b := New(&fixedCounter{seq: []uint32{0x1010}})
	a.AddEntropy()
	b.AddEntropy()
	if a.Seed() != b.Seed() {
		t.Fatalf("deltas with equal low byte produced different seeds")
	}
}

func TestUpdateSeedOrderMatters(t *testing.T) {
	a := New(nil)
	a.UpdateSeed(0x11223344)
	a.UpdateSeed(0x55667788)

	b := New(nil)
	b.UpdateSeed(0x55667788)
	b.UpdateSeed(0x11223344)

	if a.Seed() == b.Seed() {
		t.Fatalf("UpdateSeed order did not affect the seed")
	}
	if a.Mixes() != 2 {
		t.Fatalf("Mixes() = %d, want 2", a.Mixes())
	}
}
