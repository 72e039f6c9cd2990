package asyncworker

import (
	"github.com/bits-and-blooms/bitset"
)

// jobPool owns the fixed set of job slots. A set bit means the slot is out of
// the free set (reserved, allocated, queued, running or done).
type jobPool[P any] struct {
	slots []Job[P]
	busy  *bitset.BitSet
}

func newJobPool[P any](n int) *jobPool[P] {
	p := &jobPool[P]{
		slots: make([]Job[P], n),
		busy:  bitset.New(uint(n)),
	}
	for i := range p.slots {
		p.slots[i].index = i
	}
	return p
}

// get takes the lowest free slot out of the free set, or returns nil.
func (p *jobPool[P]) get() *Job[P] {
	i, ok := p.busy.NextClear(0)
	if !ok || i >= uint(len(p.slots)) {
		return nil
	}
	p.busy.Set(i)
	return &p.slots[i]
}

func (p *jobPool[P]) put(j *Job[P]) {
	j.state = jobFree
	j.action = nil
	j.completion = nil
	j.err = nil
	j.abandoned = false
	j.token = 0
	p.busy.Clear(uint(j.index))
}

// owns reports whether j points into this pool and is out of the free set.
func (p *jobPool[P]) owns(j *Job[P]) bool {
	if j == nil || j.index < 0 || j.index >= len(p.slots) {
		return false
	}
	return &p.slots[j.index] == j && p.busy.Test(uint(j.index))
}

func (p *jobPool[P]) busyCount() int {
	return int(p.busy.Count())
}

func (p *jobPool[P]) capacity() int {
	return len(p.slots)
}
