package apptest

import "sync"

// SequenceRand replays a fixed list of floats, cycling when exhausted. An empty list yields 0.
type SequenceRand struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{values: values}
}

func (r *SequenceRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func (r *SequenceRand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}
