// Package apptest provides deterministic collaborators for exercising the game without real
// timers, connections or randomness.
package apptest

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler fires callbacks only when Advance moves its clock past their deadline.
type ManualScheduler struct {
	mu      sync.Mutex
	base    time.Time
	elapsed time.Duration
	seq     int
	pending []*pendingTimer
}

type pendingTimer struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{base: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// AfterFunc matches app.AfterFunc.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &pendingTimer{due: s.elapsed + d, seq: s.seq, fn: f}
	s.pending = append(s.pending, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.stopped {
			return false
		}
		t.stopped = true
		s.drop(t)
		return true
	}
}

// Now is the scheduler's virtual wall clock.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Add(s.elapsed)
}

// Advance moves the clock forward by d, running every callback that falls due in deadline order.
// Callbacks armed by callbacks are honoured if they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.elapsed + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.elapsed = target
			s.mu.Unlock()
			return
		}
		next.stopped = true
		s.drop(next)
		s.elapsed = next.due
		s.mu.Unlock()

		next.fn()
	}
}

// Pending counts callbacks that are armed and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *ManualScheduler) nextDue(target time.Duration) *pendingTimer {
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].due != s.pending[j].due {
			return s.pending[i].due < s.pending[j].due
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	if len(s.pending) == 0 || s.pending[0].due > target {
		return nil
	}
	return s.pending[0]
}

func (s *ManualScheduler) drop(t *pendingTimer) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
