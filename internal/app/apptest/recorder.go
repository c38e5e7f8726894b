package apptest

import (
	"sync"

	"resident-lockdown/internal/domain"
)

// Recorder is a Broadcaster that keeps every event it is given.
type Recorder struct {
	mu        sync.Mutex
	broadcast []domain.Event
	targeted  map[string][]domain.Event
}

func NewRecorder() *Recorder {
	return &Recorder{targeted: make(map[string][]domain.Event)}
}

func (r *Recorder) Broadcast(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = append(r.broadcast, ev)
}

// SendTo drops events for an empty channel reference, like a real gateway would.
func (r *Recorder) SendTo(channelRef string, ev domain.Event) {
	if channelRef == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targeted[channelRef] = append(r.targeted[channelRef], ev)
}

// Broadcasts returns broadcast events of the given type, or all of them for "".
func (r *Recorder) Broadcasts(eventType string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filter(r.broadcast, eventType)
}

// Sent returns events targeted at channelRef of the given type, or all of them for "".
func (r *Recorder) Sent(channelRef, eventType string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filter(r.targeted[channelRef], eventType)
}

// LastLeaderboard returns the most recent leaderboard broadcast.
func (r *Recorder) LastLeaderboard() domain.LeaderboardUpdate {
	updates := r.Broadcasts("leaderboardUpdate")
	if len(updates) == 0 {
		return nil
	}
	return updates[len(updates)-1].(domain.LeaderboardUpdate)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = nil
	r.targeted = make(map[string][]domain.Event)
}

func filter(events []domain.Event, eventType string) []domain.Event {
	var out []domain.Event
	for _, ev := range events {
		if eventType == "" || ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}
