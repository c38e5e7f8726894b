package app

import "resident-lockdown/internal/domain"

// Broadcasters fans every event out to each member in order.
type Broadcasters []Broadcaster

func (bs Broadcasters) Broadcast(ev domain.Event) {
	for _, b := range bs {
		b.Broadcast(ev)
	}
}

func (bs Broadcasters) SendTo(channelRef string, ev domain.Event) {
	for _, b := range bs {
		b.SendTo(channelRef, ev)
	}
}
