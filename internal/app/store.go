package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"resident-lockdown/internal/domain"
)

// Registration is the input for creating a player record.
type Registration struct {
	Name       string
	ChannelRef string
	IsBot      bool
}

// PlayerStore is the in-memory entity store of player records, iterated in registration order.
// It performs no locking; Game guards it.
type PlayerStore struct {
	players map[string]*domain.Player
	order   []string
	tag     func() int
}

func newPlayerStore(tag func() int) *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*domain.Player),
		tag:     tag,
	}
}

// Create assigns a fresh id and inserts the player. An empty name becomes a generated SUBJECT tag.
func (s *PlayerStore) Create(reg Registration, now time.Time) *domain.Player {
	id := uuid.NewString()
	if reg.IsBot {
		id = "bot-" + id[:8]
	}
	name := reg.Name
	if name == "" {
		name = fmt.Sprintf("SUBJECT-%d", s.tag())
	}
	p := &domain.Player{
		ID:         id,
		ChannelRef: reg.ChannelRef,
		Name:       name,
		IsBot:      reg.IsBot,
		JoinTime:   now,
		Status:     domain.StatusActive,
	}
	s.players[id] = p
	s.order = append(s.order, id)
	return p
}

func (s *PlayerStore) Get(id string) (*domain.Player, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

// ForEach visits players in registration order.
func (s *PlayerStore) ForEach(visit func(p *domain.Player)) {
	for _, id := range s.order {
		visit(s.players[id])
	}
}

// All returns the players in registration order.
func (s *PlayerStore) All() []*domain.Player {
	out := make([]*domain.Player, 0, len(s.order))
	s.ForEach(func(p *domain.Player) { out = append(out, p) })
	return out
}

func (s *PlayerStore) Remove(id string) {
	if _, ok := s.players[id]; !ok {
		return
	}
	delete(s.players, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *PlayerStore) Clear() {
	s.players = make(map[string]*domain.Player)
	s.order = nil
}

func (s *PlayerStore) Len() int {
	return len(s.order)
}
