package app

import (
	"time"

	"github.com/google/uuid"

	"resident-lockdown/internal/domain"
)

// messageRing keeps the most recent system messages, newest first.
type messageRing struct {
	size int
	msgs []domain.SystemMessage
}

func newMessageRing(size int) *messageRing {
	if size <= 0 {
		size = 20
	}
	return &messageRing{size: size}
}

func (r *messageRing) add(text, kind string, now time.Time) domain.SystemMessage {
	msg := domain.SystemMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Type:      kind,
		Timestamp: now,
	}
	r.msgs = append([]domain.SystemMessage{msg}, r.msgs...)
	if len(r.msgs) > r.size {
		r.msgs = r.msgs[:r.size]
	}
	return msg
}

// recent returns up to n of the newest messages.
func (r *messageRing) recent(n int) []domain.SystemMessage {
	n = min(n, len(r.msgs))
	out := make([]domain.SystemMessage, n)
	copy(out, r.msgs[:n])
	return out
}

func (r *messageRing) clear() {
	r.msgs = nil
}
