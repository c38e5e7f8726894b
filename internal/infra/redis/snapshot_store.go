package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"resident-lockdown/internal/domain"
)

const (
	StatusKey      = "lockdown:status"
	LeaderboardKey = "lockdown:leaderboard"
)

type snapshot struct {
	status      domain.GameStatus
	leaderboard []domain.LeaderboardEntry
}

// SnapshotStore mirrors the latest game status and leaderboard into Redis so other processes
// can read them without a websocket. Publish only keeps the newest pending snapshot; Run does
// the writes.
type SnapshotStore struct {
	client  *redis.Client
	ttl     time.Duration
	pending chan snapshot
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client:  client,
		ttl:     ttl,
		pending: make(chan snapshot, 1),
	}
}

// Publish never blocks. An unwritten older snapshot is replaced.
func (s *SnapshotStore) Publish(status domain.GameStatus, leaderboard []domain.LeaderboardEntry) {
	snap := snapshot{status: status, leaderboard: append([]domain.LeaderboardEntry{}, leaderboard...)}
	for {
		select {
		case s.pending <- snap:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Run writes snapshots until ctx is cancelled.
func (s *SnapshotStore) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-s.pending:
			if err := s.write(ctx, snap); err != nil {
				log.Printf("write snapshot: %v", err)
			}
		}
	}
}

func (s *SnapshotStore) write(ctx context.Context, snap snapshot) error {
	status, err := json.Marshal(snap.status)
	if err != nil {
		return err
	}
	leaderboard, err := json.Marshal(snap.leaderboard)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, StatusKey, status, s.ttl)
	pipe.Set(ctx, LeaderboardKey, leaderboard, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Status reads back the last written game status.
func (s *SnapshotStore) Status(ctx context.Context) (domain.GameStatus, error) {
	var status domain.GameStatus
	raw, err := s.client.Get(ctx, StatusKey).Bytes()
	if err != nil {
		return status, err
	}
	err = json.Unmarshal(raw, &status)
	return status, err
}
