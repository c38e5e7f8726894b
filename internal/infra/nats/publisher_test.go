package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"resident-lockdown/internal/domain"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("new nats server: %v", err)
	}
	srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatalf("nats server not ready")
	}
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestPublisherMirrorsBroadcasts(t *testing.T) {
	srv := runServer(t)

	pub, err := Connect(srv.ClientURL(), "lockdown.events")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pub.Close()

	sub, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	defer sub.Close()

	msgs := make(chan *nats.Msg, 4)
	if _, err := sub.ChanSubscribe("lockdown.events.>", msgs); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pub.SendTo("conn-1", domain.AnswerResult{Correct: true})
	pub.Broadcast(domain.LeaderboardUpdate{{Rank: 1, ID: "p1", Name: "alice", Score: 50}})

	select {
	case msg := <-msgs:
		if msg.Subject != "lockdown.events.leaderboardUpdate" {
			t.Fatalf("unexpected subject %s", msg.Subject)
		}
		var env struct {
			Type    string                    `json:"type"`
			Payload []domain.LeaderboardEntry `json:"payload"`
		}
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Type != "leaderboardUpdate" || len(env.Payload) != 1 || env.Payload[0].Name != "alice" {
			t.Fatalf("unexpected envelope %+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for broadcast")
	}

	select {
	case msg := <-msgs:
		t.Fatalf("targeted event leaked onto %s", msg.Subject)
	case <-time.After(100 * time.Millisecond):
	}
}
