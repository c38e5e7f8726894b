package app

import (
	"testing"
	"time"

	"resident-lockdown/internal/domain"
)

func TestProjectLeaderboardOrdering(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	players := []*domain.Player{
		{ID: "slow", Score: 100, Status: domain.StatusActive, Completed: true, CompletionTime: t0.Add(2 * time.Second)},
		{ID: "unfinished", Score: 100, Status: domain.StatusDisconnected},
		{ID: "out", Score: 500, Eliminated: true, Status: domain.StatusEliminated, Completed: true, CompletionOrder: 1},
		{ID: "fast", Score: 100, Status: domain.StatusActive, Completed: true, CompletionTime: t0.Add(time.Second)},
		{ID: "top", Score: 150, Status: domain.StatusActive},
	}

	lb := projectLeaderboard(players)
	want := []string{"top", "fast", "slow", "unfinished", "out"}
	if len(lb) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(lb))
	}
	for i, id := range want {
		if lb[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, lb[i].ID)
		}
	}
	for i := 0; i < 4; i++ {
		if lb[i].Rank != i+1 {
			t.Fatalf("expected rank %d for %s, got %d", i+1, lb[i].ID, lb[i].Rank)
		}
	}
	out := lb[4]
	if out.Rank != 0 || out.Status != domain.StatusEliminated || out.Completed || out.CompletionOrder != 0 {
		t.Fatalf("eliminated entry not normalised: %+v", out)
	}
	if lb[1].Status != domain.StatusCompleted {
		t.Fatalf("expected completed status, got %s", lb[1].Status)
	}
	if lb[3].Status != domain.StatusDisconnected {
		t.Fatalf("expected disconnected status, got %s", lb[3].Status)
	}
}

func TestRankActiveKeepsRegistrationOrderOnFullTie(t *testing.T) {
	players := []*domain.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	ranked := rankActive(players)
	for i, id := range []string{"a", "b", "c"} {
		if ranked[i].ID != id {
			t.Fatalf("expected %s at %d, got %s", id, i, ranked[i].ID)
		}
	}
}
