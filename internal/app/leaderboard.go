package app

import (
	"sort"

	"resident-lockdown/internal/domain"
)

// ranksBefore orders players by score desc, then earlier completion. A player who has not
// completed sorts after one who has.
func ranksBefore(a, b *domain.Player) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch {
	case a.CompletionTime.IsZero():
		return false
	case b.CompletionTime.IsZero():
		return true
	default:
		return a.CompletionTime.Before(b.CompletionTime)
	}
}

// rankActive returns the non-eliminated players in rank order. Full ties keep registration order.
func rankActive(players []*domain.Player) []*domain.Player {
	active := make([]*domain.Player, 0, len(players))
	for _, p := range players {
		if !p.Eliminated {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return ranksBefore(active[i], active[j])
	})
	return active
}

// projectLeaderboard ranks active players 1..n and appends eliminated players with rank 0.
func projectLeaderboard(players []*domain.Player) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(players))
	for i, p := range rankActive(players) {
		e := entryFor(p)
		e.Rank = i + 1
		entries = append(entries, e)
	}
	for _, p := range players {
		if !p.Eliminated {
			continue
		}
		e := entryFor(p)
		e.Status = domain.StatusEliminated
		e.Completed = false
		e.CompletionOrder = 0
		entries = append(entries, e)
	}
	return entries
}

func entryFor(p *domain.Player) domain.LeaderboardEntry {
	status := p.Status
	if p.Completed {
		status = domain.StatusCompleted
	}
	return domain.LeaderboardEntry{
		ID:              p.ID,
		Name:            p.Name,
		Score:           p.Score,
		InfectionLevel:  p.InfectionLevel,
		Status:          status,
		CorrectAnswers:  p.CorrectAnswers,
		WrongAnswers:    p.WrongAnswers,
		Completed:       p.Completed,
		CompletionOrder: p.CompletionOrder,
		IsBot:           p.IsBot,
	}
}

func summarize(players []*domain.Player) []domain.PlayerSummary {
	out := make([]domain.PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, domain.PlayerSummary{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return out
}
