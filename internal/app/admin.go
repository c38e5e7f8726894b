package app

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"

	"resident-lockdown/internal/domain"
)

const (
	defaultBotCount = 15
	maxBotCount     = 100
)

var botNames = []string{
	"NEXUS-7", "CIPHER-X", "VORTEX-3", "PHANTOM-9", "BLAZE-12",
	"SPECTRE-4", "NEON-11", "ROGUE-6", "NOVA-8", "STORM-2",
	"APEX-14", "ECHO-5", "TITAN-1", "PULSE-10", "DRIFT-13",
	"ZERO-15", "FLUX-16", "OMEGA-17", "SPARK-18", "BLADE-19",
}

// Admin is the operator capability over a Game. It is handed only to authenticated admin
// connections; players never see these commands.
type Admin struct {
	g *Game
}

func (g *Game) Admin() *Admin {
	return &Admin{g: g}
}

// StartGame soft-resets every registered player and starts level 1.
func (a *Admin) StartGame(ctx context.Context) error {
	questions, err := a.g.bank.Questions(ctx, 1)
	if err != nil {
		return fmt.Errorf("load level 1 questions: %w", err)
	}

	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store.Len() < 1 {
		return domain.ErrNoPlayers
	}
	g.softResetLocked()
	g.systemMessageLocked("CONTAINMENT BREACH IMMINENT. INITIATING SIMULATION...", domain.MessageInfo)
	g.startLevelLocked(1, questions)
	return nil
}

// ResetGame drops every player and returns to the lobby.
func (a *Admin) ResetGame() {
	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	g.hardResetLocked()
	g.systemMessageLocked("SYSTEM RESET COMPLETE. AWAITING NEW SUBJECTS.", domain.MessageInfo)
	g.out.Broadcast(domain.GameReset{})
	g.publishLeaderboardLocked()
	log.Printf("game reset")
}

// StartLevel2 opens level 2 for the shortlisted survivors.
func (a *Admin) StartLevel2(ctx context.Context) error {
	questions, err := a.g.bank.Questions(ctx, 2)
	if err != nil {
		return fmt.Errorf("load level 2 questions: %w", err)
	}

	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.level1Ended {
		return domain.ErrLevel1NotEnded
	}
	if g.phase != PhaseShortlist {
		return domain.ErrLevel2Started
	}
	survivors := 0
	g.store.ForEach(func(p *domain.Player) {
		if !p.Eliminated {
			survivors++
		}
	})
	if survivors < 1 {
		return domain.ErrNoSurvivors
	}
	g.startLevelLocked(2, questions)
	return nil
}

// UpdateSettings changes the per-question timers. Every supplied value is validated before any
// is applied; new values take effect when the next level starts.
func (a *Admin) UpdateSettings(u domain.SettingsUpdate) (domain.Settings, error) {
	for _, v := range []*int{u.Level1Timer, u.Level2Timer} {
		if v != nil && (*v < domain.MinTimerSeconds || *v > domain.MaxTimerSeconds) {
			return domain.Settings{}, domain.ErrTimerOutOfRange
		}
	}

	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if u.Level1Timer != nil {
		g.settings.Level1Timer = *u.Level1Timer
	}
	if u.Level2Timer != nil {
		g.settings.Level2Timer = *u.Level2Timer
	}
	g.systemMessageLocked(fmt.Sprintf("SETTINGS UPDATED: L1=%ds, L2=%ds", g.settings.Level1Timer, g.settings.Level2Timer), domain.MessageInfo)
	return g.settings, nil
}

// AddBots inserts simulated players. A zero count adds the default batch.
func (a *Admin) AddBots(count int) ([]domain.Player, error) {
	if count == 0 {
		count = defaultBotCount
	}
	if count < 0 || count > maxBotCount {
		return nil, domain.ErrInvalidBotCount
	}

	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseShortlist || g.phase == PhaseLevel2 {
		return nil, domain.ErrGameActive
	}

	added := make([]*domain.Player, 0, count)
	for i := 0; i < count; i++ {
		name := "BOT-" + strconv.Itoa(i+1)
		if i < len(botNames) {
			name = botNames[i]
		}
		p := g.store.Create(Registration{Name: name, IsBot: true}, g.now())
		added = append(added, p)
		g.systemMessageLocked(fmt.Sprintf("%s HAS ENTERED THE FACILITY.", p.Name), domain.MessageInfo)
	}
	g.publishLeaderboardLocked()
	g.systemMessageLocked(fmt.Sprintf("%d TEST SUBJECTS DEPLOYED.", count), domain.MessageSuccess)

	out := make([]domain.Player, 0, len(added))
	for _, p := range added {
		if g.phase == PhaseLevel1 {
			g.dispatchLocked(p)
		}
		out = append(out, *p)
	}
	return out, nil
}

// RemoveBots deletes every simulated player. Only allowed while no level is running.
func (a *Admin) RemoveBots() (int, error) {
	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isActive {
		return 0, domain.ErrGameActive
	}
	var bots []string
	g.store.ForEach(func(p *domain.Player) {
		if p.IsBot {
			bots = append(bots, p.ID)
		}
	})
	for _, id := range bots {
		g.timers.forget(id)
		g.store.Remove(id)
	}
	g.publishLeaderboardLocked()
	g.systemMessageLocked(fmt.Sprintf("%d TEST SUBJECTS WITHDRAWN.", len(bots)), domain.MessageInfo)
	return len(bots), nil
}

// AddQuestion appends a question to a level's bank. Levels already running are unaffected.
func (a *Admin) AddQuestion(ctx context.Context, level int, q domain.Question) (domain.Question, error) {
	if level != 1 && level != 2 {
		return domain.Question{}, domain.ErrInvalidLevel
	}
	if !q.Valid() {
		return domain.Question{}, domain.ErrInvalidQuestion
	}
	q.ID = uuid.NewString()
	return a.g.bank.Add(ctx, level, q)
}

// DeleteQuestion removes a question from a level's bank.
func (a *Admin) DeleteQuestion(ctx context.Context, level int, id string) error {
	if level != 1 && level != 2 {
		return domain.ErrInvalidLevel
	}
	return a.g.bank.Delete(ctx, level, id)
}

// Snapshot gathers players, question banks and settings for the admin panel.
func (a *Admin) Snapshot(ctx context.Context) (domain.AdminSnapshot, error) {
	questions := make(map[string][]domain.Question, 2)
	for _, level := range []int{1, 2} {
		qs, err := a.g.bank.Questions(ctx, level)
		if err != nil {
			return domain.AdminSnapshot{}, fmt.Errorf("load level %d questions: %w", level, err)
		}
		questions["level"+strconv.Itoa(level)] = qs
	}

	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := domain.AdminSnapshot{
		Players:   make([]domain.AdminPlayer, 0, g.store.Len()),
		Questions: questions,
		Settings: domain.AdminSettings{
			Settings:     g.settings,
			CurrentLevel: g.level.number,
			IsActive:     g.isActive,
			Level1Ended:  g.level1Ended,
		},
	}
	g.store.ForEach(func(p *domain.Player) {
		snap.Players = append(snap.Players, domain.AdminPlayer{
			ID:              p.ID,
			Name:            p.Name,
			Score:           p.Score,
			InfectionLevel:  p.InfectionLevel,
			Status:          p.Status,
			CorrectAnswers:  p.CorrectAnswers,
			WrongAnswers:    p.WrongAnswers,
			Eliminated:      p.Eliminated,
			Completed:       p.Completed,
			CompletionOrder: p.CompletionOrder,
			QuestionIndex:   p.QuestionIndex,
			TabSwitchCount:  p.TabSwitchCount,
			IsBot:           p.IsBot,
		})
	})
	return snap, nil
}

// ExportResults returns one row per player in registration order.
func (a *Admin) ExportResults() []domain.ResultRow {
	g := a.g
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]domain.ResultRow, 0, g.store.Len())
	g.store.ForEach(func(p *domain.Player) {
		reason := p.EliminationReason
		if reason == "" {
			reason = "N/A"
		}
		rows = append(rows, domain.ResultRow{
			Name:              p.Name,
			Score:             p.Score,
			InfectionLevel:    p.InfectionLevel,
			Status:            p.Status,
			CorrectAnswers:    p.CorrectAnswers,
			WrongAnswers:      p.WrongAnswers,
			Eliminated:        p.Eliminated,
			EliminationReason: reason,
		})
	})
	return rows
}
