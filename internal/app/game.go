package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"resident-lockdown/internal/domain"
)

// Broadcaster fans events out to observers. SendTo must be a silent no-op for an unknown or
// stale channel reference. Neither method may block or call back into the Game.
type Broadcaster interface {
	Broadcast(ev domain.Event)
	SendTo(channelRef string, ev domain.Event)
}

// QuestionBank holds the editable question sequence of each level.
type QuestionBank interface {
	Questions(ctx context.Context, level int) ([]domain.Question, error)
	Add(ctx context.Context, level int, q domain.Question) (domain.Question, error)
	Delete(ctx context.Context, level int, id string) error
}

// SnapshotSink receives the game status and leaderboard after each recomputation.
// Publish must not block.
type SnapshotSink interface {
	Publish(status domain.GameStatus, leaderboard []domain.LeaderboardEntry)
}

// RandomSource is the subset of *rand.Rand the game draws from.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// Phase is the round controller state.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseLevel1
	PhaseShortlist
	PhaseLevel2
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLevel1:
		return "LEVEL1_RUNNING"
	case PhaseShortlist:
		return "LEVEL1_ENDED"
	case PhaseLevel2:
		return "LEVEL2_RUNNING"
	case PhaseEnded:
		return "GAME_ENDED"
	default:
		return "LOBBY"
	}
}

func (p Phase) running() bool {
	return p == PhaseLevel1 || p == PhaseLevel2
}

// Options configure a Game. Zero values fall back to production defaults.
type Options struct {
	Settings      domain.Settings
	MessageBuffer int
	AfterFunc     AfterFunc
	Now           func() time.Time
	Rand          RandomSource
	Snapshots     SnapshotSink
}

// levelConfig is frozen when a level starts; settings and bank edits apply to later levels.
type levelConfig struct {
	number    int
	timer     int
	questions []domain.Question
}

const recentMessages = 5

// Game is the single owner of all game state. Every exported method and every timer callback
// runs under mu, so handlers never observe each other's partial mutations.
type Game struct {
	mu sync.Mutex

	store     *PlayerStore
	bank      QuestionBank
	out       Broadcaster
	snapshots SnapshotSink
	timers    *timerEngine
	messages  *messageRing
	rnd       RandomSource
	now       func() time.Time

	settings    domain.Settings
	phase       Phase
	level       levelConfig
	isActive    bool
	level1Ended bool
	completions int
	leaderboard []domain.LeaderboardEntry
}

func NewGame(bank QuestionBank, out Broadcaster, opts Options) *Game {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Settings == (domain.Settings{}) {
		opts.Settings = domain.DefaultSettings()
	}
	g := &Game{
		bank:      bank,
		out:       out,
		snapshots: opts.Snapshots,
		timers:    newTimerEngine(opts.AfterFunc),
		messages:  newMessageRing(opts.MessageBuffer),
		rnd:       opts.Rand,
		now:       opts.Now,
		settings:  opts.Settings,
	}
	g.store = newPlayerStore(func() int { return g.rnd.Intn(9999) })
	return g
}

// Register adds a real player bound to channelRef. Players joining while level 1 runs are
// dispatched straight away; joining after the shortlist is rejected.
func (g *Game) Register(name, channelRef string) (domain.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseShortlist || g.phase == PhaseLevel2 {
		return domain.Player{}, domain.ErrGameActive
	}

	p := g.store.Create(Registration{Name: name, ChannelRef: channelRef}, g.now())
	g.out.SendTo(channelRef, domain.Registered{PlayerID: p.ID, Player: entryFor(p)})
	g.systemMessageLocked(fmt.Sprintf("%s HAS ENTERED THE FACILITY.", p.Name), domain.MessageInfo)
	g.publishLeaderboardLocked()
	if g.phase == PhaseLevel1 {
		g.dispatchLocked(p)
	}
	return *p, nil
}

// Resume re-attaches a known player to a new connection.
func (g *Game) Resume(playerID, channelRef string) (domain.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.connectedLocked(playerID)
	if err != nil {
		return domain.Player{}, err
	}
	p.ChannelRef = channelRef
	if !p.Eliminated {
		p.Status = domain.StatusActive
	}
	g.out.SendTo(channelRef, domain.Registered{PlayerID: p.ID, Player: entryFor(p)})
	g.out.SendTo(channelRef, g.snapshotLocked())
	g.publishLeaderboardLocked()

	switch {
	case p.Eliminated:
		g.out.SendTo(channelRef, domain.Eliminated{Reason: p.EliminationReason, EliminationTime: p.EliminationTime})
	case p.Completed:
		g.out.SendTo(channelRef, domain.AllQuestionsCompleted{})
	case g.phase.running() && !p.AnsweredCurrent && p.QuestionIndex < len(g.level.questions):
		g.sendQuestionLocked(p)
	}
	return *p, nil
}

// Disconnect marks the player bound to channelRef as disconnected. The record is kept and its
// timers keep running.
func (g *Game) Disconnect(playerID, channelRef string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.store.Get(playerID)
	if err != nil || p.ChannelRef != channelRef {
		return
	}
	p.ChannelRef = ""
	if p.Eliminated {
		return
	}
	p.Status = domain.StatusDisconnected
	g.publishLeaderboardLocked()
}

// SubmitAnswer scores the player's answer to their current question.
func (g *Game) SubmitAnswer(playerID string, answerIndex int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.connectedLocked(playerID)
	if err != nil {
		return err
	}
	switch {
	case p.Eliminated:
		return domain.ErrPlayerEliminated
	case p.Completed:
		return domain.ErrAlreadyCompleted
	case p.AnsweredCurrent:
		return domain.ErrAlreadyAnswered
	case !g.phase.running():
		return domain.ErrGameInactive
	case p.QuestionIndex >= len(g.level.questions):
		return domain.ErrNoActiveQuestion
	}

	q := g.level.questions[p.QuestionIndex]
	p.AnsweredCurrent = true
	g.timers.cancel(p.ID, questionTimer)

	outcome := OutcomeWrong
	if answerIndex == q.Correct {
		outcome = OutcomeCorrect
	}
	if applyOutcome(p, outcome, g.level.number) {
		g.eliminateLocked(p, eliminationReason(outcome))
		return nil
	}

	g.out.SendTo(p.ChannelRef, domain.AnswerResult{
		Correct:        outcome == OutcomeCorrect,
		CorrectAnswer:  q.Correct,
		Explanation:    q.Explanation,
		InfectionLevel: p.InfectionLevel,
		Score:          p.Score,
	})
	g.publishLeaderboardLocked()

	p.QuestionIndex++
	g.scheduleAdvanceLocked(p, answerRevealDelay)
	return nil
}

// TabSwitch records an anti-cheat offense for the player.
func (g *Game) TabSwitch(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.connectedLocked(playerID)
	if err != nil {
		return err
	}
	if p.Eliminated {
		return domain.ErrPlayerEliminated
	}
	if !g.isActive || g.level.number == 0 {
		return domain.ErrGameInactive
	}

	p.TabSwitchCount++
	v := JudgeTabSwitch(p.TabSwitchCount, p.Score)
	if v.Warning {
		g.out.SendTo(p.ChannelRef, domain.AntiCheatWarning{
			OffenseCount: v.Offense,
			MaxWarnings:  maxTabWarnings,
			Message:      v.Message,
		})
		g.systemMessageLocked(fmt.Sprintf("⚠ %s switched tabs (%d/%d warnings)", p.Name, v.Offense, maxTabWarnings), domain.MessageWarning)
		return nil
	}

	p.Score = v.NewScore
	g.out.SendTo(p.ChannelRef, domain.AntiCheatPenalty{
		OffenseCount: v.Offense,
		Penalty:      v.Penalty,
		NewScore:     v.NewScore,
		Message:      v.Message,
	})
	g.systemMessageLocked(fmt.Sprintf("🚨 %s penalized %d pts for tab switching (offense #%d)", p.Name, v.Penalty, v.Offense), domain.MessageElimination)
	if v.Eliminate {
		g.eliminateLocked(p, ReasonTabSwitching)
		return nil
	}
	g.publishLeaderboardLocked()
	return nil
}

// connectedLocked looks up a player that may be driven by a connection. Bots are only ever
// driven by their own answer timers, so they are reported as unknown.
func (g *Game) connectedLocked(playerID string) (*domain.Player, error) {
	p, err := g.store.Get(playerID)
	if err != nil {
		return nil, err
	}
	if p.IsBot {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

// Snapshot is the state sent to observers when they connect.
func (g *Game) Snapshot() domain.GameStateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Status summarises the game for the HTTP status endpoint.
func (g *Game) Status() domain.GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusLocked()
}

// Leaderboard returns the last computed ranking.
func (g *Game) Leaderboard() []domain.LeaderboardEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.LeaderboardEntry{}, g.leaderboard...)
}

// Phase reports the current controller state.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Player returns a copy of a player record.
func (g *Game) Player(id string) (domain.Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.store.Get(id)
	if err != nil {
		return domain.Player{}, false
	}
	return *p, true
}

func (g *Game) startLevelLocked(number int, questions []domain.Question) {
	g.phase = PhaseLevel1
	if number == 2 {
		g.phase = PhaseLevel2
	} else {
		g.level1Ended = false
	}
	g.isActive = true
	g.completions = 0
	g.level = levelConfig{
		number:    number,
		timer:     g.settings.TimerFor(number),
		questions: append([]domain.Question(nil), questions...),
	}

	eligible := make([]*domain.Player, 0, g.store.Len())
	g.store.ForEach(func(p *domain.Player) {
		if p.Eliminated {
			return
		}
		p.QuestionIndex = 0
		p.AnsweredCurrent = false
		p.Completed = false
		p.CompletionTime = time.Time{}
		p.CompletionOrder = 0
		eligible = append(eligible, p)
	})

	start := domain.LevelStart{
		Level:          number,
		Timer:          g.level.timer,
		TotalQuestions: len(g.level.questions),
	}
	if number == 1 {
		g.systemMessageLocked("CONTAINMENT BREACH DETECTED. LEVEL 1 INITIATED.", domain.MessageWarning)
		g.systemMessageLocked(fmt.Sprintf("TIMER SET: %d SECONDS PER QUESTION.", g.level.timer), domain.MessageInfo)
	} else {
		survivors := len(eligible)
		start.Survivors = &survivors
		g.systemMessageLocked(fmt.Sprintf("LEVEL 2: AI CONTAINMENT PROTOCOL. %d SUBJECTS REMAIN.", survivors), domain.MessageWarning)
	}
	log.Printf("level %d started: players=%d questions=%d timer=%ds", number, len(eligible), len(g.level.questions), g.level.timer)

	g.out.Broadcast(start)
	g.out.Broadcast(g.snapshotLocked())

	for _, p := range eligible {
		g.dispatchLocked(p)
	}
}

// dispatchLocked serves the player's current question, or finalises their level when they are
// past the last one.
func (g *Game) dispatchLocked(p *domain.Player) {
	if !g.phase.running() || p.Eliminated || p.Completed {
		return
	}
	if p.QuestionIndex >= len(g.level.questions) {
		g.completeLocked(p)
		return
	}

	p.AnsweredCurrent = false
	gen := g.timers.bump(p.ID)
	g.sendQuestionLocked(p)

	if p.IsBot {
		delay := botMinDelay + time.Duration(g.rnd.Float64()*float64(botDelaySpread))
		g.timers.arm(p.ID, botAnswerTimer, delay, func(token uint64) {
			g.botAnswer(p.ID, gen, token)
		})
		return
	}
	timeout := time.Duration(g.level.timer) * time.Second
	g.timers.arm(p.ID, questionTimer, timeout, func(token uint64) {
		g.questionTimeout(p.ID, gen, token)
	})
}

func (g *Game) sendQuestionLocked(p *domain.Player) {
	g.out.SendTo(p.ChannelRef, domain.NewQuestion{
		Question:       g.level.questions[p.QuestionIndex].View(),
		QuestionNumber: p.QuestionIndex + 1,
		TotalQuestions: len(g.level.questions),
		Timer:          g.level.timer,
	})
}

// liveLocked returns the player if a callback armed under gen may still act on them.
func (g *Game) liveLocked(playerID string, gen uint64) (*domain.Player, bool) {
	if !g.isActive || !g.phase.running() {
		return nil, false
	}
	p, err := g.store.Get(playerID)
	if err != nil || p.Eliminated || p.Completed {
		return nil, false
	}
	if g.timers.generation(playerID) != gen {
		return nil, false
	}
	return p, true
}

func (g *Game) questionTimeout(playerID string, gen, token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.liveLocked(playerID, gen)
	if !ok || p.AnsweredCurrent {
		return
	}
	g.timers.release(playerID, questionTimer, token)

	if applyOutcome(p, OutcomeTimeout, g.level.number) {
		g.eliminateLocked(p, eliminationReason(OutcomeTimeout))
		return
	}
	g.publishLeaderboardLocked()
	p.QuestionIndex++
	g.dispatchLocked(p)
}

func (g *Game) botAnswer(playerID string, gen, token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.liveLocked(playerID, gen)
	if !ok || p.AnsweredCurrent {
		return
	}
	g.timers.release(playerID, botAnswerTimer, token)

	p.AnsweredCurrent = true
	outcome := OutcomeWrong
	if g.rnd.Float64() < botCorrectChance {
		outcome = OutcomeCorrect
	}
	if applyOutcome(p, outcome, g.level.number) {
		g.eliminateLocked(p, eliminationReason(outcome))
		return
	}
	g.publishLeaderboardLocked()
	p.QuestionIndex++
	g.scheduleAdvanceLocked(p, botAdvanceDelay)
}

func (g *Game) scheduleAdvanceLocked(p *domain.Player, delay time.Duration) {
	id := p.ID
	gen := g.timers.generation(id)
	g.timers.arm(id, advanceTimer, delay, func(token uint64) {
		g.mu.Lock()
		defer g.mu.Unlock()

		live, ok := g.liveLocked(id, gen)
		if !ok {
			return
		}
		g.timers.release(id, advanceTimer, token)
		g.dispatchLocked(live)
	})
}

func (g *Game) completeLocked(p *domain.Player) {
	if p.Completed {
		return
	}
	g.completions++
	p.Completed = true
	p.CompletionTime = g.now()
	p.CompletionOrder = g.completions
	g.timers.cancelPlayer(p.ID)

	g.systemMessageLocked(fmt.Sprintf("%s HAS COMPLETED ALL QUERIES. (FINISH #%d)", p.Name, p.CompletionOrder), domain.MessageSuccess)
	g.out.Broadcast(domain.PlayerCompleted{
		PlayerID:        p.ID,
		Name:            p.Name,
		CompletionOrder: p.CompletionOrder,
		Score:           p.Score,
	})
	g.out.SendTo(p.ChannelRef, domain.AllQuestionsCompleted{})
	g.publishLeaderboardLocked()
	g.checkLevelCompleteLocked()
}

// checkLevelCompleteLocked ends the running level once every non-eliminated player completed.
func (g *Game) checkLevelCompleteLocked() {
	if !g.phase.running() {
		return
	}
	done := true
	g.store.ForEach(func(p *domain.Player) {
		if !p.Eliminated && !p.Completed {
			done = false
		}
	})
	if !done {
		return
	}
	if g.phase == PhaseLevel1 {
		g.endLevel1Locked()
		return
	}
	g.endGameLocked()
}

// eliminateLocked marks the player out. It reports false if they already were.
func (g *Game) eliminateLocked(p *domain.Player, reason string) bool {
	if p.Eliminated {
		return false
	}
	now := g.now()
	p.Eliminated = true
	p.Status = domain.StatusEliminated
	p.EliminationReason = reason
	p.EliminationTime = now
	g.timers.cancelPlayer(p.ID)

	g.systemMessageLocked(fmt.Sprintf("SUBJECT %s HAS BEEN TERMINATED. REASON: %s", p.Name, reason), domain.MessageElimination)
	g.out.SendTo(p.ChannelRef, domain.Eliminated{Reason: reason, EliminationTime: now})
	g.publishLeaderboardLocked()
	g.checkLevelCompleteLocked()
	return true
}

func (g *Game) endLevel1Locked() {
	if g.level1Ended {
		return
	}
	g.level1Ended = true
	g.phase = PhaseShortlist
	g.timers.cancelAll()

	g.systemMessageLocked("LEVEL 1 COMPLETE. PROCESSING SURVIVORS...", domain.MessageInfo)

	ranked := rankActive(g.store.All())
	cut := min(g.settings.ShortlistSize, len(ranked))
	survivors := ranked[:cut]
	for _, p := range ranked[cut:] {
		g.eliminateLocked(p, shortlistReason(g.settings.ShortlistSize))
	}
	g.publishLeaderboardLocked()
	g.systemMessageLocked(fmt.Sprintf("%d SUBJECTS SHORTLISTED FOR LEVEL 2.", len(survivors)), domain.MessageSuccess)
	log.Printf("level 1 ended: survivors=%d eliminated=%d", len(survivors), len(ranked)-cut)

	g.out.Broadcast(domain.Level1Complete{Survivors: summarize(survivors)})
	g.out.Broadcast(g.snapshotLocked())
}

func (g *Game) endGameLocked() {
	if g.phase == PhaseEnded {
		return
	}
	g.phase = PhaseEnded
	g.isActive = false
	g.timers.cancelAll()

	g.systemMessageLocked("SIMULATION COMPLETE. CHAMPIONS IDENTIFIED.", domain.MessageSuccess)

	ranked := rankActive(g.store.All())
	keep := min(g.settings.ChampionCount, len(ranked))
	for _, p := range ranked[keep:] {
		g.eliminateLocked(p, championReason(g.settings.ChampionCount))
	}
	g.publishLeaderboardLocked()

	winners := rankActive(g.store.All())
	end := domain.GameEnd{
		Winners:      summarize(winners),
		TotalPlayers: g.store.Len(),
	}
	if len(winners) > 0 {
		champion := end.Winners[0]
		end.Champion = &champion
	}
	g.store.ForEach(func(p *domain.Player) {
		if p.Eliminated {
			end.EliminatedCount++
		}
	})
	log.Printf("game ended: winners=%d eliminated=%d", len(winners), end.EliminatedCount)

	g.out.Broadcast(end)
	g.out.Broadcast(g.snapshotLocked())
}

// softResetLocked zeroes every player's stats but keeps their identities.
func (g *Game) softResetLocked() {
	g.timers.cancelAll()
	g.phase = PhaseLobby
	g.isActive = false
	g.level1Ended = false
	g.level = levelConfig{}
	g.completions = 0
	g.messages.clear()

	g.store.ForEach(func(p *domain.Player) {
		channel, bot := p.ChannelRef, p.IsBot
		*p = domain.Player{
			ID:         p.ID,
			ChannelRef: channel,
			Name:       p.Name,
			IsBot:      bot,
			JoinTime:   p.JoinTime,
			Status:     domain.StatusActive,
		}
		if channel == "" && !bot {
			p.Status = domain.StatusDisconnected
		}
	})
	g.publishLeaderboardLocked()
}

func (g *Game) hardResetLocked() {
	g.timers.cancelAll()
	g.store.ForEach(func(p *domain.Player) { g.timers.forget(p.ID) })
	g.store.Clear()
	g.phase = PhaseLobby
	g.isActive = false
	g.level1Ended = false
	g.level = levelConfig{}
	g.completions = 0
	g.messages.clear()
	g.leaderboard = []domain.LeaderboardEntry{}
}

func (g *Game) publishLeaderboardLocked() {
	g.leaderboard = projectLeaderboard(g.store.All())
	g.out.Broadcast(domain.LeaderboardUpdate(g.leaderboard))
	if g.snapshots != nil {
		g.snapshots.Publish(g.statusLocked(), g.leaderboard)
	}
}

func (g *Game) systemMessageLocked(text, kind string) {
	g.out.Broadcast(g.messages.add(text, kind, g.now()))
}

func (g *Game) snapshotLocked() domain.GameStateSnapshot {
	return domain.GameStateSnapshot{
		IsActive:       g.isActive,
		CurrentLevel:   g.level.number,
		Level1Ended:    g.level1Ended,
		Leaderboard:    append([]domain.LeaderboardEntry{}, g.leaderboard...),
		SystemMessages: g.messages.recent(recentMessages),
	}
}

func (g *Game) statusLocked() domain.GameStatus {
	status := domain.GameStatus{
		IsActive:     g.isActive,
		CurrentLevel: g.level.number,
		PlayerCount:  g.store.Len(),
	}
	g.store.ForEach(func(p *domain.Player) {
		if !p.Eliminated {
			status.ActivePlayers++
		}
	})
	return status
}
