package app

import "time"

// AfterFunc schedules f to run once after d and returns a function that cancels it.
// The cancel function reports whether the call stopped f from running, like (*time.Timer).Stop.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// SystemAfterFunc backs timers with the runtime's time.AfterFunc.
func SystemAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type timerKind int

const (
	// questionTimer expires a real player's current question.
	questionTimer timerKind = iota
	// botAnswerTimer makes a bot answer its current question.
	botAnswerTimer
	// advanceTimer dispatches the next question after an answer.
	advanceTimer
)

const (
	answerRevealDelay = 2 * time.Second
	botAdvanceDelay   = 500 * time.Millisecond
	botMinDelay       = time.Second
	botDelaySpread    = 2 * time.Second
)

type armedTimer struct {
	stop  func() bool
	token uint64
}

// timerEngine tracks the outstanding per-player callbacks and a dispatch generation per player.
// It is not safe for concurrent use; the owning Game serialises access with its mutex.
//
// Two mechanisms keep fired callbacks honest: superseded timers are stopped when a new one of the
// same kind is armed, and every callback captures the generation it was armed under. A callback
// that still fires after its player was re-dispatched, eliminated or reset sees a newer generation
// and does nothing.
type timerEngine struct {
	afterFunc AfterFunc
	nextToken uint64
	armed     map[string]map[timerKind]armedTimer
	gens      map[string]uint64
}

func newTimerEngine(afterFunc AfterFunc) *timerEngine {
	if afterFunc == nil {
		afterFunc = SystemAfterFunc
	}
	return &timerEngine{
		afterFunc: afterFunc,
		armed:     make(map[string]map[timerKind]armedTimer),
		gens:      make(map[string]uint64),
	}
}

// bump starts a new generation for the player, invalidating every callback armed before it.
func (e *timerEngine) bump(playerID string) uint64 {
	e.gens[playerID]++
	return e.gens[playerID]
}

func (e *timerEngine) generation(playerID string) uint64 {
	return e.gens[playerID]
}

// arm replaces any pending timer of the same kind for the player.
// fn receives the token that release expects.
func (e *timerEngine) arm(playerID string, kind timerKind, d time.Duration, fn func(token uint64)) {
	e.cancel(playerID, kind)

	e.nextToken++
	token := e.nextToken
	stop := e.afterFunc(d, func() { fn(token) })

	timers, ok := e.armed[playerID]
	if !ok {
		timers = make(map[timerKind]armedTimer)
		e.armed[playerID] = timers
	}
	timers[kind] = armedTimer{stop: stop, token: token}
}

// release forgets a timer that has fired, unless it was already replaced.
func (e *timerEngine) release(playerID string, kind timerKind, token uint64) {
	timers := e.armed[playerID]
	if t, ok := timers[kind]; ok && t.token == token {
		delete(timers, kind)
	}
}

func (e *timerEngine) cancel(playerID string, kind timerKind) {
	timers := e.armed[playerID]
	if t, ok := timers[kind]; ok {
		t.stop()
		delete(timers, kind)
	}
}

// cancelPlayer stops every timer of the player and moves it to a new generation.
func (e *timerEngine) cancelPlayer(playerID string) {
	for _, t := range e.armed[playerID] {
		t.stop()
	}
	delete(e.armed, playerID)
	e.bump(playerID)
}

func (e *timerEngine) cancelAll() {
	for _, timers := range e.armed {
		for _, t := range timers {
			t.stop()
		}
	}
	e.armed = make(map[string]map[timerKind]armedTimer)
	for playerID := range e.gens {
		e.gens[playerID]++
	}
}

// forget drops all bookkeeping for a removed player.
func (e *timerEngine) forget(playerID string) {
	e.cancelPlayer(playerID)
	delete(e.gens, playerID)
}

func (e *timerEngine) pending() int {
	n := 0
	for _, timers := range e.armed {
		n += len(timers)
	}
	return n
}
