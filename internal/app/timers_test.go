package app

import (
	"testing"
	"time"

	"resident-lockdown/internal/app/apptest"
)

func TestTimerEngineArmReplacesSameKind(t *testing.T) {
	sched := apptest.NewManualScheduler()
	e := newTimerEngine(sched.AfterFunc)

	var fired []string
	e.arm("p1", questionTimer, time.Second, func(uint64) { fired = append(fired, "first") })
	e.arm("p1", questionTimer, time.Second, func(uint64) { fired = append(fired, "second") })
	e.arm("p1", advanceTimer, time.Second, func(uint64) { fired = append(fired, "advance") })

	if e.pending() != 2 {
		t.Fatalf("expected 2 armed timers, got %d", e.pending())
	}
	sched.Advance(time.Second)
	if len(fired) != 2 || fired[0] != "second" || fired[1] != "advance" {
		t.Fatalf("unexpected firing %v", fired)
	}
}

func TestTimerEngineReleaseIgnoresReplacedToken(t *testing.T) {
	sched := apptest.NewManualScheduler()
	e := newTimerEngine(sched.AfterFunc)

	var firstToken uint64
	e.arm("p1", questionTimer, time.Second, func(token uint64) { firstToken = token })
	sched.Advance(time.Second)
	e.arm("p1", questionTimer, time.Second, func(uint64) {})

	e.release("p1", questionTimer, firstToken)
	if e.pending() != 1 {
		t.Fatalf("stale release removed the live timer")
	}
}

func TestTimerEngineCancelBumpsGeneration(t *testing.T) {
	sched := apptest.NewManualScheduler()
	e := newTimerEngine(sched.AfterFunc)

	gen := e.bump("p1")
	e.arm("p1", botAnswerTimer, time.Second, func(uint64) { t.Fatalf("cancelled timer fired") })
	e.cancelPlayer("p1")
	if e.generation("p1") == gen {
		t.Fatalf("expected generation to move on cancel")
	}

	gen = e.generation("p1")
	e.arm("p1", questionTimer, time.Second, func(uint64) { t.Fatalf("cancelled timer fired") })
	e.cancelAll()
	if e.generation("p1") == gen || e.pending() != 0 || sched.Pending() != 0 {
		t.Fatalf("cancelAll left state behind: gen=%d pending=%d", e.generation("p1"), e.pending())
	}
	sched.Advance(time.Minute)
}
