package app_test

import (
	"testing"

	"resident-lockdown/internal/app"
	"resident-lockdown/internal/app/apptest"
	"resident-lockdown/internal/domain"
)

func TestBroadcastersFanOut(t *testing.T) {
	a, b := apptest.NewRecorder(), apptest.NewRecorder()
	out := app.Broadcasters{a, b}

	out.Broadcast(domain.GameReset{})
	out.SendTo("conn-1", domain.AllQuestionsCompleted{})

	for _, rec := range []*apptest.Recorder{a, b} {
		if len(rec.Broadcasts("gameReset")) != 1 || len(rec.Sent("conn-1", "allQuestionsCompleted")) != 1 {
			t.Fatalf("event not delivered to every member")
		}
	}
}
