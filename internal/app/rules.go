package app

import (
	"fmt"

	"resident-lockdown/internal/domain"
)

// Outcome is how a player's turn on a question ended.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeWrong
	OutcomeTimeout
)

const (
	level1CorrectPoints  = 50
	level2CorrectPoints  = 100
	correctCure          = 5
	level1WrongInfection = 15
	level2WrongInfection = 25
	timeoutInfection     = 20
	criticalInfection    = 100

	maxTabWarnings       = 3
	tabSwitchPenalty     = -50
	tabSwitchCutoffScore = -10

	botCorrectChance = 0.6
)

// Elimination reasons shown to players and in the results export.
const (
	ReasonInfection    = "Infection level critical"
	ReasonTimeout      = "Failed to respond in time"
	ReasonTabSwitching = "Excessive tab switching - anti-cheat violation"
)

func shortlistReason(n int) string { return fmt.Sprintf("Did not make top %d", n) }

func championReason(n int) string { return fmt.Sprintf("Did not make top %d champions", n) }

// Delta is the change an answer outcome makes to a player's score and infection.
type Delta struct {
	Score     int
	Infection int
}

// ScoreAnswer computes the deltas for an outcome given the player's current infection.
// Correct answers never push infection below zero.
func ScoreAnswer(infection int, outcome Outcome, level int) Delta {
	switch outcome {
	case OutcomeCorrect:
		points := level1CorrectPoints
		if level == 2 {
			points = level2CorrectPoints
		}
		return Delta{Score: points, Infection: -min(correctCure, max(infection, 0))}
	case OutcomeTimeout:
		return Delta{Infection: timeoutInfection}
	default:
		if level == 2 {
			return Delta{Infection: level2WrongInfection}
		}
		return Delta{Infection: level1WrongInfection}
	}
}

// applyOutcome books an outcome onto the player and reports whether infection went critical.
func applyOutcome(p *domain.Player, outcome Outcome, level int) bool {
	d := ScoreAnswer(p.InfectionLevel, outcome, level)
	p.Score += d.Score
	p.InfectionLevel += d.Infection
	if outcome == OutcomeCorrect {
		p.CorrectAnswers++
	} else {
		p.WrongAnswers++
	}
	return p.InfectionLevel >= criticalInfection
}

func eliminationReason(outcome Outcome) string {
	if outcome == OutcomeTimeout {
		return ReasonTimeout
	}
	return ReasonInfection
}

// TabSwitchVerdict is the anti-cheat response to one detected tab switch.
type TabSwitchVerdict struct {
	Offense   int
	Warning   bool
	Penalty   int
	NewScore  int
	Eliminate bool
	Message   string
}

// JudgeTabSwitch decides the response to the offense-th tab switch of a player currently
// holding score points. The first three offenses only warn.
func JudgeTabSwitch(offense, score int) TabSwitchVerdict {
	if offense <= maxTabWarnings {
		msg := fmt.Sprintf("WARNING %d/%d: Tab switching detected. Stay in the game!", offense, maxTabWarnings)
		if offense == maxTabWarnings {
			msg = "FINAL WARNING: Next tab switch will result in point deductions!"
		}
		return TabSwitchVerdict{Offense: offense, Warning: true, NewScore: score, Message: msg}
	}
	newScore := score + tabSwitchPenalty
	return TabSwitchVerdict{
		Offense:   offense,
		Penalty:   tabSwitchPenalty,
		NewScore:  newScore,
		Eliminate: newScore <= tabSwitchCutoffScore,
		Message:   fmt.Sprintf("PENALTY: %d points! Tab switching is not allowed.", tabSwitchPenalty),
	}
}
