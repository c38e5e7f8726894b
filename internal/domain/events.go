package domain

import (
	"encoding/json"
	"time"
)

// Event is one outbound message of the game protocol. The set of implementations is closed:
// every type in this file and nothing else.
type Event interface {
	EventType() string
}

type Registered struct {
	PlayerID string           `json:"playerId"`
	Player   LeaderboardEntry `json:"player"`
}

type GameStateSnapshot struct {
	IsActive       bool               `json:"isActive"`
	CurrentLevel   int                `json:"currentLevel"`
	Level1Ended    bool               `json:"level1Ended"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	SystemMessages []SystemMessage    `json:"systemMessages"`
}

type LevelStart struct {
	Level          int  `json:"level"`
	Timer          int  `json:"timer"`
	TotalQuestions int  `json:"totalQuestions"`
	Survivors      *int `json:"survivors,omitempty"`
}

type NewQuestion struct {
	Question       QuestionView `json:"question"`
	QuestionNumber int          `json:"questionNumber"`
	TotalQuestions int          `json:"totalQuestions"`
	Timer          int          `json:"timer"`
}

type AnswerResult struct {
	Correct        bool   `json:"correct"`
	CorrectAnswer  int    `json:"correctAnswer"`
	Explanation    string `json:"explanation"`
	InfectionLevel int    `json:"infectionLevel"`
	Score          int    `json:"score"`
}

type PlayerCompleted struct {
	PlayerID        string `json:"playerId"`
	Name            string `json:"name"`
	CompletionOrder int    `json:"completionOrder"`
	Score           int    `json:"score"`
}

type AllQuestionsCompleted struct{}

// LeaderboardUpdate is the full ranked list; it marshals as a bare array.
type LeaderboardUpdate []LeaderboardEntry

type Level1Complete struct {
	Survivors []PlayerSummary `json:"survivors"`
}

type GameEnd struct {
	Winners         []PlayerSummary `json:"winners"`
	Champion        *PlayerSummary  `json:"champion"`
	TotalPlayers    int             `json:"totalPlayers"`
	EliminatedCount int             `json:"eliminatedCount"`
}

type Eliminated struct {
	Reason          string    `json:"reason"`
	EliminationTime time.Time `json:"eliminationTime"`
}

// SystemMessage types.
const (
	MessageInfo        = "info"
	MessageWarning     = "warning"
	MessageSuccess     = "success"
	MessageElimination = "elimination"
)

type SystemMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type GameReset struct{}

type AntiCheatWarning struct {
	OffenseCount int    `json:"offenseCount"`
	MaxWarnings  int    `json:"maxWarnings"`
	Message      string `json:"message"`
}

type AntiCheatPenalty struct {
	OffenseCount int    `json:"offenseCount"`
	Penalty      int    `json:"penalty"`
	NewScore     int    `json:"newScore"`
	Message      string `json:"message"`
}

type AdminData AdminSnapshot

type AdminError struct {
	Message string `json:"message"`
}

type QuestionAdded struct {
	Level    int      `json:"level"`
	Question Question `json:"question"`
}

type QuestionDeleted struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
}

// ErrorMessage rejects a malformed or out-of-order player intent.
type ErrorMessage struct {
	Message string `json:"message"`
}

// ExportData marshals as a bare array of rows.
type ExportData []ResultRow

func (Registered) EventType() string            { return "registered" }
func (GameStateSnapshot) EventType() string     { return "gameState" }
func (LevelStart) EventType() string            { return "levelStart" }
func (NewQuestion) EventType() string           { return "newQuestion" }
func (AnswerResult) EventType() string          { return "answerResult" }
func (PlayerCompleted) EventType() string       { return "playerCompleted" }
func (AllQuestionsCompleted) EventType() string { return "allQuestionsCompleted" }
func (LeaderboardUpdate) EventType() string     { return "leaderboardUpdate" }
func (Level1Complete) EventType() string        { return "level1Complete" }
func (GameEnd) EventType() string               { return "gameEnd" }
func (Eliminated) EventType() string            { return "eliminated" }
func (SystemMessage) EventType() string         { return "systemMessage" }
func (GameReset) EventType() string             { return "gameReset" }
func (AntiCheatWarning) EventType() string      { return "antiCheatWarning" }
func (AntiCheatPenalty) EventType() string      { return "antiCheatPenalty" }
func (AdminData) EventType() string             { return "adminData" }
func (AdminError) EventType() string            { return "adminError" }
func (QuestionAdded) EventType() string         { return "adminQuestionAdded" }
func (QuestionDeleted) EventType() string       { return "adminQuestionDeleted" }
func (ExportData) EventType() string            { return "adminExportData" }
func (ErrorMessage) EventType() string          { return "error" }

// Envelope is the wire form of an event: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func Wrap(ev Event) Envelope {
	return Envelope{Type: ev.EventType(), Payload: ev}
}

// Encode marshals the event in its envelope.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(Wrap(ev))
}
