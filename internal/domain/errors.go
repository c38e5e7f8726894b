package domain

import "errors"

var (
	// ErrPlayerNotFound is returned when an intent names an unknown player.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrPlayerEliminated is returned for intents from a player who is already out.
	ErrPlayerEliminated = errors.New("player eliminated")
	// ErrAlreadyCompleted is returned when a player answers after finishing the level.
	ErrAlreadyCompleted = errors.New("player already completed the level")
	// ErrAlreadyAnswered guards against duplicate submissions for one question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNoActiveQuestion is returned when no question is being served to the player.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrGameInactive is returned for gameplay intents outside a running level.
	ErrGameInactive = errors.New("game is not active")
	// ErrGameActive is returned for lobby-only admin commands during play.
	ErrGameActive = errors.New("game is active")

	ErrNoPlayers       = errors.New("not enough players")
	ErrLevel1NotEnded  = errors.New("level 1 has not ended yet")
	ErrNoSurvivors     = errors.New("no survivors to start level 2")
	ErrLevel2Started   = errors.New("level 2 has already started")
	ErrTimerOutOfRange = errors.New("timer must be between 5 and 120 seconds")
	ErrInvalidLevel    = errors.New("level must be 1 or 2")
	ErrInvalidBotCount = errors.New("bot count must be between 1 and 100")

	// ErrQuestionNotFound indicates a question id is not part of the level's bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion rejects questions without a prompt, options or a valid answer index.
	ErrInvalidQuestion = errors.New("invalid question")
)
