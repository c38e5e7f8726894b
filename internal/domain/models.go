package domain

import "time"

// Status is the cached lifecycle state of a player.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusEliminated   Status = "ELIMINATED"
	StatusDisconnected Status = "DISCONNECTED"
	// StatusCompleted is only ever reported on leaderboard entries.
	StatusCompleted Status = "COMPLETED"
)

// Player is the server-side record of a registered (real or simulated) participant.
type Player struct {
	ID         string
	ChannelRef string // empty for bots and after the connection is dropped
	Name       string
	IsBot      bool
	JoinTime   time.Time

	Score          int
	InfectionLevel int
	Eliminated     bool
	Status         Status

	EliminationReason string
	EliminationTime   time.Time

	QuestionIndex   int
	AnsweredCurrent bool
	Completed       bool
	CompletionTime  time.Time // zero until completed
	CompletionOrder int

	CorrectAnswers int
	WrongAnswers   int
	TabSwitchCount int
}

// Question is a multiple choice prompt with exactly one correct option.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Valid reports whether the question can be served.
func (q Question) Valid() bool {
	return q.Prompt != "" && len(q.Options) >= 2 && q.Correct >= 0 && q.Correct < len(q.Options)
}

// View strips the answer before the question is sent to a player.
func (q Question) View() QuestionView {
	return QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
}

// QuestionView is the player-facing form of a question.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Settings are the admin tunables. Timers are in seconds.
type Settings struct {
	Level1Timer   int `json:"level1Timer"`
	Level2Timer   int `json:"level2Timer"`
	ShortlistSize int `json:"shortlistSize"`
	ChampionCount int `json:"championCount"`
}

// TimerFor returns the configured per-question timer for a level.
func (s Settings) TimerFor(level int) int {
	if level == 2 {
		return s.Level2Timer
	}
	return s.Level1Timer
}

// DefaultSettings mirror the values the game ships with.
func DefaultSettings() Settings {
	return Settings{
		Level1Timer:   30,
		Level2Timer:   20,
		ShortlistSize: 10,
		ChampionCount: 5,
	}
}

const (
	MinTimerSeconds = 5
	MaxTimerSeconds = 120
)

// LeaderboardEntry is a ranked, broadcast-ready view of a player.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Score           int    `json:"score"`
	InfectionLevel  int    `json:"infectionLevel"`
	Status          Status `json:"status"`
	CorrectAnswers  int    `json:"correctAnswers"`
	WrongAnswers    int    `json:"wrongAnswers"`
	Completed       bool   `json:"completed"`
	CompletionOrder int    `json:"completionOrder"`
	IsBot           bool   `json:"isBot"`
}

// PlayerSummary is the short form used in survivor and winner lists.
type PlayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AdminPlayer is the per-player row of the admin snapshot.
type AdminPlayer struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Score           int    `json:"score"`
	InfectionLevel  int    `json:"infectionLevel"`
	Status          Status `json:"status"`
	CorrectAnswers  int    `json:"correctAnswers"`
	WrongAnswers    int    `json:"wrongAnswers"`
	Eliminated      bool   `json:"eliminated"`
	Completed       bool   `json:"completed"`
	CompletionOrder int    `json:"completionOrder"`
	QuestionIndex   int    `json:"questionIndex"`
	TabSwitchCount  int    `json:"tabSwitchCount"`
	IsBot           bool   `json:"isBot"`
}

// AdminSettings is the settings block of the admin snapshot.
type AdminSettings struct {
	Settings
	CurrentLevel int  `json:"currentLevel"`
	IsActive     bool `json:"isActive"`
	Level1Ended  bool `json:"level1Ended"`
}

// AdminSnapshot is everything the admin panel renders.
type AdminSnapshot struct {
	Players   []AdminPlayer         `json:"players"`
	Questions map[string][]Question `json:"questions"`
	Settings  AdminSettings         `json:"settings"`
}

// ResultRow is one line of the results export.
type ResultRow struct {
	Name              string `json:"name"`
	Score             int    `json:"score"`
	InfectionLevel    int    `json:"infectionLevel"`
	Status            Status `json:"status"`
	CorrectAnswers    int    `json:"correctAnswers"`
	WrongAnswers      int    `json:"wrongAnswers"`
	Eliminated        bool   `json:"eliminated"`
	EliminationReason string `json:"eliminationReason"`
}

// SettingsUpdate carries optional timer changes from the admin panel.
type SettingsUpdate struct {
	Level1Timer *int `json:"level1Timer,omitempty"`
	Level2Timer *int `json:"level2Timer,omitempty"`
}

// GameStatus summarises the game for the HTTP status endpoint.
type GameStatus struct {
	IsActive      bool `json:"isActive"`
	CurrentLevel  int  `json:"currentLevel"`
	PlayerCount   int  `json:"playerCount"`
	ActivePlayers int  `json:"activePlayers"`
}
