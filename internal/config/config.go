package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"resident-lockdown/internal/domain"
)

type Config struct {
	Server struct {
		Port         string  `yaml:"port"`
		PublicURL    string  `yaml:"publicURL"`
		SendBuffer   int     `yaml:"sendBuffer"`
		MessageRate  float64 `yaml:"messageRate"`
		MessageBurst int     `yaml:"messageBurst"`
	} `yaml:"server"`
	Game struct {
		Level1Timer   int `yaml:"level1Timer"`
		Level2Timer   int `yaml:"level2Timer"`
		ShortlistSize int `yaml:"shortlistSize"`
		ChampionCount int `yaml:"championCount"`
		MessageBuffer int `yaml:"messageBuffer"`
	} `yaml:"game"`
	Admin struct {
		Token string `yaml:"token"`
	} `yaml:"admin"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
}

// Default is the configuration used for anything the YAML file leaves out.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.SendBuffer = 64
	cfg.Server.MessageRate = 20
	cfg.Server.MessageBurst = 40

	s := domain.DefaultSettings()
	cfg.Game.Level1Timer = s.Level1Timer
	cfg.Game.Level2Timer = s.Level2Timer
	cfg.Game.ShortlistSize = s.ShortlistSize
	cfg.Game.ChampionCount = s.ChampionCount
	cfg.Game.MessageBuffer = 20

	cfg.NATS.Subject = "lockdown.events"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	timers := []struct {
		name  string
		value int
	}{
		{"game.level1Timer", c.Game.Level1Timer},
		{"game.level2Timer", c.Game.Level2Timer},
	}
	for _, tm := range timers {
		if tm.value < domain.MinTimerSeconds || tm.value > domain.MaxTimerSeconds {
			errs = append(errs, fmt.Errorf("%s must be between %d and %d seconds, got %d", tm.name, domain.MinTimerSeconds, domain.MaxTimerSeconds, tm.value))
		}
	}
	if c.Game.ShortlistSize < 1 {
		errs = append(errs, fmt.Errorf("game.shortlistSize must be positive, got %d", c.Game.ShortlistSize))
	}
	if c.Game.ChampionCount < 1 {
		errs = append(errs, fmt.Errorf("game.championCount must be positive, got %d", c.Game.ChampionCount))
	}
	if c.Admin.Token == "" {
		errs = append(errs, errors.New("admin.token is required"))
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		errs = append(errs, errors.New("nats.subject is required when nats.url is set"))
	}
	return errors.Join(errs...)
}

// Settings are the initial game settings.
func (c Config) Settings() domain.Settings {
	return domain.Settings{
		Level1Timer:   c.Game.Level1Timer,
		Level2Timer:   c.Game.Level2Timer,
		ShortlistSize: c.Game.ShortlistSize,
		ChampionCount: c.Game.ChampionCount,
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
