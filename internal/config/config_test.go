package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
game:
  level1Timer: 45
admin:
  token: s3cret
redis:
  addr: localhost:6379
  ttl: 5m
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Game.Level1Timer != 45 || cfg.Game.Level2Timer != 20 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Game.ShortlistSize != 10 || cfg.Game.ChampionCount != 5 || cfg.NATS.Subject != "lockdown.events" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if s := cfg.Settings(); s.Level1Timer != 45 || s.ShortlistSize != 10 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if got := TTLDuration(cfg.Redis.TTL, time.Minute); got != 5*time.Minute {
		t.Fatalf("unexpected ttl %s", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Game.Level1Timer = 200
	cfg.Game.Level2Timer = 1
	cfg.Game.ShortlistSize = 0
	cfg.NATS.URL = "nats://localhost:4222"
	cfg.NATS.Subject = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	lines := strings.Split(err.Error(), "\n")
	want := []string{"game.level1Timer", "game.level2Timer", "game.shortlistSize", "admin.token", "nats.subject"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d problems, got %v", len(want), err)
	}
	for i, w := range want {
		if !strings.HasPrefix(lines[i], w) {
			t.Fatalf("problem %d: expected %q first, got %q", i, w, lines[i])
		}
	}
	if again := cfg.Validate(); again.Error() != err.Error() {
		t.Fatalf("validation output not stable:\n%v\n%v", err, again)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %s", got)
	}
}
