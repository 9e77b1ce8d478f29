package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsValidate(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Wheel.Mode != 3 || cfg.Schedule.DayStart != "11:00" || cfg.State.Backend != "file" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.Data.LedgerPath(); got != filepath.Join("data", "inventory.csv") {
		t.Fatalf("ledger path = %s", got)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
wheel:
  mode: 2
pacing:
  curve: keyframes
  curve_points: ["0:0", "0.5:0.2", "1:1"]
  progress: spins
streak:
  max_filler: 2
data:
  dir: /srv/wheel
`)
	t.Setenv("WHEEL_PACING_MAX_PROB", "0.75")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Wheel.Mode != 2 || cfg.Streak.MaxFiller != 2 || cfg.Pacing.MaxProb != 0.75 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Data.CatalogPath() != "/srv/wheel/prizes.yaml" {
		t.Fatalf("catalog path = %s", cfg.Data.CatalogPath())
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("engine options: %v", err)
	}
	if opts.Caps.MaxFiller != 2 || opts.Schedule.DayEnd != 20*time.Hour {
		t.Fatalf("options = %+v", opts)
	}
	if v := opts.Curve.Evaluate(0.25); v < 0.099 || v > 0.101 {
		t.Fatalf("keyframe curve(0.25) = %v", v)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatalf("missing config file should fail unless envOnly")
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg, err := Load("", true)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Wheel.Mode = 7
	cfg.Pacing.MinProb = 0.9
	cfg.Pacing.MaxProb = 0.2
	cfg.Pacing.Curve = "zigzag"
	cfg.Schedule.DayEnd = "10:00"
	cfg.State.Backend = "etcd"
	cfg.Cron.ModePoll = "every now and then"

	err = Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{
		"wheel.mode", "pacing.min_prob must be <=", "pacing.curve", "schedule:", "state.backend", "cron.mode_poll",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}
