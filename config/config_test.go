package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mine.DriveScale != 0.6 || cfg.Mine.SpikeRadius != 128 {
		t.Errorf("mine defaults = scale %v spike %v", cfg.Mine.DriveScale, cfg.Mine.SpikeRadius)
	}
	if cfg.Mine.Tag != "rollermine" {
		t.Errorf("Mine.Tag = %q, want rollermine", cfg.Mine.Tag)
	}
	if cfg.Derived.TicksPerSecond != 60 {
		t.Errorf("TicksPerSecond = %d, want 60", cfg.Derived.TicksPerSecond)
	}
	if cfg.Derived.NavCols != 128 || cfg.Derived.NavRows != 128 {
		t.Errorf("nav grid = %dx%d, want 128x128", cfg.Derived.NavCols, cfg.Derived.NavRows)
	}
	if cfg.Derived.PathMaxDistance != 2048 {
		t.Errorf("PathMaxDistance = %v, want 2048", cfg.Derived.PathMaxDistance)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, "mine:\n  drive_scale: 0.8\n  tag: \"\"\n  hostile_tag: \"\"\nviz:\n  broadcast_every: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mine.DriveScale != 0.8 {
		t.Errorf("DriveScale = %v, want 0.8", cfg.Mine.DriveScale)
	}
	// Untouched fields keep their defaults
	if cfg.Mine.CorrectionGain != 20000 {
		t.Errorf("CorrectionGain = %v, want default 20000", cfg.Mine.CorrectionGain)
	}
	if cfg.Mine.HostileTag != cfg.Player.Tag {
		t.Errorf("HostileTag = %q, want player tag %q", cfg.Mine.HostileTag, cfg.Player.Tag)
	}
	if cfg.Mine.Tag != "rollermine" {
		t.Errorf("empty Mine.Tag = %q, want rollermine", cfg.Mine.Tag)
	}
	if cfg.Viz.BroadcastEvery != 1 {
		t.Errorf("BroadcastEvery = %d, want 1", cfg.Viz.BroadcastEvery)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"zero dt", "physics:\n  dt: 0\n", "physics.dt"},
		{"negative cell", "nav:\n  cell_size: -1\n", "nav.cell_size"},
		{"empty arena", "world:\n  width: 0\n", "world size"},
		{"massless mine", "physics:\n  mine_mass: 0\n", "mine_mass"},
		{"bad yaml", "mine: [", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Mine.CorrectionGain = 31000

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Mine.CorrectionGain != 31000 {
		t.Errorf("CorrectionGain = %v after round trip", back.Mine.CorrectionGain)
	}
}
