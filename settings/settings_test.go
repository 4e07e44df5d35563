package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default settings: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected saving over an existing file to fail")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s != DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", s)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[Simulation]\nRandomTickSpeed = 10\n"), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Simulation.RandomTickSpeed != 10 {
		t.Fatalf("expected random tick speed 10, got %d", s.Simulation.RandomTickSpeed)
	}
	if s.Permissions.SetBlockLevel != DefaultSettings().Permissions.SetBlockLevel {
		t.Fatalf("expected missing fields to keep their defaults, got %+v", s)
	}
}

func TestRandomTickChance(t *testing.T) {
	s := DefaultSettings()
	for speed, want := range map[int]float64{-1: 0, 0: 0, 3: 3.0 / 4096, 4096: 1, 10000: 1} {
		s.Simulation.RandomTickSpeed = speed
		if got := s.RandomTickChance(); got != want {
			t.Fatalf("speed %d: expected chance %v, got %v", speed, want, got)
		}
	}
}
