package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSaveDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peek.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("unexpected error saving defaults: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected error when the settings file already exists")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading settings: %v", err)
	}
	def := DefaultSettings()
	if s.Sync.RangePadding != def.Sync.RangePadding || s.Proxy.LocalAddress != def.Proxy.LocalAddress {
		t.Fatalf("loaded settings differ from defaults: %+v", s)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peek.toml")
	data := []byte("[Peek]\nLogLevel = \"debug\"\nWorkers = 0\n\n[Sync]\nDisabledProviders = [\"peek:block_states\"]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("unexpected error writing settings: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading settings: %v", err)
	}
	if s.Level() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", s.Level())
	}
	if s.Peek.Workers != 1 {
		t.Fatalf("expected workers to be clamped to 1, got %d", s.Peek.Workers)
	}
	if s.Sync.RequestInterval != DefaultSettings().Sync.RequestInterval {
		t.Fatalf("expected default request interval, got %d", s.Sync.RequestInterval)
	}
	if len(s.Sync.DisabledProviders) != 1 || s.Sync.DisabledProviders[0] != "peek:block_states" {
		t.Fatalf("unexpected disabled providers %v", s.Sync.DisabledProviders)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for a missing settings file")
	}
}
