package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/peek/game"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// Settings contains everything that can be configured in peek.
type Settings struct {
	Peek struct {
		// LogLevel is the minimum level of messages logged, for example "info" or "debug".
		LogLevel string
		// SentryDSN is the DSN errors are reported to. Reporting is disabled when it is empty.
		SentryDSN string
		// Workers is the amount of goroutines handling server data requests.
		Workers int
	}
	Sync struct {
		// RangePadding is added to the interaction range of a player to get the distance beyond which server data
		// requests are dropped.
		RangePadding float32
		// RequestInterval is the minimum amount of ticks between two identical requests of a client.
		RequestInterval uint64
		// DisabledProviders holds the UIDs of server data providers that should never run.
		DisabledProviders []string
	}
	Proxy struct {
		LocalAddress  string
		RemoteAddress string
		// StatsViewAddress is the address a runtime statistics page is served on. Disabled when empty.
		StatsViewAddress string
		// ChunkRadius is the radius in chunks around a player beyond which tracked chunks are dropped.
		ChunkRadius int32
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Peek.LogLevel = "info"
	s.Peek.Workers = 4

	s.Sync.RangePadding = game.DefaultSyncRangePadding
	s.Sync.RequestInterval = 10

	s.Proxy.LocalAddress = "0.0.0.0:19132"
	s.Proxy.RemoteAddress = "127.0.0.1:19133"
	s.Proxy.ChunkRadius = 16
	return s
}

// Level returns the logrus level of the LogLevel setting, falling back to info for unknown levels.
func (s Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.Peek.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist. Settings
// missing from the file keep their default value.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if s.Peek.Workers <= 0 {
		s.Peek.Workers = 1
	}
	return s, nil
}
