package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), ErrConfigIsNotSet)

	// Missing address.
	require.ErrorIs(t, Validate(new(Config)), ErrServerAddressRequired)

	// Bad address.
	require.Error(t, Validate(&Config{ServerAddress: "bad:address"}))

	// Bad HTTP address.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", HTTPAddress: "nope"}))

	// Cadence outside bounds.
	err := Validate(&Config{ServerAddress: "127.0.0.1:0", PollInterval: 10 * time.Millisecond})
	require.ErrorIs(t, err, ErrPollIntervalOutOfRange)

	err = Validate(&Config{ServerAddress: "127.0.0.1:0", SearchHorizon: -1})
	require.ErrorIs(t, err, ErrSearchHorizonOutOfRange)

	err = Validate(&Config{ServerAddress: "127.0.0.1:0", SearchHorizon: MaxSearchHorizon + 1})
	require.ErrorIs(t, err, ErrSearchHorizonOutOfRange)

	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", LogLevel: "loud"}))

	// Defaults are filled in.
	settings := &Config{ServerAddress: "127.0.0.1:0", HTTPAddress: ":8080"}
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultPollInterval, settings.PollInterval)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		HTTPAddress:   "127.0.0.1:8080",
		CatalogFile:   "zones.yaml",
		SearchHorizon: 672,
		Timeout:       3 * time.Second,
		PollInterval:  10 * time.Second,
		TrackedZones:  []string{"Chaos Sanctuary", "The Pit"},
		LogLevel:      "debug",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadOrDefault falls back to defaults only when the file does not exist.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server_addr: ["), DefaultFilePermissions))

	_, err = LoadOrDefault(broken)
	require.Error(t, err)
}

// TestSave_RejectsNil ensures a nil config is not written.
func TestSave_RejectsNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil), ErrConfigIsNotSet)
}
