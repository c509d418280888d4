package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/terror-zones/internal/logger"
)

// Config holds the settings shared by the zone binaries.
type Config struct {
	// ServerAddress is the gRPC address of the zone server.
	ServerAddress string `yaml:"server_addr"`
	// HTTPAddress is the optional listen address of the HTTP API and metrics.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// CatalogFile is the path to a zone catalog YAML; empty uses the bundled one.
	CatalogFile string `yaml:"catalog_file,omitempty"`
	// SearchHorizon is the number of windows scanned when looking for a zone.
	// Zero keeps the default of twice the catalog length.
	SearchHorizon int `yaml:"search_horizon,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// PollInterval is how often the watcher re-evaluates the rotation.
	PollInterval time.Duration `yaml:"poll_interval"`
	// TrackedZones are the zone names the watcher alerts on.
	TrackedZones []string `yaml:"tracked_zones,omitempty"`
	// LogLevel is the zap level name used by the binaries.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "terror-zones-settings.yaml"

	// DefaultServerAddress is used when no settings file exists.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultPollInterval is the default watcher cadence.
	DefaultPollInterval = 5 * time.Second

	// MinPollInterval and MaxPollInterval bound the watcher cadence.
	MinPollInterval = time.Second
	MaxPollInterval = time.Minute

	// MaxSearchHorizon caps search_horizon at one leap year of windows.
	MaxSearchHorizon = 366 * 96

	// DefaultLogLevel is applied when log_level is not set.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// ErrConfigIsNotSet is returned when a nil configuration is provided.
	ErrConfigIsNotSet = errors.New("configuration is not set")
	// ErrServerAddressRequired is returned when server address is missing.
	ErrServerAddressRequired = errors.New("server address must be provided")
	// ErrPollIntervalOutOfRange is returned for a cadence outside the allowed bounds.
	ErrPollIntervalOutOfRange = errors.New("poll interval out of range")
	// ErrSearchHorizonOutOfRange is returned for a negative or oversized search horizon.
	ErrSearchHorizonOutOfRange = errors.New("search horizon out of range")
)

// Default returns settings usable without a file.
func Default() *Config {
	return &Config{
		ServerAddress: DefaultServerAddress,
		Timeout:       DefaultTimeout,
		PollInterval:  DefaultPollInterval,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file is missing.
// The offline calculator works without any settings file.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return ErrConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for optional ones.
func Validate(settings *Config) error {
	if settings == nil {
		return ErrConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return ErrServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid http address: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.PollInterval == 0 {
		settings.PollInterval = DefaultPollInterval
	}

	if settings.PollInterval < MinPollInterval || settings.PollInterval > MaxPollInterval {
		return fmt.Errorf("%w: %s not within [%s, %s]",
			ErrPollIntervalOutOfRange, settings.PollInterval, MinPollInterval, MaxPollInterval)
	}

	if settings.SearchHorizon < 0 || settings.SearchHorizon > MaxSearchHorizon {
		return fmt.Errorf("%w: %d not within [0, %d]", ErrSearchHorizonOutOfRange, settings.SearchHorizon, MaxSearchHorizon)
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}

	return nil
}
