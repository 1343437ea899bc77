// Package conf defines the application settings and the functions to load
// and save them. Settings are sourced from config.yaml, environment
// variables and command line flags, in ascending precedence.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LogConfig holds file logging and rotation settings.
type LogConfig struct {
	Enabled    bool   // true to write service logs to file
	Path       string // log file path
	MaxSize    int    // max size in MB before rotation
	MaxBackups int    // rotated files to keep
	MaxAge     int    // days to retain rotated files
}

// BackendSettings points at the remote inference/chat backend. Both
// endpoints are opaque remote services reached over HTTP.
type BackendSettings struct {
	URL     string        // base URL, e.g. http://localhost:5175
	Timeout time.Duration // per-request timeout for backend calls
}

// WebSettings configures the dashboard HTTP server.
type WebSettings struct {
	Address string // listen address
	Port    string // listen port
}

// GallerySettings configures the persisted image gallery.
type GallerySettings struct {
	Path     string // directory holding the gallery slot file
	MaxItems int    // cap on retained items, oldest evicted first
}

// ChatSettings holds the fixed conversation texts.
type ChatSettings struct {
	Greeting    string // seed bot message shown before any interaction
	Placeholder string // transient bot message shown while a reply is pending
}

// ExportSettings configures dashboard export and sharing.
type ExportSettings struct {
	Title    string // document title used on exported reports
	ShareURL string // share-target link base; empty disables the link strategy
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug logging

	Main struct {
		Name string    // name of this node, used in logs and exports
		Log  LogConfig // main log settings
	}

	Backend BackendSettings
	Web     WebSettings
	Gallery GallerySettings
	Chat    ChatSettings
	Export  ExportSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration into a Settings struct and stores it as the
// package-level instance returned by Setting().
func Load() (*Settings, error) {
	setDefaultConfig()

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()

	return settings, nil
}

// initViper sets up config file discovery and environment overrides.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("PLANKTOS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}
	return nil
}

// Setting returns the current settings instance, loading it first if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	s := settingsInstance
	settingsMutex.RUnlock()
	if s != nil {
		return s
	}
	s, err := Load()
	if err != nil {
		return &Settings{}
	}
	return s
}

// GetDefaultConfigPaths returns the list of directories searched for
// config.yaml: the user config directory first, then the working directory.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return []string{"."}, nil
	}
	return []string{filepath.Join(configDir, "planktos"), "."}, nil
}

// SaveSettings writes the settings as YAML to the given path, creating the
// directory if needed.
func SaveSettings(settings *Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
