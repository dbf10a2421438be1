// Package config loads settings for the mod2midi CLI and API server
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the main configuration structure
type Config struct {
	// ForcePiano is the default for conversions that do not set it
	ForcePiano bool `mapstructure:"force_piano"`

	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig holds the API server settings
type ServerConfig struct {
	Port           int   `mapstructure:"port"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// EnvPrefix prefixes environment overrides, e.g. MOD2MIDI_SERVER_PORT
const EnvPrefix = "MOD2MIDI"

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			MaxUploadBytes: 8 << 20,
		},
	}
}

// ConfigDir returns the user config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mod2midi"), nil
}

// Load reads configuration from path, or from mod2midi.yaml in the working
// directory or ConfigDir when path is empty. A missing file yields defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mod2midi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("force_piano", def.ForcePiano)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.max_upload_bytes", def.Server.MaxUploadBytes)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
