// Package config loads and validates DocNest backend configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DataDir   string       `mapstructure:"data_dir" validate:"required"`
	ExportDir string       `mapstructure:"export_dir" validate:"required"`
	Server    ServerConfig `mapstructure:"server" validate:"required"`
	Log       LogConfig    `mapstructure:"log"`
	Export    ExportConfig `mapstructure:"export"`
}

// ServerConfig holds the localhost desktop server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// ExportConfig holds export behavior settings.
type ExportConfig struct {
	// ExcludePatterns are doublestar globs matched against attachment
	// export paths; matching files are listed in the index but not copied.
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:   filepath.Join(home, ".docnest"),
		ExportDir: filepath.Join(home, ".docnest", "exports"),
		Server: ServerConfig{
			Addr: "localhost:8090",
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			ExcludePatterns: []string{"**/.DS_Store", "**/Thumbs.db"},
		},
	}
}

// Load reads configuration from file and environment.
// An empty configPath searches the working directory and the user
// config directory for config.yaml.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("export_dir", defaults.ExportDir)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("export.exclude_patterns", defaults.Export.ExcludePatterns)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DOCNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.ExportDir = expandPath(cfg.ExportDir)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks a Config against its struct validation tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range errs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getConfigDir returns the per-user config directory for docnest.
func getConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "docnest")
}

// expandPath expands a leading ~ to the user home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
