// SPDX-License-Identifier: MPL-2.0

// Package config loads the global matrixrun tool configuration.
//
// Settings come from an optional config file in the platform config
// directory, MATRIXRUN_* environment variables, and built-in defaults,
// in that order of precedence (highest first). Per-invocation flags are
// layered on top by the CLI, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, also used for config and cache
	// directory names.
	AppName = "matrixrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileType is the config file format.
	ConfigFileType = "yaml"
)

// Config is the decoded tool configuration.
type Config struct {
	// CacheDir is the sandbox cache root. Defaults to the platform
	// user cache directory.
	CacheDir string `mapstructure:"cache_dir"`
	// Parallel is the default environment concurrency.
	Parallel int `mapstructure:"parallel"`
	// TailBytes bounds captured stdout/stderr tails per command.
	TailBytes int `mapstructure:"tail_bytes"`
	// Matrixfile is the default matrixfile name looked up in the
	// working directory.
	Matrixfile string `mapstructure:"matrixfile"`
}

// Load reads the configuration. pathOverride, when non-empty, names an
// explicit config file; otherwise the platform config directory is
// searched. A missing config file is not an error: defaults apply.
func Load(pathOverride string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)

	if pathOverride != "" {
		v.SetConfigFile(pathOverride)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("MATRIXRUN")
	v.AutomaticEnv()

	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("parallel", 1)
	v.SetDefault("tail_bytes", 4096)
	v.SetDefault("matrixfile", "matrixfile.cue")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// An explicitly named or present-but-broken config file
			// must not be silently ignored.
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// configDir returns the matrixrun configuration directory under the
// platform user config directory.
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// defaultCacheDir returns the sandbox cache root under the platform
// user cache directory, falling back to a hidden directory in the
// working directory when no cache dir exists.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(base, AppName)
}
