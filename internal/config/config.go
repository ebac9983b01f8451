// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads voterslip settings from defaults, voterslip.yaml,
// VOTERSLIP_* environment variables and command line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RuntimeOS is the platform used to pick config directories.
var RuntimeOS = runtime.GOOS

// Config is the full application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Assets struct {
		Dir string `mapstructure:"dir" yaml:"dir"`
	} `mapstructure:"assets" yaml:"assets"`
	Language string `mapstructure:"language" yaml:"language"`
	Lookup   struct {
		Collation string `mapstructure:"collation" yaml:"collation"`
	} `mapstructure:"lookup" yaml:"lookup"`
	Image struct {
		Width   int    `mapstructure:"width" yaml:"width"`
		Quality int    `mapstructure:"quality" yaml:"quality"`
		Mode    string `mapstructure:"mode" yaml:"mode"`
		Filter  string `mapstructure:"filter" yaml:"filter"`
	} `mapstructure:"image" yaml:"image"`
	Printer struct {
		Scheme        string `mapstructure:"scheme" yaml:"scheme"`
		CopyOnFailure bool   `mapstructure:"copy_on_failure" yaml:"copy_on_failure"`
	} `mapstructure:"printer" yaml:"printer"`
	Slip struct {
		Footer    string `mapstructure:"footer" yaml:"footer"`
		LineWidth int    `mapstructure:"line_width" yaml:"line_width"`
		// Image false prints every slip without the header photo.
		Image bool `mapstructure:"image" yaml:"image"`
		// Fields, when set, is a comma separated list of voter fields shown on
		// every slip style.
		Fields string `mapstructure:"fields" yaml:"fields"`
	} `mapstructure:"slip" yaml:"slip"`
}

// Defaults returns the built-in configuration values keyed by their dotted
// viper names.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":           "sqlite",
		"database.dsn":            "voter_data.db",
		"assets.dir":              "assets",
		"language":                "en",
		"lookup.collation":        "engine",
		"image.width":             200,
		"image.quality":           30,
		"image.mode":              "grayscale",
		"image.filter":            "lanczos",
		"printer.scheme":          "rawbt",
		"printer.copy_on_failure": false,
		"slip.footer":             "",
		"slip.line_width":         32,
		"slip.image":              true,
		"slip.fields":             "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch RuntimeOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Voterslip")
		default: // Linux, macOS, etc.
			configDir = "/etc/voterslip"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "voterslip")
	}

	return filepath.Join(configDir, "voterslip.yaml"), nil
}

// LoadConfig builds a T from defaults, the first voterslip.yaml found (or
// configFile when non-nil), VOTERSLIP_* environment variables and the flags
// of cmd. A missing config file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. File search paths
	v.SetConfigName("voterslip")
	v.SetConfigType("yaml")
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 3. Read the config file
	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return c, err
		}
	}

	// 4. Environment
	v.SetEnvPrefix("voterslip")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. Flags. Flag names use the dotted keys, e.g. --database.dsn.
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// isNotFound reports whether err means no config file exists. An explicit
// file that is missing is treated the same as no file in the search path.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	return os.WriteFile(path, data, 0o600)
}
