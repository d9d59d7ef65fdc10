// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Capture    CaptureConfig    `toml:"capture"`
	Evaluation EvaluationConfig `toml:"evaluation"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	// Sample practice texts keyed by topic.
	Samples map[string][]string `toml:"samples"`
}

// PracticeConfig maps practice-related settings. SampleFiles maps topics to
// sentence files with one sentence per line.
type PracticeConfig struct {
	Lang        *string           `toml:"lang"`
	Topic       *string           `toml:"topic"`
	Topics      []string          `toml:"topics"`
	ToastTTL    *string           `toml:"toast-ttl"`
	SampleFiles map[string]string `toml:"sample-files"`
}

// CaptureConfig maps microphone capture settings.
type CaptureConfig struct {
	Command    []string `toml:"command"`
	SampleRate *int     `toml:"sample-rate"`
	Channels   *int     `toml:"channels"`
}

// EvaluationConfig maps scoring endpoint settings.
type EvaluationConfig struct {
	URL     *string `toml:"url"`
	Timeout *string `toml:"timeout"`
}

// ServerConfig maps scoring server settings.
type ServerConfig struct {
	Addr   *string `toml:"addr"`
	DBPath *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Dir   *string `toml:"dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
