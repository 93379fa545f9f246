// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gitlab.com/fisherprime/groupstream/lexer"
)

type (
	// Config represents the command's configuration file.
	Config struct {
		Logging LoggingConfig `yaml:"logging"`
		Markers MarkersConfig `yaml:"markers"`
		Workers int           `yaml:"workers"`
	}

	// LoggingConfig contains logging configuration.
	LoggingConfig struct {
		Level string `yaml:"level"`
		Debug bool   `yaml:"debug"`
	}

	// MarkersConfig overrides the stream's markers; each entry is a single character.
	MarkersConfig struct {
		GroupOpen    string `yaml:"group_open"`
		GroupClose   string `yaml:"group_close"`
		GarbageOpen  string `yaml:"garbage_open"`
		GarbageClose string `yaml:"garbage_close"`
		Escape       string `yaml:"escape"`
		Splitter     string `yaml:"splitter"`
	}
)

// Configuration errors.
var (
	ErrInvalidMarker = errors.New("marker must be a single character")
	ErrLoadConfig    = errors.New("failed to load config")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: logrus.InfoLevel.String()},
		Markers: MarkersConfig{
			GroupOpen:    string(lexer.DefaultGroupOpen),
			GroupClose:   string(lexer.DefaultGroupClose),
			GarbageOpen:  string(lexer.DefaultGarbageOpen),
			GarbageClose: string(lexer.DefaultGarbageClose),
			Escape:       string(lexer.DefaultEscape),
			Splitter:     string(lexer.DefaultSplitter),
		},
		Workers: runtime.NumCPU(),
	}
}

// LoadConfig layers a YAML file over DefaultConfig; an empty path yields the defaults.
func LoadConfig(path string) (cfg *Config, err error) {
	cfg = DefaultConfig()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrLoadConfig, path, err)
	}

	return
}

// Logger builds a logger at the configured level.
func (c *Config) Logger() (logger *logrus.Logger, err error) {
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return
	}

	logger = logrus.New()
	logger.SetLevel(level)
	if c.Logging.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return
}

// LexerConfig converts the markers into a validated lexer.Config.
func (c *Config) LexerConfig(logger logrus.FieldLogger) (cfg *lexer.Config, err error) {
	cfg = &lexer.Config{Logger: logger, Debug: c.Logging.Debug}

	markers := []struct {
		name  string
		value string
		dest  *rune
	}{
		{"group_open", c.Markers.GroupOpen, &cfg.GroupOpen},
		{"group_close", c.Markers.GroupClose, &cfg.GroupClose},
		{"garbage_open", c.Markers.GarbageOpen, &cfg.GarbageOpen},
		{"garbage_close", c.Markers.GarbageClose, &cfg.GarbageClose},
		{"escape", c.Markers.Escape, &cfg.Escape},
		{"splitter", c.Markers.Splitter, &cfg.Splitter},
	}
	for _, m := range markers {
		if m.value == "" {
			// Defaulted by Validate.
			continue
		}

		if utf8.RuneCountInString(m.value) != 1 {
			return nil, fmt.Errorf("%s %w: %q", m.name, ErrInvalidMarker, m.value)
		}
		*m.dest, _ = utf8.DecodeRuneInString(m.value)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return
}
