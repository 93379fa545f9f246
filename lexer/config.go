// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type (
	// Config defines the markers recognized by the Lexer & its logging options.
	Config struct {
		Logger logrus.FieldLogger
		Debug  bool

		GroupOpen    rune
		GroupClose   rune
		GarbageOpen  rune
		GarbageClose rune
		Escape       rune
		Splitter     rune
	}
)

const (
	// DefaultGroupOpen a `rune` opening a group.
	DefaultGroupOpen = '{'

	// DefaultGroupClose a `rune` closing a group.
	DefaultGroupClose = '}'

	// DefaultGarbageOpen a `rune` starting a garbage run.
	DefaultGarbageOpen = '<'

	// DefaultGarbageClose a `rune` ending a garbage run.
	DefaultGarbageClose = '>'

	// DefaultEscape is the `rune` cancelling the character following it.
	DefaultEscape = '!'

	// DefaultSplitter is the character separating sibling groups.
	DefaultSplitter = ','

	emptyRune rune = 0
)

// Configuration errors.
var (
	ErrDuplicateMarker = errors.New("marker is assigned more than once")
)

// DefaultConfig configures the lexer's markers.
func DefaultConfig() *Config {
	return &Config{
		GroupOpen:    DefaultGroupOpen,
		GroupClose:   DefaultGroupClose,
		GarbageOpen:  DefaultGarbageOpen,
		GarbageClose: DefaultGarbageClose,
		Escape:       DefaultEscape,
		Splitter:     DefaultSplitter,
		Logger:       logrus.New(),
	}
}

// Validate populates missing Config entries with defaults & rejects markers sharing a rune.
func (c *Config) Validate() (err error) {
	c.fill()

	seen := make(map[rune]struct{}, 6)
	for _, r := range c.markers() {
		if _, ok := seen[r]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateMarker, r)
		}
		seen[r] = struct{}{}
	}

	return
}

// fill populates missing Config entries with defaults.
func (c *Config) fill() {
	if c.GroupOpen == emptyRune {
		c.GroupOpen = DefaultGroupOpen
	}
	if c.GroupClose == emptyRune {
		c.GroupClose = DefaultGroupClose
	}
	if c.GarbageOpen == emptyRune {
		c.GarbageOpen = DefaultGarbageOpen
	}
	if c.GarbageClose == emptyRune {
		c.GarbageClose = DefaultGarbageClose
	}
	if c.Escape == emptyRune {
		c.Escape = DefaultEscape
	}
	if c.Splitter == emptyRune {
		c.Splitter = DefaultSplitter
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
}

// Override returns a copy of c carrying the set logger & debug entries, or c itself when
// neither is set.
func (c *Config) Override(logger logrus.FieldLogger, debug *bool) *Config {
	if logger == nil && debug == nil {
		return c
	}

	cfg := *c
	if logger != nil {
		cfg.Logger = logger
	}
	if debug != nil {
		cfg.Debug = *debug
	}

	return &cfg
}

func (c *Config) markers() []rune {
	return []rune{c.GroupOpen, c.GroupClose, c.GarbageOpen, c.GarbageClose, c.Escape, c.Splitter}
}

// Classify maps a rune to the ItemID of the marker it represents.
func (c *Config) Classify(r rune) ItemID {
	switch r {
	case c.Escape:
		return ItemEscape
	case c.GroupOpen:
		return ItemGroupOpen
	case c.GroupClose:
		return ItemGroupClose
	case c.GarbageOpen:
		return ItemGarbageOpen
	case c.GarbageClose:
		return ItemGarbageClose
	case c.Splitter:
		return ItemSplitter
	default:
		return ItemOther
	}
}
