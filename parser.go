// SPDX-License-Identifier: MIT
package groupstream

import (
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/groupstream/lexer"
)

type (
	// Parser enumerates the groups of a stream & counts its garbage in a single pass.
	//
	// A Parser holds no per-parse state; Parse may be called concurrently.
	Parser struct {
		cfg      *lexer.Config
		observer Observer

		logger logrus.FieldLogger
		debug  *bool
	}

	// Option defines the Parser functional option type.
	Option func(*Parser)

	// closeState tracks whether the last structural rune closed a group.
	//
	// The depth decrement for a close is deferred to the next structural rune; a `}` or `{`
	// consuming stateJustClosed performs it.
	closeState uint8

	// state is owned by a single Parse call.
	state struct {
		depth     int
		garbage   int
		inGarbage bool
		close     closeState
	}
)

const (
	stateOpen closeState = iota
	stateJustClosed
)

// New instantiates a Parser, validating its marker configuration.
//
// WithLogger & WithDebug apply to a copy of the chosen lexer.Config, regardless of their
// order relative to WithConfig.
func New(opts ...Option) (p *Parser, err error) {
	p = &Parser{cfg: lexer.DefaultConfig()}

	for _, opt := range opts {
		opt(p)
	}
	p.cfg = p.cfg.Override(p.logger, p.debug)

	if err = p.cfg.Validate(); err != nil {
		return nil, err
	}

	if p.observer == nil && p.cfg.Debug {
		p.observer = NewLogObserver(p.cfg.Logger)
	}

	return
}

// WithConfig configures the markers & logging options.
func WithConfig(cfg *lexer.Config) Option { return func(p *Parser) { p.cfg = cfg } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithDebug enables step tracing through the configured logger, unless an Observer is set.
func WithDebug(debug bool) Option { return func(p *Parser) { p.debug = &debug } }

// WithObserver configures an Observer receiving every Step.
func WithObserver(o Observer) Option { return func(p *Parser) { p.observer = o } }

// NewDefault instantiates a Parser using the default markers.
func NewDefault() *Parser { return &Parser{cfg: lexer.DefaultConfig()} }

var defParser = NewDefault()

// Parse an input using the default markers.
func Parse(input string) (groups List, garbage int) { return defParser.Parse(input) }

// Parse an input, returning its groups in opening order & the count of garbage runes.
//
// Every rune is classified; malformed input is processed to the end without error.
func (p *Parser) Parse(input string) (groups List, garbage int) {
	l := lexer.New(lexer.WithConfig(p.cfg), lexer.WithInput(input))

	groups = make(List, 0)
	s := newState()
	for {
		item, ok := l.Next()
		// ItemError ends the stream like ItemEOF.
		if !ok || item.ID == lexer.ItemEOF || item.ID == lexer.ItemError {
			break
		}

		var (
			group  Group
			opened bool
		)
		s, group, opened = s.step(item)
		if opened {
			groups = append(groups, group)
		}

		if p.observer != nil {
			p.observer.Observe(s.snapshot(item, group, opened))
		}
	}

	return groups, s.garbage
}

func newState() state { return state{depth: 1} }

// step transitions the state for a single input position.
func (s state) step(item lexer.Item) (next state, group Group, opened bool) {
	next = s

	switch {
	case item.Cancelled:
		// Cancelled runes, escapes included, are invisible to every other rule.
		return
	case s.inGarbage && item.ID != lexer.ItemGarbageClose:
		next.garbage++
		return
	}

	switch item.ID {
	case lexer.ItemGarbageOpen:
		next.inGarbage = true
	case lexer.ItemGarbageClose:
		next.inGarbage = false
	case lexer.ItemGroupOpen:
		if s.close == stateJustClosed {
			// Sibling of the just closed group.
			next.depth--
		}

		group, opened = Group{Depth: next.depth}, true
		next.depth++
		next.close = stateOpen
	case lexer.ItemGroupClose:
		if s.close == stateJustClosed {
			next.depth--
		}
		next.close = stateJustClosed
	case lexer.ItemSplitter:
		// Separates siblings; the pending decrement is left to the next structural rune.
	default:
		next.close = stateOpen
	}

	return
}

func (s state) snapshot(item lexer.Item, group Group, opened bool) (st Step) {
	st = Step{
		Item:       item,
		Depth:      s.depth,
		Garbage:    s.garbage,
		InGarbage:  s.inGarbage,
		JustClosed: s.close == stateJustClosed,
	}

	if opened {
		st.Opened = &group
	}

	return
}
