// SPDX-License-Identifier: MIT
package lexer

// REF: https://github.com/sh4t/sql-parser
// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	// NextOperation type for the next function to be executed
	NextOperation func() NextOperation

	// Lexer classifies every position of an input, one Item at a time.
	//
	// A Lexer is owned by a single caller; it is not safe for concurrent use.
	Lexer struct {
		cfg *Config

		// logger & debug override the Config's entries once the options are applied.
		logger logrus.FieldLogger
		debug  *bool

		// source is the input source.
		source io.RuneReader

		// buffer holds the whole input once sourced.
		buffer []rune
		// bufferIndex is the current buffer position.
		bufferIndex int

		resolver *Resolver

		state NextOperation

		// item is the last emitted Item, pending until collected by Next.
		item    Item
		pending bool

		err error
	}

	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const defBufferSize = 10

// ErrReadSource is reported through an ItemError when the source fails before io.EOF.
var ErrReadSource = errors.New("failed to read lexer source")

// New creates a new Lexer.
//
// Missing Config entries are populated with defaults; marker uniqueness is the caller's
// concern, see Config.Validate. WithLogger & WithDebug apply to a copy of the chosen Config,
// regardless of their order relative to WithConfig.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		cfg:    DefaultConfig(),
		source: strings.NewReader(""),
	}

	for _, opt := range opts {
		opt(l)
	}
	l.cfg = l.cfg.Override(l.logger, l.debug)
	l.cfg.fill()
	l.state = l.lexSource

	return l
}

// WithConfig configures the marker & logging options.
func WithConfig(cfg *Config) Option { return func(l *Lexer) { l.cfg = cfg } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.debug = &debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Lexer) { l.logger = logger }
}

// WithSource configures the source option.
func WithSource(source io.RuneReader) Option { return func(l *Lexer) { l.source = source } }

// WithInput configures a string as the source.
func WithInput(input string) Option {
	return func(l *Lexer) { l.source = strings.NewReader(input) }
}

// Config obtains the Lexer's Config.
func (l *Lexer) Config() *Config { return l.cfg }

// Err obtains the source error reported by an ItemError, if any.
func (l *Lexer) Err() error { return l.err }

// Next returns the next Item; ok is false once the ItemEOF or ItemError has been collected.
func (l *Lexer) Next() (item Item, ok bool) {
	for !l.pending {
		if l.state == nil {
			return
		}
		l.state = l.state()
	}

	item, ok = l.item, true
	l.pending = false

	return
}

// Lex feeds Items to the returned channel until the ItemEOF or ItemError is sent or the
// context is done.
//
// The channel is closed on return. A caller that stops receiving early must cancel ctx,
// otherwise the feeding goroutine blocks on its send forever.
func (l *Lexer) Lex(ctx context.Context) <-chan Item {
	c := make(chan Item, defBufferSize)

	go func() {
		defer close(c)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			item, ok := l.Next()
			if !ok {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- item:
			}
		}
	}()

	return c
}

// lexSource drains the source & indexes its escape runs.
func (l *Lexer) lexSource() NextOperation {
	buffer := make([]rune, 0, defBufferSize)
	for {
		r, _, err := l.source.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.lexError(len(buffer), err)
		}
		buffer = append(buffer, r)
	}

	l.buffer, l.bufferIndex = buffer, 0
	l.resolver = NewResolver(l.buffer, l.cfg.Escape)

	if l.cfg.Debug {
		l.cfg.Logger.Debugf("lexer sourced %d runes", len(l.buffer))
	}

	return l.lexRune
}

// lexRune classifies the rune at the current buffer position.
func (l *Lexer) lexRune() NextOperation {
	if l.bufferIndex >= len(l.buffer) {
		return l.lexEOF
	}

	r := l.buffer[l.bufferIndex]
	l.emit(Item{
		ID:        l.cfg.Classify(r),
		Pos:       l.bufferIndex,
		Val:       r,
		Cancelled: l.resolver.Cancelled(l.bufferIndex),
	})
	l.bufferIndex++

	return l.lexRune
}

// lexError ends lexing with an ItemError at the position the source failed.
func (l *Lexer) lexError(pos int, err error) NextOperation {
	l.err = fmt.Errorf("%w at rune %d: %w", ErrReadSource, pos, err)
	l.emit(Item{ID: ItemError, Pos: pos, Err: l.err})

	return nil
}

func (l *Lexer) lexEOF() NextOperation {
	l.emit(Item{ID: ItemEOF, Pos: len(l.buffer)})
	return nil
}

func (l *Lexer) emit(item Item) {
	if l.cfg.Debug {
		// Debug operation makes this operation un-inlinable.
		l.cfg.Logger.Debug("lexer emit: ", item)
	}

	l.item, l.pending = item, true
}
