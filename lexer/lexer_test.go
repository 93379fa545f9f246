// SPDX-License-Identifier: MIT
package lexer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func collect(l *Lexer) (items []Item) {
	for {
		item, ok := l.Next()
		if !ok {
			return
		}
		items = append(items, item)
	}
}

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want []Item
	}{
		{
			name: "empty",
			opts: []Option{WithInput("")},
			want: []Item{{ID: ItemEOF}},
		},
		{
			name: "group with cancelled garbage close",
			opts: []Option{WithInput("{<!>}")},
			want: []Item{
				{ID: ItemGroupOpen, Pos: 0, Val: '{'},
				{ID: ItemGarbageOpen, Pos: 1, Val: '<'},
				{ID: ItemEscape, Pos: 2, Val: '!', Cancelled: true},
				{ID: ItemGarbageClose, Pos: 3, Val: '>', Cancelled: true},
				{ID: ItemGroupClose, Pos: 4, Val: '}'},
				{ID: ItemEOF, Pos: 5},
			},
		},
		{
			name: "splitter & other",
			opts: []Option{WithSource(strings.NewReader("},ä"))},
			want: []Item{
				{ID: ItemGroupClose, Pos: 0, Val: '}'},
				{ID: ItemSplitter, Pos: 1, Val: ','},
				{ID: ItemOther, Pos: 2, Val: 'ä'},
				{ID: ItemEOF, Pos: 3},
			},
		},
		{
			name: "custom markers",
			opts: []Option{
				WithConfig(&Config{GroupOpen: '(', GroupClose: ')', Escape: '\\'}),
				WithInput(`(\)){`),
			},
			want: []Item{
				{ID: ItemGroupOpen, Pos: 0, Val: '('},
				{ID: ItemEscape, Pos: 1, Val: '\\', Cancelled: true},
				{ID: ItemGroupClose, Pos: 2, Val: ')', Cancelled: true},
				{ID: ItemGroupClose, Pos: 3, Val: ')'},
				{ID: ItemOther, Pos: 4, Val: '{'},
				{ID: ItemEOF, Pos: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.opts...)
			if got := collect(l); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lexer.Next() = %+v, want %+v", got, tt.want)
			}

			// An exhausted Lexer stays exhausted.
			if _, ok := l.Next(); ok {
				t.Errorf("Lexer.Next() after EOF ok = true, want false")
			}
		})
	}
}

func TestLexer_Lex(t *testing.T) {
	input := "{{<ab>},{<!!>}}"

	var got []Item
	for item := range New(WithInput(input), WithLogger(logrus.New()), WithDebug(true)).Lex(context.Background()) {
		got = append(got, item)
	}

	want := collect(New(WithInput(input)))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lexer.Lex() = %+v, want %+v", got, want)
	}
	if len(got) != len([]rune(input))+1 {
		t.Errorf("Lexer.Lex() emitted %d items, want %d", len(got), len([]rune(input))+1)
	}
}

func TestLexer_Lex_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(WithInput(strings.Repeat("{}", 1024))).Lex(ctx)

	count := 0
	for range c {
		count++
	}

	if count != 0 {
		t.Errorf("Lexer.Lex() emitted %d items after cancellation, want 0", count)
	}
}

// failingReader yields the runes of its input, then fails with err.
type failingReader struct {
	*strings.Reader
	err error
}

func (r *failingReader) ReadRune() (ch rune, size int, err error) {
	if r.Len() == 0 {
		return 0, 0, r.err
	}

	return r.Reader.ReadRune()
}

func TestLexer_sourceError(t *testing.T) {
	errBroken := errors.New("broken reader")

	l := New(WithSource(&failingReader{Reader: strings.NewReader("{<a"), err: errBroken}))
	items := collect(l)

	if len(items) != 1 {
		t.Fatalf("Lexer.Next() emitted %d items, want 1: %+v", len(items), items)
	}

	last := items[0]
	if last.ID != ItemError || last.Pos != 3 {
		t.Errorf("Lexer.Next() = %+v, want ItemError at 3", last)
	}
	if !errors.Is(last.Err, ErrReadSource) || !errors.Is(last.Err, errBroken) {
		t.Errorf("Item.Err = %v, want %v wrapping %v", last.Err, ErrReadSource, errBroken)
	}
	if !errors.Is(l.Err(), errBroken) {
		t.Errorf("Lexer.Err() = %v, want %v", l.Err(), errBroken)
	}

	var got []Item
	for item := range New(WithSource(&failingReader{Reader: strings.NewReader("{}"), err: errBroken})).Lex(context.Background()) {
		got = append(got, item)
	}
	if len(got) != 1 || got[0].ID != ItemError {
		t.Errorf("Lexer.Lex() = %+v, want a single ItemError", got)
	}

	if err := New(WithInput("{}")).Err(); err != nil {
		t.Errorf("Lexer.Err() = %v, want nil", err)
	}
}

func TestLexer_optionOrder(t *testing.T) {
	logger := logrus.New()

	tests := []struct {
		name string
		opts func(cfg *Config) []Option
	}{
		{
			name: "logging options first",
			opts: func(cfg *Config) []Option { return []Option{WithLogger(logger), WithDebug(true), WithConfig(cfg)} },
		},
		{
			name: "logging options last",
			opts: func(cfg *Config) []Option { return []Option{WithConfig(cfg), WithLogger(logger), WithDebug(true)} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Escape: '\\'}

			got := New(tt.opts(cfg)...).Config()
			if !got.Debug || got.Logger != logger || got.Escape != '\\' {
				t.Errorf("Lexer.Config() = %+v, want debug, the given logger & escape '\\'", got)
			}
			if cfg.Debug || cfg.Logger == logger {
				t.Errorf("New() modified the caller's config: %+v", cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "defaults", cfg: &Config{}},
		{name: "custom", cfg: &Config{GroupOpen: '(', GroupClose: ')'}},
		{name: "duplicate", cfg: &Config{Splitter: '!'}, wantErr: ErrDuplicateMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.cfg.Logger == nil || tt.cfg.Escape == emptyRune {
				t.Errorf("Config.Validate() left defaults unpopulated: %+v", tt.cfg)
			}
		})
	}
}

func TestItemID_String(t *testing.T) {
	if got := ItemGarbageOpen.String(); got != "garbage-open" {
		t.Errorf("ItemID.String() = %v, want garbage-open", got)
	}
	if got := (Item{ID: ItemError, Pos: 2, Err: errors.New("boom")}).String(); got != "2\terror\tboom" {
		t.Errorf("Item.String() = %q, want %q", got, "2\terror\tboom")
	}
	if got := ItemID(42).String(); got != "ItemID(42)" {
		t.Errorf("ItemID.String() = %v, want ItemID(42)", got)
	}
}

func BenchmarkLexer_Next(b *testing.B) {
	src := strings.Repeat("{{<a!>},{<!!>}},", 64)

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		b.StopTimer()
		l := New(WithInput(src))
		b.StartTimer()

		for {
			if _, ok := l.Next(); !ok {
				break
			}
		}
	}
}
