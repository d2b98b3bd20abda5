// Package annotation pairs tokens with dictionary entries and per-character readings.
package annotation

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/annotext/internal/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
)

const defaultConcurrency = 4

// ReadingUnit is one character of a token with its reading.
// Reading is empty when no reading is aligned to the character.
type ReadingUnit struct {
	Char    string `json:"char"`
	Reading string `json:"reading"`
}

// Span is a token with its dictionary entries and the selected entry.
type Span struct {
	Token            segment.Token      `json:"token"`
	Entries          []dictionary.Entry `json:"entries"`
	ActiveEntryIndex int                `json:"active_entry_index"`
}

// Active returns the selected entry, or false when the token has no entries.
func (s Span) Active() (dictionary.Entry, bool) {
	if len(s.Entries) == 0 {
		return dictionary.Entry{}, false
	}
	index := s.ActiveEntryIndex
	if index < 0 {
		index = 0
	}
	if len(s.Entries) <= index {
		index = len(s.Entries) - 1
	}
	return s.Entries[index], true
}

// Annotated reports whether the token is rendered with readings.
// Tokens without entries, such as punctuation, are plain text.
func (s Span) Annotated() bool {
	entry, ok := s.Active()
	return ok && len(entry.Reading) > 0
}

// Senses returns the senses of the selected entry.
func (s Span) Senses() []string {
	entry, ok := s.Active()
	if !ok {
		return []string{}
	}
	return append([]string{}, entry.Senses...)
}

// Units returns one reading unit per character of the token.
func (s Span) Units() []ReadingUnit {
	entry, _ := s.Active()
	return Units(s.Token.Text, entry.Reading)
}

// Units pairs the i-th character of text with the i-th reading.
// Characters without a reading get an empty one and extra readings are ignored.
func Units(text string, reading []string) []ReadingUnit {
	chars := []rune(text)
	units := make([]ReadingUnit, 0, len(chars))
	for i, char := range chars {
		unit := ReadingUnit{Char: string(char)}
		if i < len(reading) {
			unit.Reading = reading[i]
		}
		units = append(units, unit)
	}
	return units
}

// Builder builds spans by looking up each token.
type Builder struct {
	client      dictionary.Client
	concurrency int
}

// NewBuilder creates a Builder. A concurrency of zero or less uses the default.
func NewBuilder(client dictionary.Client, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Builder{
		client:      client,
		concurrency: concurrency,
	}
}

// Lookup returns the entries of a term.
// A failed lookup is logged and treated as no entries.
func (b *Builder) Lookup(ctx context.Context, term string) []dictionary.Entry {
	entries, err := b.client.Lookup(ctx, term)
	if err != nil {
		slog.Default().Warn("failed to look up a term",
			slog.String("term", term),
			slog.Any("error", err),
		)
		return nil
	}
	return entries
}

// Build returns the span of a token with the first entry selected.
func (b *Builder) Build(ctx context.Context, token segment.Token) Span {
	return Span{
		Token:   token,
		Entries: b.Lookup(ctx, token.Text),
	}
}

// BuildAll builds the spans of the tokens, in the order of the tokens.
// Lookups of different tokens are independent and run concurrently.
func (b *Builder) BuildAll(ctx context.Context, tokens []segment.Token) []Span {
	spans := make([]Span, len(tokens))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, token := range tokens {
		g.Go(func() error {
			spans[i] = b.Build(ctx, token)
			return nil
		})
	}
	// lookups never fail the group
	_ = g.Wait()
	return spans
}
