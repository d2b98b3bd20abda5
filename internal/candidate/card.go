package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
)

var ErrNoEntry = errors.New("the token has no dictionary entry")

// Card holds the entries of one token and the entry selected by the reader.
// When loads overlap, only the latest one is applied.
type Card struct {
	builder *annotation.Builder
	hook    collection.Hook

	mu         sync.Mutex
	generation uint64
	token      segment.Token
	entries    []dictionary.Entry
	cursor     Cursor
	added      map[int]bool
}

// NewCard creates a Card. The hook may be nil, in which case Add fails with collection.ErrNoHook.
func NewCard(builder *annotation.Builder, hook collection.Hook) *Card {
	return &Card{
		builder: builder,
		hook:    hook,
		added:   make(map[int]bool),
	}
}

// Load looks up the token and shows its entries.
// It returns false when a newer Load started before the lookup finished.
func (c *Card) Load(ctx context.Context, token segment.Token) (annotation.Span, bool) {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	entries := c.builder.Lookup(ctx, token.Text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		slog.Default().Debug("discard a stale lookup",
			"token", token.Text,
			"generation", generation,
			"current", c.generation,
		)
		return c.span(), false
	}

	if token.Text != c.token.Text {
		c.cursor.Reset(len(entries))
		c.added = make(map[int]bool)
	} else {
		c.cursor.resize(len(entries))
		if !sameEntries(c.entries, entries) {
			c.added = make(map[int]bool)
		}
	}
	c.token = token
	c.entries = entries
	return c.span(), true
}

func (c *Card) Next() annotation.Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor.Next()
	return c.span()
}

func (c *Card) Previous() annotation.Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor.Previous()
	return c.span()
}

// Span returns the token with its entries and the selected entry.
func (c *Card) Span() annotation.Span {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.span()
}

// Added reports whether the selected entry was added to the collection.
func (c *Card) Added() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.added[c.cursor.Index()]
}

// Add adds the selected entry of the token to the collection.
func (c *Card) Add(ctx context.Context) error {
	c.mu.Lock()
	if c.hook == nil {
		c.mu.Unlock()
		return collection.ErrNoHook
	}
	if len(c.entries) == 0 {
		c.mu.Unlock()
		return ErrNoEntry
	}
	generation := c.generation
	index := c.cursor.Index()
	term := c.token.Text
	entry := c.entries[index].Clone()
	c.mu.Unlock()

	if err := c.hook(ctx, term, entry); err != nil {
		return fmt.Errorf("hook(%s) > %w", term, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation == c.generation {
		c.added[index] = true
	}
	return nil
}

func (c *Card) span() annotation.Span {
	entries := make([]dictionary.Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry.Clone())
	}
	return annotation.Span{
		Token:            c.token,
		Entries:          entries,
		ActiveEntryIndex: c.cursor.Index(),
	}
}

// sameEntries reports whether both lists hold the same entries in the same order.
func sameEntries(a, b []dictionary.Entry) bool {
	return slices.EqualFunc(a, b, func(x, y dictionary.Entry) bool {
		return slices.Equal(x.Reading, y.Reading) && slices.Equal(x.Senses, y.Senses)
	})
}
