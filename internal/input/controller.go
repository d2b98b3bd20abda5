// Package input turns rapidly edited text into token lists.
// Tokenization runs once the text has been quiet for the debounce interval,
// and only the result for the latest text is ever published.
package input

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/annotext/internal/tokenizer"
)

const DefaultDebounceMs = 500

type Options struct {
	// DebounceMs is the quiet interval in milliseconds. Zero or less uses DefaultDebounceMs.
	DebounceMs int
	// OnError is called when tokenizing the latest text fails.
	OnError func(error)
}

// Publication replaces the whole token list.
type Publication struct {
	Text       string
	Tokens     []string
	Generation uint64
}

type Controller struct {
	tokenizer tokenizer.Tokenizer
	debounce  time.Duration
	onError   func(error)

	// publishMu keeps publications in generation order
	publishMu sync.Mutex

	mu          sync.Mutex
	generation  uint64
	timer       *time.Timer
	cancel      context.CancelFunc
	text        string
	tokens      []string
	lastErr     error
	subscribers map[int]func(Publication)
	nextID      int
	closed      bool
}

func New(t tokenizer.Tokenizer, options Options) *Controller {
	debounceMs := options.DebounceMs
	if debounceMs <= 0 {
		debounceMs = DefaultDebounceMs
	}
	return &Controller{
		tokenizer:   t,
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		onError:     options.OnError,
		tokens:      []string{},
		subscribers: make(map[int]func(Publication)),
	}
}

// SetText supersedes the current text.
// Empty text publishes an empty list before returning.
// Subscribers must not call SetText synchronously.
func (c *Controller) SetText(text string) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.generation++
	generation := c.generation
	c.stopLocked()

	if text == "" {
		c.mu.Unlock()
		c.publish(generation, "", []string{}, nil)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = time.AfterFunc(c.debounce, func() {
		c.run(ctx, generation, text)
	})
	c.mu.Unlock()
}

func (c *Controller) run(ctx context.Context, generation uint64, text string) {
	tokens, err := c.tokenizer.Tokenize(ctx, text)
	if err != nil {
		if !c.current(generation) {
			return
		}
		slog.Default().Warn("failed to tokenize text",
			"text", text,
			"error", err,
		)
		if c.publish(generation, text, []string{}, err) && c.onError != nil {
			c.onError(err)
		}
		return
	}
	if tokens == nil {
		tokens = []string{}
	}
	c.publish(generation, text, tokens, nil)
}

// publish stores and delivers the result unless a newer text was set.
func (c *Controller) publish(generation uint64, text string, tokens []string, err error) bool {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		slog.Default().Debug("discard a stale tokenization",
			"text", text,
			"generation", generation,
		)
		return false
	}
	c.text = text
	c.tokens = tokens
	c.lastErr = err
	subscribers := make([]func(Publication), 0, len(c.subscribers))
	for _, subscriber := range c.subscribers {
		subscribers = append(subscribers, subscriber)
	}
	c.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(Publication{
			Text:       text,
			Tokens:     append([]string{}, tokens...),
			Generation: generation,
		})
	}
	return true
}

func (c *Controller) current(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation == c.generation
}

// Subscribe registers fn for every publication and returns a function to unregister it.
func (c *Controller) Subscribe(fn func(Publication)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Tokens returns the last published tokens.
func (c *Controller) Tokens() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.tokens...)
}

// Text returns the text of the last publication.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// LastError returns the error of the last publication, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close stops pending work. Later calls to SetText are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
