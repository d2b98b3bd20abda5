package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/config"
	"github.com/at-ishikawa/annotext/internal/database"
	"github.com/at-ishikawa/annotext/internal/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
	"github.com/at-ishikawa/annotext/internal/tokenizer"
)

type Backend string

func (b *Backend) Set(val string) error {
	for _, backend := range allBackends {
		if val == string(backend) {
			*b = backend
			return nil
		}
	}
	return fmt.Errorf("invalid backend: %s", val)
}

func (b Backend) String() string {
	return string(b)
}

func (b *Backend) Type() string {
	return "backend"
}

const (
	BackendHTTP   Backend = "http"
	BackendKagome Backend = "kagome"
)

var (
	_           pflag.Value = (*Backend)(nil)
	allBackends             = []Backend{BackendHTTP, BackendKagome}
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// pipeline holds the clients shared by the commands.
type pipeline struct {
	cfg       *config.Config
	tokenizer tokenizer.Tokenizer
	client    dictionary.Client
	builder   *annotation.Builder
	closers   []func() error
}

// newPipeline creates the clients from the config.
// A non-empty backend overrides the configured tokenizer backend.
func newPipeline(cfg *config.Config, backend Backend) (*pipeline, error) {
	p := &pipeline{cfg: cfg}

	tokenizerConfig := cfg.Tokenizer
	if backend != "" {
		tokenizerConfig.Backend = string(backend)
	}
	t, err := p.newTokenizer(tokenizerConfig)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("newTokenizer() > %w", err)
	}
	p.tokenizer = t

	client, err := p.newDictionaryClient(cfg.Dictionary)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("newDictionaryClient() > %w", err)
	}
	p.client = client
	p.builder = annotation.NewBuilder(client, cfg.Dictionary.Concurrency)
	return p, nil
}

func (p *pipeline) newTokenizer(cfg config.TokenizerConfig) (tokenizer.Tokenizer, error) {
	switch Backend(cfg.Backend) {
	case BackendKagome:
		k, err := tokenizer.NewKagomeTokenizer()
		if err != nil {
			return nil, fmt.Errorf("tokenizer.NewKagomeTokenizer() > %w", err)
		}
		return k, nil
	case BackendHTTP, "":
		client := tokenizer.NewClient(cfg.Endpoint, cfg.Language, cfg.Timeout())
		p.closers = append(p.closers, client.Close)
		return client, nil
	}
	return nil, fmt.Errorf("invalid backend: %s", cfg.Backend)
}

func (p *pipeline) newDictionaryClient(cfg config.DictionaryConfig) (dictionary.Client, error) {
	client := dictionary.NewHTTPClient(dictionary.Config{
		Endpoint:      cfg.Endpoint,
		Language:      cfg.Language,
		Timeout:       cfg.Timeout(),
		RetryAttempts: uint(cfg.RetryAttempts),
	})

	var cache dictionary.Cache
	switch cfg.Cache.Type {
	case "file":
		cache = dictionary.NewFileCache(cfg.Cache.Directory)
	case "database":
		db, err := database.Open(p.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		p.closers = append(p.closers, db.Close)
		cache = dictionary.NewDBCache(db, cfg.Language)
	default:
		cache = dictionary.NewMemoryCache()
	}
	return dictionary.NewCachedClient(client, cache), nil
}

// tokenize returns the aligned tokens of text.
// A failed tokenization is logged and leaves the text without tokens.
func (p *pipeline) tokenize(ctx context.Context, text string) []segment.Token {
	tokens, err := p.tokenizer.Tokenize(ctx, text)
	if err != nil {
		slog.Default().Warn("failed to tokenize text",
			"text", text,
			"error", err,
		)
		return []segment.Token{}
	}
	return segment.Align(text, tokens)
}

// collection returns the configured collection, or nil when none is configured.
func (p *pipeline) collection() *collection.FileCollection {
	if p.cfg.Collection.File == "" {
		return nil
	}
	return collection.NewFileCollection(p.cfg.Collection.File)
}

func (p *pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// readText joins the arguments, or reads the whole input when there are none.
func readText(args []string, input io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll > %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
