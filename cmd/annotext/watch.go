package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/candidate"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/input"
	"github.com/at-ishikawa/annotext/internal/render"
	"github.com/at-ishikawa/annotext/internal/segment"
)

func newWatchCommand() *cobra.Command {
	var backend Backend
	command := &cobra.Command{
		Use:   "watch",
		Short: "Annotate each line typed on stdin once typing pauses",
		Long: `Annotate each line typed on stdin once typing pauses.

Lines starting with ":" are commands:
  :card N  show the dictionary entries of the N-th token
  :next    select the next entry
  :prev    select the previous entry
  :add [N] add the selected entry, of the N-th token if given, to the collection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			p, err := newPipeline(cfg, backend)
			if err != nil {
				return fmt.Errorf("newPipeline() > %w", err)
			}
			defer func() {
				_ = p.Close()
			}()

			var hook collection.Hook
			if c := p.collection(); c != nil {
				hook = c.Hook()
			}
			w := newWatcher(cmd.OutOrStdout(), p.builder, candidate.NewCard(p.builder, hook))
			controller := input.New(p.tokenizer, input.Options{
				DebounceMs: cfg.Input.DebounceMs,
			})
			defer controller.Close()
			return w.Run(cmd.Context(), cmd.InOrStdin(), controller)
		},
	}
	command.Flags().Var(&backend, "backend", fmt.Sprintf("Tokenizer to use instead of the configured one. Possible values are %v", allBackends))
	return command
}

type watcher struct {
	output   io.Writer
	builder  *annotation.Builder
	card     *candidate.Card
	terminal *render.Terminal
	bold     *color.Color
	green    *color.Color
	red      *color.Color

	spans []annotation.Span
}

func newWatcher(output io.Writer, builder *annotation.Builder, card *candidate.Card) *watcher {
	return &watcher{
		output:   output,
		builder:  builder,
		card:     card,
		terminal: render.NewTerminal(output),
		bold:     color.New(color.Bold),
		green:    color.New(color.FgGreen),
		red:      color.New(color.FgRed),
	}
}

// Run reads lines until the input ends and every typed line has been shown.
func (w *watcher) Run(ctx context.Context, stdin io.Reader, controller *input.Controller) error {
	publications := make(chan input.Publication, 16)
	done := make(chan struct{})
	unsubscribe := controller.Subscribe(func(publication input.Publication) {
		select {
		case publications <- publication:
		case <-done:
		}
	})
	defer unsubscribe()
	defer close(done)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	lastText := ""
	shown := true
	// commands typed before the last line is shown wait for it
	var queued []string
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				if shown {
					return nil
				}
				lines = nil
				continue
			}
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, ":") {
				if shown {
					w.command(ctx, line)
				} else {
					queued = append(queued, line)
				}
				continue
			}
			lastText = line
			shown = false
			controller.SetText(line)
		case publication := <-publications:
			w.show(ctx, publication)
			if publication.Text != lastText {
				continue
			}
			shown = true
			for _, command := range queued {
				w.command(ctx, command)
			}
			queued = nil
			if lines == nil {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) show(ctx context.Context, publication input.Publication) {
	w.spans = w.builder.BuildAll(ctx, segment.Align(publication.Text, publication.Tokens))
	if err := w.terminal.Render(publication.Text, w.spans); err != nil {
		w.printf(w.red, "%v\n", err)
		return
	}
	if len(w.spans) == 0 {
		return
	}
	tokens := make([]string, 0, len(w.spans))
	for i, span := range w.spans {
		tokens = append(tokens, fmt.Sprintf("%d:%s", i+1, span.Token.Text))
	}
	w.printf(nil, "tokens: %s\n", strings.Join(tokens, " "))
}

func (w *watcher) command(ctx context.Context, line string) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "card":
		if len(fields) < 2 {
			w.printf(w.red, "usage: :card N\n")
			return
		}
		if err := w.load(ctx, fields[1]); err != nil {
			w.printf(w.red, "%v\n", err)
			return
		}
		w.showCard(w.card.Span())
	case "next":
		w.showCard(w.card.Next())
	case "prev":
		w.showCard(w.card.Previous())
	case "add":
		if len(fields) >= 2 {
			if err := w.load(ctx, fields[1]); err != nil {
				w.printf(w.red, "%v\n", err)
				return
			}
		}
		if err := w.card.Add(ctx); err != nil {
			switch {
			case errors.Is(err, candidate.ErrNoEntry):
				w.printf(w.red, "%s has no dictionary entry\n", w.card.Span().Token.Text)
			case errors.Is(err, collection.ErrNoHook):
				w.printf(w.red, "no collection is configured\n")
			default:
				w.printf(w.red, "failed to add: %v\n", err)
			}
			return
		}
		w.showCard(w.card.Span())
	default:
		w.printf(w.red, "unknown command: %s\n", fields[0])
	}
}

func (w *watcher) load(ctx context.Context, position string) error {
	n, err := strconv.Atoi(position)
	if err != nil || n < 1 || len(w.spans) < n {
		return fmt.Errorf("no token %s", position)
	}
	w.card.Load(ctx, w.spans[n-1].Token)
	return nil
}

func (w *watcher) showCard(span annotation.Span) {
	entry, ok := span.Active()
	if !ok {
		if span.Token.Text != "" {
			w.printf(nil, "%s: no entries\n", span.Token.Text)
		}
		return
	}
	added := ""
	if w.card.Added() {
		added = w.green.Sprint(" Added ✓")
	}
	w.printf(nil, "%s %s [%d/%d]: %s%s\n",
		w.bold.Sprint(span.Token.Text),
		strings.Join(entry.Reading, " "),
		span.ActiveEntryIndex+1,
		len(span.Entries),
		entry.Definition(),
		added,
	)
}

func (w *watcher) printf(c *color.Color, format string, args ...any) {
	if c == nil {
		_, _ = fmt.Fprintf(w.output, format, args...)
		return
	}
	_, _ = c.Fprintf(w.output, format, args...)
}
