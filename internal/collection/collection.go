// Package collection stores the words a reader adds while annotating text.
package collection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/annotext/internal/dictionary"
)

var ErrNoHook = errors.New("no collection is configured")

// Hook adds the selected entry of a term to a collection.
type Hook func(ctx context.Context, term string, entry dictionary.Entry) error

// Flashcard is a collected word.
// Term holds one element per character of the word.
type Flashcard struct {
	Term       []string  `yaml:"term" json:"term"`
	Reading    []string  `yaml:"reading" json:"reading"`
	Definition string    `yaml:"definition" json:"definition"`
	AddedAt    time.Time `yaml:"added_at" json:"added_at"`
}

func NewFlashcard(term string, entry dictionary.Entry, addedAt time.Time) Flashcard {
	chars := make([]string, 0, len(term))
	for _, char := range term {
		chars = append(chars, string(char))
	}
	return Flashcard{
		Term:       chars,
		Reading:    append([]string{}, entry.Reading...),
		Definition: entry.Definition(),
		AddedAt:    addedAt,
	}
}

// Same reports whether two cards are the same word with the same reading.
func (card Flashcard) Same(other Flashcard) bool {
	return slices.Equal(card.Term, other.Term) && slices.Equal(card.Reading, other.Reading)
}

// FileCollection keeps flashcards in a YAML file.
type FileCollection struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewFileCollection(path string) *FileCollection {
	return &FileCollection{
		path: path,
		now:  time.Now,
	}
}

// Add appends a flashcard for the entry.
// A word already in the collection with the same reading is not added twice.
func (c *FileCollection) Add(ctx context.Context, term string, entry dictionary.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cards, err := c.read()
	if err != nil {
		return fmt.Errorf("read() > %w", err)
	}
	card := NewFlashcard(term, entry, c.now())
	if slices.ContainsFunc(cards, card.Same) {
		return nil
	}
	cards = append(cards, card)
	if err := c.write(cards); err != nil {
		return fmt.Errorf("write() > %w", err)
	}
	return nil
}

// Hook returns Add as a Hook.
func (c *FileCollection) Hook() Hook {
	return c.Add
}

// Contains reports whether the entry of the term is already collected.
func (c *FileCollection) Contains(term string, entry dictionary.Entry) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cards, err := c.read()
	if err != nil {
		return false, fmt.Errorf("read() > %w", err)
	}
	return slices.ContainsFunc(cards, NewFlashcard(term, entry, time.Time{}).Same), nil
}

// Cards returns the collected flashcards in the order they were added.
func (c *FileCollection) Cards() ([]Flashcard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *FileCollection) read() ([]Flashcard, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Flashcard{}, nil
		}
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", c.path, err)
	}
	var cards []Flashcard
	if err := yaml.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", c.path, err)
	}
	if cards == nil {
		cards = []Flashcard{}
	}
	return cards, nil
}

func (c *FileCollection) write(cards []Flashcard) error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	data, err := yaml.Marshal(cards)
	if err != nil {
		return fmt.Errorf("yaml.Marshal > %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", c.path, err)
	}
	return nil
}
