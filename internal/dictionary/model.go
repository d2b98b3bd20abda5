package dictionary

import (
	"context"
	"errors"
	"strings"
)

//go:generate mockgen -source=model.go -destination=../mocks/dictionary/mock_client.go -package=mock_dictionary

// Client looks up dictionary entries of a term.
// Entries are ordered by the relevance the dictionary service returned.
type Client interface {
	Lookup(ctx context.Context, term string) ([]Entry, error)
}

// Cache stores looked up entries keyed by term.
type Cache interface {
	Get(ctx context.Context, term string) ([]Entry, bool, error)
	Put(ctx context.Context, term string, entries []Entry) error
}

// ErrUnavailable is returned when the dictionary service cannot answer a lookup.
var ErrUnavailable = errors.New("dictionary service unavailable")

// Entry is one candidate of a term, such as one of homographs.
type Entry struct {
	// Reading has one syllable per character of the term, or one reading for the whole term
	Reading []string `json:"reading" yaml:"reading"`
	Senses  []string `json:"senses" yaml:"senses"`
}

// Definition joins the senses into one line.
func (e Entry) Definition() string {
	return strings.Join(e.Senses, ", ")
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	return Entry{
		Reading: append([]string(nil), e.Reading...),
		Senses:  append([]string(nil), e.Senses...),
	}
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Clone())
	}
	return result
}
