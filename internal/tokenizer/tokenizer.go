// Package tokenizer splits raw text into word tokens.
package tokenizer

import (
	"context"
	"errors"
)

//go:generate mockgen -source=tokenizer.go -destination=../mocks/tokenizer/mock_tokenizer.go -package=mock_tokenizer

// Tokenizer returns the tokens of a text in order.
// Tokens carry no offsets, see segment.Align to locate them.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]string, error)
}

// ErrUnavailable is returned when the tokenizer service cannot answer.
var ErrUnavailable = errors.New("tokenizer service unavailable")
