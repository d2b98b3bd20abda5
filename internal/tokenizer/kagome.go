package tokenizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeTokenizer segments Japanese text in process with the IPA dictionary.
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

var _ Tokenizer = (*KagomeTokenizer)(nil)

func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenizer.New > %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

func (k *KagomeTokenizer) Tokenize(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	morphs := k.t.Tokenize(text)
	tokens := make([]string, 0, len(morphs))
	for _, morph := range morphs {
		if morph.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(morph.Surface) == "" {
			continue
		}
		tokens = append(tokens, morph.Surface)
	}
	return tokens, nil
}
