// Package segment locates tokens returned by a tokenizer inside the text they came from.
package segment

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Token is a contiguous substring of a text.
// Start and End are character (rune) offsets into that text.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of characters of the token.
func (t Token) Len() int {
	return t.End - t.Start
}

// Align converts the ordered token strings into Tokens with offsets into text.
//
// The search cursor only moves forward, so a token equal to an already
// consumed substring is matched to its next occurrence.
// Tokens which cannot be found after the cursor are dropped.
func Align(text string, tokens []string) []Token {
	result := make([]Token, 0, len(tokens))

	// byteCursor and runeCursor point at the same position of text
	byteCursor := 0
	runeCursor := 0
	for i, token := range tokens {
		if token == "" {
			continue
		}

		index := strings.Index(text[byteCursor:], token)
		if index < 0 {
			slog.Default().Debug("drop a token not found in the text",
				"token", token,
				"index", i,
				"cursor", runeCursor,
			)
			continue
		}

		start := runeCursor + utf8.RuneCountInString(text[byteCursor:byteCursor+index])
		end := start + utf8.RuneCountInString(token)
		result = append(result, Token{
			Text:  token,
			Start: start,
			End:   end,
		})

		byteCursor += index + len(token)
		runeCursor = end
	}
	return result
}

// Texts returns the token strings in order.
func Texts(tokens []Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		texts = append(texts, token.Text)
	}
	return texts
}
