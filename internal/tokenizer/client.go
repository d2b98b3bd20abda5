package tokenizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resty.dev/v3"
)

// Client calls the tokenize endpoint of the dictionary server.
// Failed requests are never retried.
type Client struct {
	httpClient *resty.Client
	language   string
}

var _ Tokenizer = (*Client)(nil)

func NewClient(endpoint, language string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(endpoint, "/"))
	client.SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if language == "" {
		language = "cn"
	}

	return &Client{
		httpClient: client,
		language:   language,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// Tokenize returns the tokens of the trimmed text.
// An empty text returns no tokens without calling the service.
func (client *Client) Tokenize(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", text).
		Get("/tokenize/" + client.language)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w: %w", ErrUnavailable, err)
	}
	if response.StatusCode() < 200 || 300 <= response.StatusCode() {
		return nil, fmt.Errorf("response error %d: %s: %w", response.StatusCode(), response.String(), ErrUnavailable)
	}

	tokens := parseTokens([]byte(response.String()))
	slog.Default().Debug("tokenize response",
		"text", text,
		"tokens", tokens,
	)
	return tokens, nil
}

// parseTokens reads {"tokens": [...]} where a token is either a string or
// an object with a "token" field. Anything else is no tokens.
func parseTokens(body []byte) []string {
	var decoded struct {
		Tokens []json.RawMessage `json:"tokens"`
		Result []json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &decoded); err != nil {
		slog.Default().Debug("malformed tokenize response", "error", err)
		return []string{}
	}
	items := decoded.Tokens
	if len(items) == 0 {
		items = decoded.Result
	}

	tokens := make([]string, 0, len(items))
	for _, item := range items {
		var token string
		if err := json.Unmarshal(item, &token); err == nil {
			if token != "" {
				tokens = append(tokens, token)
			}
			continue
		}
		var object struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(item, &object); err == nil && object.Token != "" {
			tokens = append(tokens, object.Token)
		}
	}
	return tokens
}
