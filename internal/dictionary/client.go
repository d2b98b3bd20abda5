package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

// Config configures HTTPClient.
type Config struct {
	Endpoint string
	Language string
	// Timeout of one request. Zero means no timeout
	Timeout time.Duration
	// RetryAttempts is the number of retries after a failed request
	RetryAttempts uint
	RetryDelay    time.Duration
}

// HTTPClient looks up terms from the dictionary service over HTTP.
type HTTPClient struct {
	client        *resty.Client
	language      string
	retryAttempts uint
	retryDelay    time.Duration
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(config Config) *HTTPClient {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(config.Endpoint, "/"))
	client.SetHeader("Accept", "application/json")
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}

	language := config.Language
	if language == "" {
		language = "cn"
	}
	retryDelay := config.RetryDelay
	if retryDelay == 0 {
		retryDelay = 100 * time.Millisecond
	}
	return &HTTPClient{
		client:        client,
		language:      language,
		retryAttempts: config.RetryAttempts,
		retryDelay:    retryDelay,
	}
}

type statusError struct {
	statusCode int
	body       string
}

func (err statusError) Error() string {
	return fmt.Sprintf("status code: %d, body: %s", err.statusCode, err.body)
}

func (err statusError) Unwrap() error {
	return ErrUnavailable
}

func (c *HTTPClient) lookupAPI(ctx context.Context, term string) ([]byte, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"language": c.language,
			"term":     term,
		}).
		Get("/term/{language}/{term}")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w: %w", ErrUnavailable, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if !res.IsSuccess() {
		return nil, statusError{
			statusCode: res.StatusCode(),
			body:       string(res.Body()),
		}
	}
	return res.Body(), nil
}

// Lookup returns the entries of the term.
// A term unknown to the dictionary has no entries, and it's not an error.
func (c *HTTPClient) Lookup(ctx context.Context, term string) ([]Entry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	var body []byte
	if err := retry.Do(
		func() error {
			contents, err := c.lookupAPI(ctx, term)
			if err != nil {
				if statusErr, ok := err.(statusError); ok && statusErr.statusCode < http.StatusInternalServerError && statusErr.statusCode != http.StatusTooManyRequests {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = contents
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts+1),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying a dictionary lookup",
				"attempt", n+1,
				"term", term,
				"lastError", err)
		}),
	); err != nil {
		return nil, fmt.Errorf("lookupAPI(%s) > %w", term, err)
	}
	return Normalize(body), nil
}
