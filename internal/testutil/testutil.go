// Package testutil provides shared test helpers for creating config files and a fake dictionary server.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file and all required directories for testing.
// Both the tokenizer and the dictionary point to endpoint.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, endpoint string) string {
	t.Helper()

	dirs := []string{"cache", "collections", "outputs"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`tokenizer:
  backend: http
  endpoint: %s
  language: cn
  timeout_seconds: 5
dictionary:
  endpoint: %s
  language: cn
  timeout_seconds: 5
  cache:
    type: file
    directory: %s
input:
  debounce_ms: 10
collection:
  file: %s
outputs:
  directory: %s
`,
		endpoint,
		endpoint,
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "collections", "flashcards.yml"),
		filepath.Join(tmpDir, "outputs"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// DictionaryEntry is an entry served by the fake dictionary server.
type DictionaryEntry struct {
	Reading string   `json:"reading"`
	Senses  []string `json:"senses"`
}

// NewDictionaryServer starts a server answering tokenize and lookup requests in the
// dictionary server's format. Text not in tokens is split into characters.
func NewDictionaryServer(t *testing.T, tokens map[string][]string, entries map[string][]DictionaryEntry) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tokenize/{language}", func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("q")
		result, ok := tokens[text]
		if !ok {
			result = strings.Split(text, "")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"tokens": result})
	})
	mux.HandleFunc("GET /term/{language}/{term}", func(w http.ResponseWriter, r *http.Request) {
		result, ok := entries[r.PathValue("term")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
