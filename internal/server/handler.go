// Package server serves the annotation pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/at-ishikawa/annotext/internal/annotation"
	"github.com/at-ishikawa/annotext/internal/collection"
	"github.com/at-ishikawa/annotext/internal/dictionary"
	"github.com/at-ishikawa/annotext/internal/segment"
	"github.com/at-ishikawa/annotext/internal/tokenizer"
)

type TokenizeResponse struct {
	Text        string               `json:"text"`
	Tokens      []segment.Token      `json:"tokens"`
	Decorations []segment.Decoration `json:"decorations"`
}

type AnnotateResponse struct {
	Text  string          `json:"text"`
	Spans []AnnotatedSpan `json:"spans"`
}

type AnnotatedSpan struct {
	Token            segment.Token            `json:"token"`
	Units            []annotation.ReadingUnit `json:"units"`
	Senses           []string                 `json:"senses"`
	Annotated        bool                     `json:"annotated"`
	ActiveEntryIndex int                      `json:"active_entry_index"`
	EntryCount       int                      `json:"entry_count"`
	Style            string                   `json:"style"`
}

type TermResponse struct {
	Term    string             `json:"term"`
	Entries []dictionary.Entry `json:"entries"`
}

type AddRequest struct {
	Term  string           `json:"term"`
	Entry dictionary.Entry `json:"entry"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves tokenization, annotation, and lookups.
// Failures of the tokenizer or the dictionary are served as empty results.
type Handler struct {
	tokenizer tokenizer.Tokenizer
	builder   *annotation.Builder
	hook      collection.Hook
}

// NewHandler creates a Handler. The hook may be nil, in which case adding to the collection is unavailable.
func NewHandler(t tokenizer.Tokenizer, builder *annotation.Builder, hook collection.Hook) *Handler {
	return &Handler{
		tokenizer: t,
		builder:   builder,
		hook:      hook,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tokenize", h.Tokenize)
	mux.HandleFunc("GET /api/annotate", h.Annotate)
	mux.HandleFunc("GET /api/term/{token}", h.Term)
	mux.HandleFunc("POST /api/collection", h.Add)
	return mux
}

func (h *Handler) Tokenize(w http.ResponseWriter, r *http.Request) {
	text, ok := queryText(w, r)
	if !ok {
		return
	}
	tokens := h.tokenize(r, text)
	writeJSON(w, http.StatusOK, TokenizeResponse{
		Text:        text,
		Tokens:      tokens,
		Decorations: segment.Decorate(tokens),
	})
}

func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	text, ok := queryText(w, r)
	if !ok {
		return
	}
	spans := h.builder.BuildAll(r.Context(), h.tokenize(r, text))

	response := AnnotateResponse{
		Text:  text,
		Spans: make([]AnnotatedSpan, 0, len(spans)),
	}
	for i, span := range spans {
		response.Spans = append(response.Spans, AnnotatedSpan{
			Token:            span.Token,
			Units:            span.Units(),
			Senses:           span.Senses(),
			Annotated:        span.Annotated(),
			ActiveEntryIndex: span.ActiveEntryIndex,
			EntryCount:       len(span.Entries),
			Style:            segment.StyleAt(i),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) Term(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.PathValue("token"))
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}
	entries := h.builder.Lookup(r.Context(), term)
	if entries == nil {
		entries = []dictionary.Entry{}
	}
	writeJSON(w, http.StatusOK, TermResponse{
		Term:    term,
		Entries: entries,
	})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if h.hook == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: collection.ErrNoHook.Error()})
		return
	}
	var request AddRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	request.Term = strings.TrimSpace(request.Term)
	if request.Term == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "term is required"})
		return
	}
	if err := h.hook(r.Context(), request.Term, request.Entry); err != nil {
		slog.Default().Error("failed to add to the collection",
			"term", request.Term,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to add to the collection"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) tokenize(r *http.Request, text string) []segment.Token {
	tokens, err := h.tokenizer.Tokenize(r.Context(), text)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, r.Context().Err()) {
			level = slog.LevelDebug
		}
		slog.Default().Log(r.Context(), level, "failed to tokenize text",
			"text", text,
			"error", err,
		)
		return []segment.Token{}
	}
	return segment.Align(text, tokens)
}

func queryText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !r.URL.Query().Has("q") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return "", false
	}
	return r.URL.Query().Get("q"), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Warn("failed to write a response", "error", err)
	}
}
