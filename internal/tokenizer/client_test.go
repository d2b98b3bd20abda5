package tokenizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Tokenize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		handler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		want      []string
		wantCalls int32
		wantErr   bool
	}{
		{
			name: "tokens are returned in order",
			text: "  我喜欢学习中文 ",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/tokenize/cn", r.URL.Path)
				assert.Equal(t, "我喜欢学习中文", r.URL.Query().Get("q"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"tokens": ["我", "喜欢", "学习", "中文"]}`))
			},
			want:      []string{"我", "喜欢", "学习", "中文"},
			wantCalls: 1,
		},
		{
			name: "token objects",
			text: "猫が好き",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result": [{"token": "猫", "type": "名詞"}, {"token": "が"}, {"token": "好き"}]}`))
			},
			want:      []string{"猫", "が", "好き"},
			wantCalls: 1,
		},
		{
			name: "text with special characters is encoded",
			text: "a&b=c?",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "a&b=c?", r.URL.Query().Get("q"))
				_, _ = w.Write([]byte(`{"tokens": ["a&b=c?"]}`))
			},
			want:      []string{"a&b=c?"},
			wantCalls: 1,
		},
		{
			name: "whitespace only text does not call the service",
			text: "   ",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			},
			want:      []string{},
			wantCalls: 0,
		},
		{
			name: "malformed response has no tokens",
			text: "你好",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"tokens": "你好"}`))
			},
			want:      []string{},
			wantCalls: 1,
		},
		{
			name: "non string tokens are skipped",
			text: "你好",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"tokens": ["你好", 1, null, ""]}`))
			},
			want:      []string{"你好"},
			wantCalls: 1,
		},
		{
			name: "server error",
			text: "你好",
			handler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(t, w, r)
			}))
			defer server.Close()

			client := NewClient(server.URL, "cn", time.Second)
			defer client.Close()

			got, err := client.Tokenize(context.Background(), tt.text)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Tokenize_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(endpoint, "cn", time.Second)
	defer client.Close()

	_, err := client.Tokenize(context.Background(), "你好")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestKagomeTokenizer_Tokenize(t *testing.T) {
	k, err := NewKagomeTokenizer()
	require.NoError(t, err)

	got, err := k.Tokenize(context.Background(), "すもももももももものうち")
	require.NoError(t, err)
	assert.Equal(t, []string{"すもも", "も", "もも", "も", "もも", "の", "うち"}, got)

	got, err = k.Tokenize(context.Background(), " \n ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
