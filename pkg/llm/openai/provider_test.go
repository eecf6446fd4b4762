package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

func TestProviderGenerate(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"## 1. Objectives\nLearn"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("secret", srv.URL+"/v1", "InnoSpark-R", time.Second)
	out, err := p.Generate(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "## 1. Objectives\nLearn", out)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "InnoSpark-R", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestProviderAcceptsFullEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("", srv.URL+"/v1/chat/completions", "m", time.Second)
	out, err := p.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestProviderUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"not json", http.StatusOK, `<html>`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"missing content", http.StatusOK, `{"choices":[{"message":{"role":"assistant"}}]}`},
		{"error field", http.StatusOK, `{"error":{"message":"quota"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewProvider("", srv.URL, "m", time.Second)
			_, err := p.Generate(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierr.ErrUpstream), "got %v", err)
			assert.False(t, errors.Is(err, apierr.ErrTransport))
		})
	}
}

func TestProviderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("", srv.URL, "m", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrTransport), "got %v", err)
}
