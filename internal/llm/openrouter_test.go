package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouterProvider(t *testing.T, handler http.HandlerFunc) *OpenRouterProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "qwen/qwen-2.5-7b-instruct",
		BaseURL: server.URL + "/api/v1",
	}, 5*time.Second)
	require.NoError(t, err)
	return p
}

func questionRequest() Request {
	return Request{
		System:      "You generate questions.",
		Messages:    []Message{{Role: RoleUser, Content: "Generate 2 questions."}},
		MaxTokens:   700,
		Temperature: 0.3,
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "qwen/qwen-2.5-7b-instruct",
		}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "qwen/qwen-2.5-7b-instruct", p.ModelID())
	})

	t.Run("model is not remapped", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "gpt-4o"}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", p.ModelID())
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}, time.Minute)
		assert.Error(t, err)
	})

	t.Run("empty model", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k"}, time.Minute)
		assert.Error(t, err)
	})
}

func TestOpenRouterBaseURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", "https://openrouter.ai/api/v1"},
		{"https://openrouter.ai/api/v1", "https://openrouter.ai/api/v1"},
		{"https://openrouter.ai/api/v1/", "https://openrouter.ai/api/v1"},
		{"https://openrouter.ai/api/v1/chat/completions", "https://openrouter.ai/api/v1"},
		{" https://proxy.local/v1/chat/completions/ ", "https://proxy.local/v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, openRouterBaseURL(tt.base), "base %q", tt.base)
	}
}

func TestOpenRouterProvider_FullEndpointBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Q (L1) [2m]"}}]}`))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "k",
		Model:   "m",
		BaseURL: server.URL + "/api/v1/chat/completions",
	}, time.Second)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), questionRequest())
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
}

func TestOpenRouterProvider_WireFormat(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotPath string

	handler := func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "qwen/qwen-2.5-7b-instruct",
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": "What is a cell? (L1) [2m]"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132},
		})
	}

	p := newTestOpenRouterProvider(t, handler)
	resp, err := p.Generate(context.Background(), questionRequest())
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
	assert.Equal(t, "qwen/qwen-2.5-7b-instruct", gotBody["model"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	assert.Equal(t, float64(700), gotBody["max_tokens"])

	msgs, _ := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])

	assert.Equal(t, "What is a cell? (L1) [2m]", resp.Text)
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 12, TotalTokens: 132}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
}

func TestOpenRouterProvider_ServerErrorKeepsBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`upstream exploded`))
	}

	p := newTestOpenRouterProvider(t, handler)
	_, err := p.Generate(context.Background(), questionRequest())

	var apiErr *ErrAPIFailure
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Body)
}

func TestOpenRouterProvider_ErrorEnvelopeKeepsVerbatimBody(t *testing.T) {
	const body = `{"error":{"message":"slow down","code":429,"metadata":{"provider_name":"Together"}}}`
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(body))
	}

	p := newTestOpenRouterProvider(t, handler)
	_, err := p.Generate(context.Background(), questionRequest())

	var apiErr *ErrAPIFailure
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
}

func TestOpenRouterProvider_SchemaDeviationIsUnexpected(t *testing.T) {
	bodies := map[string]string{
		"no choices":      `{"model":"m"}`,
		"empty choices":   `{"choices":[]}`,
		"missing message": `{"choices":[{"finish_reason":"stop"}]}`,
		"missing content": `{"choices":[{"message":{"role":"assistant"}}]}`,
		"non-string":      `{"choices":[{"message":{"content":42}}]}`,
		"not json":        `<html>oops</html>`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}
			p := newTestOpenRouterProvider(t, handler)
			_, err := p.Generate(context.Background(), questionRequest())

			var unexp *ErrUnexpected
			require.ErrorAs(t, err, &unexp)
			assert.False(t, IsAPIFailure(err), "schema deviation must not be reported as API failure")
		})
	}
}

func TestOpenRouterProvider_NetworkErrorIsUnexpected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "m", BaseURL: url}, time.Second)
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), questionRequest())

	var unexp *ErrUnexpected
	assert.ErrorAs(t, err, &unexp)
}

func TestOpenRouterProvider_TimeoutIsUnexpected(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "m", BaseURL: server.URL}, 50*time.Millisecond)
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), questionRequest())

	var unexp *ErrUnexpected
	assert.ErrorAs(t, err, &unexp)
}

func TestOpenRouterProvider_SingleAttempt(t *testing.T) {
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	p := newTestOpenRouterProvider(t, handler)
	_, _ = p.Generate(context.Background(), questionRequest())
	assert.Equal(t, 1, calls)
}

func TestOpenRouterProvider_LengthStopReason(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Define (L"},"finish_reason":"length"}]}`))
	}

	p := newTestOpenRouterProvider(t, handler)
	resp, err := p.Generate(context.Background(), questionRequest())
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
	assert.Equal(t, "qwen/qwen-2.5-7b-instruct", resp.Model, "model falls back to the configured ID")
}
