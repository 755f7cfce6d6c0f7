package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	t.Cleanup(srv.Close)
	return srv
}

func ollamaConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Model = "llama3.2"
	cfg.Endpoint = endpoint
	return cfg
}

func writeOllama(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: text})
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.Equal(t, 8096, req.Options.NumPredict)

		writeOllama(w, `{"feature":{"title":"F"}}`)
	})

	client := NewOllamaClient(ollamaConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskParsePlan,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"feature":{"title":"F"}}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_RequestOverridesTaskDefaults(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.7, req.Options.Temperature)
		assert.Equal(t, 100, req.Options.NumPredict)
		writeOllama(w, "ok")
	})

	temp, maxTok := 0.7, 100
	client := NewOllamaClient(ollamaConfig(srv.URL), nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:        TaskParsePlan,
		UserPrompt:  "x",
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	require.NoError(t, err)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	cfg := ollamaConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskParsePlan: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := ollamaConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskParsePlan: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 1000},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaClient_Generate_RetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("internal error"))
			return
		}
		writeOllama(w, "ok")
	})

	cfg := ollamaConfig(srv.URL)
	cfg.MaxRetries = 1

	client := NewOllamaClient(cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	})

	cfg := ollamaConfig(srv.URL)
	cfg.MaxRetries = 3

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	cfg := ollamaConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskParsePlan: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}
	client := NewOllamaClient(cfg, obs)

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
	assert.Equal(t, ProviderOllama, captured.Provider)
}

func TestAnthropicClient_Generate_Success(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-5", req.Model)
		assert.Equal(t, "sys", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "plan text", req.Messages[0].Content)
		assert.Equal(t, 8096, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"claude-sonnet-4-5-20250929","content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}]}`))
	})

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.APIKey = "sk-test"

	client, err := NewAnthropicClient(cfg, NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskParsePlan,
		SystemPrompt: "sys",
		UserPrompt:   "plan text",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, resp.Text)
	assert.Equal(t, "claude-sonnet-4-5-20250929", resp.Model)
}

func TestAnthropicClient_UnauthorizedNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error"}`))
	})

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.APIKey = "bad"
	cfg.MaxRetries = 2

	client, err := NewAnthropicClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestAnthropicClient_EmptyContentIsInvalidOutput(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"m","content":[]}`))
	})

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.APIKey = "k"
	cfg.MaxRetries = 0

	client, err := NewAnthropicClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskParsePlan, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "empty response content")
}

func TestGeminiClient_Generate_Success(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]}}],"modelVersion":"gemini-2.5-flash-001"}`))
	})

	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	cfg.Model = "gemini-2.5-flash"
	cfg.Endpoint = srv.URL
	cfg.APIKey = "gm-test"

	client, err := NewGeminiClient(context.Background(), cfg, NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskParsePlan,
		SystemPrompt: "sys",
		UserPrompt:   "plan",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "gemini-2.5-flash-001", resp.Model)
}

func TestNewClient_MissingKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = ""

	_, err := NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg.Provider = ProviderGemini
	_, err = NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg.Provider = "bogus"
	_, err = NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_OllamaNeedsNoKey(t *testing.T) {
	client, err := NewClient(context.Background(), ollamaConfig("http://127.0.0.1:1"), nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
