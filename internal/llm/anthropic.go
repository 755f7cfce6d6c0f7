package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

// anthropicClient implements LLMClient against the Anthropic Messages API.
type anthropicClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewAnthropicClient creates an LLMClient for the Anthropic Messages API.
// It fails with ErrNotConfigured when no API key is set.
func NewAnthropicClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrNotConfigured)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &anthropicClient{cfg: cfg, http: newHTTPClient(), observer: observer}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return generate(ctx, c.cfg, c.observer, req, func(ctx context.Context, temp float64, maxTok int) (string, string, error) {
		return c.doRequest(ctx, anthropicRequest{
			Model:       c.cfg.Model,
			MaxTokens:   maxTok,
			System:      req.SystemPrompt,
			Messages:    []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
			Temperature: temp,
		})
	})
}

func (c *anthropicClient) doRequest(ctx context.Context, body anthropicRequest) (string, string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/messages", bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", "", &statusError{provider: ProviderAnthropic, status: httpResp.StatusCode, body: string(respBody)}
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("decoding response: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", "", fmt.Errorf("%w: empty response content", ErrInvalidOutput)
	}
	return text.String(), resp.Model, nil
}
