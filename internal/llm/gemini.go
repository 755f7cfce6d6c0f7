package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient with the Google GenAI SDK.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by the Gemini API.
// A non-empty cfg.Endpoint replaces the SDK's base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY", ErrNotConfigured)
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(),
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return generate(ctx, c.cfg, c.observer, req, func(ctx context.Context, temp float64, maxTok int) (string, string, error) {
		gc := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(temp)),
			MaxOutputTokens:  int32(maxTok),
			ResponseMIMEType: "application/json",
		}
		if req.SystemPrompt != "" {
			gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), gc)
		if err != nil {
			var apiErr genai.APIError
			if errors.As(err, &apiErr) {
				return "", "", &statusError{provider: ProviderGemini, status: apiErr.Code, body: apiErr.Message}
			}
			return "", "", err
		}

		text := resp.Text()
		if text == "" {
			return "", "", fmt.Errorf("%w: empty response content", ErrInvalidOutput)
		}
		return text, resp.ModelVersion, nil
	})
}
