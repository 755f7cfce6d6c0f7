package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskParsePlan TaskType = "parse_plan"
)

// Provider selects the LLM backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderGemini    Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

var providerDefaults = map[Provider]struct{ endpoint, model string }{
	ProviderAnthropic: {"https://api.anthropic.com/v1", "claude-sonnet-4-5"},
	ProviderOllama:    {"http://localhost:11434", "llama3.2"},
	ProviderGemini:    {"", "gemini-2.5-flash"},
}

// DefaultConfig returns an LLMConfig targeting the Anthropic Messages API.
// Plans are long, so the parse task gets a generous token and time budget.
func DefaultConfig() LLMConfig {
	cfg := LLMConfig{
		Provider:   ProviderAnthropic,
		TimeoutMs:  60000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskParsePlan: {Temperature: 0.1, MaxTokens: 8096, TimeoutMs: 90000},
		},
	}
	return cfg.withProviderDefaults()
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("WISYNC_LLM_PROVIDER"); v != "" {
		p := Provider(strings.ToLower(v))
		if _, ok := providerDefaults[p]; ok {
			cfg.Provider = p
			cfg.Endpoint = ""
			cfg.Model = ""
			cfg = cfg.withProviderDefaults()
		}
	}
	if v := os.Getenv("WISYNC_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("WISYNC_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("WISYNC_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("WISYNC_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("WISYNC_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	applyTaskTimeoutEnv(&cfg, TaskParsePlan, "WISYNC_LLM_PARSE_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func (c LLMConfig) withProviderDefaults() LLMConfig {
	d := providerDefaults[c.Provider]
	if c.Endpoint == "" {
		c.Endpoint = d.endpoint
	}
	if c.Model == "" {
		c.Model = d.model
	}
	return c
}

func apiKeyFromEnv(p Provider) string {
	if v := os.Getenv("WISYNC_LLM_API_KEY"); v != "" {
		return v
	}
	switch p {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderGemini:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			return v
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
