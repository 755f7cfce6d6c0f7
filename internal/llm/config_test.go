package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_TargetsAnthropic(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.Endpoint)
	assert.Equal(t, 90000, cfg.TaskTimeout(TaskParsePlan))
	assert.Equal(t, 8096, cfg.Tasks[TaskParsePlan].MaxTokens)
}

func TestLoadConfig_ProviderSwitchAppliesDefaults(t *testing.T) {
	t.Setenv("WISYNC_LLM_PROVIDER", "Ollama")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.Equal(t, "llama3.2", cfg.Model)
}

func TestLoadConfig_UnknownProviderIgnored(t *testing.T) {
	t.Setenv("WISYNC_LLM_PROVIDER", "mystery")

	cfg := LoadConfig()

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("WISYNC_LLM_ENDPOINT", "http://proxy.local/v1/")
	t.Setenv("WISYNC_LLM_MODEL", "claude-haiku")
	t.Setenv("WISYNC_LLM_TIMEOUT_MS", "9000")
	t.Setenv("WISYNC_LLM_MAX_RETRIES", "0")
	t.Setenv("WISYNC_LLM_PARSE_TIMEOUT_MS", "15000")

	cfg := LoadConfig()

	assert.Equal(t, "http://proxy.local/v1", cfg.Endpoint)
	assert.Equal(t, "claude-haiku", cfg.Model)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskParsePlan))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("WISYNC_LLM_PARSE_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 90000, cfg.TaskTimeout(TaskParsePlan))
}

func TestLoadConfig_APIKeyPerProvider(t *testing.T) {
	t.Setenv("WISYNC_LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	assert.Equal(t, "sk-ant", LoadConfig().APIKey)

	t.Setenv("WISYNC_LLM_PROVIDER", "gemini")
	assert.Equal(t, "gm-key", LoadConfig().APIKey)

	t.Setenv("WISYNC_LLM_API_KEY", "explicit")
	assert.Equal(t, "explicit", LoadConfig().APIKey)
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tasks = map[TaskType]TaskConfig{}
	assert.Equal(t, 60000, cfg.TaskTimeout(TaskParsePlan))
}
