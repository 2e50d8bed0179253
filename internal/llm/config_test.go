package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_GeminiDirectNoDeadline(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, KeyModeDirect, cfg.KeyMode)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 0, cfg.TaskTimeout(TaskGuide))
	assert.True(t, cfg.NeedsKey())
}

func TestDefaultConfig_NoOutputCap(t *testing.T) {
	cfg := DefaultConfig()
	assert.Zero(t, cfg.Tasks[TaskGuide].MaxTokens)
	assert.Zero(t, cfg.Tasks[TaskDefine].MaxTokens)
}

func TestLoadConfig_ProxyMode(t *testing.T) {
	t.Setenv("STUDYGUIDE_KEY_MODE", "proxy")
	t.Setenv("STUDYGUIDE_KEY_URL", "http://localhost:9000/api/get-key")
	t.Setenv("API_KEY", "")

	cfg := LoadConfig()

	assert.Equal(t, KeyModeProxy, cfg.KeyMode)
	assert.Equal(t, "http://localhost:9000/api/get-key", cfg.KeyURL)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadConfig_OllamaDefaults(t *testing.T) {
	t.Setenv("STUDYGUIDE_LLM_PROVIDER", "ollama")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.False(t, cfg.NeedsKey())
}

func TestLoadConfig_UnknownProviderAndModeIgnored(t *testing.T) {
	t.Setenv("STUDYGUIDE_LLM_PROVIDER", "mystery")
	t.Setenv("STUDYGUIDE_KEY_MODE", "telepathy")

	cfg := LoadConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, KeyModeDirect, cfg.KeyMode)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("STUDYGUIDE_LLM_TIMEOUT_MS", "9000")
	t.Setenv("STUDYGUIDE_LLM_DEFINE_TIMEOUT_MS", "3000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TaskTimeout(TaskGuide))
	assert.Equal(t, 3000, cfg.TaskTimeout(TaskDefine))
}

func TestLoadConfig_InvalidTaskTimeoutOverrideIgnored(t *testing.T) {
	t.Setenv("STUDYGUIDE_LLM_GUIDE_TIMEOUT_MS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 0, cfg.TaskTimeout(TaskGuide))
}

func TestLoadConfig_TaskTemperatureAndMaxTokens(t *testing.T) {
	t.Setenv("STUDYGUIDE_LLM_GUIDE_TEMPERATURE", "0.7")
	t.Setenv("STUDYGUIDE_LLM_GUIDE_MAX_TOKENS", "16384")
	t.Setenv("STUDYGUIDE_LLM_DEFINE_TEMPERATURE", "3.5")
	t.Setenv("STUDYGUIDE_LLM_DEFINE_MAX_TOKENS", "-1")

	cfg := LoadConfig()

	assert.InDelta(t, 0.7, cfg.Tasks[TaskGuide].Temperature, 1e-9)
	assert.Equal(t, 16384, cfg.Tasks[TaskGuide].MaxTokens)
	assert.InDelta(t, 0.2, cfg.Tasks[TaskDefine].Temperature, 1e-9, "out of range is ignored")
	assert.Zero(t, cfg.Tasks[TaskDefine].MaxTokens)
}
