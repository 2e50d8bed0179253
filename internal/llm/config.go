package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskGuide  TaskType = "guide"
	TaskDefine TaskType = "define"
)

// Provider names a text-completion backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// KeyMode selects how the backend credential reaches the client.
type KeyMode string

const (
	// KeyModeDirect uses a key handed to the process at startup.
	KeyModeDirect KeyMode = "direct"
	// KeyModeProxy fetches the key lazily from a key endpoint.
	KeyModeProxy KeyMode = "proxy"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOllamaModel = "llama3.2"
	defaultOllamaURL   = "http://localhost:11434"
	defaultKeyURL      = "http://localhost:8787/api/get-key"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int // 0 leaves the output length to the backend
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider Provider
	LogCalls bool
	Endpoint string
	Model    string

	KeyMode KeyMode
	APIKey  string
	KeyURL  string

	// TimeoutMs bounds a single call. Zero means calls wait for the backend.
	TimeoutMs int
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults: Gemini with a
// directly supplied key, no call deadline and no output cap. Gemini 2.5
// models count thinking tokens against the cap.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:  ProviderGemini,
		Model:     defaultGeminiModel,
		KeyMode:   KeyModeDirect,
		KeyURL:    defaultKeyURL,
		TimeoutMs: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskGuide:  {Temperature: 0.4},
			TaskDefine: {Temperature: 0.2},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDYGUIDE_LLM_PROVIDER"); v != "" {
		switch Provider(v) {
		case ProviderGemini, ProviderOllama:
			cfg.Provider = Provider(v)
		}
	}
	if cfg.Provider == ProviderOllama {
		cfg.Model = defaultOllamaModel
		cfg.Endpoint = defaultOllamaURL
	}
	if v := os.Getenv("STUDYGUIDE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STUDYGUIDE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("STUDYGUIDE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("STUDYGUIDE_KEY_MODE"); v != "" {
		switch KeyMode(v) {
		case KeyModeDirect, KeyModeProxy:
			cfg.KeyMode = KeyMode(v)
		}
	}
	cfg.APIKey = os.Getenv("API_KEY")
	if v := os.Getenv("STUDYGUIDE_KEY_URL"); v != "" {
		cfg.KeyURL = v
	}
	if v := os.Getenv("STUDYGUIDE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}

	applyTaskEnv(&cfg, TaskGuide, "STUDYGUIDE_LLM_GUIDE")
	applyTaskEnv(&cfg, TaskDefine, "STUDYGUIDE_LLM_DEFINE")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
// Zero means no deadline.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// NeedsKey reports whether the configured provider requires a credential.
func (c LLMConfig) NeedsKey() bool {
	return c.Provider == ProviderGemini
}

// applyTaskEnv reads <prefix>_TEMPERATURE, <prefix>_MAX_TOKENS and
// <prefix>_TIMEOUT_MS. Malformed or out-of-range values are ignored.
func applyTaskEnv(cfg *LLMConfig, task TaskType, prefix string) {
	tc := cfg.Tasks[task]
	if v := os.Getenv(prefix + "_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			tc.Temperature = f
		}
	}
	if v := os.Getenv(prefix + "_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			tc.MaxTokens = n
		}
	}
	if v := os.Getenv(prefix + "_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tc.TimeoutMs = n
		}
	}
	cfg.Tasks[task] = tc
}
