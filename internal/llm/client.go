package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
// Implementations invoke the backend exactly once per call.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Provider names the backend, for display.
	Provider() Provider
}

// NewClient builds the LLMClient selected by cfg. Gemini clients resolve
// their credential through keys; Ollama ignores it.
func NewClient(cfg LLMConfig, keys KeyResolver, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(cfg, keys, observer), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// taskParams applies request overrides on top of the task defaults.
func taskParams(cfg LLMConfig, req GenerateRequest) (float64, int) {
	taskCfg := cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// withTaskDeadline bounds ctx by the task timeout, if one is configured.
func withTaskDeadline(ctx context.Context, cfg LLMConfig, task TaskType) (context.Context, context.CancelFunc) {
	timeoutMs := cfg.TaskTimeout(task)
	if timeoutMs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY"
	case isConnectionError(err):
		return "UNAVAILABLE"
	default:
		return "BACKEND"
	}
}
