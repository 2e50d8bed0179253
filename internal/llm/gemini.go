package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient on the Gemini API. The SDK client is
// created on first use, once the credential has been resolved, and reused
// afterwards.
type geminiClient struct {
	cfg      LLMConfig
	keys     KeyResolver
	http     *http.Client
	observer Observer

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates an LLMClient backed by the Gemini API.
func NewGeminiClient(cfg LLMConfig, keys KeyResolver, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &geminiClient{
		cfg:      cfg,
		keys:     keys,
		http:     &http.Client{},
		observer: observer,
	}
}

func (c *geminiClient) Provider() Provider { return ProviderGemini }

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	text, err := c.generate(ctx, req)

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	return &GenerateResponse{
		Text:      text,
		Model:     c.cfg.Model,
		LatencyMs: latency,
	}, nil
}

func (c *geminiClient) generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	temp, maxTok := taskParams(c.cfg, req)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if maxTok > 0 {
		config.MaxOutputTokens = int32(maxTok)
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	ctx, cancel := withTaskDeadline(ctx, c.cfg, req.Task)
	defer cancel()

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), config)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// connect resolves the credential and returns the shared SDK client.
func (c *geminiClient) connect(ctx context.Context) (*genai.Client, error) {
	key, err := c.keys.ResolveKey(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.http,
	}
	if c.cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	c.client = client
	return client, nil
}
