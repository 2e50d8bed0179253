package intelligence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/studyguide/internal/llm"
)

type mockLLMClient struct {
	response string
	err      error
	requests []llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "gemini-2.5-flash"}, nil
}

func (m *mockLLMClient) Provider() llm.Provider { return llm.ProviderGemini }

func TestGenerateGuide_BuildsEightSectionPrompt(t *testing.T) {
	client := &mockLLMClient{response: "### 1. Introduction\nUrine tells a story."}
	svc := NewStudyService(client, nil)

	text, err := svc.GenerateGuide(context.Background(), "Urinalysis: Physical, Chemical, Microscopic")

	require.NoError(t, err)
	assert.Equal(t, "### 1. Introduction\nUrine tells a story.", text)
	require.Len(t, client.requests, 1)

	req := client.requests[0]
	assert.Equal(t, llm.TaskGuide, req.Task)
	assert.Equal(t, guideSystemPrompt, req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, `"Urinalysis: Physical, Chemical, Microscopic"`)
	for _, section := range []string{
		"### 1. Introduction",
		"### 2. Core Principles",
		"### 3. Procedure",
		"### 4. Interpretation of Results",
		"### 5. Visual Aid",
		"### 6. Naturopathic & Yogic Perspective",
		"### 7. Limitations & Contraindications",
		"### 8. Key Takeaways & Important Notes",
	} {
		assert.Contains(t, req.UserPrompt, section)
	}
	assert.Contains(t, req.UserPrompt, "```mermaid")
	assert.Contains(t, req.UserPrompt, "blockquotes (>)")
}

func TestDefineTerm_ReturnsRawText(t *testing.T) {
	client := &mockLLMClient{response: "Pranayama is the yogic practice of breath regulation."}
	svc := NewStudyService(client, nil)

	text, err := svc.DefineTerm(context.Background(), "pranayama")

	require.NoError(t, err)
	assert.Equal(t, "Pranayama is the yogic practice of breath regulation.", text)
	require.Len(t, client.requests, 1)
	assert.Equal(t, llm.TaskDefine, client.requests[0].Task)
	assert.Equal(t, defineSystemPrompt, client.requests[0].SystemPrompt)
	assert.Contains(t, client.requests[0].UserPrompt, `"pranayama"`)
}

func TestStudyService_BackendFailureHidesCause(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cause := errors.New("upstream said: quota exceeded for project 1234")
	client := &mockLLMClient{err: errors.Join(llm.ErrBackend, cause)}
	svc := NewStudyService(client, zap.New(core))

	_, err := svc.GenerateGuide(context.Background(), "Spirometry & Pulmonary Function Tests")

	require.Error(t, err)
	assert.Same(t, llm.ErrBackend, err)
	assert.NotContains(t, err.Error(), "quota")

	entries := logs.FilterMessage("backend call failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "Spirometry & Pulmonary Function Tests", fields["topic"])
	assert.Contains(t, fields["error"], "quota")
}

func TestStudyService_NotConfiguredPassesThrough(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrNotConfigured}
	svc := NewStudyService(client, nil)

	_, err := svc.DefineTerm(context.Background(), "ojas")

	assert.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.NotErrorIs(t, err, llm.ErrBackend)
}

func TestStudyService_SingleCallPerRequest(t *testing.T) {
	client := &mockLLMClient{err: llm.ErrBackend}
	svc := NewStudyService(client, nil)

	_, _ = svc.GenerateGuide(context.Background(), "Tumor Markers Overview")
	_, _ = svc.DefineTerm(context.Background(), "marker")

	assert.Len(t, client.requests, 2)
}

// TestStudyService_ProxiedKeyFailureEndToEnd runs the full path from a failing
// key endpoint through the Gemini client: every call fails with
// ErrNotConfigured and the backend is never reached.
func TestStudyService_ProxiedKeyFailureEndToEnd(t *testing.T) {
	keySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer keySrv.Close()

	backendHit := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHit = true
	}))
	defer backend.Close()

	cfg := llm.DefaultConfig()
	cfg.KeyMode = llm.KeyModeProxy
	cfg.Endpoint = backend.URL + "/"

	client, err := llm.NewClient(cfg, llm.NewProxiedKey(keySrv.URL, nil), llm.NoopObserver{})
	require.NoError(t, err)
	svc := NewStudyService(client, nil)

	_, guideErr := svc.GenerateGuide(context.Background(), "Electrocardiography (ECG) Basics")
	_, defineErr := svc.DefineTerm(context.Background(), "arrhythmia")

	assert.ErrorIs(t, guideErr, llm.ErrNotConfigured)
	assert.ErrorIs(t, defineErr, llm.ErrNotConfigured)
	assert.False(t, backendHit)
}

// TestStudyService_WithOllamaHTTPServer exercises the serialization path:
// httptest server → ollama client → StudyService.
func TestStudyService_WithOllamaHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.2","response":"Ojas is vital essence."}`))
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Provider = llm.ProviderOllama
	cfg.Model = "llama3.2"
	cfg.Endpoint = srv.URL

	client, err := llm.NewClient(cfg, nil, llm.NoopObserver{})
	require.NoError(t, err)

	text, err := NewStudyService(client, nil).DefineTerm(context.Background(), "ojas")
	require.NoError(t, err)
	assert.Equal(t, "Ojas is vital essence.", text)
}
