package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// KeyResolver yields the backend credential. Failures are reported as
// ErrNotConfigured.
type KeyResolver interface {
	ResolveKey(ctx context.Context) (string, error)
}

// StaticKey is a credential handed to the process at startup.
type StaticKey struct {
	key string
}

// NewStaticKey wraps a directly supplied key.
func NewStaticKey(key string) StaticKey {
	return StaticKey{key: strings.TrimSpace(key)}
}

// Validate reports ErrNotConfigured when no key was supplied. It is meant to
// run once at startup, before anything else is shown.
func (k StaticKey) Validate() error {
	if k.key == "" {
		return fmt.Errorf("%w: API_KEY environment variable is not set", ErrNotConfigured)
	}
	return nil
}

func (k StaticKey) ResolveKey(context.Context) (string, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k.key, nil
}

// keyPayload is the JSON returned by the key endpoint.
type keyPayload struct {
	APIKey string `json:"apiKey"`
	Error  string `json:"error,omitempty"`
}

// ProxiedKey fetches the credential from a key endpoint on first use.
// Concurrent first callers share one fetch, and the outcome (key or
// failure) is kept for every later caller.
type ProxiedKey struct {
	url  string
	http *http.Client

	group singleflight.Group

	mu       sync.Mutex
	resolved bool
	key      string
	err      error
}

// NewProxiedKey creates a resolver for the endpoint at url. A nil client
// uses http.DefaultClient.
func NewProxiedKey(url string, client *http.Client) *ProxiedKey {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxiedKey{url: url, http: client}
}

func (p *ProxiedKey) ResolveKey(ctx context.Context) (string, error) {
	if done, key, err := p.outcome(); done {
		return key, err
	}

	v, err, _ := p.group.Do("key", func() (any, error) {
		if done, key, err := p.outcome(); done {
			return key, err
		}
		key, err := p.fetch(ctx)
		p.mu.Lock()
		p.resolved = true
		p.key, p.err = key, err
		p.mu.Unlock()
		return key, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *ProxiedKey) outcome() (bool, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved, p.key, p.err
}

func (p *ProxiedKey) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading key response: %v", ErrNotConfigured, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: key endpoint returned status %d", ErrNotConfigured, resp.StatusCode)
	}

	var payload keyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: decoding key response: %v", ErrNotConfigured, err)
	}
	if strings.TrimSpace(payload.APIKey) == "" {
		return "", fmt.Errorf("%w: key endpoint returned no key", ErrNotConfigured)
	}
	return strings.TrimSpace(payload.APIKey), nil
}
